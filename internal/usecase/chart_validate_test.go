package usecase

import (
	"context"
	"math"
	"testing"

	"TrueArk/internal/domain/models"
)

func computedChart(t *testing.T) *models.ChartResult {
	t.Helper()
	c := NewChartComputer(newFakeEphemeris(), nil)
	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestValidateChartPasses(t *testing.T) {
	if errs := ValidateChart(computedChart(t)); len(errs) != 0 {
		t.Fatalf("valid chart rejected: %v", errs)
	}
}

func TestValidateRejectsHouseSequenceBreak(t *testing.T) {
	res := computedChart(t)
	if res.Houses["1"] != "Sagittarius" {
		t.Fatalf("fixture changed: house 1 is %q", res.Houses["1"])
	}
	res.Houses["2"] = "Aquarius" // anything but Capricorn must be rejected

	errs := ValidateChart(res)
	if len(errs) == 0 {
		t.Fatalf("corrupted house sequence accepted")
	}
	found := false
	for _, e := range errs {
		if e.Check == "house_sequence" && e.Field == "houses.2" {
			found = true
			if e.Expected != "Capricorn" || e.Observed != "Aquarius" {
				t.Fatalf("wrong expected/observed: %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("house_sequence failure not reported: %v", errs)
	}
}

func TestValidateRejectsAscendantMismatch(t *testing.T) {
	res := computedChart(t)
	res.Houses["1"] = "Capricorn"

	errs := ValidateChart(res)
	found := false
	for _, e := range errs {
		if e.Check == "whole_sign_consistency" {
			found = true
			if e.Expected != "Sagittarius" || e.Observed != "Capricorn" {
				t.Fatalf("wrong expected/observed: %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("whole_sign_consistency failure not reported: %v", errs)
	}
}

func TestValidateRejectsOutOfRangeLongitude(t *testing.T) {
	res := computedChart(t)
	p := res.Planets["Mars"]
	p.Longitude = 360.0
	res.Planets["Mars"] = p

	errs := ValidateChart(res)
	found := false
	for _, e := range errs {
		if e.Check == "longitude_range" && e.Field == "planets.Mars.longitude" {
			found = true
		}
	}
	if !found {
		t.Fatalf("longitude_range failure not reported: %v", errs)
	}
}

func TestValidateRejectsOutOfRangeDegree(t *testing.T) {
	res := computedChart(t)
	p := res.Planets["Venus"]
	p.Degree = 30.0
	res.Planets["Venus"] = p

	errs := ValidateChart(res)
	found := false
	for _, e := range errs {
		if e.Check == "degree_range" && e.Field == "planets.Venus.degree" {
			found = true
		}
	}
	if !found {
		t.Fatalf("degree_range failure not reported: %v", errs)
	}
}

func TestValidateRejectsNaN(t *testing.T) {
	res := computedChart(t)
	res.Angles.Midheaven.Longitude = math.NaN()

	errs := ValidateChart(res)
	found := false
	for _, e := range errs {
		if e.Check == "finiteness" && e.Field == "angles.Midheaven.longitude" {
			found = true
		}
	}
	if !found {
		t.Fatalf("finiteness failure not reported: %v", errs)
	}
}

func TestValidateCollectsAllFailures(t *testing.T) {
	res := computedChart(t)
	p := res.Planets["Mars"]
	p.Longitude = -1
	res.Planets["Mars"] = p
	res.Houses["2"] = "Aquarius"
	res.Angles.Ascendant.Degree = math.Inf(1)

	errs := ValidateChart(res)
	if len(errs) < 3 {
		t.Fatalf("expected all failures collected, got %d: %v", len(errs), errs)
	}
	if errs.First() == nil {
		t.Fatalf("First() returned nil with failures present")
	}
}

func TestValidateRejectsMissingHouse(t *testing.T) {
	res := computedChart(t)
	delete(res.Houses, "7")

	errs := ValidateChart(res)
	found := false
	for _, e := range errs {
		if e.Check == "house_count" {
			found = true
		}
	}
	if !found {
		t.Fatalf("house_count failure not reported: %v", errs)
	}
}

func TestMapHousesFromAries(t *testing.T) {
	h, err := MapHouses(models.Aries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Aries", "Taurus", "Gemini", "Cancer",
		"Leo", "Virgo", "Libra", "Scorpio",
		"Sagittarius", "Capricorn", "Aquarius", "Pisces",
	}
	for i, sign := range want {
		key := houseKey(i + 1)
		if h[key] != sign {
			t.Fatalf("house %s = %q, want %q", key, h[key], sign)
		}
	}
}

func TestMapHousesFromSagittarius(t *testing.T) {
	h, err := MapHouses(models.Sagittarius)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h["1"] != "Sagittarius" || h["2"] != "Capricorn" || h["7"] != "Gemini" || h["10"] != "Virgo" {
		t.Fatalf("unexpected mapping: %v", h)
	}
}

func TestMapHousesSequenceProperty(t *testing.T) {
	for asc := models.Aries; asc <= models.Pisces; asc++ {
		h, err := MapHouses(asc)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", asc, err)
		}
		if h["1"] != asc.String() {
			t.Fatalf("house 1 = %q, want %q", h["1"], asc.String())
		}
		prev, _ := models.SignByName(h["1"])
		for n := 2; n <= 12; n++ {
			key := houseKey(n)
			got, ok := models.SignByName(h[key])
			if !ok {
				t.Fatalf("house %s carries unknown sign %q", key, h[key])
			}
			if got != prev.Next() {
				t.Fatalf("asc %v: house %s = %v, want %v", asc, key, got, prev.Next())
			}
			prev = got
		}
	}
}

func TestMapHousesInvalidAscendant(t *testing.T) {
	if _, err := MapHouses(models.ZodiacSign(12)); err == nil {
		t.Fatalf("expected error for invalid sign index")
	}
	if _, err := MapHouses(models.ZodiacSign(-1)); err == nil {
		t.Fatalf("expected error for negative sign index")
	}
}

func houseKey(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return "1" + string(rune('0'+n-10))
}
