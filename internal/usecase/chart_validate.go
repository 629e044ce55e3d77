package usecase

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"TrueArk/internal/domain/models"
)

// ValidateChart cross-checks an assembled chart against every invariant:
// longitude ranges, degree ranges, finiteness, Whole Sign consistency and
// the full house sequence. All checks run unconditionally and every failure
// is collected, so one pass reports everything that is wrong.
func ValidateChart(res *models.ChartResult) models.ValidationErrors {
	var errs models.ValidationErrors

	for _, name := range sortedKeys(res.Planets) {
		errs = append(errs, checkPosition("planets."+name, res.Planets[name])...)
	}
	for _, name := range sortedKeys(res.Points) {
		errs = append(errs, checkPosition("points."+name, res.Points[name])...)
	}
	errs = append(errs, checkAngle("angles.Ascendant", res.Angles.Ascendant)...)
	errs = append(errs, checkAngle("angles.Midheaven", res.Angles.Midheaven)...)

	errs = append(errs, checkHouses(res)...)

	if math.IsNaN(res.Metadata.JulianDay) || math.IsInf(res.Metadata.JulianDay, 0) {
		errs = append(errs, &models.ValidationError{
			Check: "finiteness", Field: "metadata.julian_day",
			Expected: "a finite Julian Day", Observed: res.Metadata.JulianDay,
		})
	}

	return errs
}

func checkPosition(field string, p models.CelestialPosition) models.ValidationErrors {
	errs := checkLongitudeDegree(field, p.Longitude, p.Degree)
	if _, ok := models.SignByName(p.Sign); !ok {
		errs = append(errs, &models.ValidationError{
			Check: "sign_name", Field: field + ".sign",
			Expected: "one of the 12 zodiac signs", Observed: p.Sign,
		})
	}
	return errs
}

func checkAngle(field string, a models.Angle) models.ValidationErrors {
	errs := checkLongitudeDegree(field, a.Longitude, a.Degree)
	if _, ok := models.SignByName(a.Sign); !ok {
		errs = append(errs, &models.ValidationError{
			Check: "sign_name", Field: field + ".sign",
			Expected: "one of the 12 zodiac signs", Observed: a.Sign,
		})
	}
	return errs
}

func checkLongitudeDegree(field string, longitude, degree float64) models.ValidationErrors {
	var errs models.ValidationErrors

	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		errs = append(errs, &models.ValidationError{
			Check: "finiteness", Field: field + ".longitude",
			Expected: "a finite value", Observed: longitude,
		})
	} else if longitude < 0 || longitude >= 360 {
		errs = append(errs, &models.ValidationError{
			Check: "longitude_range", Field: field + ".longitude",
			Expected: "[0,360)", Observed: longitude,
		})
	}

	if math.IsNaN(degree) || math.IsInf(degree, 0) {
		errs = append(errs, &models.ValidationError{
			Check: "finiteness", Field: field + ".degree",
			Expected: "a finite value", Observed: degree,
		})
	} else if degree < 0 || degree >= models.SignSpan {
		errs = append(errs, &models.ValidationError{
			Check: "degree_range", Field: field + ".degree",
			Expected: "[0,30)", Observed: degree,
		})
	}

	return errs
}

func checkHouses(res *models.ChartResult) models.ValidationErrors {
	var errs models.ValidationErrors

	if len(res.Houses) != models.SignCount {
		errs = append(errs, &models.ValidationError{
			Check: "house_count", Field: "houses",
			Expected: models.SignCount, Observed: len(res.Houses),
		})
		return errs
	}

	// House 1 must carry the Ascendant's sign, by exact name equality.
	if h1 := res.Houses["1"]; h1 != res.Angles.Ascendant.Sign {
		errs = append(errs, &models.ValidationError{
			Check: "whole_sign_consistency", Field: "houses.1",
			Expected: res.Angles.Ascendant.Sign, Observed: h1,
		})
	}

	// Houses 2..12 must each be the zodiacally-next sign, cyclically.
	prev, ok := models.SignByName(res.Houses["1"])
	if !ok {
		errs = append(errs, &models.ValidationError{
			Check: "house_sequence", Field: "houses.1",
			Expected: "one of the 12 zodiac signs", Observed: res.Houses["1"],
		})
		return errs
	}
	for n := 2; n <= models.SignCount; n++ {
		key := strconv.Itoa(n)
		want := prev.Next()
		got := res.Houses[key]
		if got != want.String() {
			errs = append(errs, &models.ValidationError{
				Check: "house_sequence", Field: "houses." + key,
				Expected: want.String(), Observed: got,
				Message: fmt.Sprintf("house %d must follow house %d", n, n-1),
			})
		}
		if s, ok := models.SignByName(got); ok {
			prev = s
		} else {
			prev = want
		}
	}

	return errs
}

func sortedKeys(m map[string]models.CelestialPosition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
