package usecase

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync/atomic"
	"testing"

	"TrueArk/internal/domain/models"
)

// fakeEphemeris is a deterministic in-memory provider.
type fakeEphemeris struct {
	longitudes map[models.Body]float64
	motions    map[models.Body]float64
	asc        float64
	mc         float64
	mode       string

	positionErr error
	anglesErr   error
	calls       int64
}

func newFakeEphemeris() *fakeEphemeris {
	f := &fakeEphemeris{
		longitudes: map[models.Body]float64{},
		motions:    map[models.Body]float64{},
		asc:        245.5, // Sagittarius
		mc:         160.25,
		mode:       "swiss",
	}
	for i, b := range models.TrackedBodies {
		f.longitudes[b] = float64(i*30) + 12.5
		f.motions[b] = 1.0
	}
	return f
}

func (f *fakeEphemeris) Position(_ context.Context, _ float64, body models.Body) (float64, float64, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.positionErr != nil {
		return 0, 0, f.positionErr
	}
	return f.longitudes[body], f.motions[body], nil
}

func (f *fakeEphemeris) Angles(_ context.Context, _, _, _ float64, _ byte) (float64, float64, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.anglesErr != nil {
		return 0, 0, f.anglesErr
	}
	return f.asc, f.mc, nil
}

func (f *fakeEphemeris) Mode() string { return f.mode }
func (f *fakeEphemeris) Close() error { return nil }

func validRequest() *models.ChartRequest {
	return &models.ChartRequest{
		DatetimeUTC: "1977-09-05T17:24:00Z",
		Latitude:    37.82,
		Longitude:   -79.82,
		HouseSystem: "W",
		Zodiac:      "tropical",
	}
}

func TestComputeScenario(t *testing.T) {
	eph := newFakeEphemeris()
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.Metadata.JulianDay-2443392.225) > 0.001 {
		t.Fatalf("julian day %v differs from expected 2443392.225", res.Metadata.JulianDay)
	}
	if res.Angles.Ascendant.Sign != "Sagittarius" {
		t.Fatalf("ascendant sign %q, want Sagittarius", res.Angles.Ascendant.Sign)
	}
	if res.Houses["1"] != "Sagittarius" {
		t.Fatalf("house 1 %q, want Sagittarius", res.Houses["1"])
	}
	if res.Houses["2"] != "Capricorn" {
		t.Fatalf("house 2 %q, want Capricorn", res.Houses["2"])
	}
	if res.Metadata.EphemerisMode != "swiss" || res.Metadata.Precision != "arcsecond" {
		t.Fatalf("metadata mode/precision inconsistent: %+v", res.Metadata)
	}
	if len(res.Planets) != 10 {
		t.Fatalf("expected 10 planets, got %d", len(res.Planets))
	}
	if _, ok := res.Points["TrueNode"]; !ok {
		t.Fatalf("TrueNode missing from points")
	}
	if len(res.Houses) != 12 {
		t.Fatalf("expected 12 houses, got %d", len(res.Houses))
	}
}

func TestComputeMoshierPrecisionLabel(t *testing.T) {
	eph := newFakeEphemeris()
	eph.mode = "moshier"
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Metadata.EphemerisMode != "moshier" || res.Metadata.Precision != "arcsecond_approx" {
		t.Fatalf("metadata mode/precision inconsistent: %+v", res.Metadata)
	}
}

func TestComputeNormalizesLongitudes(t *testing.T) {
	eph := newFakeEphemeris()
	eph.longitudes[models.Sun] = 359.999999
	eph.longitudes[models.Moon] = 0.0
	eph.longitudes[models.Mars] = -10.0  // wraps to 350
	eph.longitudes[models.Venus] = 720.5 // wraps to 0.5
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, p := range res.Planets {
		if p.Longitude < 0 || p.Longitude >= 360 {
			t.Errorf("%s longitude %v out of [0,360)", name, p.Longitude)
		}
		if p.Degree < 0 || p.Degree >= 30 {
			t.Errorf("%s degree %v out of [0,30)", name, p.Degree)
		}
	}
	if res.Planets["Mars"].Longitude != 350 {
		t.Fatalf("Mars longitude %v, want 350", res.Planets["Mars"].Longitude)
	}
	if res.Planets["Venus"].Longitude != 0.5 {
		t.Fatalf("Venus longitude %v, want 0.5", res.Planets["Venus"].Longitude)
	}
	if res.Planets["Sun"].Sign != "Pisces" {
		t.Fatalf("Sun sign %q, want Pisces", res.Planets["Sun"].Sign)
	}
}

func TestComputeDegreeDecompositionExact(t *testing.T) {
	eph := newFakeEphemeris()
	for i, b := range models.TrackedBodies {
		if i >= models.SignCount {
			break
		}
		eph.longitudes[b] = float64(i) * 30 // every sign boundary
	}
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	check := func(name string, p models.CelestialPosition) {
		want := p.Longitude - 30*math.Floor(p.Longitude/30)
		if p.Degree != want {
			t.Errorf("%s degree %v, want exactly %v", name, p.Degree, want)
		}
	}
	for name, p := range res.Planets {
		check(name, p)
	}
	for name, p := range res.Points {
		check(name, p)
	}
}

func TestComputeRetrogradeFlags(t *testing.T) {
	eph := newFakeEphemeris()
	eph.motions[models.Mercury] = -0.8
	eph.motions[models.Saturn] = 0.0 // stationary counts as direct
	eph.motions[models.TrueNode] = -0.05
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Planets["Mercury"].Retrograde {
		t.Fatalf("Mercury should be retrograde")
	}
	if res.Planets["Saturn"].Retrograde {
		t.Fatalf("stationary Saturn should be direct")
	}
	if !res.Points["TrueNode"].Retrograde {
		t.Fatalf("TrueNode should be retrograde")
	}
	if res.Planets["Sun"].Retrograde {
		t.Fatalf("Sun should be direct")
	}
}

func TestComputeRejectsBadInputBeforeProviderCall(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ChartRequest)
	}{
		{"latitude_91", func(r *models.ChartRequest) { r.Latitude = 91 }},
		{"longitude_181", func(r *models.ChartRequest) { r.Longitude = 181 }},
		{"placidus", func(r *models.ChartRequest) { r.HouseSystem = "P" }},
		{"sidereal", func(r *models.ChartRequest) { r.Zodiac = "sidereal" }},
		{"ayanamsa", func(r *models.ChartRequest) { v := "lahiri"; r.Ayanamsa = &v }},
		{"bad_datetime", func(r *models.ChartRequest) { r.DatetimeUTC = "not-a-date" }},
		{"naive_datetime", func(r *models.ChartRequest) { r.DatetimeUTC = "1977-09-05T17:24:00" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eph := newFakeEphemeris()
			c := NewChartComputer(eph, nil)
			req := validRequest()
			tc.mutate(req)

			res, err := c.Compute(context.Background(), req)
			if err == nil {
				t.Fatalf("expected error")
			}
			if res != nil {
				t.Fatalf("expected nil result, got %+v", res)
			}
			if !models.IsValidation(err) {
				t.Fatalf("expected validation error, got %T: %v", err, err)
			}
			if atomic.LoadInt64(&eph.calls) != 0 {
				t.Fatalf("provider was called %d times before validation", eph.calls)
			}
		})
	}
}

func TestComputeNaNInjection(t *testing.T) {
	eph := newFakeEphemeris()
	eph.longitudes[models.Jupiter] = math.NaN()
	c := NewChartComputer(eph, nil)

	res, err := c.Compute(context.Background(), validRequest())
	if err == nil || res != nil {
		t.Fatalf("expected failure, got res=%v err=%v", res, err)
	}
	if !models.IsCalculation(err) {
		t.Fatalf("expected calculation error, got %T: %v", err, err)
	}
}

func TestComputeNaNMotionInjection(t *testing.T) {
	eph := newFakeEphemeris()
	eph.motions[models.Moon] = math.Inf(1)
	c := NewChartComputer(eph, nil)

	if _, err := c.Compute(context.Background(), validRequest()); !models.IsCalculation(err) {
		t.Fatalf("expected calculation error, got %v", err)
	}
}

func TestComputeProviderFailurePropagates(t *testing.T) {
	eph := newFakeEphemeris()
	eph.positionErr = &models.EphemerisError{Op: "position", Target: "Pluto", Detail: "date out of range"}
	c := NewChartComputer(eph, nil)

	_, err := c.Compute(context.Background(), validRequest())
	if !models.IsEphemeris(err) {
		t.Fatalf("expected ephemeris error, got %T: %v", err, err)
	}
}

func TestComputeAnglesFailurePropagates(t *testing.T) {
	eph := newFakeEphemeris()
	eph.anglesErr = &models.EphemerisError{Op: "angles", Target: "Ascendant/Midheaven", Detail: "undefined at polar latitude"}
	c := NewChartComputer(eph, nil)

	_, err := c.Compute(context.Background(), validRequest())
	if !models.IsEphemeris(err) {
		t.Fatalf("expected ephemeris error, got %T: %v", err, err)
	}
}

func TestComputeNaNAngles(t *testing.T) {
	eph := newFakeEphemeris()
	eph.asc = math.NaN()
	c := NewChartComputer(eph, nil)

	if _, err := c.Compute(context.Background(), validRequest()); !models.IsCalculation(err) {
		t.Fatalf("expected calculation error, got %v", err)
	}
}

func TestComputeIdempotent(t *testing.T) {
	eph := newFakeEphemeris()
	c := NewChartComputer(eph, nil)

	a, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Compute(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different charts:\n%+v\n%+v", a, b)
	}
}

func TestComputeDeterministicFailureOrder(t *testing.T) {
	eph := newFakeEphemeris()
	eph.longitudes[models.Sun] = math.NaN()
	eph.longitudes[models.Pluto] = math.NaN()
	c := NewChartComputer(eph, nil)

	for i := 0; i < 5; i++ {
		_, err := c.Compute(context.Background(), validRequest())
		var ce *models.CalculationError
		if !errors.As(err, &ce) {
			t.Fatalf("expected calculation error, got %v", err)
		}
		if ce.Target != "Sun" {
			t.Fatalf("expected Sun reported first, got %s", ce.Target)
		}
	}
}
