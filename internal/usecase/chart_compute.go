package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"TrueArk/internal/domain/models"
	drepo "TrueArk/internal/domain/repository"
	"TrueArk/pkg/util"
)

const (
	// Only Whole Sign houses and the tropical zodiac are accepted.
	SupportedHouseSystem = "W"
	SupportedZodiac      = "tropical"

	ephemerisName     = "Swiss Ephemeris"
	calculationMethod = "swephgo"
)

// ChartComputer runs the full natal-chart pipeline: time conversion, body
// position fan-out, angle calculation, Whole Sign house mapping, validation,
// assembly. It holds no per-computation state; every call is single-shot and
// either returns a fully validated ChartResult or an error. No retries, no
// partial results.
type ChartComputer struct {
	eph     drepo.Ephemeris
	metrics drepo.Metrics
}

// NewChartComputer creates a ChartComputer backed by the given provider.
func NewChartComputer(eph drepo.Ephemeris, metrics drepo.Metrics) *ChartComputer {
	return &ChartComputer{eph: eph, metrics: metrics}
}

// Compute computes and validates one chart. Input is checked before any
// ephemeris call; any downstream inconsistency aborts the whole computation.
func (c *ChartComputer) Compute(ctx context.Context, req *models.ChartRequest) (*models.ChartResult, error) {
	start := time.Now()
	res, err := c.compute(ctx, req)
	if c.metrics != nil {
		c.metrics.RecordComputeLatency(time.Since(start).Seconds())
		if err != nil {
			c.metrics.RecordError(errorKind(err))
		} else {
			c.metrics.RecordChartComputed(res.Metadata.EphemerisMode)
		}
	}
	return res, err
}

func (c *ChartComputer) compute(ctx context.Context, req *models.ChartRequest) (*models.ChartResult, error) {
	if errs := validateRequest(req); len(errs) > 0 {
		return nil, errs
	}

	t, err := util.ParseUTCInstant(req.DatetimeUTC)
	if err != nil {
		return nil, &models.ValidationError{
			Check:   "datetime_format",
			Field:   "datetime_utc",
			Message: err.Error(),
		}
	}
	jd := util.JulianDay(t)

	// Body lookups and the angle calculation are independent pure reads;
	// fan them out and merge once everything has landed.
	type bodyItem struct {
		body models.Body
		pos  models.CelestialPosition
		err  error
	}
	type angleItem struct {
		angles models.ChartAngles
		err    error
	}

	bodyCh := make(chan bodyItem, len(models.TrackedBodies))
	angleCh := make(chan angleItem, 1)
	var wg sync.WaitGroup

	for _, b := range models.TrackedBodies {
		wg.Add(1)
		go func(b models.Body) {
			defer wg.Done()
			pos, err := c.resolveBody(ctx, jd, b)
			bodyCh <- bodyItem{body: b, pos: pos, err: err}
		}(b)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		angles, err := c.resolveAngles(ctx, jd, req.Latitude, req.Longitude)
		angleCh <- angleItem{angles: angles, err: err}
	}()

	wg.Wait()
	close(bodyCh)
	close(angleCh)

	items := make(map[models.Body]bodyItem, len(models.TrackedBodies))
	for it := range bodyCh {
		items[it.body] = it
	}
	// Report failures in fixed body order so identical inputs fail identically.
	resolved := make(map[models.Body]models.CelestialPosition, len(models.TrackedBodies))
	for _, b := range models.TrackedBodies {
		it := items[b]
		if it.err != nil {
			return nil, it.err
		}
		resolved[b] = it.pos
	}

	ai := <-angleCh
	if ai.err != nil {
		return nil, ai.err
	}
	angles := ai.angles

	houses, err := MapHouses(angles.Ascendant.SignIndex)
	if err != nil {
		return nil, err
	}

	planets := make(map[string]models.CelestialPosition, len(models.Planets))
	for _, b := range models.Planets {
		planets[string(b)] = resolved[b]
	}
	points := make(map[string]models.CelestialPosition, len(models.Points))
	for _, b := range models.Points {
		points[string(b)] = resolved[b]
	}

	res := &models.ChartResult{
		Planets: planets,
		Points:  points,
		Angles:  angles,
		Houses:  houses,
		Metadata: models.ChartMetadata{
			Ephemeris:         ephemerisName,
			CalculationMethod: calculationMethod,
			JulianDay:         util.Round6(jd),
			Precision:         precisionLabel(c.eph.Mode()),
			EphemerisMode:     c.eph.Mode(),
		},
	}

	// Construction and validation are atomic: callers never observe an
	// unvalidated result.
	if errs := ValidateChart(res); len(errs) > 0 {
		return nil, errs
	}
	return res, nil
}

// resolveBody queries the provider for one body and derives sign, degree and
// retrograde state. Zero daily motion counts as direct.
func (c *ChartComputer) resolveBody(ctx context.Context, jd float64, body models.Body) (models.CelestialPosition, error) {
	raw, motion, err := c.eph.Position(ctx, jd, body)
	if err != nil {
		return models.CelestialPosition{}, err
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return models.CelestialPosition{}, &models.CalculationError{
			Target: string(body), Field: "longitude",
			Detail: "provider returned a non-finite longitude",
		}
	}
	if math.IsNaN(motion) || math.IsInf(motion, 0) {
		return models.CelestialPosition{}, &models.CalculationError{
			Target: string(body), Field: "daily_motion",
			Detail: "provider returned a non-finite daily motion",
		}
	}

	lon := models.NormalizeLongitude(raw)
	sign, degree := models.DecomposeLongitude(lon)

	return models.CelestialPosition{
		Longitude:  lon,
		Sign:       sign.String(),
		Degree:     degree,
		Retrograde: motion < 0,
		SignIndex:  sign,
	}, nil
}

// resolveAngles computes Ascendant and Midheaven. Coordinates were already
// range-checked; the provider may still fail at extreme latitudes, which is
// surfaced, never defaulted.
func (c *ChartComputer) resolveAngles(ctx context.Context, jd, lat, lon float64) (models.ChartAngles, error) {
	ascRaw, mcRaw, err := c.eph.Angles(ctx, jd, lat, lon, SupportedHouseSystem[0])
	if err != nil {
		return models.ChartAngles{}, err
	}

	if math.IsNaN(ascRaw) || math.IsInf(ascRaw, 0) || math.IsNaN(mcRaw) || math.IsInf(mcRaw, 0) {
		return models.ChartAngles{}, &models.CalculationError{
			Target: "angles",
			Detail: "provider returned a non-finite Ascendant or Midheaven",
		}
	}

	return models.ChartAngles{
		Ascendant: makeAngle(ascRaw),
		Midheaven: makeAngle(mcRaw),
	}, nil
}

func makeAngle(raw float64) models.Angle {
	lon := models.NormalizeLongitude(raw)
	sign, degree := models.DecomposeLongitude(lon)
	return models.Angle{Longitude: lon, Sign: sign.String(), Degree: degree, SignIndex: sign}
}

// validateRequest rejects any deviation from the supported contract before
// a single ephemeris call is made.
func validateRequest(req *models.ChartRequest) models.ValidationErrors {
	var errs models.ValidationErrors
	if req.DatetimeUTC == "" {
		errs = append(errs, &models.ValidationError{
			Check: "datetime_format", Field: "datetime_utc", Message: "datetime_utc is required",
		})
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		errs = append(errs, &models.ValidationError{
			Check: "coordinate_range", Field: "latitude",
			Expected: "[-90,90]", Observed: req.Latitude,
		})
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		errs = append(errs, &models.ValidationError{
			Check: "coordinate_range", Field: "longitude",
			Expected: "[-180,180]", Observed: req.Longitude,
		})
	}
	if req.HouseSystem != SupportedHouseSystem {
		errs = append(errs, &models.ValidationError{
			Check: "house_system", Field: "house_system",
			Expected: SupportedHouseSystem, Observed: req.HouseSystem,
		})
	}
	if req.Zodiac != SupportedZodiac {
		errs = append(errs, &models.ValidationError{
			Check: "zodiac", Field: "zodiac",
			Expected: SupportedZodiac, Observed: req.Zodiac,
		})
	}
	if req.Ayanamsa != nil {
		errs = append(errs, &models.ValidationError{
			Check: "ayanamsa", Field: "ayanamsa",
			Expected: nil, Observed: *req.Ayanamsa,
			Message: "sidereal zodiac not supported, ayanamsa must be null",
		})
	}
	return errs
}

func precisionLabel(mode string) string {
	if mode == "swiss" {
		return "arcsecond"
	}
	return "arcsecond_approx"
}

func errorKind(err error) string {
	switch {
	case models.IsValidation(err):
		return "validation"
	case models.IsCalculation(err):
		return "calculation"
	case models.IsEphemeris(err):
		return "ephemeris"
	default:
		return "unknown"
	}
}
