package repository

import (
	"context"

	"TrueArk/internal/domain/models"
)

// Ephemeris is the consumed provider capability. Implementations own the
// underlying data-file handle; callers never see it. One provider instance
// is shared across computations and released on shutdown.
type Ephemeris interface {
	// Position returns ecliptic longitude (degrees, unnormalized) and daily
	// motion (degrees/day) for a body at a Julian Day (UT).
	Position(ctx context.Context, jd float64, body models.Body) (longitude, dailyMotion float64, err error)
	// Angles returns Ascendant and Midheaven longitudes for a Julian Day and
	// geographic coordinate, using the given house system code.
	Angles(ctx context.Context, jd, latitude, longitude float64, houseSystem byte) (asc, mc float64, err error)
	// Mode reports "swiss" when precision data files are loaded, "moshier"
	// for the fallback. Surfaced verbatim in chart metadata.
	Mode() string
	Close() error
}

// ChartStore persists validated charts.
type ChartStore interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, c *models.StoredChart) error
	Get(ctx context.Context, id string) (*models.StoredChart, error)
	List(ctx context.Context, entityID, entityType string, limit int) ([]*models.StoredChart, error)
	Health(ctx context.Context) error
	Close() error
}

// ChartPublisher emits chart.computed events for downstream consumers.
type ChartPublisher interface {
	Publish(ctx context.Context, ev *models.ChartComputedEvent) error
	Close() error
}

// Metrics records computation telemetry.
type Metrics interface {
	RecordChartComputed(mode string)
	RecordError(kind string)
	RecordComputeLatency(seconds float64)
	RecordEphemerisCall(op string, seconds float64)
	RecordCacheHit(hit bool)
}
