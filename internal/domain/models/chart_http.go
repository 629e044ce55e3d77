package models

import "time"

// Requests and responses for chart HTTP endpoints. Defined in domain for consistency and reuse.

// ChartRequest is the single accepted input shape for chart computation.
// Only Whole Sign houses and the tropical zodiac are supported; anything
// else is rejected before any ephemeris call. Ayanamsa must stay null.
type ChartRequest struct {
	DatetimeUTC string  `json:"datetime_utc" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	HouseSystem string  `json:"house_system" default:"W" validate:"oneof=W"`
	Zodiac      string  `json:"zodiac" default:"tropical" validate:"oneof=tropical"`
	Ayanamsa    *string `json:"ayanamsa" validate:"isdefault"`
}

// StoreChartRequest is ChartRequest plus an optional external entity link.
type StoreChartRequest struct {
	ChartRequest
	EntityID   string `json:"entity_id" validate:"omitempty,max=128"`
	EntityType string `json:"entity_type" validate:"omitempty,max=64"`
}

// ListChartsRequest filters stored charts.
type ListChartsRequest struct {
	EntityID   string `query:"entity_id" json:"entity_id"`
	EntityType string `query:"entity_type" json:"entity_type"`
	Limit      int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

// StoredChart is a persisted chart record: the inputs, the validated
// result, and record keeping.
type StoredChart struct {
	ID          string      `json:"id"`
	DatetimeUTC string      `json:"datetime_utc"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Result      ChartResult `json:"result"`
	JulianDay   float64     `json:"julian_day"`
	Mode        string      `json:"ephemeris_mode"`
	EntityID    string      `json:"entity_id,omitempty"`
	EntityType  string      `json:"entity_type,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ChartComputedEvent is published after a chart is stored.
type ChartComputedEvent struct {
	ChartID     string    `json:"chart_id"`
	DatetimeUTC string    `json:"datetime_utc"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	JulianDay   float64   `json:"julian_day"`
	Mode        string    `json:"ephemeris_mode"`
	EntityID    string    `json:"entity_id,omitempty"`
	EntityType  string    `json:"entity_type,omitempty"`
	ComputedAt  time.Time `json:"computed_at"`
}
