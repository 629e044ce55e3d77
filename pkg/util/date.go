package util

import (
    "fmt"
    "math"
    "time"
)

// Julian Day of the Unix epoch (1970-01-01T00:00:00Z).
const unixEpochJD = 2440587.5

// ParseUTCInstant parses an ISO-8601 datetime string into a UTC instant.
// The string must carry an explicit offset ("Z" or +hh:mm); naive local
// datetimes are rejected.
func ParseUTCInstant(s string) (time.Time, error) {
    if s == "" {
        return time.Time{}, fmt.Errorf("empty datetime")
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t.UTC(), nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, fmt.Errorf("invalid ISO-8601 datetime %q: %w", s, err)
    }
    return t.UTC(), nil
}

// JulianDay converts an instant to Julian Day (UT).
func JulianDay(t time.Time) float64 {
    return float64(t.UnixNano())/(86400.0*1e9) + unixEpochJD
}

// Round6 rounds to six decimal places, the precision carried in chart metadata.
func Round6(v float64) float64 {
    return math.Round(v*1e6) / 1e6
}
