package util

import (
    "math"
    "testing"
    "time"
)

func TestParseUTCInstant(t *testing.T) {
    got, err := ParseUTCInstant("1977-09-05T17:24:00Z")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    want := time.Date(1977, 9, 5, 17, 24, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseUTCInstantOffset(t *testing.T) {
    got, err := ParseUTCInstant("2000-01-01T07:00:00-05:00")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if got.Hour() != 12 || got.Location() != time.UTC {
        t.Fatalf("expected 12:00 UTC, got %v", got)
    }
}

func TestParseUTCInstantRejectsNaive(t *testing.T) {
    if _, err := ParseUTCInstant("1977-09-05T17:24:00"); err == nil {
        t.Fatalf("expected error for naive datetime")
    }
    if _, err := ParseUTCInstant("not-a-date"); err == nil {
        t.Fatalf("expected error for garbage input")
    }
    if _, err := ParseUTCInstant(""); err == nil {
        t.Fatalf("expected error for empty input")
    }
}

func TestJulianDayKnownDate(t *testing.T) {
    jd := JulianDay(time.Date(1977, 9, 5, 17, 24, 0, 0, time.UTC))
    if math.Abs(jd-2443392.225) > 0.001 {
        t.Fatalf("JD %v differs from expected 2443392.225", jd)
    }
}

func TestJulianDayJ2000(t *testing.T) {
    jd := JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
    if math.Abs(jd-2451545.0) > 0.001 {
        t.Fatalf("JD %v differs from expected 2451545.0", jd)
    }
}

func TestRound6(t *testing.T) {
    if got := Round6(12.3456789); got != 12.345679 {
        t.Fatalf("unexpected rounding %v", got)
    }
    if got := Round6(-0.0000004); got != 0 {
        t.Fatalf("unexpected rounding %v", got)
    }
}
