package models

import "math"

// ZodiacSign is an index into the fixed tropical zodiac order (Aries = 0).
type ZodiacSign int

const (
	Aries ZodiacSign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces

	SignCount = 12
	SignSpan  = 30.0 // degrees of ecliptic longitude per sign
)

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// String returns the sign name, or "Unknown" for an out-of-range index.
func (s ZodiacSign) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return signNames[s]
}

// Valid reports whether s is one of the 12 signs.
func (s ZodiacSign) Valid() bool {
	return s >= Aries && s <= Pisces
}

// Start returns the ecliptic longitude at which the sign begins.
func (s ZodiacSign) Start() float64 {
	return float64(s) * SignSpan
}

// Next returns the zodiacally-next sign, cyclic.
func (s ZodiacSign) Next() ZodiacSign {
	return (s + 1) % SignCount
}

// SignByName resolves a sign name back to its index.
func SignByName(name string) (ZodiacSign, bool) {
	for i, n := range signNames {
		if n == name {
			return ZodiacSign(i), true
		}
	}
	return 0, false
}

// SignOf decomposes an ecliptic longitude in [0,360) into its sign.
func SignOf(longitude float64) ZodiacSign {
	return ZodiacSign(int(longitude / SignSpan))
}

// NormalizeLongitude wraps any finite longitude into [0,360).
func NormalizeLongitude(l float64) float64 {
	l = math.Mod(l, 360)
	if l < 0 {
		l += 360
	}
	return l
}

// Body identifies a tracked celestial body.
type Body string

const (
	Sun      Body = "Sun"
	Moon     Body = "Moon"
	Mercury  Body = "Mercury"
	Venus    Body = "Venus"
	Mars     Body = "Mars"
	Jupiter  Body = "Jupiter"
	Saturn   Body = "Saturn"
	Uranus   Body = "Uranus"
	Neptune  Body = "Neptune"
	Pluto    Body = "Pluto"
	TrueNode Body = "TrueNode"
)

// Planets lists the 10 planet entries of a chart, in traditional order.
var Planets = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Points lists the non-planet chart points.
var Points = []Body{TrueNode}

// TrackedBodies lists everything resolved per chart: 10 planets plus TrueNode.
var TrackedBodies = append(append([]Body{}, Planets...), Points...)

// CelestialPosition is the resolved position of one body. Immutable once built.
type CelestialPosition struct {
	Longitude  float64    `json:"longitude"`
	Sign       string     `json:"sign"`
	Degree     float64    `json:"degree"`
	Retrograde bool       `json:"retrograde"`
	SignIndex  ZodiacSign `json:"-"`
}

// Angle is a chart angle (Ascendant, Midheaven). Angles do not retrograde.
type Angle struct {
	Longitude float64    `json:"longitude"`
	Sign      string     `json:"sign"`
	Degree    float64    `json:"degree"`
	SignIndex ZodiacSign `json:"-"`
}

// DecomposeLongitude splits a longitude in [0,360) into sign and in-sign degree.
// Degree is exactly longitude - sign.Start(); no rounding happens here.
func DecomposeLongitude(longitude float64) (ZodiacSign, float64) {
	sign := SignOf(longitude)
	return sign, longitude - sign.Start()
}

// ChartAngles holds the two named angles.
type ChartAngles struct {
	Ascendant Angle `json:"Ascendant"`
	Midheaven Angle `json:"Midheaven"`
}

// Houses maps house numbers "1".."12" to sign names under Whole Sign.
type Houses map[string]string

// ChartMetadata describes how a chart was computed.
type ChartMetadata struct {
	Ephemeris         string  `json:"ephemeris"`
	CalculationMethod string  `json:"calculation_method"`
	JulianDay         float64 `json:"julian_day"`
	Precision         string  `json:"precision"`
	EphemerisMode     string  `json:"ephemeris_mode"` // "swiss" or "moshier"
}

// ChartResult is the fully validated output of one chart computation.
// It is only ever constructed by the assembler after validation passes.
type ChartResult struct {
	Planets  map[string]CelestialPosition `json:"planets"`
	Points   map[string]CelestialPosition `json:"points"`
	Angles   ChartAngles                  `json:"angles"`
	Houses   Houses                       `json:"houses"`
	Metadata ChartMetadata                `json:"metadata"`
}

// BodyPosition pairs a body with its resolved position during fan-out.
type BodyPosition struct {
	Body     Body
	Position CelestialPosition
}
