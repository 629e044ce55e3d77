// Package swisseph adapts the Swiss Ephemeris library (via the swephgo cgo
// binding) to the domain Ephemeris interface. The library keeps an open data
// file handle process-wide; this provider owns init and release of it.
package swisseph

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/mshafiee/swephgo"

	"TrueArk/internal/domain/models"
	drepo "TrueArk/internal/domain/repository"
	applogger "TrueArk/pkg/logger"
)

// Swiss Ephemeris body identifiers and flag bits, per the library docs.
// Kept as an explicit table so the tracked-body set is closed and checkable.
const (
	seSun      = 0
	seMoon     = 1
	seMercury  = 2
	seVenus    = 3
	seMars     = 4
	seJupiter  = 5
	seSaturn   = 6
	seUranus   = 7
	seNeptune  = 8
	sePluto    = 9
	seTrueNode = 11

	seflgSwieph = 2   // use .se1 precision files
	seflgMoseph = 4   // Moshier analytical fallback
	seflgSpeed  = 256 // also compute daily motion
)

var bodyIDs = map[models.Body]int{
	models.Sun:      seSun,
	models.Moon:     seMoon,
	models.Mercury:  seMercury,
	models.Venus:    seVenus,
	models.Mars:     seMars,
	models.Jupiter:  seJupiter,
	models.Saturn:   seSaturn,
	models.Uranus:   seUranus,
	models.Neptune:  seNeptune,
	models.Pluto:    sePluto,
	models.TrueNode: seTrueNode,
}

const (
	ModeSwiss   = "swiss"
	ModeMoshier = "moshier"
)

// Provider implements repository.Ephemeris on top of swephgo.
type Provider struct {
	path    string
	mode    string
	flags   int
	metrics drepo.Metrics

	// swephgo is not safe for concurrent calls; the fan-out above us is,
	// so all library entry points are serialized here.
	mu sync.Mutex
}

// New initializes the Swiss Ephemeris with the given data-file directory.
// When no .se1 files are found the provider degrades to the Moshier model;
// that degradation is logged and reported through Mode(), never hidden.
func New(ephemerisPath string, requireSwiss bool, l *applogger.Logger, metrics drepo.Metrics) (*Provider, error) {
	p := &Provider{path: ephemerisPath, metrics: metrics}

	swephgo.SetEphePath([]byte(ephemerisPath))

	se1, err := filepath.Glob(filepath.Join(ephemerisPath, "*.se1"))
	if err != nil {
		return nil, &models.EphemerisFileError{Path: ephemerisPath, Detail: err.Error()}
	}

	if len(se1) == 0 {
		if requireSwiss {
			swephgo.Close()
			return nil, &models.EphemerisFileError{
				Path:   ephemerisPath,
				Detail: "no .se1 data files found and swiss precision is required",
			}
		}
		p.mode = ModeMoshier
		p.flags = seflgMoseph | seflgSpeed
		if l != nil {
			l.Warn("no .se1 files found, using Moshier ephemeris (~1 arcsecond)",
				applogger.String("path", ephemerisPath))
		}
	} else {
		p.mode = ModeSwiss
		p.flags = seflgSwieph | seflgSpeed
		if l != nil {
			l.Info("swiss ephemeris initialized",
				applogger.String("path", ephemerisPath),
				applogger.Int("data_files", len(se1)))
		}
	}

	return p, nil
}

// Mode reports "swiss" or "moshier".
func (p *Provider) Mode() string { return p.mode }

// Position returns ecliptic longitude and daily motion for one body.
func (p *Provider) Position(ctx context.Context, jd float64, body models.Body) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	id, ok := bodyIDs[body]
	if !ok {
		return 0, 0, &models.EphemerisError{Op: "position", Target: string(body), Detail: "unknown body"}
	}

	start := time.Now()
	xx := make([]float64, 6)
	serr := make([]byte, 256)

	p.mu.Lock()
	rc := swephgo.CalcUt(jd, id, p.flags, xx, serr)
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordEphemerisCall("position", time.Since(start).Seconds())
	}
	if rc < 0 {
		return 0, 0, &models.EphemerisError{Op: "position", Target: string(body), Detail: cstr(serr)}
	}

	// xx = [longitude, latitude, distance, dLon/dt, dLat/dt, dDist/dt]
	return xx[0], xx[3], nil
}

// Angles returns Ascendant and Midheaven longitudes via the houses call.
func (p *Provider) Angles(ctx context.Context, jd, latitude, longitude float64, houseSystem byte) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	start := time.Now()
	cusps := make([]float64, 13)
	ascmc := make([]float64, 10)

	p.mu.Lock()
	rc := swephgo.Houses(jd, latitude, longitude, int(houseSystem), cusps, ascmc)
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordEphemerisCall("angles", time.Since(start).Seconds())
	}
	if rc < 0 {
		return 0, 0, &models.EphemerisError{
			Op:     "angles",
			Target: "Ascendant/Midheaven",
			Detail: fmt.Sprintf("houses failed at lat=%v lon=%v jd=%v", latitude, longitude, jd),
		}
	}

	// ascmc[0] = Ascendant, ascmc[1] = Midheaven
	return ascmc[0], ascmc[1], nil
}

// Close releases the ephemeris file handles.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	swephgo.Close()
	return nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s := string(bytes.TrimSpace(b))
	if s == "" {
		return "swiss ephemeris call failed"
	}
	return s
}
