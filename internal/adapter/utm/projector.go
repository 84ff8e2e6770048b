package utm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/im7mortal/UTM"
)

// ErrOutOfRange is returned for coordinates outside the valid UTM grid.
var ErrOutOfRange = errors.New("utm coordinate out of range")

const (
	minEasting  = 100000
	maxEasting  = 1000000 // exclusive
	maxNorthing = 10000000
)

// Projector implements domain.Projector for a single UTM zone on WGS-84.
type Projector struct {
	zone int
	band string
	epsg int
}

// NewProjector creates a projector for the zone number and latitude band
// letter, e.g. 39 and "S" for Tehran (EPSG:32639).
func NewProjector(zone int, band string) (*Projector, error) {
	epsg, err := EPSGCode(zone, band)
	if err != nil {
		return nil, err
	}
	return &Projector{
		zone: zone,
		band: strings.ToUpper(strings.TrimSpace(band)),
		epsg: epsg,
	}, nil
}

// EPSGCode returns the WGS-84 / UTM EPSG code for a zone and latitude band.
// Bands N through X are northern, C through M southern.
func EPSGCode(zone int, band string) (int, error) {
	if zone < 1 || zone > 60 {
		return 0, fmt.Errorf("utm zone %d out of range 1-60", zone)
	}
	north, err := IsNorthern(band)
	if err != nil {
		return 0, err
	}
	if north {
		return 32600 + zone, nil
	}
	return 32700 + zone, nil
}

// IsNorthern reports whether a latitude band letter lies north of the equator.
func IsNorthern(band string) (bool, error) {
	b := strings.ToUpper(strings.TrimSpace(band))
	if len(b) != 1 || b[0] < 'C' || b[0] > 'X' || b == "I" || b == "O" {
		return false, fmt.Errorf("invalid utm latitude band %q", band)
	}
	return b[0] >= 'N', nil
}

// EPSG returns the EPSG code the projector converts from.
func (p *Projector) EPSG() int {
	return p.epsg
}

// ToLatLon converts an easting/northing pair to WGS-84 degrees.
func (p *Projector) ToLatLon(easting, northing int) (domain.LatLon, error) {
	if easting < minEasting || easting >= maxEasting {
		return domain.LatLon{}, fmt.Errorf("%w: easting %d (zone %d%s)", ErrOutOfRange, easting, p.zone, p.band)
	}
	if northing < 0 || northing > maxNorthing {
		return domain.LatLon{}, fmt.Errorf("%w: northing %d (zone %d%s)", ErrOutOfRange, northing, p.zone, p.band)
	}

	lat, lon, err := UTM.ToLatLon(float64(easting), float64(northing), p.zone, p.band)
	if err != nil {
		return domain.LatLon{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return domain.LatLon{}, fmt.Errorf("%w: %d,%d did not project", ErrOutOfRange, easting, northing)
	}
	return domain.LatLon{Lat: lat, Lon: lon}, nil
}
