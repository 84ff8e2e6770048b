package sun

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Observer atmosphere used for refraction at every elevation.
const (
	airPressure    = 1010.0 // hPa
	airTemperature = 15.0   // degrees Celsius
)

// Positioner implements domain.SolarPositioner. Altitudes are apparent:
// the geometric altitude plus atmospheric refraction under a fixed standard
// atmosphere. The observer elevation does not change the pressure.
type Positioner struct{}

// NewPositioner creates a solar positioner.
func NewPositioner() *Positioner {
	return &Positioner{}
}

// SolarAltitude returns the apparent solar altitude in degrees. go-sunrise
// computes a geocentric position, so elevation has no effect on the result.
func (p *Positioner) SolarAltitude(t time.Time, lat, lon, _ float64) float64 {
	geometric := sunrise.Elevation(lat, lon, t.UTC())
	return geometric + Refraction(geometric, airPressure, airTemperature)
}

// Refraction returns the refraction correction in degrees for a geometric
// altitude, using the piecewise fit from the NOAA solar calculator scaled by
// pressure (hPa) and temperature (Celsius).
func Refraction(altitude, pressure, temperature float64) float64 {
	if altitude > 85 {
		return 0
	}

	te := math.Tan(altitude * math.Pi / 180)
	var arcsec float64
	switch {
	case altitude > 5:
		arcsec = 58.1/te - 0.07/math.Pow(te, 3) + 0.000086/math.Pow(te, 5)
	case altitude > -0.575:
		arcsec = 1735 + altitude*(-518.2+altitude*(103.4+altitude*(-12.79+altitude*0.711)))
	default:
		arcsec = -20.772 / te
	}

	scale := (pressure / 1010) * (283 / (273 + temperature))
	return arcsec / 3600 * scale
}
