package domain

import "time"

// CalendarConverter turns a Persian calendar wall clock into a Gregorian
// timestamp. It returns an error for dates or clock values that do not exist.
type CalendarConverter interface {
	ConvertCalendar(year, month, day, hour, minute int) (time.Time, error)
}

// SolarPositioner computes the apparent altitude of the sun, in degrees,
// seen from the given position at t (UTC) and elevation in metres.
type SolarPositioner interface {
	SolarAltitude(t time.Time, lat, lon, elevation float64) float64
}

// Projector reprojects planar UTM coordinates to WGS-84.
type Projector interface {
	ToLatLon(easting, northing int) (LatLon, error)
}
