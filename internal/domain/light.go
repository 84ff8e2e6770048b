package domain

// Light is the illumination condition at the accident time and place.
type Light string

const (
	LightDay          Light = "day"
	LightCivil        Light = "civil"
	LightNautical     Light = "nautical"
	LightAstronomical Light = "astronomical"
	LightNight        Light = "night"

	// LightTwilight groups the civil, nautical and astronomical phases.
	LightTwilight Light = "twilight"
)

// ClassifyLight buckets a solar altitude in degrees. Interval bounds are
// exclusive on both sides, so exactly 0, -6, -12 and -18 fall to night.
func ClassifyLight(angle float64) Light {
	switch {
	case angle > 0:
		return LightDay
	case -6 < angle && angle < 0:
		return LightCivil
	case -12 < angle && angle < -6:
		return LightNautical
	case -18 < angle && angle < -12:
		return LightAstronomical
	default:
		return LightNight
	}
}

// SimplifyLight reports the three twilight phases as twilight.
func SimplifyLight(l Light) Light {
	switch l {
	case LightCivil, LightNautical, LightAstronomical:
		return LightTwilight
	default:
		return l
	}
}

// EnrichWithLight derives the simplified light condition from the solar
// altitude at the accident time and position. Accidents without a known time
// are returned unchanged, with Light nil.
func EnrichWithLight(a Accident, sun SolarPositioner, elevation float64) Accident {
	if !a.HasDateTime() || sun == nil {
		a.Light = nil
		return a
	}

	angle := sun.SolarAltitude(a.DateTime.UTC(), a.Geo.Lat, a.Geo.Lon, elevation)
	light := SimplifyLight(ClassifyLight(angle))
	a.Light = &light
	return a
}
