package domain

import "fmt"

// EnrichWithCoordinates reprojects the accident's UTM position. Projection
// failures are returned as errors; there is no fallback position.
func EnrichWithCoordinates(a Accident, projector Projector) (Accident, error) {
	geo, err := projector.ToLatLon(a.UTMX, a.UTMY)
	if err != nil {
		return a, fmt.Errorf("reproject %d,%d: %w", a.UTMX, a.UTMY, err)
	}
	a.Geo = geo
	return a, nil
}
