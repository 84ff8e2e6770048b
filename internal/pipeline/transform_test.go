package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utcCalendar struct{}

func (utcCalendar) ConvertCalendar(year, month, day, hour, minute int) (time.Time, error) {
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

type fixedProjector struct {
	err error
}

func (p fixedProjector) ToLatLon(_, _ int) (domain.LatLon, error) {
	return domain.LatLon{Lat: 35.7, Lon: 51.39}, p.err
}

type recordingSun struct {
	altitude  float64
	elevation float64
	lat, lon  float64
}

func (s *recordingSun) SolarAltitude(_ time.Time, lat, lon, elevation float64) float64 {
	s.lat, s.lon, s.elevation = lat, lon, elevation
	return s.altitude
}

func testRecord(clock string) domain.RawRecord {
	fields := make([]string, domain.RecordFieldCount)
	fields[domain.FieldGender] = "2"
	fields[domain.FieldAge] = "61"
	fields[domain.FieldDate] = "13990315"
	fields[domain.FieldTime] = clock
	fields[domain.FieldVehicleDeceased] = "دوچرخه"
	fields[domain.FieldVehicleKiller] = "سواری"
	fields[domain.FieldYearMonth] = "1399.3"
	fields[domain.FieldEasting] = "535000"
	fields[domain.FieldNorthing] = "3951000"
	return domain.RawRecord{Line: 7, Fields: fields}
}

func TestAccidentTransformer_Transform(t *testing.T) {
	sun := &recordingSun{altitude: -8}
	tr := NewTransformer(utcCalendar{}, fixedProjector{}, sun, 1189)

	a, err := tr.Transform(context.Background(), testRecord("0500"))
	require.NoError(t, err)

	assert.Equal(t, domain.GenderWoman, a.Gender)
	assert.Equal(t, domain.VehicleBike, a.VehicleDeceased)
	assert.Equal(t, domain.VehicleCar, a.VehicleKiller)
	assert.Equal(t, domain.LatLon{Lat: 35.7, Lon: 51.39}, a.Geo)
	require.NotNil(t, a.Light)
	assert.Equal(t, domain.LightTwilight, *a.Light)

	// The sun is sampled at the reprojected position.
	assert.InDelta(t, 35.7, sun.lat, 1e-9)
	assert.InDelta(t, 51.39, sun.lon, 1e-9)
	assert.InDelta(t, 1189.0, sun.elevation, 1e-9)
}

func TestAccidentTransformer_NoTime(t *testing.T) {
	tr := NewTransformer(utcCalendar{}, fixedProjector{}, &recordingSun{altitude: 40}, 0)

	a, err := tr.Transform(context.Background(), testRecord(""))
	require.NoError(t, err)
	assert.False(t, a.HasDateTime())
	assert.Nil(t, a.Light)
	assert.Equal(t, domain.LatLon{Lat: 35.7, Lon: 51.39}, a.Geo, "coordinates are projected without a time")
}

func TestAccidentTransformer_ProjectionError(t *testing.T) {
	boom := errors.New("out of range")
	tr := NewTransformer(utcCalendar{}, fixedProjector{err: boom}, &recordingSun{}, 0)

	_, err := tr.Transform(context.Background(), testRecord("0500"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "transform line 7")
}
