package geojson

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type featureDoc struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type collectionDoc struct {
	Type     string       `json:"type"`
	Features []featureDoc `json:"features"`
}

func sampleAccident() domain.Accident {
	age := 42
	light := domain.LightTwilight
	return domain.Accident{
		Gender:          domain.GenderWoman,
		Age:             &age,
		DateTime:        time.Date(2020, time.June, 4, 18, 30, 0, 0, time.FixedZone("IRST", 16200)),
		VehicleDeceased: domain.VehiclePedestrian,
		VehicleKiller:   domain.VehicleHeavy,
		AccidentReason:  "سرعت غیرمجاز",
		UTMX:            535123,
		UTMY:            3951234,
		Geo:             domain.LatLon{Lat: 35.70, Lon: 51.39},
		Light:           &light,
	}
}

func decode(t *testing.T, data []byte) collectionDoc {
	t.Helper()
	var doc collectionDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestMarshal(t *testing.T) {
	data, err := Marshal([]domain.Accident{sampleAccident()})
	require.NoError(t, err)

	doc := decode(t, data)
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{51.39, 35.70}, f.Geometry.Coordinates, "longitude first")

	want := map[string]any{
		"gender":           "woman",
		"age":              float64(42),
		"datetime":         "2020-06-04 18:30:00",
		"vehicle_deceased": "pedestrian",
		"vehicle_killer":   "heavy",
		"accident_reason":  "سرعت غیرمجاز",
		"utm_x":            float64(535123),
		"utm_y":            float64(3951234),
		"light":            "twilight",
	}
	if diff := cmp.Diff(want, f.Properties); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, f.Properties, "lat")
	assert.NotContains(t, f.Properties, "long")
}

func TestMarshal_UnknownValuesAreNull(t *testing.T) {
	a := sampleAccident()
	a.Age = nil
	a.DateTime = time.Time{}
	a.Light = nil

	data, err := Marshal([]domain.Accident{a})
	require.NoError(t, err)

	props := decode(t, data).Features[0].Properties
	for _, key := range []string{"age", "datetime", "light"} {
		v, ok := props[key]
		assert.True(t, ok, "%s should be present", key)
		assert.Nil(t, v, "%s should be null", key)
	}
	assert.Contains(t, string(data), `"light":null`)
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestMarshal_Deterministic(t *testing.T) {
	accidents := []domain.Accident{sampleAccident(), sampleAccident()}

	first, err := Marshal(accidents)
	require.NoError(t, err)
	second, err := Marshal(accidents)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(first), "\n", "output is compact")
}

func TestWriter_WriteCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "nested", "out.geojson")
	w := NewWriter(path, slog.Default())

	require.NoError(t, w.WriteCollection(context.Background(), []domain.Accident{sampleAccident()}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decode(t, data).Features, 1)

	// A second run overwrites the previous document.
	require.NoError(t, w.WriteCollection(context.Background(), nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, decode(t, data).Features)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriter_CancelledContextWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.geojson")
	w := NewWriter(path, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteCollection(ctx, []domain.Accident{sampleAccident()})
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
