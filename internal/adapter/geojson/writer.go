package geojson

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DateTimeLayout is the property format for accident times.
const DateTimeLayout = time.DateTime

// Writer renders accidents as a GeoJSON FeatureCollection file.
// It implements pipeline.FeatureSink.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a writer for the output document at path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// WriteCollection serializes all accidents and replaces the output file.
// The document goes to a temporary file first, so a failed write never
// leaves a truncated collection behind.
func (w *Writer) WriteCollection(ctx context.Context, accidents []domain.Accident) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Marshal(accidents)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}

	w.logger.Info("geojson written", "path", w.path, "features", len(accidents), "bytes", len(data))
	return nil
}

// Marshal encodes accidents as a compact FeatureCollection document.
func Marshal(accidents []domain.Accident) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(accidents))
	for i := range accidents {
		fc.Append(NewFeature(accidents[i]))
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("serialize feature collection: %w", err)
	}
	return data, nil
}

// NewFeature builds a Point feature at [lon, lat]. Coordinates only appear
// in the geometry; the properties carry the remaining accident fields with
// unknown values as null.
func NewFeature(a domain.Accident) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{a.Geo.Lon, a.Geo.Lat})
	f.Properties = geojson.Properties{
		"gender":           string(a.Gender),
		"age":              nil,
		"datetime":         nil,
		"vehicle_deceased": string(a.VehicleDeceased),
		"vehicle_killer":   string(a.VehicleKiller),
		"accident_reason":  a.AccidentReason,
		"utm_x":            a.UTMX,
		"utm_y":            a.UTMY,
		"light":            nil,
	}
	if a.Age != nil {
		f.Properties["age"] = *a.Age
	}
	if a.HasDateTime() {
		f.Properties["datetime"] = a.DateTime.Format(DateTimeLayout)
	}
	if a.Light != nil {
		f.Properties["light"] = string(*a.Light)
	}
	return f
}
