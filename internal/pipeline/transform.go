package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
)

// AccidentTransformer implements Transformer using the domain normalization,
// reprojection and light classification functions.
type AccidentTransformer struct {
	calendar  domain.CalendarConverter
	projector domain.Projector
	sun       domain.SolarPositioner
	elevation float64
}

// NewTransformer creates an AccidentTransformer. elevation is the observer
// height in metres used for every record.
func NewTransformer(calendar domain.CalendarConverter, projector domain.Projector, sun domain.SolarPositioner, elevation float64) *AccidentTransformer {
	return &AccidentTransformer{
		calendar:  calendar,
		projector: projector,
		sun:       sun,
		elevation: elevation,
	}
}

func (t *AccidentTransformer) Transform(_ context.Context, raw domain.RawRecord) (domain.Accident, error) {
	accident, err := domain.ParseRawRecord(raw, t.calendar)
	if err != nil {
		return domain.Accident{}, err
	}

	accident, err = domain.EnrichWithCoordinates(accident, t.projector)
	if err != nil {
		return domain.Accident{}, fmt.Errorf("transform line %d: %w", raw.Line, err)
	}

	return domain.EnrichWithLight(accident, t.sun, t.elevation), nil
}
