package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/couchcryptid/accident-light-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// RecordSource yields raw records in a single pass and reports what it read.
type RecordSource interface {
	Records(ctx context.Context) iter.Seq2[domain.RawRecord, error]
	Read() int
	Skipped() int
}

// Transformer converts a raw record into a normalized accident.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawRecord) (domain.Accident, error)
}

// FeatureSink writes the complete accident collection.
type FeatureSink interface {
	WriteCollection(ctx context.Context, accidents []domain.Accident) error
}

// Summary describes a completed run.
type Summary struct {
	RowsRead        int
	RowsSkipped     int
	FeaturesWritten int
	Light           map[string]int // simplified light condition, "unknown" when absent
	Duration        time.Duration
}

// Pipeline runs the extract-transform-load pass.
type Pipeline struct {
	source      RecordSource
	transformer Transformer
	sink        FeatureSink
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// New creates a Pipeline with the given stages and observability. A nil
// clock uses real time.
func New(s RecordSource, t Transformer, k FeatureSink, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:      s,
		transformer: t,
		sink:        k,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
	}
}

// Run reads every record, transforms it and writes the collection once all
// records succeeded. The first read or transform error aborts the run and
// nothing is written.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := p.clock.Now()
	p.logger.Info("pipeline started")

	var accidents []domain.Accident
	light := make(map[string]int)

	for raw, err := range p.source.Records(ctx) {
		if err != nil {
			return Summary{}, fmt.Errorf("extract records: %w", err)
		}

		accident, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Error("transform failed, aborting run", "line", raw.Line, "error", err)
			return Summary{}, err
		}

		accidents = append(accidents, accident)
		light[lightLabel(accident.Light)]++
	}

	p.metrics.RowsRead.Add(float64(p.source.Read()))
	p.metrics.RowsSkipped.Add(float64(p.source.Skipped()))

	if err := p.sink.WriteCollection(ctx, accidents); err != nil {
		return Summary{}, fmt.Errorf("load features: %w", err)
	}

	for i := range accidents {
		p.metrics.ObserveLight(accidents[i].Light)
	}
	p.metrics.FeaturesWritten.Add(float64(len(accidents)))

	end := p.clock.Now()
	summary := Summary{
		RowsRead:        p.source.Read(),
		RowsSkipped:     p.source.Skipped(),
		FeaturesWritten: len(accidents),
		Light:           light,
		Duration:        end.Sub(start),
	}
	p.metrics.RunDuration.Set(summary.Duration.Seconds())
	p.metrics.LastSuccess.Set(float64(end.Unix()))

	p.logger.Info("pipeline finished",
		"rows_read", summary.RowsRead,
		"features", summary.FeaturesWritten,
		"duration", summary.Duration,
	)
	return summary, nil
}

func lightLabel(l *domain.Light) string {
	if l == nil {
		return "unknown"
	}
	return string(*l)
}
