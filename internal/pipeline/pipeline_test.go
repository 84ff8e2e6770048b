package pipeline_test

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/couchcryptid/accident-light-etl/internal/observability"
	"github.com/couchcryptid/accident-light-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	records []domain.RawRecord
	err     error // yielded after the records
	skipped int
}

func (m *mockSource) Records(_ context.Context) iter.Seq2[domain.RawRecord, error] {
	return func(yield func(domain.RawRecord, error) bool) {
		for _, r := range m.records {
			if !yield(r, nil) {
				return
			}
		}
		if m.err != nil {
			yield(domain.RawRecord{}, m.err)
		}
	}
}

func (m *mockSource) Read() int    { return len(m.records) + m.skipped }
func (m *mockSource) Skipped() int { return m.skipped }

type mockTransformer struct {
	failLine int
	clock    *clockwork.FakeClock
	calls    int
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawRecord) (domain.Accident, error) {
	m.calls++
	if m.clock != nil {
		m.clock.Advance(time.Second)
	}
	if raw.Line == m.failLine {
		return domain.Accident{}, errors.New("bad gender")
	}
	a := domain.Accident{UTMX: raw.Line, Gender: domain.GenderMan}
	if raw.Line%2 == 0 {
		l := domain.LightDay
		a.DateTime = time.Date(2020, 6, 4, 12, 0, 0, 0, time.UTC)
		a.Light = &l
	}
	return a, nil
}

type mockSink struct {
	written [][]domain.Accident
	err     error
}

func (m *mockSink) WriteCollection(_ context.Context, accidents []domain.Accident) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, accidents)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Unregistered metrics avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func records(lines ...int) []domain.RawRecord {
	out := make([]domain.RawRecord, len(lines))
	for i, l := range lines {
		out[i] = domain.RawRecord{Line: l, Fields: make([]string, domain.RecordFieldCount)}
	}
	return out
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC))
	src := &mockSource{records: records(2, 3, 4), skipped: 2}
	tfm := &mockTransformer{clock: clock}
	sink := &mockSink{}
	metrics := newTestMetrics()

	p := pipeline.New(src, tfm, sink, slog.Default(), metrics, clock)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.written, 1)
	require.Len(t, sink.written[0], 3)
	assert.Equal(t, []int{2, 3, 4}, []int{sink.written[0][0].UTMX, sink.written[0][1].UTMX, sink.written[0][2].UTMX})

	want := pipeline.Summary{
		RowsRead:        5,
		RowsSkipped:     2,
		FeaturesWritten: 3,
		Light:           map[string]int{"day": 2, "unknown": 1},
		Duration:        3 * time.Second,
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 5.0, testutil.ToFloat64(metrics.RowsRead), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.RowsSkipped), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.FeaturesWritten), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.LightConditions.WithLabelValues("day")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.RunDuration), 1e-9)
	assert.InDelta(t, float64(clock.Now().Unix()), testutil.ToFloat64(metrics.LastSuccess), 1e-9)
}

func TestPipeline_Run_OnlySkippedRows(t *testing.T) {
	src := &mockSource{skipped: 4}
	sink := &mockSink{}

	p := pipeline.New(src, &mockTransformer{}, sink, slog.Default(), newTestMetrics(), nil)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FeaturesWritten)
	assert.Equal(t, 4, summary.RowsSkipped)
	require.Len(t, sink.written, 1, "an empty collection is still written")
	assert.Empty(t, sink.written[0])
}

func TestPipeline_Run_TransformErrorAborts(t *testing.T) {
	src := &mockSource{records: records(2, 3, 4)}
	tfm := &mockTransformer{failLine: 3}
	sink := &mockSink{}
	metrics := newTestMetrics()

	p := pipeline.New(src, tfm, sink, slog.Default(), metrics, nil)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad gender")
	assert.Equal(t, 2, tfm.calls, "records after the failure are not processed")
	assert.Empty(t, sink.written)
	assert.Zero(t, testutil.ToFloat64(metrics.FeaturesWritten))
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	src := &mockSource{records: records(2), err: errors.New("disk gone")}
	sink := &mockSink{}

	p := pipeline.New(src, &mockTransformer{}, sink, slog.Default(), newTestMetrics(), nil)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract records: disk gone")
	assert.Empty(t, sink.written)
}

func TestPipeline_Run_LoadError(t *testing.T) {
	src := &mockSource{records: records(2)}
	sink := &mockSink{err: errors.New("read-only file system")}
	metrics := newTestMetrics()

	p := pipeline.New(src, &mockTransformer{}, sink, slog.Default(), metrics, nil)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load features")
	assert.Zero(t, testutil.ToFloat64(metrics.LastSuccess))
}
