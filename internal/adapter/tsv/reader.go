package tsv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
)

// Reader streams accident records from a tab-separated file.
// It implements pipeline.RecordSource.
type Reader struct {
	path    string
	logger  *slog.Logger
	read    int
	skipped int
}

// NewReader creates a reader for the file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Records yields every data line with exactly domain.RecordFieldCount fields.
// The header line is skipped and lines with any other field count are
// dropped silently. The file is opened when iteration starts and closed when
// it ends, including when the consumer stops early. Each call starts a new
// pass over the file.
func (r *Reader) Records(ctx context.Context) iter.Seq2[domain.RawRecord, error] {
	return func(yield func(domain.RawRecord, error) bool) {
		r.read, r.skipped = 0, 0

		f, err := os.Open(r.path)
		if err != nil {
			yield(domain.RawRecord{}, fmt.Errorf("open accident file: %w", err))
			return
		}
		defer f.Close()

		r.logger.Debug("reading accident file", "path", r.path)

		// Lines have no length limit; an oversized line is judged by its
		// field count like any other.
		br := bufio.NewReader(f)

		line := 0
		for {
			text, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				yield(domain.RawRecord{}, fmt.Errorf("read accident file line %d: %w", line+1, err))
				return
			}
			if text == "" && err != nil {
				return
			}

			line++
			if line > 1 {
				if cerr := ctx.Err(); cerr != nil {
					yield(domain.RawRecord{}, cerr)
					return
				}

				r.read++
				fields := strings.Split(strings.TrimSpace(text), "\t")
				if len(fields) != domain.RecordFieldCount {
					r.skipped++
				} else if !yield(domain.RawRecord{Line: line, Fields: fields}, nil) {
					return
				}
			}

			if err != nil {
				return
			}
		}
	}
}

// Read returns the number of data lines seen by the last pass.
func (r *Reader) Read() int {
	return r.read
}

// Skipped returns the number of lines dropped for a wrong field count in the
// last pass.
func (r *Reader) Skipped() int {
	return r.skipped
}
