package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/vaxtrack/internal/domain/model"
)

const utf8BOM = "\ufeff"

// ParseCSV reads a header-first CSV document into records keyed by
// column name and reports how many rows were skipped. The header must
// name model.LocationColumn and every column in required. Rows may be
// shorter or longer than the header; missing columns read as empty and
// extra fields are ignored. Rows the CSV reader cannot tokenise are
// skipped.
func ParseCSV(r io.Reader, required ...string) ([]model.RawRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w: empty document", ErrFeedUnavailable)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: header: %w", ErrFeedUnavailable, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	if err := checkColumns(header, append([]string{model.LocationColumn}, required...)); err != nil {
		return nil, 0, err
	}

	var (
		out     []model.RawRecord
		skipped int
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("%w: read: %w", ErrFeedUnavailable, err)
		}

		n := len(fields)
		if n > len(header) {
			n = len(header)
		}
		rec := make(model.RawRecord, n)
		for i := 0; i < n; i++ {
			rec[header[i]] = fields[i]
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func checkColumns(header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, col := range required {
		if _, ok := have[col]; !ok {
			return fmt.Errorf("%w: %w: %q", ErrFeedUnavailable, ErrMissingColumn, col)
		}
	}
	return nil
}
