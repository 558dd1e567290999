package survey

import (
	"strings"

	"healthdash/internal/errors"
)

// Row is one raw data row keyed by trimmed header name.
type Row map[string]string

// Table is the raw tabular form a source adapter produces: ordered rows under
// trimmed headers, every cell still a string. Derive turns it into a Dataset.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table carries the named header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ValidateColumns checks that every required column is present, returning a
// single validation error naming all missing columns. Raised once at load so
// no partial dashboard ever renders.
func (t *Table) ValidateColumns() error {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 1 {
		return errors.ValidationError("missing required column: " + missing[0])
	}
	if len(missing) > 1 {
		return errors.ValidationError("missing required columns: " + strings.Join(missing, ", "))
	}
	return nil
}
