// Package csvrow turns an uploaded byte stream into a lazy, forward-only
// sequence of header-mapped CSV rows.
package csvrow

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/openimpactlab/impactboard/internal/encoding"
)

// Decoder yields one header→value map per data record, in file order.
// It makes a single pass over the stream and is not restartable.
type Decoder struct {
	r      *csv.Reader
	header []string
	empty  bool
}

// NewDecoder detects the stream's charset and reads the header row.
// A fully empty stream is a valid zero-row document, not an error.
func NewDecoder(r io.Reader) (*Decoder, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	cr := csv.NewReader(utf8r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Decoder{empty: true}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	return &Decoder{r: cr, header: header}, nil
}

// Next returns the next data row, or io.EOF once the stream is
// exhausted. Short rows map only the columns they have; columns beyond
// the header are dropped.
func (d *Decoder) Next() (map[string]string, error) {
	if d.empty {
		return nil, io.EOF
	}

	rec, err := d.r.Read()
	if err != nil {
		return nil, err
	}

	row := make(map[string]string, len(d.header))

	for i, name := range d.header {
		if name == "" || i >= len(rec) {
			continue
		}

		row[name] = strings.TrimSpace(rec[i])
	}

	return row, nil
}
