package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mind-engage/quizpack/internal/quiz"
)

// Row is one data record keyed by normalized column name.
type Row struct {
	Line   int // source line where the record starts
	Fields map[string]string
	Err    error // set when the record could not be split into fields
}

// Get returns the value of a column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.Fields[NormalizeColumn(column)]
}

// ReadRows reads a CSV document with a header row. A leading UTF-8 BOM is
// dropped. Malformed records are returned with Err set instead of failing
// the whole read.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: CSV has no header row", quiz.ErrInvalidSource)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read CSV header: %v", quiz.ErrInvalidSource, err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeColumn(h)
	}

	var rows []Row
	lastErrLine := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			if pe.StartLine == lastErrLine {
				break
			}
			lastErrLine = pe.StartLine
			rows = append(rows, Row{Line: pe.StartLine, Err: pe})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read CSV: %v", quiz.ErrInvalidSource, err)
		}
		line, _ := cr.FieldPos(0)
		row := Row{Line: line, Fields: make(map[string]string, len(keys))}
		for i, v := range rec {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			if _, dup := row.Fields[keys[i]]; dup {
				continue
			}
			row.Fields[keys[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// blank reports whether every field of the row is empty.
func (r Row) blank() bool {
	for _, v := range r.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
