package quiz

import "fmt"

type WarningCode string

const (
	WarnInvalidPoints     WarningCode = "invalid_points"
	WarnUnknownType       WarningCode = "unknown_type"
	WarnNoOptions         WarningCode = "no_options"
	WarnMissingCorrect    WarningCode = "missing_correct"
	WarnCorrectOutOfRange WarningCode = "correct_out_of_range"
	WarnRowSkipped        WarningCode = "row_skipped"
	WarnUnsupportedItem   WarningCode = "unsupported_item"
)

// Warning is a recoverable anomaly found while converting one row or item.
// Row is the 1-based source line for tabular input and 0 otherwise.
type Warning struct {
	Row     int         `json:"row,omitempty"`
	Item    string      `json:"item,omitempty"`
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("Row %d: %s", w.Row, w.Message)
	}
	if w.Item != "" {
		return fmt.Sprintf("Item %q: %s", w.Item, w.Message)
	}
	return w.Message
}

// Warnings accumulates the warnings of a single conversion.
type Warnings []Warning

func (ws *Warnings) AddRow(row int, code WarningCode, format string, args ...any) {
	*ws = append(*ws, Warning{Row: row, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (ws *Warnings) AddItem(item string, code WarningCode, format string, args ...any) {
	*ws = append(*ws, Warning{Item: item, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Count returns how many warnings carry code.
func (ws Warnings) Count(code WarningCode) int {
	n := 0
	for _, w := range ws {
		if w.Code == code {
			n++
		}
	}
	return n
}
