package tabular

import (
	"fmt"
	"strings"
)

const (
	ColType              = "Type"
	ColTitle             = "Title"
	ColPoints            = "Points"
	ColBody              = "Question Body"
	ColCorrect           = "Correct Answer"
	ColGeneralFeedback   = "General Feedback"
	ColCorrectFeedback   = "Correct Feedback"
	ColIncorrectFeedback = "Incorrect Feedback"
)

func OptionColumn(n int) string   { return fmt.Sprintf("Option %d", n) }
func FeedbackColumn(n int) string { return fmt.Sprintf("Feedback %d", n) }

// Header is the column order written on export.
var Header = []string{
	ColType, ColTitle, ColPoints, ColBody, ColCorrect,
	OptionColumn(1), OptionColumn(2), OptionColumn(3), OptionColumn(4), OptionColumn(5),
	ColGeneralFeedback, ColCorrectFeedback, ColIncorrectFeedback,
	FeedbackColumn(1), FeedbackColumn(2), FeedbackColumn(3), FeedbackColumn(4), FeedbackColumn(5),
}

// NormalizeColumn folds case and whitespace so " question  body" matches
// "Question Body".
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
