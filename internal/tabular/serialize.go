package tabular

import (
	"strconv"

	"github.com/mind-engage/quizpack/internal/quiz"
)

// QuizRows renders a quiz as rows aligned with Header.
func QuizRows(q quiz.Quiz) [][]string {
	rows := make([][]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		rows = append(rows, questionRow(question))
	}
	return rows
}

func questionRow(q quiz.Question) []string {
	row := map[string]string{
		ColType:              typeToken(q.Type),
		ColTitle:             q.Title,
		ColPoints:            strconv.FormatFloat(q.Points, 'f', 2, 64),
		ColBody:              q.Body,
		ColGeneralFeedback:   q.Feedback.General,
		ColCorrectFeedback:   q.Feedback.OnCorrect,
		ColIncorrectFeedback: q.Feedback.OnIncorrect,
	}
	if q.HasCorrect() {
		row[ColCorrect] = strconv.Itoa(q.Correct)
	}
	for i, opt := range q.Options {
		if i >= quiz.MaxOptions {
			break
		}
		row[OptionColumn(i+1)] = opt
		row[FeedbackColumn(i+1)] = q.OptionFeedback(i)
	}

	out := make([]string, len(Header))
	for i, col := range Header {
		out[i] = row[col]
	}
	return out
}

func typeToken(t quiz.QuestionType) string {
	if t == quiz.TrueFalse {
		return string(quiz.TrueFalse)
	}
	return string(quiz.MultipleChoice)
}
