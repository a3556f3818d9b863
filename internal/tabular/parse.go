package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quizpack/internal/quiz"
)

// ParseQuiz builds a quiz from tabular rows. Rows that cannot yield a
// question are skipped; every anomaly is returned as a warning and never
// aborts the batch.
func ParseQuiz(rows []Row, title string) (quiz.Quiz, quiz.Warnings) {
	q := quiz.Quiz{Title: title}
	var warns quiz.Warnings
	for i, row := range rows {
		if row.Err != nil {
			warns.AddRow(row.Line, quiz.WarnRowSkipped, "Could not read row (%v). Row skipped.", row.Err)
			continue
		}
		if row.blank() {
			continue
		}
		question, ok := parseQuestion(row, i+1, &warns)
		if !ok {
			continue
		}
		q.Questions = append(q.Questions, question)
	}
	return q, warns
}

func parseQuestion(row Row, pos int, warns *quiz.Warnings) (quiz.Question, bool) {
	rawType := strings.TrimSpace(row.Get(ColType))
	body := row.Get(ColBody)
	if rawType == "" && strings.TrimSpace(body) == "" {
		warns.AddRow(row.Line, quiz.WarnRowSkipped, "Missing Type and Question Body. Row skipped.")
		return quiz.Question{}, false
	}

	q := quiz.Question{
		Title: strings.TrimSpace(row.Get(ColTitle)),
		Body:  body,
		Feedback: quiz.Feedback{
			General:     strings.TrimSpace(row.Get(ColGeneralFeedback)),
			OnCorrect:   strings.TrimSpace(row.Get(ColCorrectFeedback)),
			OnIncorrect: strings.TrimSpace(row.Get(ColIncorrectFeedback)),
		},
	}
	if q.Title == "" {
		q.Title = fmt.Sprintf("Question %d", pos)
	}
	q.Points = parsePoints(row, warns)

	switch strings.ToUpper(rawType) {
	case string(quiz.TrueFalse):
		q.Type = quiz.TrueFalse
		q.Options = quiz.TrueFalseOptions()
	case string(quiz.MultipleChoice):
		q.Type = quiz.MultipleChoice
	default:
		warns.AddRow(row.Line, quiz.WarnUnknownType, "Unknown Type '%s'. Defaulting to MC.", rawType)
		q.Type = quiz.MultipleChoice
	}

	if q.Type == quiz.MultipleChoice {
		for n := 1; n <= quiz.MaxOptions; n++ {
			if opt := strings.TrimSpace(row.Get(OptionColumn(n))); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
		if len(q.Options) == 0 {
			warns.AddRow(row.Line, quiz.WarnNoOptions, "Question '%s' has no answer options detected.", q.Title)
		}
	}
	// Blank option cells are dropped, so Feedback k and Correct Answer k both
	// refer to the k-th remaining option.
	for n := 1; n <= len(q.Options); n++ {
		q.Feedback.PerOption = append(q.Feedback.PerOption, strings.TrimSpace(row.Get(FeedbackColumn(n))))
	}
	if !hasAny(q.Feedback.PerOption) {
		q.Feedback.PerOption = nil
	}

	q.Correct = parseCorrect(row, len(q.Options), warns)
	return q, true
}

func parsePoints(row Row, warns *quiz.Warnings) float64 {
	raw := strings.TrimSpace(row.Get(ColPoints))
	if raw == "" {
		warns.AddRow(row.Line, quiz.WarnInvalidPoints, "Missing points value. Defaulting to 0.")
		return 0
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		warns.AddRow(row.Line, quiz.WarnInvalidPoints, "Invalid points value '%s'. Defaulting to 0.", raw)
		return 0
	}
	return p
}

func parseCorrect(row Row, optionCount int, warns *quiz.Warnings) int {
	raw := strings.TrimSpace(row.Get(ColCorrect))
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		warns.AddRow(row.Line, quiz.WarnMissingCorrect, "Missing or non-numeric Correct Answer. Question will have no correct answer.")
		return quiz.NoCorrect
	}
	if n < 1 || n > optionCount {
		warns.AddRow(row.Line, quiz.WarnCorrectOutOfRange, "Correct Answer '%s' is out of range (1-%d).", raw, optionCount)
		return quiz.NoCorrect
	}
	return n
}

func hasAny(vals []string) bool {
	for _, v := range vals {
		if v != "" {
			return true
		}
	}
	return false
}
