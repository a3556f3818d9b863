package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/mind-engage/quizpack/internal/qti"
	"github.com/mind-engage/quizpack/internal/quiz"
)

var (
	exprItems      = xpath.MustCompile("//item")
	exprMetaFields = xpath.MustCompile(".//qtimetadatafield")
	exprFieldLabel = xpath.MustCompile("fieldlabel")
	exprFieldEntry = xpath.MustCompile("fieldentry")
	exprBody       = xpath.MustCompile(".//presentation//mattext")
	exprLabels     = xpath.MustCompile(".//render_choice/response_label")
	exprMattext    = xpath.MustCompile(".//mattext")
	exprConditions = xpath.MustCompile(".//respcondition")
	exprSetScore   = xpath.MustCompile(".//setvar[@action='Set']")
	exprVarEqual   = xpath.MustCompile(".//varequal")
	exprFeedback   = xpath.MustCompile(".//itemfeedback")
	exprAssessment = xpath.MustCompile("//assessment")
	exprQuizTitle  = xpath.MustCompile("//quiz/title")
)

// rawItem is what the navigator reads from one <item> before classification.
type rawItem struct {
	Title       string
	TypeField   string
	Points      string
	Body        string
	OptionIDs   []string
	OptionTexts []string
	CorrectID   string
	Feedback    map[string]string
}

func text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}

func readItem(n *xmlquery.Node) rawItem {
	var it rawItem
	it.Title = n.SelectAttr("title")

	for _, field := range xmlquery.QuerySelectorAll(n, exprMetaFields) {
		label := strings.TrimSpace(text(xmlquery.QuerySelector(field, exprFieldLabel)))
		entry := strings.TrimSpace(text(xmlquery.QuerySelector(field, exprFieldEntry)))
		switch label {
		case qti.FieldQuestionType:
			it.TypeField = entry
		case qti.FieldPoints:
			it.Points = entry
		}
	}

	it.Body = qti.CleanText(text(xmlquery.QuerySelector(n, exprBody)))

	for i, label := range xmlquery.QuerySelectorAll(n, exprLabels) {
		if i >= quiz.MaxOptions {
			break
		}
		it.OptionIDs = append(it.OptionIDs, label.SelectAttr("ident"))
		it.OptionTexts = append(it.OptionTexts, qti.CleanText(text(xmlquery.QuerySelector(label, exprMattext))))
	}

	for _, cond := range xmlquery.QuerySelectorAll(n, exprConditions) {
		setvar := xmlquery.QuerySelector(cond, exprSetScore)
		if setvar == nil || strings.TrimSpace(setvar.InnerText()) != qti.FullCredit {
			continue
		}
		if eq := xmlquery.QuerySelector(cond, exprVarEqual); eq != nil {
			it.CorrectID = strings.TrimSpace(eq.InnerText())
			break
		}
	}

	it.Feedback = map[string]string{}
	for _, fb := range xmlquery.QuerySelectorAll(n, exprFeedback) {
		it.Feedback[fb.SelectAttr("ident")] = qti.CleanText(text(xmlquery.QuerySelector(fb, exprMattext)))
	}
	return it
}

func isTrueFalse(options []string) bool {
	if len(options) != 2 {
		return false
	}
	a, b := strings.ToLower(options[0]), strings.ToLower(options[1])
	return (a == "true" && b == "false") || (a == "false" && b == "true")
}

// parsePoints reads points_possible. Anything that is not a finite,
// non-negative number counts as 0.
func parsePoints(s string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// toQuestion classifies a raw item. ok is false for unsupported item types.
func (it rawItem) toQuestion(pos int, opts Options) (quiz.Question, bool) {
	declared, ok := qti.TypeFromString(it.TypeField)
	if !ok {
		return quiz.Question{}, false
	}

	q := quiz.Question{
		Title:   it.Title,
		Points:  parsePoints(it.Points),
		Body:    it.Body,
		Options: it.OptionTexts,
		Feedback: quiz.Feedback{
			General:     it.Feedback[qti.FeedbackGeneral],
			OnCorrect:   it.Feedback[qti.FeedbackCorrect],
			OnIncorrect: it.Feedback[qti.FeedbackIncorrect],
		},
	}
	if q.Title == "" {
		q.Title = fmt.Sprintf("Question %d", pos)
	}

	switch {
	case opts.TrueFalseHeuristic:
		q.Type = quiz.MultipleChoice
		if isTrueFalse(it.OptionTexts) {
			q.Type = quiz.TrueFalse
		}
	case declared == quiz.TrueFalse:
		q.Type = quiz.TrueFalse
	default:
		q.Type = quiz.MultipleChoice
	}

	if len(it.OptionIDs) > 0 {
		q.Feedback.PerOption = make([]string, len(it.OptionIDs))
	}
	for i, id := range it.OptionIDs {
		if it.CorrectID != "" && id == it.CorrectID && q.Correct == quiz.NoCorrect {
			q.Correct = i + 1
		}
		q.Feedback.PerOption[i] = it.Feedback[qti.OptionFeedbackIdent(id)]
	}
	return q, true
}
