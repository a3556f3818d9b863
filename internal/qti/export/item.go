package export

import (
	"strings"

	"github.com/mind-engage/quizpack/internal/qti"
	"github.com/mind-engage/quizpack/internal/quiz"
)

// choice is one emitted option together with what references it.
type choice struct {
	ID       string
	Text     string
	Feedback string
	Correct  bool
}

// itemIDs carries every identifier an item needs. It is complete before
// any structure referencing the ids is built.
type itemIDs struct {
	Item    string
	Choices []choice
}

func itemOptions(q quiz.Question) []string {
	if q.Type == quiz.TrueFalse {
		return quiz.TrueFalseOptions()
	}
	return q.Options
}

func mintItemIDs(q quiz.Question, newID func() string) itemIDs {
	ids := itemIDs{Item: newID()}
	for i, text := range itemOptions(q) {
		if strings.TrimSpace(text) == "" {
			continue
		}
		ids.Choices = append(ids.Choices, choice{
			ID:       newID(),
			Text:     text,
			Feedback: q.OptionFeedback(i),
			Correct:  q.Correct == i+1,
		})
	}
	return ids
}

func buildItem(q quiz.Question, ids itemIDs) item {
	it := item{
		Ident: ids.Item,
		Title: q.Title,
		Metadata: []metaField{
			{Label: qti.FieldQuestionType, Entry: qti.TypeString(q.Type)},
			{Label: qti.FieldPoints, Entry: qti.FormatItemPoints(q.Points)},
		},
		Presentation: presentation{
			Material: material{Text: mattext{TextType: "text/html", Text: "<div><p>" + q.Body + "</p></div>"}},
			Response: responseLid{Ident: qti.ResponseIdent, Cardinality: "Single"},
		},
		Processing: resprocessing{
			Outcomes: outcomes{Decvar: decvar{MaxValue: "100", MinValue: "0", VarName: qti.ScoreVar, VarType: "Decimal"}},
		},
	}

	for _, c := range ids.Choices {
		it.Presentation.Response.Render.Labels = append(it.Presentation.Response.Render.Labels, responseLabel{
			Ident:    c.ID,
			Material: material{Text: mattext{TextType: "text/plain", Text: c.Text}},
		})
		if c.Correct && len(it.Processing.Conditions) == 0 {
			it.Processing.Conditions = append(it.Processing.Conditions, respcondition{
				Continue: "No",
				VarEqual: varequal{RespIdent: qti.ResponseIdent, Value: c.ID},
				SetVar:   setvar{Action: "Set", VarName: qti.ScoreVar, Value: qti.FullCredit},
			})
		}
	}

	addFeedback := func(ident, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		it.Feedback = append(it.Feedback, itemFeedback{
			Ident: ident,
			Text:  mattext{TextType: "text/html", Text: "<p>" + text + "</p>"},
		})
	}
	addFeedback(qti.FeedbackGeneral, q.Feedback.General)
	addFeedback(qti.FeedbackCorrect, q.Feedback.OnCorrect)
	addFeedback(qti.FeedbackIncorrect, q.Feedback.OnIncorrect)
	for _, c := range ids.Choices {
		addFeedback(qti.OptionFeedbackIdent(c.ID), c.Feedback)
	}
	return it
}
