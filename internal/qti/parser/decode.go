package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/mind-engage/quizpack/internal/quiz"
)

type Options struct {
	// TrueFalseHeuristic classifies two-option items whose options read
	// true/false as TF, overriding the question_type field.
	TrueFalseHeuristic bool
}

func DefaultOptions() Options { return Options{TrueFalseHeuristic: true} }

type Result struct {
	Quiz           quiz.Quiz
	AssessmentPath string
	Skipped        int
	Warnings       quiz.Warnings
}

// Decode reads the quiz held by a QTI 1.2 package.
func Decode(src EntrySource, opts Options) (*Result, error) {
	path, err := FindAssessment(src)
	if err != nil {
		return nil, err
	}
	b, err := src.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := ParseAssessment(b, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.AssessmentPath = path
	if res.Quiz.Title == "" {
		res.Quiz.Title = metadataTitle(src)
	}
	return res, nil
}

// ParseAssessment extracts the supported items of one assessment document.
func ParseAssessment(data []byte, opts Options) (*Result, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quiz.ErrMalformedXML, err)
	}

	res := &Result{}
	if a := xmlquery.QuerySelector(doc, exprAssessment); a != nil {
		res.Quiz.Title = strings.TrimSpace(a.SelectAttr("title"))
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, exprItems) {
		raw := readItem(n)
		q, ok := raw.toQuestion(len(res.Quiz.Questions)+1, opts)
		if !ok {
			res.Skipped++
			res.Warnings.AddItem(raw.Title, quiz.WarnUnsupportedItem,
				"skipping unsupported question type %q", raw.TypeField)
			continue
		}
		res.Quiz.Questions = append(res.Quiz.Questions, q)
	}
	return res, nil
}

func metadataTitle(src EntrySource) string {
	name := findMetadata(src)
	if name == "" {
		return ""
	}
	b, err := src.ReadFile(name)
	if err != nil {
		return ""
	}
	doc, err := xmlquery.Parse(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text(xmlquery.QuerySelector(doc, exprQuizTitle)))
}
