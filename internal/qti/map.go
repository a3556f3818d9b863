package qti

import (
	"strconv"
	"strings"

	"github.com/mind-engage/quizpack/internal/quiz"
)

// Wire vocabulary shared by the exporter and the parser.
const (
	NSAssessment = "http://www.imsglobal.org/xsd/ims_qtiasiv1p2"
	NSManifest   = "http://www.imsglobal.org/xsd/imsccv1p1/imscp_v1p1"
	NSMetadata   = "http://canvas.instructure.com/xsd/cccv1p0"
	NSIMSMD      = "http://www.imsglobal.org/xsd/imsmd_v1p2"
	NSXSI        = "http://www.w3.org/2001/XMLSchema-instance"

	AssessmentSchemaLocation = NSAssessment + " http://www.imsglobal.org/xsd/ims_qtiasiv1p2p1.xsd"

	ManifestFile = "imsmanifest.xml"
	MetaFile     = "assessment_meta.xml"

	ResourceTypeQTI  = "imsqti_xmlv1p2"
	ResourceTypeMeta = "associatedcontent/imscc_xmlv1p1/learning-application-resource"

	FieldQuestionType = "question_type"
	FieldPoints       = "points_possible"

	ResponseIdent = "response1"
	ScoreVar      = "SCORE"
	FullCredit    = "100"
	QuizType      = "assignment"
	SectionIdent  = "root_section"

	FeedbackGeneral   = "general_fb"
	FeedbackCorrect   = "correct_fb"
	FeedbackIncorrect = "general_incorrect_fb"
)

const (
	TypeMultipleChoice   = "multiple_choice_question"
	TypeTrueFalse        = "true_false_question"
	TypeMultipleResponse = "multiple_response_question"
)

// OptionFeedbackIdent is the itemfeedback ident bound to one option.
func OptionFeedbackIdent(optionID string) string { return optionID + "_fb" }

// AssessmentPath returns the in-package path of the assessment document.
func AssessmentPath(assessmentID string) string {
	return assessmentID + "/" + assessmentID + ".xml"
}

// MetaPath returns the in-package path of the quiz metadata document.
func MetaPath(assessmentID string) string { return assessmentID + "/" + MetaFile }

// TypeString maps a question type to its question_type field entry.
// Unknown types are written as multiple choice.
func TypeString(t quiz.QuestionType) string {
	if t == quiz.TrueFalse {
		return TypeTrueFalse
	}
	return TypeMultipleChoice
}

// TypeFromString maps a question_type field entry back to a type.
// ok is false for types the codec does not extract (essay, numeric, ...).
// An empty entry is accepted as unspecified multiple choice.
func TypeFromString(s string) (t quiz.QuestionType, ok bool) {
	switch strings.TrimSpace(s) {
	case TypeMultipleChoice, "":
		return quiz.MultipleChoice, true
	case TypeTrueFalse:
		return quiz.TrueFalse, true
	case TypeMultipleResponse:
		return quiz.MultipleResponse, true
	default:
		return "", false
	}
}

// FormatItemPoints renders points as the shortest decimal with at least one
// fractional digit ("5.0", "2.5").
func FormatItemPoints(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatTotalPoints renders quiz totals with two decimals.
func FormatTotalPoints(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) }
