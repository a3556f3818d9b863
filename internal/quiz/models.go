package quiz

type QuestionType string

const (
	MultipleChoice   QuestionType = "MC"
	TrueFalse        QuestionType = "TF"
	MultipleResponse QuestionType = "MR" // decode only; re-encoded as MultipleChoice
)

// MaxOptions caps the answer options carried by one question.
const MaxOptions = 5

// NoCorrect marks a question without a usable correct answer.
const NoCorrect = 0

type Feedback struct {
	General     string   `json:"general,omitempty"`
	OnCorrect   string   `json:"on_correct,omitempty"`
	OnIncorrect string   `json:"on_incorrect,omitempty"`
	PerOption   []string `json:"per_option,omitempty"` // aligned 1:1 with Question.Options
}

type Question struct {
	Type     QuestionType `json:"type"`
	Title    string       `json:"title"`
	Points   float64      `json:"points"`
	Body     string       `json:"body"`
	Options  []string     `json:"options"`
	Correct  int          `json:"correct"` // 1-based into Options, NoCorrect when absent
	Feedback Feedback     `json:"feedback"`
}

// HasCorrect reports whether Correct points at an existing option.
func (q Question) HasCorrect() bool {
	return q.Correct >= 1 && q.Correct <= len(q.Options)
}

// OptionFeedback returns the feedback for the 0-based option i, or "".
func (q Question) OptionFeedback(i int) string {
	if i < 0 || i >= len(q.Feedback.PerOption) {
		return ""
	}
	return q.Feedback.PerOption[i]
}

type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// TotalPoints is always derived from the questions; it is never stored.
func (q Quiz) TotalPoints() float64 {
	var sum float64
	for _, it := range q.Questions {
		sum += it.Points
	}
	return sum
}

// TrueFalseOptions is the fixed option list of a true/false question.
func TrueFalseOptions() []string { return []string{"True", "False"} }
