package quiz

import "testing"

func TestTotalPointsIsSum(t *testing.T) {
	q := Quiz{Questions: []Question{{Points: 5}, {Points: 2.5}, {Points: 0}, {Points: 1.25}}}
	if got := q.TotalPoints(); got != 8.75 {
		t.Fatalf("TotalPoints = %v, want 8.75", got)
	}
	if got := (Quiz{}).TotalPoints(); got != 0 {
		t.Fatalf("empty TotalPoints = %v", got)
	}
}

func TestHasCorrect(t *testing.T) {
	q := Question{Options: []string{"a", "b", "c"}}
	for correct, want := range map[int]bool{NoCorrect: false, 1: true, 3: true, 4: false, -1: false} {
		q.Correct = correct
		if got := q.HasCorrect(); got != want {
			t.Errorf("Correct=%d: HasCorrect = %v, want %v", correct, got, want)
		}
	}
}

func TestOptionFeedback(t *testing.T) {
	q := Question{Options: []string{"a", "b"}, Feedback: Feedback{PerOption: []string{"fa"}}}
	if got := q.OptionFeedback(0); got != "fa" {
		t.Errorf("OptionFeedback(0) = %q", got)
	}
	if got := q.OptionFeedback(1); got != "" {
		t.Errorf("OptionFeedback(1) = %q", got)
	}
}

func TestWarnings(t *testing.T) {
	var ws Warnings
	ws.AddRow(3, WarnInvalidPoints, "Invalid points value '%s'.", "abc")
	ws.AddItem("Essay", WarnUnsupportedItem, "skipped")
	if ws.Count(WarnInvalidPoints) != 1 || ws.Count(WarnNoOptions) != 0 {
		t.Fatalf("unexpected counts: %+v", ws)
	}
	if got := ws[0].String(); got != "Row 3: Invalid points value 'abc'." {
		t.Errorf("row warning = %q", got)
	}
	if got := ws[1].String(); got != `Item "Essay": skipped` {
		t.Errorf("item warning = %q", got)
	}
}
