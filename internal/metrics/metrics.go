// Package metrics exposes conversion counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mind-engage/quizpack/internal/convert"
)

// Recorder counts conversions. A nil Recorder records nothing.
type Recorder struct {
	conversions *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	skipped     prometheus.Counter
	questions   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Recorder {
	m := &Recorder{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quizpack",
			Name:      "conversions_total",
			Help:      "Conversions by direction and outcome.",
		}, []string{"direction", "outcome"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quizpack",
			Name:      "warnings_total",
			Help:      "Validation warnings by code.",
		}, []string{"direction", "code"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quizpack",
			Name:      "skipped_items_total",
			Help:      "Package items skipped for unsupported question types.",
		}),
		questions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quizpack",
			Name:      "questions_per_conversion",
			Help:      "Questions carried by one conversion.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}, []string{"direction"}),
	}
	reg.MustRegister(m.conversions, m.warnings, m.skipped, m.questions)
	return m
}

func (m *Recorder) Converted(res *convert.Result) {
	if m == nil || res == nil {
		return
	}
	dir := string(res.Direction)
	m.conversions.WithLabelValues(dir, "ok").Inc()
	for _, w := range res.Warnings {
		m.warnings.WithLabelValues(dir, string(w.Code)).Inc()
	}
	m.skipped.Add(float64(res.Skipped))
	m.questions.WithLabelValues(dir).Observe(float64(len(res.Quiz.Questions)))
}

func (m *Recorder) Failed(dir convert.Direction) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(string(dir), "error").Inc()
}
