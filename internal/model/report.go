package model

import "time"

// QueryReport records the outcome of one question in a batch run.
type QueryReport struct {
	Question string        `json:"question"`
	Outcome  string        `json:"outcome"`
	Answers  []string      `json:"answers,omitempty"`
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// BatchReport aggregates a batch run.
type BatchReport struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Total     int           `json:"total"`
	Answered  int           `json:"answered"`
	Failed    int           `json:"failed"`
	Reports   []QueryReport `json:"reports"`
}

// Outcome values mirror the dispatcher's result tags.
const (
	OutcomeAnswered  = "answered"
	OutcomeNoMatch   = "no_match"
	OutcomeNoAnswers = "no_answers"
	OutcomeFailed    = "failed"
	OutcomeExit      = "exit"
)

// NewBatchReport aggregates per-question reports into a run summary.
func NewBatchReport(startedAt time.Time, reports []QueryReport) *BatchReport {
	b := &BatchReport{
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Total:     len(reports),
		Reports:   reports,
	}
	for _, r := range reports {
		switch r.Outcome {
		case OutcomeAnswered:
			b.Answered++
		case OutcomeFailed:
			b.Failed++
		}
	}
	return b
}

// Note is the optional LLM elaboration attached to an answer.
// It is rendered apart from the answers and never replaces them.
type Note struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Strict   bool     `json:"strict"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
