// Package rules holds the question table: ordered pattern-action rules
// matched against tokenized questions, with a tagged dispatch result.
package rules

import (
	"context"

	"github.com/ppiankov/delphia/internal/match"
	"github.com/ppiankov/delphia/internal/textutil"
)

// FactSource resolves a subject to a block of reference text. The wiki
// client is the production implementation; tests use in-memory maps.
type FactSource interface {
	FactBlock(ctx context.Context, subject string) (string, error)
}

// Action turns the tokens bound by a pattern's wildcards into answers.
type Action func(ctx context.Context, args []string) ([]string, error)

// Rule pairs a question pattern with the action that answers it. Terminal
// rules end the session instead of producing answers.
type Rule struct {
	Pattern  []string
	Action   Action
	Terminal bool
}

// Outcome classifies what a dispatch produced.
type Outcome int

const (
	// Answered means a rule matched and its action produced answers.
	Answered Outcome = iota
	// NoMatch means no registered pattern fit the question.
	NoMatch
	// NoAnswers means a rule matched but its action produced nothing.
	NoAnswers
	// Failed means the matched rule's action returned an error.
	Failed
	// Exit means the terminal rule matched and the session should end.
	Exit
)

// String names the outcome for reports and logs.
func (o Outcome) String() string {
	switch o {
	case Answered:
		return "answered"
	case NoMatch:
		return "no_match"
	case NoAnswers:
		return "no_answers"
	case Failed:
		return "failed"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Sentinel answers for outcomes that carry no extracted data.
const (
	NoMatchAnswer   = "I don't understand"
	NoAnswersAnswer = "No answers"
)

// Result is the outcome of dispatching one question.
type Result struct {
	Outcome Outcome
	Answers []string
	Err     error
}

// Registry is an ordered rule table, fixed once construction returns. The
// first rule whose pattern matches a question wins.
type Registry struct {
	source FactSource
	rules  []Rule
}

// Option customizes registry construction.
type Option func(*Registry) error

// NewRegistry builds the standard table backed by source, applying opts in
// order.
func NewRegistry(source FactSource, opts ...Option) (*Registry, error) {
	r := &Registry{
		source: source,
		rules:  builtinRules(source),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Len reports the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }

// Dispatch tokenizes question, finds the first matching rule and runs its
// action. Every failure mode maps to a tagged Result; a failed action stops
// the question, it does not fall through to later rules.
func (r *Registry) Dispatch(ctx context.Context, question string) Result {
	tokens := textutil.Tokenize(question)

	for _, rule := range r.rules {
		args, ok := match.Match(rule.Pattern, tokens)
		if !ok {
			continue
		}

		if rule.Terminal {
			return Result{Outcome: Exit}
		}

		answers, err := rule.Action(ctx, args)
		if err != nil {
			return Result{Outcome: Failed, Answers: []string{err.Error()}, Err: err}
		}
		if len(answers) == 0 {
			return Result{Outcome: NoAnswers, Answers: []string{NoAnswersAnswer}}
		}
		return Result{Outcome: Answered, Answers: answers}
	}

	return Result{Outcome: NoMatch, Answers: []string{NoMatchAnswer}}
}
