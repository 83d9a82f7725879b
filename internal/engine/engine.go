// Package engine wires the rule table, the fact source and optional answer
// elaboration into the query surface shared by the REPL and batch paths.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/delphia/internal/cache"
	"github.com/ppiankov/delphia/internal/llm"
	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/rules"
	"github.com/ppiankov/delphia/internal/wiki"
)

// Engine answers questions through the rule table.
type Engine struct {
	registry   *rules.Registry
	elaborator *llm.Elaborator // nil when elaboration is disabled
	config     *model.Config
}

// New builds an engine backed by the configured wiki fact source.
func New(cfg *model.Config) (*Engine, error) {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}
	return NewWithSource(cfg, wiki.NewClient(cfg, store))
}

// NewWithSource builds an engine over an explicit fact source. Tests inject
// in-memory sources here.
func NewWithSource(cfg *model.Config, source rules.FactSource) (*Engine, error) {
	var opts []rules.Option
	if cfg.Rules.File != "" {
		opts = append(opts, rules.WithRulesFile(cfg.Rules.File))
	}

	registry, err := rules.NewRegistry(source, opts...)
	if err != nil {
		return nil, fmt.Errorf("build rule table: %w", err)
	}

	// A broken provider config must not take the rule table down with it
	var elaborator *llm.Elaborator
	if cfg.LLM.Provider != "" {
		e, err := llm.NewElaborator(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			elaborator = e
		}
	}

	return &Engine{
		registry:   registry,
		elaborator: elaborator,
		config:     cfg,
	}, nil
}

// Answer dispatches one question through the rule table.
func (e *Engine) Answer(ctx context.Context, question string) rules.Result {
	return e.registry.Dispatch(ctx, question)
}

// Rules reports the number of registered rules.
func (e *Engine) Rules() int { return e.registry.Len() }

// Elaborate asks the configured provider for a note about result. It returns
// nil when elaboration is disabled or the session is ending.
func (e *Engine) Elaborate(ctx context.Context, question string, result rules.Result) *model.Note {
	if e.elaborator == nil || !e.elaborator.IsEnabled() {
		return nil
	}
	if result.Outcome == rules.Exit {
		return nil
	}

	note, err := e.elaborator.Elaborate(ctx, question, result.Answers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: elaboration failed: %v\n", err)
		return nil
	}
	return note
}
