package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/delphia/internal/model"
)

// Elaborator wraps an optional provider and turns answers into notes. A nil
// provider means elaboration is disabled and every call is a cheap no-op.
type Elaborator struct {
	provider Provider
	config   Config
}

// NewElaborator creates an elaborator from configuration
func NewElaborator(config Config) (*Elaborator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Elaborator{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (e *Elaborator) IsEnabled() bool {
	return e.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (e *Elaborator) ProviderName() string {
	if e.provider == nil {
		return ""
	}
	return e.provider.Name()
}

// Elaborate asks the provider for a note about the answers. Failures degrade
// to a note carrying warnings; the answers themselves are never at risk.
func (e *Elaborator) Elaborate(ctx context.Context, question string, answers []string) (*model.Note, error) {
	if e.provider == nil {
		return nil, nil
	}

	if !e.provider.IsAvailable(ctx) {
		return &model.Note{
			Enabled:  false,
			Provider: e.provider.Name(),
			Strict:   e.config.StrictAnswer,
			Warnings: []string{
				fmt.Sprintf("Provider %s is not available; skipping elaboration", e.provider.Name()),
			},
		}, nil
	}

	resp, err := e.provider.Elaborate(ctx, ElaborateRequest{
		Question:  question,
		Answers:   answers,
		Model:     e.config.Model,
		MaxTokens: e.config.MaxTokens,
	})
	if err != nil {
		// The answer stands on its own; a failed note is a warning, not an error
		return &model.Note{
			Enabled:  true,
			Provider: e.provider.Name(),
			Model:    e.config.Model,
			Strict:   e.config.StrictAnswer,
			Warnings: []string{
				fmt.Sprintf("Elaboration failed: %v", err),
			},
		}, nil
	}

	return &model.Note{
		Enabled:  true,
		Provider: e.provider.Name(),
		Model:    resp.Model,
		Strict:   e.config.StrictAnswer,
		Text:     resp.Text,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		},
	}, nil
}
