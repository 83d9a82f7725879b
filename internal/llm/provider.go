package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Elaborate generates a short note about an already-computed answer
	Elaborate(ctx context.Context, req ElaborateRequest) (*ElaborateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ElaborateRequest carries the question and its final answers. The answers
// are fixed input: the provider may contextualize them, never replace them.
type ElaborateRequest struct {
	// Question as the user asked it
	Question string

	// Answers produced by the rule table
	Answers []string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ElaborateResponse contains the provider's note
type ElaborateResponse struct {
	// Text is the generated note
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible services
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictAnswer rejects notes that introduce numbers absent from the
	// answers (should always be true)
	StrictAnswer bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		StrictAnswer: true,
		MaxTokens:    400,
	}
}

// BuildPrompt constructs the elaboration prompt. The rules pin the model to
// the extracted answers so the note adds phrasing, not facts.
func BuildPrompt(question string, answers []string) string {
	return fmt.Sprintf(`You are adding a short note to an answer produced by a template lookup
over reference pages.

RULES:
1. The answer below is final. Repeat extracted values exactly as given.
2. DO NOT add dates, figures, or facts that are not in the answer.
3. If the answer is a diagnostic (nothing was found), suggest rephrasing the
   question. Do not guess the missing fact.

Question: %s
Answer:
%s

Reply with one or two sentences.`, question, joinAnswers(answers))
}

func joinAnswers(answers []string) string {
	if len(answers) == 0 {
		return "(no answer)"
	}
	return strings.Join(answers, "\n")
}

var numberTokens = regexp.MustCompile(`\d[\d,.:-]*`)

// verifyStrictAnswer checks that every numeric token in the note appears in
// one of the answers. A violation means the model invented a figure.
func verifyStrictAnswer(note string, answers []string) error {
	all := strings.Join(answers, "\n")
	for _, num := range numberTokens.FindAllString(note, -1) {
		num = strings.Trim(num, ",.:-")
		if num == "" {
			continue
		}
		if !strings.Contains(all, num) {
			return fmt.Errorf("note introduced a figure not present in the answer: %s", num)
		}
	}
	return nil
}
