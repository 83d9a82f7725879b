package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/delphia/internal/util"
)

// OllamaProvider implements the Provider interface for Ollama local models.
// Ollama exposes an OpenAI-compatible API under /v1, so the same client
// library serves both providers.
type OllamaProvider struct {
	baseURL string
	client  *openai.Client
	config  Config
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow to load
	}

	// Ollama ignores the token but the client requires one
	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL + "/v1"
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OllamaProvider{
		baseURL: baseURL,
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that an Ollama server answers at the base URL
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ollama availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	return true
}

// Elaborate generates a note using a local Ollama model
func (p *OllamaProvider) Elaborate(ctx context.Context, req ElaborateRequest) (*ElaborateResponse, error) {
	prompt := BuildPrompt(req.Question, req.Answers)

	// Determine model
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	// Determine max tokens
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 400
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a careful assistant that rephrases template-extracted answers without altering the extracted values.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from Ollama")
	}

	note := strings.TrimSpace(resp.Choices[0].Message.Content)

	if p.config.StrictAnswer {
		if err := verifyStrictAnswer(note, req.Answers); err != nil {
			return nil, err
		}
	}

	// Some local models report zero usage; estimate from text length then
	tokensUsed := resp.Usage.TotalTokens
	if tokensUsed == 0 {
		tokensUsed = (len(prompt) + len(note)) / 4
	}

	return &ElaborateResponse{
		Text:       note,
		Model:      model,
		TokensUsed: tokensUsed,
	}, nil
}
