package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/rules"
)

type stubSource struct {
	blocks map[string]string
}

func (s *stubSource) FactBlock(ctx context.Context, subject string) (string, error) {
	block, ok := s.blocks[strings.ToLower(subject)]
	if !ok {
		return "", fmt.Errorf("no page found for %q", subject)
	}
	return block, nil
}

func testEngine(t *testing.T, cfg *model.Config) *Engine {
	t.Helper()
	source := &stubSource{blocks: map[string]string{
		"ada lovelace": "Born(1815-12-10)10 December 1815 London, England",
	}}
	e, err := NewWithSource(cfg, source)
	if err != nil {
		t.Fatalf("NewWithSource: %v", err)
	}
	return e
}

func TestEngine_Answer(t *testing.T) {
	e := testEngine(t, model.DefaultConfig())

	result := e.Answer(context.Background(), "When was ada lovelace born?")
	if result.Outcome != rules.Answered {
		t.Fatalf("Expected answered, got %s", result.Outcome)
	}
	want := "ada lovelace was born on this date: 1815-12-10"
	if len(result.Answers) != 1 || result.Answers[0] != want {
		t.Errorf("Unexpected answers: %v", result.Answers)
	}

	result = e.Answer(context.Background(), "what is love")
	if result.Outcome != rules.NoMatch {
		t.Errorf("Expected no match, got %s", result.Outcome)
	}
	if len(result.Answers) != 1 || result.Answers[0] != rules.NoMatchAnswer {
		t.Errorf("Unexpected answers: %v", result.Answers)
	}

	result = e.Answer(context.Background(), "bye")
	if result.Outcome != rules.Exit {
		t.Errorf("Expected exit, got %s", result.Outcome)
	}
}

func TestEngine_CustomRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `version: 1
rules:
  - pattern: "What is the capital of %"
    template: 'Capital(?:\sand largest city)?[\n\s]*(?P<capital>[A-Z][\w\s-]+)'
    group: capital
    answer: "the capital of {subject} is {value}"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Rules.File = path

	e := testEngine(t, cfg)
	if e.Rules() != 8 {
		t.Errorf("Expected 8 rules with one custom addition, got %d", e.Rules())
	}
}

func TestEngine_BadRulesFile(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Rules.File = filepath.Join(t.TempDir(), "missing.yaml")

	source := &stubSource{}
	if _, err := NewWithSource(cfg, source); err == nil {
		t.Fatal("Expected error for missing rules file")
	}
}

func TestEngine_Elaborate_Disabled(t *testing.T) {
	e := testEngine(t, model.DefaultConfig())

	result := e.Answer(context.Background(), "When was ada lovelace born?")
	if note := e.Elaborate(context.Background(), "When was ada lovelace born?", result); note != nil {
		t.Error("Expected nil note when no provider is configured")
	}
}

func TestEngine_Elaborate_SkipsExit(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1:8b"
	cfg.LLM.BaseURL = "http://localhost:1" // Never dialed for an exit result
	cfg.LLM.Timeout = 1

	e := testEngine(t, cfg)

	result := e.Answer(context.Background(), "bye")
	if note := e.Elaborate(context.Background(), "bye", result); note != nil {
		t.Error("Expected nil note for session exit")
	}
}

func TestEngine_Elaborate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			_, _ = w.Write([]byte(`{"data": [{"id": "llama3.1:8b"}]}`))
		case "/v1/chat/completions":
			resp := openai.ChatCompletionResponse{
				Model: "llama3.1:8b",
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "The date is quoted from the page."}},
				},
				Usage: openai.Usage{TotalTokens: 42},
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1:8b"
	cfg.LLM.BaseURL = server.URL
	cfg.LLM.Timeout = 5

	e := testEngine(t, cfg)

	result := e.Answer(context.Background(), "When was ada lovelace born?")
	note := e.Elaborate(context.Background(), "When was ada lovelace born?", result)
	if note == nil {
		t.Fatal("Expected note from configured provider")
	}
	if !note.Enabled {
		t.Error("Expected note to be enabled")
	}
	if note.Text != "The date is quoted from the page." {
		t.Errorf("Unexpected note text: %s", note.Text)
	}
	if note.Provider != "ollama" {
		t.Errorf("Unexpected provider: %s", note.Provider)
	}
}

func TestWriteBatchReport(t *testing.T) {
	report := model.NewBatchReport(time.Now().Add(-time.Second), []model.QueryReport{
		{
			Question: "When was ada lovelace born",
			Outcome:  model.OutcomeAnswered,
			Answers:  []string{"ada lovelace was born on this date: 1815-12-10"},
			Elapsed:  12 * time.Millisecond,
		},
		{
			Question: "what is love",
			Outcome:  model.OutcomeNoMatch,
			Answers:  []string{"I don't understand"},
			Elapsed:  time.Millisecond,
		},
	})

	dir := t.TempDir()
	written, err := WriteBatchReport(report, dir, "both")
	if err != nil {
		t.Fatalf("WriteBatchReport: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 files, got %v", written)
	}

	jsonData, err := os.ReadFile(filepath.Join(dir, "answers.json"))
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	var decoded model.BatchReport
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if decoded.Total != 2 || decoded.Answered != 1 {
		t.Errorf("Unexpected totals: %+v", decoded)
	}

	mdData, err := os.ReadFile(filepath.Join(dir, "answers.md"))
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	md := string(mdData)
	for _, want := range []string{
		"# Delphia batch answers",
		"2 (1 answered, 0 failed)",
		"### 1. When was ada lovelace born",
		"> ada lovelace was born on this date: 1815-12-10",
		"- Outcome: no_match",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestWriteBatchReport_UnknownFormat(t *testing.T) {
	report := model.NewBatchReport(time.Now(), nil)
	if _, err := WriteBatchReport(report, t.TempDir(), "xml"); err == nil {
		t.Fatal("Expected error for unknown format")
	}
}
