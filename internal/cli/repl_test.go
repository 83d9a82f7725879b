package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/delphia/internal/engine"
	"github.com/ppiankov/delphia/internal/model"
)

type fakeSource struct {
	blocks map[string]string
}

func (s *fakeSource) FactBlock(ctx context.Context, subject string) (string, error) {
	block, ok := s.blocks[strings.ToLower(subject)]
	if !ok {
		return "", fmt.Errorf("no page found for %q", subject)
	}
	return block, nil
}

func sessionEngine(t *testing.T) *engine.Engine {
	t.Helper()
	source := &fakeSource{blocks: map[string]string{
		"ada lovelace":       "Born(1815-12-10)10 December 1815 London, England",
		"harvard university": "Established\nOctober 28, 1636; 388 years ago(1636-10-28)",
	}}
	eng, err := engine.NewWithSource(model.DefaultConfig(), source)
	if err != nil {
		t.Fatalf("NewWithSource: %v", err)
	}
	return eng
}

func TestRunSession_Transcript(t *testing.T) {
	eng := sessionEngine(t)

	in := strings.NewReader("when was ada lovelace born?\nwhat is love\nbye\n")
	var out bytes.Buffer

	if err := runSession(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}

	want := "Welcome to the wikipedia database!\n\n" +
		"\nYour query? ada lovelace was born on this date: 1815-12-10\n" +
		"\nYour query? I don't understand\n" +
		"\nYour query? " +
		"\nSo long!\n\n"
	if got := out.String(); got != want {
		t.Errorf("unexpected transcript:\n%q\nwant:\n%q", got, want)
	}
}

func TestRunSession_FarewellOnEOF(t *testing.T) {
	eng := sessionEngine(t)

	// No terminal question; the input just ends.
	in := strings.NewReader("when was harvard university established?\n")
	var out bytes.Buffer

	if err := runSession(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "harvard university was established in October 28, 1636\n") {
		t.Errorf("expected establishment answer in transcript, got %q", got)
	}
	if !strings.HasSuffix(got, "\nSo long!\n\n") {
		t.Errorf("expected farewell after end of input, got %q", got)
	}
}

func TestRunSession_PreservesQuestionCasing(t *testing.T) {
	eng := sessionEngine(t)

	in := strings.NewReader("When was Ada Lovelace born?\nbye\n")
	var out bytes.Buffer

	if err := runSession(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}

	if !strings.Contains(out.String(), "Ada Lovelace was born on this date: 1815-12-10\n") {
		t.Errorf("expected answer to echo the asker's casing, got %q", out.String())
	}
}

func TestRunSession_EmptyLineIsAQuestion(t *testing.T) {
	eng := sessionEngine(t)

	in := strings.NewReader("\nbye\n")
	var out bytes.Buffer

	if err := runSession(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}

	if !strings.Contains(out.String(), "I don't understand\n") {
		t.Errorf("expected empty input to reach the fallback answer, got %q", out.String())
	}
}

func TestRunSession_LookupFailureKeepsSessionAlive(t *testing.T) {
	eng := sessionEngine(t)

	in := strings.NewReader("when was atlantis established?\nbye\n")
	var out bytes.Buffer

	if err := runSession(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("runSession: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `no page found for "atlantis"`) {
		t.Errorf("expected the lookup error as the answer, got %q", got)
	}
	if !strings.HasSuffix(got, "\nSo long!\n\n") {
		t.Errorf("expected the session to continue to the farewell, got %q", got)
	}
}
