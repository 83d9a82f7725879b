package llm

import (
	"strings"
	"testing"
)

func TestBuildPrompt_BasicStructure(t *testing.T) {
	prompt := BuildPrompt("When was harvard university established", []string{
		"harvard university was established in October 28, 1636",
	})

	requiredElements := []string{
		"RULES:",
		"The answer below is final",
		"DO NOT add dates, figures, or facts",
		"Question: When was harvard university established",
		"harvard university was established in October 28, 1636",
		"one or two sentences",
	}

	for _, element := range requiredElements {
		if !strings.Contains(prompt, element) {
			t.Errorf("Expected prompt to contain '%s'", element)
		}
	}
}

func TestBuildPrompt_NoAnswers(t *testing.T) {
	prompt := BuildPrompt("anything", nil)

	if !strings.Contains(prompt, "(no answer)") {
		t.Error("Expected placeholder for missing answers")
	}
}

func TestBuildPrompt_MultipleAnswers(t *testing.T) {
	prompt := BuildPrompt("q", []string{"first answer", "second answer"})

	if !strings.Contains(prompt, "first answer\nsecond answer") {
		t.Error("Expected answers joined by newlines")
	}
}

func TestVerifyStrictAnswer(t *testing.T) {
	answers := []string{"quebec has a population of 8,501,833"}

	cases := []struct {
		name    string
		note    string
		wantErr bool
	}{
		{"no numbers", "That figure comes from the infobox.", false},
		{"number repeated", "The population figure 8,501,833 is from the latest census row.", false},
		{"number with trailing period", "The page lists 8,501,833.", false},
		{"invented number", "Roughly 8.5 million people, up 2.1% since 2016.", true},
		{"partial match counts", "The 833 at the end is part of the figure.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := verifyStrictAnswer(tc.note, answers)
			if tc.wantErr && err == nil {
				t.Error("Expected strict answer violation")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no violation, got %v", err)
			}
		})
	}
}

func TestVerifyStrictAnswer_Dates(t *testing.T) {
	answers := []string{"ada lovelace was born on this date: 1815-12-10"}

	if err := verifyStrictAnswer("Her birth date was 1815-12-10.", answers); err != nil {
		t.Errorf("Expected hyphenated date to verify, got %v", err)
	}

	err := verifyStrictAnswer("She was born on 1815-12-11.", answers)
	if err == nil {
		t.Error("Expected violation for altered date")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Errorf("Expected provider to be empty (disabled), got '%s'", config.Provider)
	}

	if !config.StrictAnswer {
		t.Error("Expected strict answer mode to be enabled by default")
	}

	if config.Timeout <= 0 {
		t.Error("Expected positive timeout")
	}

	if config.MaxTokens <= 0 {
		t.Error("Expected positive max tokens")
	}
}
