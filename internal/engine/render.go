package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/delphia/internal/model"
)

// WriteBatchReport renders report into dir in the requested format ("json",
// "markdown" or "both") and returns the paths it wrote.
func WriteBatchReport(report *model.BatchReport, dir, format string) ([]string, error) {
	wantJSON := format == "json" || format == "both"
	wantMD := format == "markdown" || format == "md" || format == "both"
	if !wantJSON && !wantMD {
		return nil, fmt.Errorf("unknown output format: %s (supported: json, markdown, both)", format)
	}

	var written []string

	if wantJSON {
		path := filepath.Join(dir, "answers.json")
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return written, fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("write JSON: %w", err)
		}
		written = append(written, path)
	}

	if wantMD {
		path := filepath.Join(dir, "answers.md")
		if err := os.WriteFile(path, []byte(renderMarkdown(report)), 0644); err != nil {
			return written, fmt.Errorf("write markdown: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func renderMarkdown(report *model.BatchReport) string {
	var b strings.Builder

	b.WriteString("# Delphia batch answers\n\n")
	fmt.Fprintf(&b, "- Started: %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- Questions: %d (%d answered, %d failed)\n\n", report.Total, report.Answered, report.Failed)

	b.WriteString("## Results\n\n")
	for i, r := range report.Reports {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, r.Question)
		fmt.Fprintf(&b, "- Outcome: %s\n", r.Outcome)
		fmt.Fprintf(&b, "- Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(&b, "- Error: %s\n", r.Error)
		}
		b.WriteString("\n")
		for _, answer := range r.Answers {
			fmt.Fprintf(&b, "> %s\n", answer)
		}
		b.WriteString("\n")
	}

	return b.String()
}
