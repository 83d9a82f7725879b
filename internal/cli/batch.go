package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/delphia/internal/engine"
	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/worker"
)

var (
	concurrency     int
	outputDir       string
	outputFormat    string
	batchTimeout    time.Duration
	questionTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer questions from a file in parallel",
	Long: `Batch answers many questions concurrently:
- Read questions from input file (one per line, # comments skipped)
- Dispatch questions in parallel with configurable worker count
- Collect per-question outcomes into one report
- Write the report as JSON, Markdown or both

Example:
  delphia batch questions.txt
  delphia batch questions.txt --concurrency 10 --output-dir ./answers
  delphia batch questions.txt --format both --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency and output flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./delphia-answers", "output directory for the report")
	batchCmd.Flags().StringVar(&outputFormat, "format", "json", "report format (json, markdown, both)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&questionTimeout, "question-timeout", 30*time.Second, "HTTP timeout for individual requests")

	// Source flags shared with ask and repl
	batchCmd.Flags().StringVar(&endpoint, "endpoint", "https://en.wikipedia.org", "MediaWiki site to read from")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Delphia/0.1 (+https://github.com/ppiankov/delphia)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: ~/.delphia/cache)")
	batchCmd.Flags().StringVar(&rulesFile, "rules-file", "", "YAML file with extra question rules")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := queryConfig(cmd)
	if err != nil {
		return err
	}
	// Batch reports are deterministic; elaboration stays off even when the
	// config file enables it.
	cfg.LLM.Provider = ""

	if cmd.Flags().Changed("question-timeout") {
		cfg.HTTP.Timeout = questionTimeout
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Delphia Batch Answers\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(eng, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Reading questions from file...\n")
	start := time.Now()
	reports, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Dispatched %d questions with %d workers\n", len(reports), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	for _, report := range reports {
		marker := "✓"
		if report.Outcome != model.OutcomeAnswered {
			marker = "✗"
		}
		answer := ""
		if len(report.Answers) > 0 {
			answer = report.Answers[0]
		}
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", marker, report.Question, answer)
	}

	batch := model.NewBatchReport(start, reports)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	written, err := engine.WriteBatchReport(batch, cfg.Output.Dir, cfg.Output.Format)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d questions\n", batch.Total)
	fmt.Fprintf(os.Stderr, "  Answered:  %d\n", batch.Answered)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", batch.Failed)
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "  Report:    %s\n", path)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
