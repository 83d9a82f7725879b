package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/delphia/internal/engine"
	"github.com/ppiankov/delphia/internal/model"
	"github.com/ppiankov/delphia/internal/rules"
)

var (
	endpoint    string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	cacheDir    string
	rulesFile   string
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Answer a single question and exit",
	Long: `Ask answers one question against the rule table and prints the answers.

The question does not need quoting; all arguments are joined.

Example:
  delphia ask when was ada lovelace born
  delphia ask "What is the population of Quebec?"
  delphia ask what year was illinois established --llm --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	addQueryFlags(askCmd)
}

// addQueryFlags registers the flags shared by the question-answering
// commands. Only one command runs per invocation, so they share backing
// variables.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&endpoint, "endpoint", "https://en.wikipedia.org", "MediaWiki site to read from")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall question timeout (covers search, fetch and retries)")
	cmd.Flags().StringVar(&userAgent, "ua", "Delphia/0.1 (+https://github.com/ppiankov/delphia)", "HTTP User-Agent")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default: ~/.delphia/cache)")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "YAML file with extra question rules")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "elaborate answers with an LLM note")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

// queryConfig assembles the runtime configuration: defaults, then config
// file and environment, then flags.
func queryConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	applyViper(cfg)

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Wiki.Endpoint = endpoint
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = cacheDir
	}
	if flags.Changed("rules-file") {
		cfg.Rules.File = rulesFile
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}

	return cfg, nil
}

// resolveLLMKey fills the provider credential from the environment. API keys
// always come from the environment, never from flags or files.
func resolveLLMKey(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := queryConfig(cmd)
	if err != nil {
		return err
	}
	if err := resolveLLMKey(cfg); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Question: %s\n", question)
		fmt.Fprintf(os.Stderr, "Endpoint: %s\n", cfg.Wiki.Endpoint)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	out := cmd.OutOrStdout()

	result := eng.Answer(ctx, question)
	if result.Outcome == rules.Exit {
		fmt.Fprintln(out, "So long!")
		return nil
	}

	for _, answer := range result.Answers {
		fmt.Fprintln(out, answer)
	}

	if note := eng.Elaborate(ctx, question, result); note != nil {
		if note.Text != "" {
			fmt.Fprintf(out, "\n[%s] %s\n", note.Provider, note.Text)
		}
		if verbose {
			for _, w := range note.Warnings {
				fmt.Fprintf(os.Stderr, "note: %s\n", w)
			}
		}
	}

	return nil
}
