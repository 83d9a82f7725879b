package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/delphia/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "delphia",
	Short: "Delphia - pattern-matched answers from wikipedia infoboxes",
	Long: `Delphia answers a fixed family of natural-language questions by reading
wikipedia infoboxes.

A question is tokenized and matched against an ordered table of wildcard
patterns ("when was % born"). The tokens bound by the wildcard name a
subject; the subject's page is fetched and a field is pulled out of its
infobox with a per-question template.

Delphia only repeats what the page says. It extracts, it does not infer.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Delphia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("delphia v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.delphia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.delphia")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DELPHIA_*
	viper.SetEnvPrefix("DELPHIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Known keys get explicit env bindings so DELPHIA_WIKI_ENDPOINT and
	// friends register as set
	for _, key := range []string{
		"wiki.endpoint",
		"wiki.search_limit",
		"wiki.respect_robots",
		"http.user_agent",
		"http.timeout",
		"cache.enabled",
		"cache.dir",
		"cache.ttl",
		"rules.file",
		"llm.provider",
		"llm.model",
		"llm.base_url",
		"concurrency.workers",
		"output.format",
		"output.dir",
	} {
		_ = viper.BindEnv(key)
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// applyViper overlays config-file and environment settings onto cfg. Flags
// are applied afterwards by the individual commands and win.
func applyViper(cfg *model.Config) {
	if viper.IsSet("wiki.endpoint") {
		cfg.Wiki.Endpoint = viper.GetString("wiki.endpoint")
	}
	if viper.IsSet("wiki.search_limit") {
		cfg.Wiki.SearchLimit = viper.GetInt("wiki.search_limit")
	}
	if viper.IsSet("wiki.rate_per_host") {
		cfg.Wiki.RatePerHost = viper.GetFloat64("wiki.rate_per_host")
	}
	if viper.IsSet("wiki.burst") {
		cfg.Wiki.Burst = viper.GetInt("wiki.burst")
	}
	if viper.IsSet("wiki.respect_robots") {
		cfg.Wiki.RespectRobots = viper.GetBool("wiki.respect_robots")
	}
	if viper.IsSet("http.timeout") {
		cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	}
	if viper.IsSet("http.user_agent") {
		cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	}
	if viper.IsSet("http.max_body_bytes") {
		cfg.HTTP.MaxBodyBytes = viper.GetInt64("http.max_body_bytes")
	}
	if viper.IsSet("http.http_proxy") {
		cfg.HTTP.HTTPProxy = viper.GetString("http.http_proxy")
	}
	if viper.IsSet("http.https_proxy") {
		cfg.HTTP.HTTPSProxy = viper.GetString("http.https_proxy")
	}
	if viper.IsSet("http.no_proxy") {
		cfg.HTTP.NoProxy = viper.GetString("http.no_proxy")
	}
	if viper.IsSet("http.insecure_tls") {
		cfg.HTTP.InsecureTLS = viper.GetBool("http.insecure_tls")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}
	if viper.IsSet("rules.file") {
		cfg.Rules.File = viper.GetString("rules.file")
	}
	if viper.IsSet("llm.provider") {
		cfg.LLM.Provider = viper.GetString("llm.provider")
	}
	if viper.IsSet("llm.model") {
		cfg.LLM.Model = viper.GetString("llm.model")
	}
	if viper.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = viper.GetString("llm.base_url")
	}
	if viper.IsSet("llm.timeout") {
		cfg.LLM.Timeout = viper.GetInt("llm.timeout")
	}
	if viper.IsSet("llm.max_tokens") {
		cfg.LLM.MaxTokens = viper.GetInt("llm.max_tokens")
	}
	if viper.IsSet("llm.strict_answer") {
		cfg.LLM.StrictAnswer = viper.GetBool("llm.strict_answer")
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.IsSet("output.format") {
		cfg.Output.Format = viper.GetString("output.format")
	}
	if viper.IsSet("output.dir") {
		cfg.Output.Dir = viper.GetString("output.dir")
	}
	cfg.Output.Verbose = viper.GetBool("verbose")
}
