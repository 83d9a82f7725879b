package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full runtime configuration, assembled from defaults, the
// config file, DELPHIA_* environment variables and command-line flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Wiki        WikiConfig        `yaml:"wiki" json:"wiki"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Rules       RulesConfig       `yaml:"rules" json:"rules"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig controls the outbound HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
}

// WikiConfig points the fact source at a MediaWiki site.
type WikiConfig struct {
	Endpoint      string  `yaml:"endpoint" json:"endpoint"`
	SearchLimit   int     `yaml:"search_limit" json:"search_limit"`
	RatePerHost   float64 `yaml:"rate_per_host" json:"rate_per_host"`
	Burst         int     `yaml:"burst" json:"burst"`
	RespectRobots bool    `yaml:"respect_robots" json:"respect_robots"`
}

// CacheConfig controls fact block caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// RulesConfig points at an optional file of extra question rules.
type RulesConfig struct {
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// LLMConfig configures optional answer elaboration. The API key is never
// serialized; it comes from the environment.
type LLMConfig struct {
	Provider     string `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model        string `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey       string `yaml:"-" json:"-"`
	BaseURL      string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout      int    `yaml:"timeout" json:"timeout"`
	MaxTokens    int    `yaml:"max_tokens" json:"max_tokens"`
	StrictAnswer bool   `yaml:"strict_answer" json:"strict_answer"`
}

// ConcurrencyConfig bounds batch fan-out.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// OutputConfig controls what gets printed and where reports land.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose"`
	Format  string `yaml:"format" json:"format"`
	Dir     string `yaml:"dir" json:"dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Delphia/0.1 (+https://github.com/ppiankov/delphia)",
			MaxBodyBytes: 4_000_000,
		},
		Wiki: WikiConfig{
			Endpoint:      "https://en.wikipedia.org",
			SearchLimit:   5,
			RatePerHost:   2,
			Burst:         4,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCacheDir(),
			TTL:     24 * time.Hour,
		},
		LLM: LLMConfig{
			Timeout:      30,
			MaxTokens:    400,
			StrictAnswer: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "json",
			Dir:    "./delphia-answers",
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".delphia-cache"
	}
	return filepath.Join(home, ".delphia", "cache")
}
