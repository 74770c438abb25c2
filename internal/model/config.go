package model

import "time"

// Config holds the complete veritube configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Cache   CacheConfig   `yaml:"cache"`
	Results ResultsConfig `yaml:"results"`
	Queue   QueueConfig   `yaml:"queue"`
	Output  OutputConfig  `yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior for captions fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Per-host pacing for external APIs
	Burst             int           `yaml:"burst"`
}

// LLMConfig configures the fact-checking backend
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai", "ollama"
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"-"` // Never persisted; from OPENAI_API_KEY
	BaseURL     string  `yaml:"base_url"`
	Timeout     int     `yaml:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// CacheConfig controls the transcript cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ResultsConfig controls where result documents are written
type ResultsConfig struct {
	Dir string `yaml:"dir"`
}

// QueueConfig controls issue-queue processing
type QueueConfig struct {
	TitlePrefix string `yaml:"title_prefix"`
	FailFast    bool   `yaml:"fail_fast"` // Stop the sweep on the first failed item
}

// OutputConfig controls diagnostics
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Veritube/0.1 (+https://github.com/ppiankov/veritube)",
			RequestsPerSecond: 2,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60,
			MaxTokens:   2000,
			Temperature: 0.3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cache/transcripts",
			TTL:     7 * 24 * time.Hour,
		},
		Results: ResultsConfig{
			Dir: "results",
		},
		Queue: QueueConfig{
			TitlePrefix: "Fact-check:",
			FailFast:    false,
		},
	}
}
