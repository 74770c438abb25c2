package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritube/internal/cache"
	"github.com/ppiankov/veritube/internal/factcheck"
	"github.com/ppiankov/veritube/internal/llm"
	"github.com/ppiankov/veritube/internal/model"
	"github.com/ppiankov/veritube/internal/pipeline"
	"github.com/ppiankov/veritube/internal/store"
	"github.com/ppiankov/veritube/internal/transcript"
	"github.com/ppiankov/veritube/internal/worker"
)

// Flags shared by the run-mode subcommands
var (
	resultsDir  string
	noCache     bool
	httpTimeout time.Duration
	llmProvider string
	llmModel    string
	ytdlpPath   string
)

// addPipelineFlags registers the flags every pipeline-running command takes
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&resultsDir, "results-dir", "results", "directory for result JSON files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable transcript cache (force fresh fetch)")
	cmd.Flags().DurationVar(&httpTimeout, "timeout", 30*time.Second, "HTTP timeout for caption fetches")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	cmd.Flags().StringVar(&ytdlpPath, "ytdlp-path", "yt-dlp", "path to the yt-dlp executable (fallback caption backend)")
}

// buildConfig assembles the runtime configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Results.Dir = resultsDir
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	if httpTimeout > 0 {
		cfg.HTTP.Timeout = httpTimeout
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// newPipeline wires a pipeline from configuration: LLM provider,
// caption backends with fallback, transcript cache, and result store.
// The returned limiter is shared so queue commands pace the issue
// tracker with the same policy.
func newPipeline(cfg *model.Config) (*pipeline.Pipeline, *worker.Limiter, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, err
	}
	if provider == nil {
		return nil, nil, fmt.Errorf("an LLM provider is required (--llm-provider openai|ollama)")
	}

	checker := factcheck.NewChecker(provider, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	limiter := worker.NewLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)

	fetcher := transcript.NewChain(
		transcript.NewInnertubeFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, limiter),
		// yt-dlp shells out and is slower than a direct fetch
		transcript.NewYtdlpFetcher(ytdlpPath, 2*cfg.HTTP.Timeout),
	)

	var transcriptCache cache.Cache
	if cfg.Cache.Enabled {
		transcriptCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return pipeline.New(fetcher, checker, store.New(cfg.Results.Dir), transcriptCache, cfg.Output.Verbose), limiter, nil
}
