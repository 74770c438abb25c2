package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v66/github"
	"github.com/spf13/cobra"

	"github.com/ppiankov/veritube/internal/queue"
)

var failFast bool

// queueCmd represents the queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Process all open fact-check issues in a GitHub repository",
	Long: `Queue sweeps the open issues of a GitHub repository. Issues titled
"Fact-check: VIDEO_ID" are processed one at a time, in listing order;
everything else is ignored. Each processed issue is commented, closed,
and labeled completed or failed.

Requires GITHUB_TOKEN, GITHUB_REPOSITORY (owner/repo), and the LLM
provider's credentials (OPENAI_API_KEY for openai).

By default every item is attempted and the command exits non-zero if
any item failed. With --fail-fast the sweep stops at the first failure.

Example:
  GITHUB_TOKEN=... GITHUB_REPOSITORY=owner/repo veritube queue
  veritube queue --fail-fast`,
	Args: cobra.NoArgs,
	RunE: runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
	addPipelineFlags(queueCmd)
	queueCmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop the sweep at the first failed item")
}

func runQueue(cmd *cobra.Command, args []string) error {
	proc, err := newProcessor()
	if err != nil {
		return err
	}

	processed, err := proc.Sweep(context.Background())
	fmt.Printf("Processed %d videos\n", processed)
	return err
}

// newProcessor wires the pipeline and the GitHub tracker from environment
func newProcessor() (*queue.Processor, error) {
	token := os.Getenv("GITHUB_TOKEN")
	repository := os.Getenv("GITHUB_REPOSITORY")

	var missing []string
	if token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if repository == "" {
		missing = append(missing, "GITHUB_REPOSITORY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	cfg.Queue.FailFast = failFast

	p, limiter, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil).WithAuthToken(token)
	tracker, err := queue.NewGitHubTracker(client, repository, limiter)
	if err != nil {
		return nil, err
	}

	return queue.NewProcessor(tracker, p, cfg.Queue.FailFast, cfg.Output.Verbose), nil
}
