package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// issueCmd represents the issue command
var issueCmd = &cobra.Command{
	Use:   "issue [number]",
	Short: "Process a single fact-check issue with an embedded transcript",
	Long: `Issue processes one targeted GitHub issue. The issue title must be
"Fact-check: VIDEO_ID" and the body must contain the transcript as a
fenced code block tagged json holding an array of {start, text}
objects (the companion web intake creates issues in this shape).

The issue number comes from the argument or the ISSUE_NUMBER
environment variable. Requires GITHUB_TOKEN, GITHUB_REPOSITORY, and
the LLM provider's credentials.

Example:
  ISSUE_NUMBER=42 veritube issue
  veritube issue 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIssue,
}

func init() {
	rootCmd.AddCommand(issueCmd)
	addPipelineFlags(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	raw := os.Getenv("ISSUE_NUMBER")
	if len(args) == 1 {
		raw = args[0]
	}
	if raw == "" {
		return fmt.Errorf("issue number required: pass it as an argument or set ISSUE_NUMBER")
	}

	number, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid issue number %q: %w", raw, err)
	}

	proc, err := newProcessor()
	if err != nil {
		return err
	}

	if err := proc.ProcessSingle(context.Background(), number); err != nil {
		return err
	}

	fmt.Printf("✓ Processed issue #%d\n", number)
	return nil
}
