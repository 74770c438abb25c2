package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [video-id]",
	Short: "Fact-check a single YouTube video",
	Long: `Check retrieves the caption transcript for one video, fact-checks it
with an LLM, aligns the returned claims to transcript timestamps, and
writes results/<video-id>.json.

The video ID comes from the argument or the VIDEO_ID environment
variable. If a result file already exists the run short-circuits
without calling the transcript source or the LLM.

Example:
  veritube check dQw4w9WgXcQ
  VIDEO_ID=dQw4w9WgXcQ veritube check
  veritube check dQw4w9WgXcQ --llm-provider ollama --llm-model llama3.2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addPipelineFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	videoID := os.Getenv("VIDEO_ID")
	if len(args) == 1 {
		videoID = args[0]
	}
	if videoID == "" {
		return fmt.Errorf("video ID required: pass it as an argument or set VIDEO_ID")
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, _, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processing video: %s\n", videoID)

	res, err := p.ProcessVideo(context.Background(), videoID)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if res.AlreadyProcessed {
		fmt.Printf("Video %s already processed\n", videoID)
		return nil
	}

	fmt.Printf("✓ Fact-checked %s: %d claims\n", videoID, len(res.Doc.Claims))
	return nil
}
