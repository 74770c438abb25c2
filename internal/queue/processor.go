package queue

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/veritube/internal/model"
	"github.com/ppiankov/veritube/internal/pipeline"
)

// Runner is the pipeline capability the orchestrator drives. The
// concrete pipeline satisfies it; tests substitute a fake.
type Runner interface {
	ProcessVideo(ctx context.Context, videoID string) (*pipeline.Result, error)
	ProcessTranscript(ctx context.Context, videoID string, cues []model.CaptionCue) (*pipeline.Result, error)
}

// Outcome is the terminal state of one queue item
type Outcome int

const (
	OutcomeSkipped          Outcome = iota // Title does not match the prefix convention; no side effects
	OutcomeInvalidTitle                    // Prefix present but no video ID; commented and closed failed
	OutcomeAlreadyProcessed                // Result file existed; commented and closed completed
	OutcomeSucceeded                       // Pipeline ran; commented and closed completed
	OutcomeFailed                          // Pipeline or tracker error; closed failed when possible
)

// Comment templates reported back to issue submitters
const (
	invalidTitleComment = "❌ Invalid format. Title should be: `Fact-check: VIDEO_ID`"
	noTranscriptComment = "❌ No transcript found in issue. Please use the web app to create issues with transcripts."
	failureCommentFmt   = "❌ Failed to process video.\n\n**Error:** %s\n\n**Possible solutions:**\n- Check that the video ID is correct and captions are enabled\n- Try creating a new issue using the web app"
	successCommentFmt   = "✅ Fact-check complete! View results at: %s"
	alreadyCommentFmt   = "✅ Fact-check complete! Already processed.\n\nView results at: %s"
)

// Processor sweeps the issue queue and drives the pipeline per item.
// Items are processed strictly one at a time, in tracker order.
type Processor struct {
	tracker  Tracker
	runner   Runner
	failFast bool // Stop the sweep at the first failed item
	verbose  bool
}

// NewProcessor creates an issue-queue orchestrator
func NewProcessor(tracker Tracker, runner Runner, failFast, verbose bool) *Processor {
	return &Processor{
		tracker:  tracker,
		runner:   runner,
		failFast: failFast,
		verbose:  verbose,
	}
}

// Sweep processes every open queue item. In fail-fast mode the first
// failed item aborts the sweep immediately; otherwise all items are
// attempted and an aggregate error reports the failure count.
func (p *Processor) Sweep(ctx context.Context) (processed int, err error) {
	issues, err := p.tracker.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, issue := range issues {
		outcome := p.processItem(ctx, issue, false)
		switch outcome {
		case OutcomeSucceeded, OutcomeAlreadyProcessed:
			processed++
		case OutcomeFailed:
			failed++
			if p.failFast {
				return processed, fmt.Errorf("issue #%d failed, stopping sweep", issue.Number)
			}
		}
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
	}

	if failed > 0 {
		return processed, fmt.Errorf("%d of %d queue items failed", failed, failed+processed)
	}
	return processed, nil
}

// ProcessSingle processes one targeted issue by number. The transcript
// must be embedded in the issue body; an invalid title or missing
// payload is reported back and returned as an error so the run exits
// non-zero.
func (p *Processor) ProcessSingle(ctx context.Context, number int) error {
	issue, err := p.tracker.Get(ctx, number)
	if err != nil {
		return err
	}

	switch outcome := p.processItem(ctx, *issue, true); outcome {
	case OutcomeSkipped:
		return fmt.Errorf("issue #%d title does not match %q convention", number, TitlePrefix)
	case OutcomeInvalidTitle:
		return fmt.Errorf("issue #%d has no video ID in title", number)
	case OutcomeFailed:
		return fmt.Errorf("issue #%d failed", number)
	default:
		return nil
	}
}

// processItem runs the per-item state machine:
//
//	Pending -> Skipped | Invalid-Title-Closed | Already-Processed-Closed-Success
//	        -> Processing -> Closed-Success | Closed-Failed
func (p *Processor) processItem(ctx context.Context, issue Issue, requireEmbedded bool) Outcome {
	videoID, ok := ParseTitle(issue.Title)
	if !ok {
		return OutcomeSkipped
	}

	if videoID == "" {
		p.report(ctx, issue.Number, invalidTitleComment, LabelFailed)
		return OutcomeInvalidTitle
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "Processing issue #%d for video %s\n", issue.Number, videoID)
	}

	var res *pipeline.Result
	var err error
	if requireEmbedded {
		var cues []model.CaptionCue
		cues, err = TranscriptFromBody(issue.Body)
		if errors.Is(err, ErrNoTranscript) {
			p.report(ctx, issue.Number, noTranscriptComment, LabelFailed)
			return OutcomeFailed
		}
		if err == nil {
			res, err = p.runner.ProcessTranscript(ctx, videoID, cues)
		}
	} else {
		res, err = p.runner.ProcessVideo(ctx, videoID)
	}

	if err != nil {
		p.report(ctx, issue.Number, fmt.Sprintf(failureCommentFmt, err), LabelFailed)
		return OutcomeFailed
	}

	url := p.tracker.ResultsURL(videoID)
	if res.AlreadyProcessed {
		p.report(ctx, issue.Number, fmt.Sprintf(alreadyCommentFmt, url), LabelCompleted)
		return OutcomeAlreadyProcessed
	}

	p.report(ctx, issue.Number, fmt.Sprintf(successCommentFmt, url), LabelCompleted)
	return OutcomeSucceeded
}

// report posts the outcome comment and closes the issue with a label.
// Tracker errors here cannot be reported anywhere except stderr.
func (p *Processor) report(ctx context.Context, number int, comment, label string) {
	if err := p.tracker.Comment(ctx, number, comment); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: comment on issue #%d failed: %v\n", number, err)
	}
	if err := p.tracker.Close(ctx, number, label); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: close issue #%d failed: %v\n", number, err)
	}
}
