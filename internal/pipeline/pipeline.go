// Package pipeline orchestrates one fact-check run: transcript fetch,
// formatting, LLM fact-check, claim alignment, and result persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/veritube/internal/cache"
	"github.com/ppiankov/veritube/internal/factcheck"
	"github.com/ppiankov/veritube/internal/model"
	"github.com/ppiankov/veritube/internal/store"
	"github.com/ppiankov/veritube/internal/transcript"
)

// Pipeline runs the fact-check flow for one video at a time. All
// external clients are injected so every stage is testable with fakes.
type Pipeline struct {
	fetcher transcript.Fetcher
	checker *factcheck.Checker
	store   *store.Store
	cache   cache.Cache // nil disables transcript caching
	verbose bool
}

// New creates a pipeline from its collaborators
func New(fetcher transcript.Fetcher, checker *factcheck.Checker, st *store.Store, c cache.Cache, verbose bool) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		checker: checker,
		store:   st,
		cache:   c,
		verbose: verbose,
	}
}

// Result describes the outcome of one pipeline run
type Result struct {
	VideoID          string
	Doc              *model.ResultDocument
	AlreadyProcessed bool // Result file existed; no fetch or LLM call was made
}

// ProcessVideo fact-checks one video by ID. If a result document
// already exists the run short-circuits successfully without touching
// the transcript source or the LLM.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoID string) (*Result, error) {
	if p.store.Exists(videoID) {
		if p.verbose {
			fmt.Fprintf(os.Stderr, "Video %s already processed, skipping\n", videoID)
		}
		return &Result{VideoID: videoID, AlreadyProcessed: true}, nil
	}

	cues, err := p.loadTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return p.run(ctx, videoID, cues)
}

// ProcessTranscript fact-checks a video from caller-supplied cues,
// bypassing transcript retrieval. Used when the transcript arrives
// embedded in the queue item itself.
func (p *Pipeline) ProcessTranscript(ctx context.Context, videoID string, cues []model.CaptionCue) (*Result, error) {
	if p.store.Exists(videoID) {
		if p.verbose {
			fmt.Fprintf(os.Stderr, "Video %s already processed, skipping\n", videoID)
		}
		return &Result{VideoID: videoID, AlreadyProcessed: true}, nil
	}

	return p.run(ctx, videoID, cues)
}

// run executes format -> fact-check -> align -> persist
func (p *Pipeline) run(ctx context.Context, videoID string, cues []model.CaptionCue) (*Result, error) {
	fullText, entries := transcript.Flatten(cues)
	if fullText == "" {
		return nil, fmt.Errorf("%w: empty transcript for %s", transcript.ErrUnavailable, videoID)
	}
	if p.verbose {
		fmt.Fprintf(os.Stderr, "Transcript length: %d characters\n", len(fullText))
	}

	claims, err := p.checker.Check(ctx, fullText)
	if err != nil {
		return nil, err
	}
	if p.verbose {
		fmt.Fprintf(os.Stderr, "Found %d claims to check\n", len(claims))
	}

	doc := &model.ResultDocument{
		VideoID: videoID,
		Claims:  factcheck.Align(claims, entries),
	}

	if err := p.store.Write(videoID, doc); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	if p.verbose {
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", p.store.Path(videoID))
	}

	return &Result{VideoID: videoID, Doc: doc}, nil
}

// loadTranscript returns cues from the cache when possible, fetching
// and caching them otherwise
func (p *Pipeline) loadTranscript(ctx context.Context, videoID string) ([]model.CaptionCue, error) {
	key := cache.Key(videoID)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cues []model.CaptionCue
			if err := json.Unmarshal(data, &cues); err == nil && len(cues) > 0 {
				return cues, nil
			}
			// Corrupt entry; drop it and refetch
			_ = p.cache.Delete(key)
		}
	}

	cues, err := p.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if data, err := json.Marshal(cues); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}

	return cues, nil
}
