package transcript

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ppiankov/veritube/internal/model"
)

// fakeFetcher implements Fetcher for chain tests
type fakeFetcher struct {
	cues  []model.CaptionCue
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionCue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cues, nil
}

func TestChain_FirstBackendWins(t *testing.T) {
	primary := &fakeFetcher{cues: []model.CaptionCue{{Start: 0, Text: "from primary"}}}
	secondary := &fakeFetcher{cues: []model.CaptionCue{{Start: 0, Text: "from secondary"}}}

	chain := NewChain(primary, secondary)
	cues, err := chain.Fetch(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if cues[0].Text != "from primary" {
		t.Errorf("expected primary result, got %q", cues[0].Text)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called when primary succeeds")
	}
}

func TestChain_FallsBack(t *testing.T) {
	primary := &fakeFetcher{err: fmt.Errorf("%w: captions disabled", ErrUnavailable)}
	secondary := &fakeFetcher{cues: []model.CaptionCue{{Start: 2, Text: "from secondary"}}}

	chain := NewChain(primary, secondary)
	cues, err := chain.Fetch(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if cues[0].Text != "from secondary" {
		t.Errorf("expected secondary result, got %q", cues[0].Text)
	}
}

func TestChain_AllFail(t *testing.T) {
	primary := &fakeFetcher{err: fmt.Errorf("%w: captions disabled", ErrUnavailable)}
	secondary := &fakeFetcher{err: fmt.Errorf("%w: yt-dlp missing", ErrUnavailable)}

	chain := NewChain(primary, secondary)
	_, err := chain.Fetch(context.Background(), "abc")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected both backends attempted once, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChain_Empty(t *testing.T) {
	chain := NewChain()
	_, err := chain.Fetch(context.Background(), "abc")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestChain_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeFetcher{err: fmt.Errorf("%w: slow", ErrUnavailable)}
	secondary := &fakeFetcher{cues: []model.CaptionCue{{Text: "late"}}}

	cancel()
	chain := NewChain(primary, secondary)
	_, err := chain.Fetch(ctx, "abc")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not run after cancellation")
	}
}
