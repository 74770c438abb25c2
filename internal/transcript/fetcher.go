package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/veritube/internal/model"
)

// ErrUnavailable indicates that no usable caption transcript exists for
// a video: captions disabled, no track in an allowed language, or a
// definitive fetch failure. Callers must treat this as a hard failure,
// never as partial success.
var ErrUnavailable = errors.New("transcript unavailable")

// DefaultLanguages is the allowed caption language set, in preference order.
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

// Fetcher obtains an ordered, non-empty caption cue sequence for a video ID
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]model.CaptionCue, error)
}

// Chain tries each backend in order until one returns cues. Failures are
// collected so the final error names every backend that was attempted.
type Chain struct {
	fetchers []Fetcher
}

// NewChain creates a fallback chain over the given backends
func NewChain(fetchers ...Fetcher) *Chain {
	return &Chain{fetchers: fetchers}
}

// Fetch returns cues from the first backend that succeeds
func (c *Chain) Fetch(ctx context.Context, videoID string) ([]model.CaptionCue, error) {
	if len(c.fetchers) == 0 {
		return nil, fmt.Errorf("%w: no caption backends configured", ErrUnavailable)
	}

	var errs []error
	for _, f := range c.fetchers {
		cues, err := f.Fetch(ctx, videoID)
		if err == nil {
			return cues, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("%w: all backends failed: %v", ErrUnavailable, errors.Join(errs...))
}
