// Package queue drives the fact-check pipeline from an issue tracker:
// open issues titled "Fact-check: VIDEO_ID" are processed one at a time
// and the outcome is reported back as comments, labels, and state.
package queue

import "context"

// Issue is one fact-check request from the tracker
type Issue struct {
	Number int
	Title  string
	Body   string
	State  string
	Labels []string
}

// Labels applied when an issue is closed
const (
	LabelCompleted = "completed"
	LabelFailed    = "failed"
)

// Tracker is the issue-tracker capability the orchestrator needs.
// Implementations mutate remote state; tests substitute a fake.
type Tracker interface {
	// ListOpen returns all open issues, in tracker order
	ListOpen(ctx context.Context) ([]Issue, error)

	// Get returns a single issue by number
	Get(ctx context.Context, number int) (*Issue, error)

	// Comment posts a comment on an issue
	Comment(ctx context.Context, number int, body string) error

	// Close closes an issue and applies the given label
	Close(ctx context.Context, number int, label string) error

	// ResultsURL builds the results-viewer URL for a processed video
	ResultsURL(videoID string) string
}
