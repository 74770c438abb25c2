package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/ppiankov/veritube/internal/worker"
)

// GitHubTracker implements Tracker on the GitHub Issues API
type GitHubTracker struct {
	client  *github.Client
	owner   string
	repo    string
	limiter *worker.Limiter // may be nil
}

// NewGitHubTracker creates a tracker for "owner/repo". The client is
// injected so tests can point it at a fake server.
func NewGitHubTracker(client *github.Client, repository string, limiter *worker.Limiter) (*GitHubTracker, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q (want owner/repo)", repository)
	}

	return &GitHubTracker{
		client:  client,
		owner:   owner,
		repo:    repo,
		limiter: limiter,
	}, nil
}

// ListOpen returns all open issues in the repository. Pull requests
// share the issues API and are filtered out.
func (t *GitHubTracker) ListOpen(ctx context.Context) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var issues []Issue
	for {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := t.client.Issues.ListByRepo(ctx, t.owner, t.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}

		for _, is := range page {
			if is.IsPullRequest() {
				continue
			}
			issues = append(issues, fromGitHub(is))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// Get returns a single issue by number
func (t *GitHubTracker) Get(ctx context.Context, number int) (*Issue, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}

	is, _, err := t.client.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return nil, fmt.Errorf("get issue #%d: %w", number, err)
	}

	issue := fromGitHub(is)
	return &issue, nil
}

// Comment posts a comment on an issue
func (t *GitHubTracker) Comment(ctx context.Context, number int, body string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}

	_, _, err := t.client.Issues.CreateComment(ctx, t.owner, t.repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("comment on issue #%d: %w", number, err)
	}
	return nil
}

// Close closes an issue and applies the given label
func (t *GitHubTracker) Close(ctx context.Context, number int, label string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}

	req := &github.IssueRequest{State: github.String("closed")}
	if label != "" {
		req.Labels = &[]string{label}
	}

	_, _, err := t.client.Issues.Edit(ctx, t.owner, t.repo, number, req)
	if err != nil {
		return fmt.Errorf("close issue #%d: %w", number, err)
	}
	return nil
}

// ResultsURL builds the Pages viewer URL for a processed video
func (t *GitHubTracker) ResultsURL(videoID string) string {
	return fmt.Sprintf("https://%s.github.io/%s/?v=%s", t.owner, t.repo, videoID)
}

// wait applies API pacing when a limiter is configured
func (t *GitHubTracker) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx, t.client.BaseURL.String())
}

// fromGitHub flattens a go-github issue into the queue shape
func fromGitHub(is *github.Issue) Issue {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.GetName())
	}

	return Issue{
		Number: is.GetNumber(),
		Title:  is.GetTitle(),
		Body:   is.GetBody(),
		State:  is.GetState(),
		Labels: labels,
	}
}
