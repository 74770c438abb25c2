package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
)

// newTestTracker points a GitHubTracker at a local fake API
func newTestTracker(t *testing.T, handler http.Handler) *GitHubTracker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	client.BaseURL = base

	tracker, err := NewGitHubTracker(client, "owner/repo", nil)
	if err != nil {
		t.Fatalf("NewGitHubTracker failed: %v", err)
	}
	return tracker
}

func TestNewGitHubTracker_RepositoryFormat(t *testing.T) {
	client := github.NewClient(nil)

	for _, bad := range []string{"", "noslash", "/repo", "owner/"} {
		if _, err := NewGitHubTracker(client, bad, nil); err == nil {
			t.Errorf("expected error for repository %q", bad)
		}
	}
	if _, err := NewGitHubTracker(client, "owner/repo", nil); err != nil {
		t.Errorf("valid repository rejected: %v", err)
	}
}

func TestGitHubTracker_ListOpen(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/issues", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("state query = %q, want open", got)
		}
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			fmt.Fprint(w, `[
				{"number": 1, "title": "Fact-check: vid001", "body": "b", "state": "open"},
				{"number": 2, "title": "A pull request", "state": "open", "pull_request": {"url": "x"}}
			]`)
			return
		}
		fmt.Fprint(w, `[{"number": 3, "title": "Fact-check: vid002", "state": "open", "labels": [{"name": "queued"}]}]`)
	})

	tracker := newTestTracker(t, mux)

	issues, err := tracker.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (pull request filtered)", len(issues))
	}
	if issues[0].Number != 1 || issues[1].Number != 3 {
		t.Errorf("issues = %+v", issues)
	}
	if len(issues[1].Labels) != 1 || issues[1].Labels[0] != "queued" {
		t.Errorf("labels = %v", issues[1].Labels)
	}
}

func TestGitHubTracker_CommentAndClose(t *testing.T) {
	var commentBody string
	var editReq map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Body string `json:"body"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		commentBody = payload.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})
	mux.HandleFunc("/repos/owner/repo/issues/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&editReq)
		fmt.Fprint(w, `{"number": 5, "state": "closed"}`)
	})

	tracker := newTestTracker(t, mux)
	ctx := context.Background()

	if err := tracker.Comment(ctx, 5, "✅ done"); err != nil {
		t.Fatalf("Comment failed: %v", err)
	}
	if commentBody != "✅ done" {
		t.Errorf("comment body = %q", commentBody)
	}

	if err := tracker.Close(ctx, 5, LabelCompleted); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if editReq["state"] != "closed" {
		t.Errorf("edit state = %v", editReq["state"])
	}
	labels, ok := editReq["labels"].([]any)
	if !ok || len(labels) != 1 || labels[0] != LabelCompleted {
		t.Errorf("edit labels = %v", editReq["labels"])
	}
}

func TestGitHubTracker_Get(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/issues/9", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 9, "title": "Fact-check: vid042", "body": "payload", "state": "open"}`)
	})

	tracker := newTestTracker(t, mux)

	issue, err := tracker.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if issue.Number != 9 || issue.Title != "Fact-check: vid042" || issue.Body != "payload" {
		t.Errorf("issue = %+v", issue)
	}
}

func TestGitHubTracker_ResultsURL(t *testing.T) {
	tracker, err := NewGitHubTracker(github.NewClient(nil), "someuser/factcheck", nil)
	if err != nil {
		t.Fatalf("NewGitHubTracker failed: %v", err)
	}
	got := tracker.ResultsURL("dQw4w9WgXcQ")
	want := "https://someuser.github.io/factcheck/?v=dQw4w9WgXcQ"
	if got != want {
		t.Errorf("ResultsURL = %q, want %q", got, want)
	}
}
