package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestInnertubeFetcher_Fetch(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if r.URL.Query().Get("v") != "abc123" {
				t.Errorf("unexpected video ID: %s", r.URL.Query().Get("v"))
			}
			page := fmt.Sprintf(`<html><head><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/api/timedtext?v=abc123","languageCode":"en","kind":""}]}},"videoDetails":{"videoId":"abc123"}};var other = 1;</script></head><body></body></html>`, server.URL)
			fmt.Fprint(w, page)
		case "/api/timedtext":
			fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8" ?><transcript><text start="0" dur="5.28">The moon landing happened in 1969</text><text start="12.5" dur="3">It was broadcast &amp;#39;worldwide&amp;#39;</text></transcript>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewInnertubeFetcher(5*time.Second, "test-agent", nil)
	f.baseURL = server.URL

	cues, err := f.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Start != 0 || cues[0].Text != "The moon landing happened in 1969" {
		t.Errorf("unexpected first cue: %+v", cues[0])
	}
	// Track bodies arrive double-escaped; both levels must be resolved
	if cues[1].Text != "It was broadcast 'worldwide'" {
		t.Errorf("unexpected second cue text: %q", cues[1].Text)
	}
	if cues[1].Start != 12.5 {
		t.Errorf("unexpected second cue start: %v", cues[1].Start)
	}
}

func TestInnertubeFetcher_NoCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><script>var ytInitialPlayerResponse = {"captions":{},"videoDetails":{}};</script></head></html>`)
	}))
	defer server.Close()

	f := NewInnertubeFetcher(5*time.Second, "test-agent", nil)
	f.baseURL = server.URL

	_, err := f.Fetch(context.Background(), "abc123")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestInnertubeFetcher_NoAllowedLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"http://unused","languageCode":"fr","kind":""}]}}};</script></head></html>`)
	}))
	defer server.Close()

	f := NewInnertubeFetcher(5*time.Second, "test-agent", nil)
	f.baseURL = server.URL

	_, err := f.Fetch(context.Background(), "abc123")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSelectTrack(t *testing.T) {
	manual := captionTrack{BaseURL: "m", LanguageCode: "en", Kind: ""}
	auto := captionTrack{BaseURL: "a", LanguageCode: "en", Kind: "asr"}
	gb := captionTrack{BaseURL: "g", LanguageCode: "en-GB", Kind: ""}
	french := captionTrack{BaseURL: "f", LanguageCode: "fr", Kind: ""}

	tests := []struct {
		name   string
		tracks []captionTrack
		want   string // BaseURL of expected pick, "" for nil
	}{
		{"manual preferred over auto", []captionTrack{auto, manual}, "m"},
		{"auto fallback", []captionTrack{french, auto}, "a"},
		{"language preference order", []captionTrack{gb, manual}, "m"},
		{"secondary language", []captionTrack{french, gb}, "g"},
		{"no allowed language", []captionTrack{french}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectTrack(tt.tracks, DefaultLanguages)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil || got.BaseURL != tt.want {
				t.Errorf("expected track %q, got %+v", tt.want, got)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`{"a":1}`, `{"a":1}`, false},
		{`{"a":{"b":2}} trailing`, `{"a":{"b":2}}`, false},
		{`{"s":"br{ace}"}`, `{"s":"br{ace}"}`, false},
		{`{"s":"esc\"ape}"}`, `{"s":"esc\"ape}"}`, false},
		{`{"unclosed":`, "", true},
	}

	for _, tt := range tests {
		got, err := extractJSONObject(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("extractJSONObject(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("extractJSONObject(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
