package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	stdhtml "html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/veritube/internal/model"
	"github.com/ppiankov/veritube/internal/worker"
)

// InnertubeFetcher retrieves captions through YouTube's own timedtext
// endpoint. It scrapes the watch page for the embedded player response,
// enumerates the advertised caption tracks, selects one in an allowed
// language (manually authored tracks preferred over auto-generated),
// and fetches the track as timed XML cues.
type InnertubeFetcher struct {
	httpClient *http.Client
	userAgent  string
	languages  []string
	limiter    *worker.Limiter // may be nil
	baseURL    string          // overridable for tests
}

// NewInnertubeFetcher creates a captions-API backed fetcher
func NewInnertubeFetcher(timeout time.Duration, userAgent string, limiter *worker.Limiter) *InnertubeFetcher {
	return &InnertubeFetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		languages:  DefaultLanguages,
		limiter:    limiter,
		baseURL:    "https://www.youtube.com",
	}
}

// playerResponse holds the subset of the watch-page player data we need
type playerResponse struct {
	Captions struct {
		TracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// captionTrack describes one available caption track
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

// timedTextDoc is the XML document served by the timedtext endpoint
type timedTextDoc struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextCue `xml:"text"`
}

type timedTextCue struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// Fetch retrieves caption cues for the given video ID
func (f *InnertubeFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionCue, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s&hl=en", f.baseURL, url.QueryEscape(videoID))

	page, err := f.get(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch watch page: %v", ErrUnavailable, err)
	}

	raw, err := extractPlayerResponse(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return nil, fmt.Errorf("%w: decode player response: %v", ErrUnavailable, err)
	}

	tracks := pr.Captions.TracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks for video %s (captions disabled?)", ErrUnavailable, videoID)
	}

	track := selectTrack(tracks, f.languages)
	if track == nil {
		return nil, fmt.Errorf("%w: no caption track in allowed languages %v", ErrUnavailable, f.languages)
	}

	body, err := f.get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch caption track: %v", ErrUnavailable, err)
	}

	cues, err := parseTimedText(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("%w: caption track for %s is empty", ErrUnavailable, videoID)
	}

	return cues, nil
}

// get performs one rate-limited GET and returns the response body
func (f *InnertubeFetcher) get(ctx context.Context, rawURL string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// selectTrack picks a caption track from an allowed language set,
// preferring manually authored tracks over auto-generated ("asr") ones
func selectTrack(tracks []captionTrack, langs []string) *captionTrack {
	// Pass 1: manual tracks in language preference order
	for _, lang := range langs {
		for i := range tracks {
			if tracks[i].LanguageCode == lang && tracks[i].Kind != "asr" {
				return &tracks[i]
			}
		}
	}

	// Pass 2: auto-generated fallback
	for _, lang := range langs {
		for i := range tracks {
			if tracks[i].LanguageCode == lang {
				return &tracks[i]
			}
		}
	}

	return nil
}

// extractPlayerResponse locates the ytInitialPlayerResponse JSON object
// embedded in a <script> tag on the watch page
func extractPlayerResponse(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}

	const marker = "ytInitialPlayerResponse"

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			if c := n.FirstChild; c != nil && c.Type == html.TextNode {
				if strings.Contains(c.Data, marker) {
					found = c.Data
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == "" {
		return "", fmt.Errorf("player response not found in watch page")
	}

	idx := strings.Index(found, marker)
	brace := strings.Index(found[idx:], "{")
	if brace < 0 {
		return "", fmt.Errorf("player response object not found")
	}

	return extractJSONObject(found[idx+brace:])
}

// extractJSONObject returns the balanced JSON object starting at s[0],
// which must be '{'. Braces inside string literals are ignored.
func extractJSONObject(s string) (string, error) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced player response object")
}

// parseTimedText decodes a timedtext XML document into caption cues
func parseTimedText(raw string) ([]model.CaptionCue, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode timedtext: %w", err)
	}

	cues := make([]model.CaptionCue, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// Track bodies arrive double-escaped (&amp;#39;); the XML decoder
		// resolves the first level, UnescapeString the second.
		text := stdhtml.UnescapeString(t.Body)
		text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		if text == "" {
			continue
		}
		cues = append(cues, model.CaptionCue{Start: t.Start, Text: text})
	}

	return cues, nil
}
