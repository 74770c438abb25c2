package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/ppiankov/veritube/internal/model"
)

// YtdlpFetcher recovers caption tracks with yt-dlp, for videos where the
// direct captions lookup fails. It asks yt-dlp for video metadata only
// (no download), picks a subtitle track in an allowed language with
// manually authored subtitles preferred over auto-generated ones, then
// fetches the raw subtitle document and parses timed cues from it.
//
// Requires yt-dlp on PATH or an explicit path.
type YtdlpFetcher struct {
	path       string
	httpClient *http.Client
	languages  []string
	timeout    time.Duration
}

// NewYtdlpFetcher creates a yt-dlp backed fetcher
func NewYtdlpFetcher(path string, timeout time.Duration) *YtdlpFetcher {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtdlpFetcher{
		path:       path,
		httpClient: &http.Client{Timeout: timeout},
		languages:  DefaultLanguages,
		timeout:    timeout,
	}
}

// ytdlpInfo is the subset of yt-dlp's -J output we need
type ytdlpInfo struct {
	Subtitles         map[string][]subtitleFormat `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleFormat `json:"automatic_captions"`
}

type subtitleFormat struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

// Fetch retrieves caption cues for the given video ID via yt-dlp
func (f *YtdlpFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionCue, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	watchURL := "https://www.youtube.com/watch?v=" + videoID
	cmd := exec.CommandContext(ctx, f.path, "-J", "--skip-download", "--no-warnings", watchURL)

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: yt-dlp: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: yt-dlp: %v", ErrUnavailable, err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("%w: decode yt-dlp output: %v", ErrUnavailable, err)
	}

	format := pickSubtitle(info, f.languages)
	if format == nil {
		return nil, fmt.Errorf("%w: no subtitles in allowed languages %v", ErrUnavailable, f.languages)
	}

	doc, err := f.download(ctx, format.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch subtitle document: %v", ErrUnavailable, err)
	}

	cues := ParseVTT(doc)
	if len(cues) == 0 {
		return nil, fmt.Errorf("%w: subtitle document for %s contained no cues", ErrUnavailable, videoID)
	}

	return cues, nil
}

// pickSubtitle selects a subtitle format: manual subtitles in language
// preference order first, auto-generated captions as fallback
func pickSubtitle(info ytdlpInfo, langs []string) *subtitleFormat {
	for _, tracks := range []map[string][]subtitleFormat{info.Subtitles, info.AutomaticCaptions} {
		for _, lang := range langs {
			for i, format := range tracks[lang] {
				if format.Ext == "vtt" {
					return &tracks[lang][i]
				}
			}
		}
	}
	return nil
}

// download fetches the raw subtitle document
func (f *YtdlpFetcher) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
