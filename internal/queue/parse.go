package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/veritube/internal/model"
)

// TitlePrefix is the issue title convention marking a fact-check request
const TitlePrefix = "Fact-check:"

// ErrNoTranscript indicates the issue body carried no fenced JSON
// transcript block at all
var ErrNoTranscript = errors.New("no transcript found in issue body")

// transcriptBlockRe matches a fenced code block tagged json in the issue body
var transcriptBlockRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")

// ParseTitle extracts the video identifier from an issue title.
// ok is false when the title does not carry the prefix at all; a title
// with the prefix but an empty remainder returns ok=true with an empty
// videoID, which callers must reject as a format error.
func ParseTitle(title string) (videoID string, ok bool) {
	if !strings.HasPrefix(title, TitlePrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(title, TitlePrefix)), true
}

// TranscriptFromBody extracts an embedded transcript payload from an
// issue body: a fenced code block tagged json whose content is an array
// of {start, text} objects. A missing block yields ErrNoTranscript; a
// block that does not parse yields a payload error.
func TranscriptFromBody(body string) ([]model.CaptionCue, error) {
	m := transcriptBlockRe.FindStringSubmatch(body)
	if m == nil {
		return nil, ErrNoTranscript
	}

	var cues []model.CaptionCue
	if err := json.Unmarshal([]byte(m[1]), &cues); err != nil {
		return nil, fmt.Errorf("invalid transcript payload: %w", err)
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("invalid transcript payload: empty cue array")
	}

	return cues, nil
}
