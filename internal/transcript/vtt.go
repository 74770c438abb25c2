package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/veritube/internal/model"
)

// vttTimingRe matches VTT timing lines like "00:00:01.234 --> 00:00:03.456",
// with optional position/alignment metadata after the timestamps.
var vttTimingRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s*-->`)

// vttTagRe matches inline markup commonly found in VTT files (<c>, <i>, timestamps).
var vttTagRe = regexp.MustCompile(`<[^>]+>`)

// vttMetaRe matches header/metadata lines (WEBVTT, Kind:, Language:, NOTE).
var vttMetaRe = regexp.MustCompile(`^(WEBVTT|Kind:|Language:|NOTE)\b`)

// vttCueIDRe matches standalone numeric cue identifiers.
var vttCueIDRe = regexp.MustCompile(`^\d+$`)

// ParseVTT parses a WEBVTT subtitle document into timed caption cues.
// Auto-generated subtitles repeat rolling text across overlapping
// segments; consecutive cues with identical text are collapsed into the
// earliest one.
func ParseVTT(raw string) []model.CaptionCue {
	var cues []model.CaptionCue
	var start float64
	var text []string
	inCue := false

	flush := func() {
		if !inCue {
			return
		}
		joined := strings.TrimSpace(strings.Join(text, " "))
		if joined != "" && (len(cues) == 0 || cues[len(cues)-1].Text != joined) {
			cues = append(cues, model.CaptionCue{Start: start, Text: joined})
		}
		text = nil
		inCue = false
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := vttTimingRe.FindStringSubmatch(line); m != nil {
			flush()
			start = vttTimestampSeconds(m)
			inCue = true
			continue
		}

		if vttMetaRe.MatchString(line) {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if vttCueIDRe.MatchString(trimmed) && !inCue {
			continue
		}
		if !inCue {
			continue
		}

		cleaned := strings.TrimSpace(vttTagRe.ReplaceAllString(trimmed, ""))
		if cleaned == "" {
			continue
		}
		// Rolling captions repeat the previous line inside the next cue
		if len(text) > 0 && text[len(text)-1] == cleaned {
			continue
		}
		text = append(text, cleaned)
	}
	flush()

	return cues
}

// vttTimestampSeconds converts captured "HH:MM:SS.mmm" groups to seconds
func vttTimestampSeconds(m []string) float64 {
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	return float64(h*3600+min*60+s) + float64(ms)/1000
}
