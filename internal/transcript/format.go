package transcript

import (
	"strings"

	"github.com/ppiankov/veritube/internal/model"
)

// Flatten converts a cue sequence into the two shapes downstream
// components consume: the full transcript text (cue texts joined with a
// single space, in order) for the LLM, and a normalized copy of the
// timed entries for claim alignment. No case or punctuation
// normalization happens here; downstream lowercases as needed.
//
// An empty input yields an empty string and nil entries.
func Flatten(cues []model.CaptionCue) (fullText string, entries []model.CaptionCue) {
	if len(cues) == 0 {
		return "", nil
	}

	texts := make([]string, len(cues))
	entries = make([]model.CaptionCue, len(cues))
	for i, cue := range cues {
		texts[i] = cue.Text
		entries[i] = model.CaptionCue{Start: cue.Start, Text: cue.Text}
	}

	return strings.Join(texts, " "), entries
}
