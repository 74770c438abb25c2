package model

// CaptionCue is a single timed caption entry from a video transcript.
// Cues are ordered by start time and immutable once produced.
type CaptionCue struct {
	Start float64 `json:"start"` // Offset from video start, in seconds
	Text  string  `json:"text"`  // Caption text for this cue
}
