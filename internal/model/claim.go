package model

// Claim is a single fact-check finding parsed from the LLM response.
// The response shape is untyped JSON with optional fields; every field
// here is optional and defaults are applied downstream (verdict falls
// back to "unverified", explanation and context to empty strings).
type Claim struct {
	Claim       string `json:"claim"`             // The asserted statement
	Verdict     string `json:"verdict"`           // accurate, inaccurate, misleading, unverifiable, info, error, unverified
	Explanation string `json:"explanation"`       // Brief reasoning behind the verdict
	Context     string `json:"context,omitempty"` // Surrounding transcript text, if the model provided it
}

// Verdict values the fact-checker produces. The LLM is prompted for the
// first four; the rest are synthesized locally.
const (
	VerdictAccurate     = "accurate"
	VerdictInaccurate   = "inaccurate"
	VerdictMisleading   = "misleading"
	VerdictUnverifiable = "unverifiable"
	VerdictInfo         = "info"       // Parse-failure degrade: raw response wrapped as information
	VerdictError        = "error"      // Backend failure sentinel
	VerdictUnverified   = "unverified" // Default when the response omits a verdict
)

// AlignedClaim is a Claim anchored to the transcript timestamp it most
// plausibly originated from. Exactly one AlignedClaim is produced per
// input Claim, in the same order.
type AlignedClaim struct {
	Timestamp   float64 `json:"timestamp"` // Best-match cue start, seconds; 0 when no match
	Claim       string  `json:"claim"`
	Verdict     string  `json:"verdict"`
	Explanation string  `json:"explanation"`
}

// ResultDocument is the persisted output for one video, written as
// pretty-printed JSON to results/<video_id>.json. The existence of
// that file is the sole idempotency marker for a video.
type ResultDocument struct {
	VideoID string         `json:"video_id"`
	Claims  []AlignedClaim `json:"claims"`
}
