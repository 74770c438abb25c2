package factcheck

import (
	"strings"

	"github.com/ppiankov/veritube/internal/model"
)

// minTokenLen is the keyword length cutoff for claim-to-cue matching;
// shorter tokens are too common to anchor a claim.
const minTokenLen = 4

// contextPrefixLen is how much of the claim's context text is used for
// the fallback substring match.
const contextPrefixLen = 50

// Align anchors each claim to the transcript timestamp it most plausibly
// originated from. For every claim, transcript entries are scanned in
// order and the first entry wins that either contains a claim keyword
// longer than minTokenLen, or - when the claim text is empty - contains
// the first contextPrefixLen characters of the claim's context. Claims
// with no match get timestamp 0.
//
// This is a heuristic best-effort alignment: false positives on common
// tokens and false negatives on paraphrased claims are expected. The
// tie-break is strictly first-in-transcript-order, never a score.
//
// Exactly one AlignedClaim is returned per input claim, in input order.
// Missing verdicts default to "unverified".
func Align(claims []model.Claim, entries []model.CaptionCue) []model.AlignedClaim {
	results := make([]model.AlignedClaim, 0, len(claims))

	for _, claim := range claims {
		claimText := strings.ToLower(claim.Claim)
		contextText := strings.ToLower(claim.Context)

		var matchTime float64
		for _, entry := range entries {
			entryText := strings.ToLower(entry.Text)

			if claimText != "" {
				if containsKeyword(claimText, entryText) {
					matchTime = entry.Start
					break
				}
			} else if contextText != "" {
				if strings.Contains(entryText, runePrefix(contextText, contextPrefixLen)) {
					matchTime = entry.Start
					break
				}
			}
		}

		verdict := claim.Verdict
		if verdict == "" {
			verdict = model.VerdictUnverified
		}

		results = append(results, model.AlignedClaim{
			Timestamp:   matchTime,
			Claim:       claim.Claim,
			Verdict:     verdict,
			Explanation: claim.Explanation,
		})
	}

	return results
}

// containsKeyword reports whether any whitespace-delimited token of
// claimText longer than minTokenLen appears as a substring of entryText
func containsKeyword(claimText, entryText string) bool {
	for _, word := range strings.Fields(claimText) {
		if len(word) > minTokenLen && strings.Contains(entryText, word) {
			return true
		}
	}
	return false
}

// runePrefix returns the first n runes of s
func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
