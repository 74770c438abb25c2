package factcheck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/veritube/internal/llm"
	"github.com/ppiankov/veritube/internal/model"
)

// systemPrompt defines the fact-checker persona and the exact output
// contract the model is asked to honor.
const systemPrompt = `You are a fact-checker. Analyze the provided transcript and identify claims that need fact-checking. For each claim, provide: the claim text, whether it's accurate/inaccurate/misleading/unverifiable, a brief explanation, and surrounding context from the transcript. Return as JSON array with format: [{"claim": "text", "verdict": "accurate/inaccurate/misleading/unverifiable", "explanation": "brief explanation", "context": "surrounding context"}]`

// maxInputChars is a hard token-budget guard: transcript text past this
// cut is simply never fact-checked. No summarization, just truncation.
const maxInputChars = 15000

// defaultTemperature favors determinism over creativity for verdicts.
const defaultTemperature = 0.3

// Checker submits transcript text to an LLM backend and parses the
// response into a claims list.
type Checker struct {
	provider    llm.Provider
	model       string
	temperature float32
	maxTokens   int
}

// NewChecker creates a fact-check requester on top of an LLM provider
func NewChecker(provider llm.Provider, modelName string, temperature float32, maxTokens int) *Checker {
	if temperature == 0 {
		temperature = defaultTemperature
	}
	return &Checker{
		provider:    provider,
		model:       modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Check fact-checks the given transcript text. A backend call failure
// propagates to the caller; a response that fails to parse as JSON is
// degraded into a single informational claim wrapping the raw text, so
// a parse failure becomes a presentable result rather than lost work.
func (c *Checker) Check(ctx context.Context, fullText string) ([]model.Claim, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      "Fact-check this video transcript:\n\n" + Truncate(fullText, maxInputChars),
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("fact-check request: %w", err)
	}

	return ParseClaims(resp.Text), nil
}

// ParseClaims attempts strict JSON decoding of the LLM response. On
// failure the entire raw text becomes one synthetic "info" claim.
func ParseClaims(raw string) []model.Claim {
	var claims []model.Claim
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		return []model.Claim{{
			Claim:       "Analysis completed",
			Verdict:     model.VerdictInfo,
			Explanation: raw,
		}}
	}
	return claims
}

// Truncate cuts s to at most max runes
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
