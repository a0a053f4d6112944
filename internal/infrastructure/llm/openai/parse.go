package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// MalformedReplyError carries the raw model reply alongside the parser
// detail so the failure can be debugged from the UI banner.
type MalformedReplyError struct {
	RawReply string
	Err      error
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("Model did not return valid JSON.\n\nRaw reply was:\n%s\n\nJSON error: %v", e.RawReply, e.Err)
}

func (e *MalformedReplyError) Unwrap() error { return domain.ErrMalformedReply }

// parseClassification recovers a JSON object from a possibly verbose model
// reply: slice from the first '{' to the last '}' when both exist in order,
// otherwise parse the reply as-is. Brace-free replies fail with the raw
// reply preserved in the error.
func parseClassification(content string) (domain.Classification, error) {
	jsonStr := content
	first := strings.Index(content, "{")
	last := strings.LastIndex(content, "}")
	if first != -1 && last != -1 && last > first {
		jsonStr = content[first : last+1]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return domain.Classification{}, &MalformedReplyError{RawReply: content, Err: err}
	}

	return domain.Classification{
		Title:              stringField(fields, "title", "Untitled"),
		Audience:           stringField(fields, "audience", "Nondescript"),
		AudienceConfidence: intField(fields, "audience_confidence"),
		AudienceRationale:  stringField(fields, "audience_rationale", ""),
		Industry:           stringField(fields, "industry", "Other"),
		ShortSummary:       stringField(fields, "short_summary", ""),
	}, nil
}

func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return strings.TrimSpace(fallback)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return strings.TrimSpace(fallback)
	}
	return strings.TrimSpace(s)
}

func intField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return int(n)
}
