package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// Request describes one structured call to the external service.
type Request struct {
	System string
	Prompt string
}

// Structured asks the external service for a JSON object, decodes it into T
// and validates it. It returns (nil, false) on any failure: unavailable
// client, transport error, malformed JSON, or rejected validation. It never
// returns an error; the caller's heuristic path is the error handling.
func Structured[T any](ctx context.Context, c *Client, req Request, validate func(*T) bool) (*T, bool) {
	if !c.Available() {
		return nil, false
	}

	text, err := c.Complete(ctx, req.System, req.Prompt)
	if err != nil {
		return nil, false
	}

	blob := ExtractJSON(text)
	if blob == "" {
		return nil, false
	}

	var out T
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return nil, false
	}
	if validate != nil && !validate(&out) {
		return nil, false
	}
	return &out, true
}

var (
	fenceRe     = regexp.MustCompile("(?i)^```(?:json)?\n|\n```$")
	jsonBlobRe  = regexp.MustCompile(`\{[\s\S]*\}`)
	jsonGreedy  = regexp.MustCompile(`\{[\s\S]*\}$`)
	jsonMinimal = regexp.MustCompile(`\{[\s\S]*?\}`)
)

// ExtractJSON pulls the first plausible JSON object out of a model reply,
// stripping markdown code fences. Returns "" when nothing object-shaped is
// found.
func ExtractJSON(text string) string {
	text = fenceRe.ReplaceAllString(strings.TrimSpace(text), "")

	if m := jsonGreedy.FindString(text); m != "" {
		if json.Valid([]byte(m)) {
			return m
		}
	}
	if m := jsonBlobRe.FindString(text); m != "" {
		if json.Valid([]byte(m)) {
			return m
		}
	}
	if m := jsonMinimal.FindString(text); m != "" {
		if json.Valid([]byte(m)) {
			return m
		}
	}
	return ""
}
