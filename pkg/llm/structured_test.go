package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONPlain(t *testing.T) {
	got := ExtractJSON(`{"type": "contrat", "confidence": 0.8}`)
	assert.Equal(t, `{"type": "contrat", "confidence": 0.8}`, got)
}

func TestExtractJSONFenced(t *testing.T) {
	reply := "```json\n{\"summary\": \"ok\"}\n```"
	got := ExtractJSON(reply)
	assert.Equal(t, `{"summary": "ok"}`, got)
}

func TestExtractJSONSurroundedByProse(t *testing.T) {
	reply := `Here is the result: {"key_points": ["a", "b"]} hope it helps`
	got := ExtractJSON(reply)
	assert.Equal(t, `{"key_points": ["a", "b"]}`, got)
}

func TestExtractJSONNested(t *testing.T) {
	reply := `{"dates": {"signature": "2024-01-15", "debut": "", "fin": ""}}`
	got := ExtractJSON(reply)
	assert.Equal(t, reply, got)
}

func TestExtractJSONNothingFound(t *testing.T) {
	assert.Empty(t, ExtractJSON("no structured content here"))
	assert.Empty(t, ExtractJSON(""))
	assert.Empty(t, ExtractJSON("{broken json"))
}

func TestStructuredNilClient(t *testing.T) {
	type out struct {
		Summary string `json:"summary"`
	}

	var c *Client
	res, ok := Structured[out](context.Background(), c, Request{Prompt: "x"}, nil)
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestClientNilSafety(t *testing.T) {
	var c *Client
	assert.False(t, c.Available())
	assert.Empty(t, c.Model())

	_, err := c.Complete(context.Background(), "", "prompt")
	assert.Error(t, err)
}
