package script

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFencedArray(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	completion := "Sure! Here is my reply:\n```json\n[\n" +
		`{"text": "Hello!", "facialExpression": "smile", "animation": "Talking"},` + "\n" +
		`{"text": "How can I help?", "facialExpression": "neutral", "animation": "Asking"}` +
		"\n]\n```\nLet me know if you need more."

	segments := a.Parse(completion)

	require.Len(t, segments, 2)
	assert.Equal(t, "Hello!", segments[0].Text)
	assert.Equal(t, ExpressionSmile, segments[0].FacialExpression)
	assert.Equal(t, AnimationTalking, segments[0].Animation)
	assert.Equal(t, AnimationAsking, segments[1].Animation)
}

func TestParseBareObject(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	completion := "```json\n" +
		`{"text": "Just one thing.", "facialExpression": "surprised", "animation": "Explaining"}` +
		"\n```"

	segments := a.Parse(completion)

	require.Len(t, segments, 1)
	assert.Equal(t, "Just one thing.", segments[0].Text)
	assert.Equal(t, ExpressionSurprised, segments[0].FacialExpression)
}

func TestParseFallbacks(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	tests := []struct {
		name       string
		completion string
	}{
		{"no fenced block", "I can't answer in the requested format, sorry."},
		{"malformed JSON", "```json\n[{\"text\": \"oops\",]\n```"},
		{"empty array", "```json\n[]\n```"},
		{"empty completion", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := a.Parse(tt.completion)

			require.Len(t, segments, 1)
			assert.Equal(t, FallbackSegment(), segments[0])
		})
	}
}

func TestParseDoesNotTruncate(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	// The prompt asks for at most 3 segments, but longer arrays pass through.
	completion := "```json\n[" +
		`{"text":"1"},{"text":"2"},{"text":"3"},{"text":"4"}` +
		"]\n```"

	segments := a.Parse(completion)
	assert.Len(t, segments, 4)
}
