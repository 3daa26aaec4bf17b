package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/virtualfriend/internal/artifact"
	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/script"
	"github.com/normanking/virtualfriend/internal/speech"
	"github.com/normanking/virtualfriend/internal/speech/mock"
)

func newOrchestrator(t *testing.T, synth speech.Synthesizer) *Orchestrator {
	t.Helper()
	store, err := artifact.NewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return New(synth, store, zerolog.Nop())
}

func TestEnrichReply(t *testing.T) {
	synth := &mock.Synthesizer{
		Results: []*speech.Result{
			{
				Audio: []byte("audio-0"),
				Visemes: []lipsync.Event{
					{Offset: 0, VisemeID: 0},
					{Offset: 0.25, VisemeID: 10},
				},
			},
			{
				Audio:   []byte("audio-1"),
				Visemes: []lipsync.Event{{Offset: 0, VisemeID: 0}},
			},
		},
	}
	o := newOrchestrator(t, synth)

	segments := []script.Segment{
		{Text: "Hello!", FacialExpression: script.ExpressionSmile, Animation: script.AnimationTalking},
		{Text: "Bye.", FacialExpression: script.ExpressionNeutral, Animation: script.AnimationConcluding},
	}

	enriched, err := o.EnrichReply(context.Background(), segments, "female")
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	for i, seg := range enriched {
		require.NotNil(t, seg.Audio, "segment %d audio", i)
		require.NotNil(t, seg.Lipsync, "segment %d lipsync", i)
	}
	assert.Len(t, enriched[0].Lipsync.MouthCues, 2)
	assert.Equal(t, 0.55, enriched[0].Lipsync.Duration())

	// Sequential voice-selected synthesis, one call per segment.
	require.Equal(t, 2, synth.CallCount())
	assert.Equal(t, "Hello!", synth.Calls[0].Text)
	assert.Equal(t, speech.VoiceFemale, synth.Calls[0].Voice)
	assert.Equal(t, "Bye.", synth.Calls[1].Text)
}

func TestEnrichReplyMaleVoice(t *testing.T) {
	synth := &mock.Synthesizer{}
	o := newOrchestrator(t, synth)

	_, err := o.EnrichReply(context.Background(), []script.Segment{{Text: "Hi"}}, "male")
	require.NoError(t, err)
	assert.Equal(t, speech.VoiceMale, synth.Calls[0].Voice)
}

func TestEnrichReplySynthesisFailureAbortsReply(t *testing.T) {
	boom := errors.New("quota exceeded")
	synth := &mock.Synthesizer{Err: boom}
	o := newOrchestrator(t, synth)

	segments := []script.Segment{{Text: "one"}, {Text: "two"}}
	enriched, err := o.EnrichReply(context.Background(), segments, "female")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, enriched, "no partial reply on synthesis failure")
	assert.Equal(t, 1, synth.CallCount(), "later segments are never attempted")
}

func TestEnrichReplyEmptyVisemeStream(t *testing.T) {
	synth := &mock.Synthesizer{
		Results: []*speech.Result{{Audio: []byte("audio"), Visemes: nil}},
	}
	o := newOrchestrator(t, synth)

	enriched, err := o.EnrichReply(context.Background(), []script.Segment{{Text: "Hi"}}, "female")
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Empty(t, enriched[0].Lipsync.MouthCues)
	assert.Equal(t, 1.5, enriched[0].Lipsync.Duration(), "empty event stream keeps the fallback duration")
}
