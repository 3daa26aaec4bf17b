package player

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/script"
)

type fakeClock struct{ t float64 }

func (c *fakeClock) CurrentTime() float64 { return c.t }

func testTimeline() *lipsync.Timeline {
	return &lipsync.Timeline{
		Metadata: lipsync.Metadata{SoundFile: "message_0.mp3", Duration: 1.5},
		MouthCues: []lipsync.MouthCue{
			{Start: 0, End: 0.5, Value: lipsync.ShapeA},
			{Start: 0.5, End: 1.2, Value: lipsync.ShapeB},
			{Start: 1.2, End: 1.5, Value: lipsync.ShapeSilence},
		},
	}
}

func newTestDriver(opts ...Option) *Driver {
	// Blink gaps longer than any test's simulated time keep the lids out
	// of the way unless a test drives them explicitly.
	opts = append([]Option{WithBlinkSource(rand.NewSource(7))}, opts...)
	return NewDriver(NewPresetStore(), zerolog.Nop(), opts...)
}

func TestDriverScrubsActiveCue(t *testing.T) {
	d := newTestDriver()
	clock := &fakeClock{t: 0.8}

	seg := script.Segment{
		Text:             "hello",
		FacialExpression: script.ExpressionSmile,
		Animation:        script.AnimationTalkingOne,
		Lipsync:          testTimeline(),
	}
	require.NoError(t, d.Begin(seg, clock))

	frame := d.Update(0.016)

	// At 0.8s the active cue is B. Its morph ramps in while the rest
	// stay at rest.
	active := MorphForShape(lipsync.ShapeB)
	assert.InDelta(t, visemeAttack, frame.Morphs.Get(active), 1e-9)
	for _, m := range visemeMorphs {
		if m == active {
			continue
		}
		assert.Zero(t, frame.Morphs.Get(m))
	}

	// Repeated updates converge toward fully open.
	for i := 0; i < 60; i++ {
		frame = d.Update(0.016)
	}
	assert.Greater(t, frame.Morphs.Get(active), 0.99)
}

func TestDriverDecaysWhenClockPassesTimeline(t *testing.T) {
	d := newTestDriver()
	clock := &fakeClock{t: 0.8}
	seg := script.Segment{FacialExpression: script.ExpressionDefault, Lipsync: testTimeline()}
	require.NoError(t, d.Begin(seg, clock))

	active := MorphForShape(lipsync.ShapeB)
	for i := 0; i < 30; i++ {
		d.Update(0.016)
	}

	// Clock runs past the last cue; nothing is forced open anymore.
	clock.t = 2.0
	var frame Frame
	for i := 0; i < 120; i++ {
		frame = d.Update(0.016)
	}
	assert.Less(t, frame.Morphs.Get(active), 0.01)
	for _, m := range visemeMorphs {
		assert.Less(t, frame.Morphs.Get(m), 0.01)
	}
}

func TestDriverRejectsOverlappingSegments(t *testing.T) {
	d := newTestDriver()
	seg := script.Segment{FacialExpression: script.ExpressionSmile, Lipsync: testTimeline()}

	require.NoError(t, d.Begin(seg, &fakeClock{}))
	assert.ErrorIs(t, d.Begin(seg, &fakeClock{}), ErrBusy)

	d.OnAudioEnded()
	assert.Equal(t, StateIdle, d.State())
	assert.NoError(t, d.Begin(seg, &fakeClock{}))
}

func TestDriverSilentSegmentTimesOut(t *testing.T) {
	finished := false
	d := newTestDriver(WithFinishedFunc(func() { finished = true }))

	seg := script.Segment{FacialExpression: script.ExpressionSad, Animation: script.AnimationDissapointed}
	require.NoError(t, d.Begin(seg, nil))

	d.Update(silentSegmentDuration / 2)
	assert.Equal(t, StatePlaying, d.State())
	assert.False(t, finished)

	d.Update(silentSegmentDuration / 2)
	assert.Equal(t, StateIdle, d.State())
	assert.True(t, finished)
	assert.Equal(t, script.AnimationIdle, d.mixer.Active())
}

func TestDriverBlendsExpressionGradually(t *testing.T) {
	d := newTestDriver()
	seg := script.Segment{FacialExpression: script.ExpressionSmile}
	require.NoError(t, d.Begin(seg, &fakeClock{}))

	frame := d.Update(0.016)
	assert.InDelta(t, 0.2*expressionBlend, frame.Morphs.Get(MouthSmileLeft), 1e-9)

	for i := 0; i < 120; i++ {
		frame = d.Update(0.016)
	}
	assert.InDelta(t, 0.2, frame.Morphs.Get(MouthSmileLeft), 0.01)
}

func TestDriverReturnsToNeutralAfterSegment(t *testing.T) {
	d := newTestDriver()
	seg := script.Segment{FacialExpression: script.ExpressionSurprised, Animation: script.AnimationTalkingOne}
	require.NoError(t, d.Begin(seg, &fakeClock{}))

	var frame Frame
	for i := 0; i < 120; i++ {
		frame = d.Update(0.016)
	}
	assert.Greater(t, frame.Morphs.Get(BrowInnerUp), 0.9)

	d.OnAudioEnded()
	for i := 0; i < 240; i++ {
		frame = d.Update(0.016)
	}

	// Neutral keeps a little brow lift; surprise's full raise decays.
	assert.InDelta(t, 0.17, frame.Morphs.Get(BrowInnerUp), 0.02)
	assert.Less(t, frame.Morphs.Get(MouthFunnel), 0.01)
	assert.Equal(t, script.AnimationIdle, d.mixer.Active())
}

func TestDriverWink(t *testing.T) {
	d := newTestDriver()
	d.SetWink(true, false)

	var frame Frame
	for i := 0; i < 20; i++ {
		frame = d.Update(0.016)
	}
	assert.Greater(t, frame.Morphs.Get(EyeBlinkLeft), 0.9)
	assert.Less(t, frame.Morphs.Get(EyeBlinkRight), 0.01)

	d.SetWink(false, false)
	for i := 0; i < 20; i++ {
		frame = d.Update(0.016)
	}
	assert.Less(t, frame.Morphs.Get(EyeBlinkLeft), 0.01)
}

func TestDriverManualOverride(t *testing.T) {
	d := newTestDriver()
	seg := script.Segment{FacialExpression: script.ExpressionSmile, Lipsync: testTimeline()}
	require.NoError(t, d.Begin(seg, &fakeClock{t: 0.8}))

	d.SetManualOverride(true)
	d.SetMorph("mouthPucker", 0.8)
	d.SetMorph("notAMorph", 1.0)

	frame := d.Update(0.016)
	assert.Equal(t, 0.8, frame.Morphs.Get(MouthPucker))

	// Expression and lip sync channels are frozen while posing.
	assert.Zero(t, frame.Morphs.Get(MouthSmileLeft))
	assert.Zero(t, frame.Morphs.Get(MorphForShape(lipsync.ShapeB)))

	// Leaving manual mode hands the morphs back to the blend channels.
	d.SetManualOverride(false)
	frame = d.Update(0.016)
	assert.Less(t, frame.Morphs.Get(MouthPucker), 0.8)
	assert.Greater(t, frame.Morphs.Get(MorphForShape(lipsync.ShapeB)), 0.0)
}

func TestDriverSetMorphIgnoredOutsideManualMode(t *testing.T) {
	d := newTestDriver()
	d.SetMorph("mouthPucker", 0.8)
	frame := d.Update(0.016)
	assert.Zero(t, frame.Morphs.Get(MouthPucker))
}
