package lipsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderContiguousCues(t *testing.T) {
	b := NewBuilder()
	b.Add(Event{Offset: 0, VisemeID: 0})
	b.Add(Event{Offset: 0.125, VisemeID: 1})
	b.Add(Event{Offset: 0.4, VisemeID: 4})
	b.Add(Event{Offset: 0.913, VisemeID: 19})

	tl := b.Build("audios/message_0.mp3")

	require.Len(t, tl.MouthCues, 4)
	for i := 0; i < len(tl.MouthCues)-1; i++ {
		assert.Equal(t, tl.MouthCues[i].End, tl.MouthCues[i+1].Start,
			"cue %d must close where cue %d opens", i, i+1)
	}

	last := tl.MouthCues[len(tl.MouthCues)-1]
	assert.Equal(t, 1.21, last.End, "last cue closes offset+0.3, rounded")
	assert.Equal(t, 1.21, tl.Duration())
	assert.Equal(t, "audios/message_0.mp3", tl.Metadata.SoundFile)
}

func TestBuilderShapes(t *testing.T) {
	b := NewBuilder()
	b.Add(Event{Offset: 0, VisemeID: 0})
	b.Add(Event{Offset: 0.2, VisemeID: 5})
	b.Add(Event{Offset: 0.5, VisemeID: 99}) // unknown id

	tl := b.Build("x.mp3")

	require.Len(t, tl.MouthCues, 3)
	assert.Equal(t, ShapeSilence, tl.MouthCues[0].Value)
	assert.Equal(t, ShapeE, tl.MouthCues[1].Value)
	assert.Equal(t, ShapeSilence, tl.MouthCues[2].Value, "unknown ids map to silence")
}

func TestBuilderEmpty(t *testing.T) {
	tl := NewBuilder().Build("audios/message_0.mp3")

	assert.Empty(t, tl.MouthCues)
	assert.Equal(t, 1.5, tl.Duration(), "empty timeline falls back to fixed duration")
}

func TestBuilderRounding(t *testing.T) {
	b := NewBuilder()
	b.Add(Event{Offset: 0.123456, VisemeID: 1})
	b.Add(Event{Offset: 0.456789, VisemeID: 2})

	tl := b.Build("x.mp3")

	require.Len(t, tl.MouthCues, 2)
	assert.Equal(t, 0.12, tl.MouthCues[0].Start)
	assert.Equal(t, 0.46, tl.MouthCues[0].End)
	assert.Equal(t, 0.46, tl.MouthCues[1].Start)
	assert.Equal(t, 0.76, tl.MouthCues[1].End)
}

func TestTimelineCueAt(t *testing.T) {
	tl := &Timeline{
		Metadata: Metadata{Duration: 1.5},
		MouthCues: []MouthCue{
			{Start: 0, End: 0.5, Value: ShapeA},
			{Start: 0.5, End: 1.2, Value: ShapeB},
			{Start: 1.2, End: 1.5, Value: ShapeSilence},
		},
	}

	cue, ok := tl.CueAt(0.8)
	require.True(t, ok)
	assert.Equal(t, ShapeB, cue.Value)

	cue, ok = tl.CueAt(0.5)
	require.True(t, ok)
	assert.Equal(t, ShapeB, cue.Value, "interval is half-open: start inclusive")

	_, ok = tl.CueAt(2.0)
	assert.False(t, ok, "past the last cue nothing is active")

	_, ok = (&Timeline{}).CueAt(0)
	assert.False(t, ok)
}

func TestShapeForVisemeIDTotal(t *testing.T) {
	assert.Equal(t, ShapeSilence, ShapeForVisemeID(0))
	assert.Equal(t, ShapeA, ShapeForVisemeID(1))
	assert.Equal(t, ShapeT, ShapeForVisemeID(20))
	assert.Equal(t, ShapeSilence, ShapeForVisemeID(21))
	assert.Equal(t, ShapeSilence, ShapeForVisemeID(-1))
}
