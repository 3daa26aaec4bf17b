package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/script"
)

func TestWeightsSetClampsAndGets(t *testing.T) {
	var w Weights
	w.Set(JawOpen, 1.7)
	assert.Equal(t, 1.0, w.Get(JawOpen))

	w.Set(JawOpen, -0.3)
	assert.Equal(t, 0.0, w.Get(JawOpen))

	w.Set(MouthSmileLeft, 0.42)
	assert.Equal(t, 0.42, w.ToMap()["mouthSmileLeft"])
}

func TestWeightsReadableOnTemporary(t *testing.T) {
	// Reads must work directly on a returned value, without binding it to
	// an addressable local first.
	got := NewPresetStore().For(script.ExpressionSmile).Weights.Get(MouthSmileLeft)
	assert.InDelta(t, 0.2, got, 1e-9)
}

func TestWeightsLerpToward(t *testing.T) {
	var w Weights
	w.LerpToward(VisemeKK, 1, 0.2)
	assert.InDelta(t, 0.2, w.Get(VisemeKK), 1e-9)
	w.LerpToward(VisemeKK, 1, 0.2)
	assert.InDelta(t, 0.36, w.Get(VisemeKK), 1e-9)
	w.LerpToward(VisemeKK, 0, 0.5)
	assert.InDelta(t, 0.18, w.Get(VisemeKK), 1e-9)
}

func TestMorphForShapeTotal(t *testing.T) {
	assert.Equal(t, VisemePP, MorphForShape(lipsync.ShapeSilence))
	assert.Equal(t, VisemeKK, MorphForShape(lipsync.ShapeB))
	assert.Equal(t, VisemePP, MorphForShape(lipsync.MouthShape("?")))
}

func TestMorphIndexFromName(t *testing.T) {
	assert.Equal(t, EyeBlinkLeft, MorphIndexFromName("eyeBlinkLeft"))
	assert.Equal(t, VisemeTH, MorphIndexFromName("viseme_TH"))
	assert.Equal(t, MorphIndex(-1), MorphIndexFromName("nope"))
}
