// Package player is the client-side playback runtime: it consumes one reply
// segment at a time and drives the renderer's morph-target weights, body
// animation cross-fades and lip-sync in step with the audio clock.
package player

import "github.com/normanking/virtualfriend/internal/lipsync"

// MorphIndex identifies one controllable morph target on the avatar mesh.
type MorphIndex int

const (
	BrowDownLeft MorphIndex = iota
	BrowDownRight
	BrowInnerUp
	BrowOuterUpLeft
	BrowOuterUpRight
	CheekPuff
	CheekSquintLeft
	CheekSquintRight
	EyeBlinkLeft
	EyeBlinkRight
	EyeLookDownLeft
	EyeLookDownRight
	EyeLookInLeft
	EyeLookInRight
	EyeLookOutLeft
	EyeLookOutRight
	EyeLookUpLeft
	EyeLookUpRight
	EyeSquintLeft
	EyeSquintRight
	EyeWideLeft
	EyeWideRight
	JawForward
	JawLeft
	JawOpen
	JawRight
	MouthClose
	MouthDimpleLeft
	MouthDimpleRight
	MouthFrownLeft
	MouthFrownRight
	MouthFunnel
	MouthLeft
	MouthLowerDownLeft
	MouthLowerDownRight
	MouthPressLeft
	MouthPressRight
	MouthPucker
	MouthRight
	MouthRollLower
	MouthRollUpper
	MouthShrugLower
	MouthShrugUpper
	MouthSmileLeft
	MouthSmileRight
	MouthStretchLeft
	MouthStretchRight
	MouthUpperUpLeft
	MouthUpperUpRight
	NoseSneerLeft
	NoseSneerRight
	TongueOut
	VisemeSil
	VisemePP
	VisemeKK
	VisemeI
	VisemeAA
	VisemeO
	VisemeU
	VisemeFF
	VisemeTH
	MorphCount
)

// MorphNames are the mesh-side names, index-aligned with MorphIndex.
var MorphNames = [MorphCount]string{
	"browDownLeft",
	"browDownRight",
	"browInnerUp",
	"browOuterUpLeft",
	"browOuterUpRight",
	"cheekPuff",
	"cheekSquintLeft",
	"cheekSquintRight",
	"eyeBlinkLeft",
	"eyeBlinkRight",
	"eyeLookDownLeft",
	"eyeLookDownRight",
	"eyeLookInLeft",
	"eyeLookInRight",
	"eyeLookOutLeft",
	"eyeLookOutRight",
	"eyeLookUpLeft",
	"eyeLookUpRight",
	"eyeSquintLeft",
	"eyeSquintRight",
	"eyeWideLeft",
	"eyeWideRight",
	"jawForward",
	"jawLeft",
	"jawOpen",
	"jawRight",
	"mouthClose",
	"mouthDimpleLeft",
	"mouthDimpleRight",
	"mouthFrownLeft",
	"mouthFrownRight",
	"mouthFunnel",
	"mouthLeft",
	"mouthLowerDownLeft",
	"mouthLowerDownRight",
	"mouthPressLeft",
	"mouthPressRight",
	"mouthPucker",
	"mouthRight",
	"mouthRollLower",
	"mouthRollUpper",
	"mouthShrugLower",
	"mouthShrugUpper",
	"mouthSmileLeft",
	"mouthSmileRight",
	"mouthStretchLeft",
	"mouthStretchRight",
	"mouthUpperUpLeft",
	"mouthUpperUpRight",
	"noseSneerLeft",
	"noseSneerRight",
	"tongueOut",
	"viseme_sil",
	"viseme_PP",
	"viseme_kk",
	"viseme_I",
	"viseme_AA",
	"viseme_O",
	"viseme_U",
	"viseme_FF",
	"viseme_TH",
}

// visemeMorphs is the subset of morphs driven by the lip-sync scrub. Every
// frame one of them is pulled toward 1 and the rest decay toward 0.
var visemeMorphs = []MorphIndex{
	VisemeSil, VisemePP, VisemeKK, VisemeI, VisemeAA,
	VisemeO, VisemeU, VisemeFF, VisemeTH,
}

func isVisemeMorph(i MorphIndex) bool {
	return i >= VisemeSil && i <= VisemeTH
}

// shapeToMorph maps every mouth shape to a viseme morph. The renderer only
// sculpts eight shapes, so the extended Azure shapes fold onto their nearest
// neighbour. The lookup is total: shapes without an entry land on viseme_PP
// (closed lips), same as silence.
var shapeToMorph = map[lipsync.MouthShape]MorphIndex{
	lipsync.ShapeSilence: VisemePP,
	lipsync.ShapeA:       VisemePP,
	lipsync.ShapeB:       VisemeKK,
	lipsync.ShapeC:       VisemeI,
	lipsync.ShapeD:       VisemeAA,
	lipsync.ShapeE:       VisemeO,
	lipsync.ShapeF:       VisemeU,
	lipsync.ShapeG:       VisemeFF,
	lipsync.ShapeH:       VisemeTH,
	lipsync.ShapeI:       VisemeO,
	lipsync.ShapeJ:       VisemeO,
	lipsync.ShapeK:       VisemeAA,
	lipsync.ShapeL:       VisemeAA,
	lipsync.ShapeM:       VisemeU,
	lipsync.ShapeN:       VisemeI,
	lipsync.ShapeO:       VisemeI,
	lipsync.ShapeP:       VisemeU,
	lipsync.ShapeQ:       VisemeTH,
	lipsync.ShapeR:       VisemeFF,
	lipsync.ShapeS:       VisemeKK,
	lipsync.ShapeT:       VisemeKK,
}

// MorphForShape resolves a mouth shape to its viseme morph, defaulting to
// viseme_PP for anything unrecognized.
func MorphForShape(shape lipsync.MouthShape) MorphIndex {
	if idx, ok := shapeToMorph[shape]; ok {
		return idx
	}
	return VisemePP
}

// MorphIndexFromName resolves a mesh-side name, or -1 when unknown.
func MorphIndexFromName(name string) MorphIndex {
	for i, n := range MorphNames {
		if n == name {
			return MorphIndex(i)
		}
	}
	return -1
}

// Weights is one full set of morph weights in [0,1].
type Weights [MorphCount]float64

// Set clamps and stores a weight.
func (w *Weights) Set(idx MorphIndex, value float64) {
	w[idx] = clamp(value, 0, 1)
}

// Get returns the weight at idx. Value receiver, so reads work on
// temporaries such as a preset lookup's result.
func (w Weights) Get(idx MorphIndex) float64 {
	return w[idx]
}

// LerpToward moves the weight at idx a fraction of the remaining distance
// toward target. This is the exponential approach every playback channel
// uses; the fraction is per frame.
func (w *Weights) LerpToward(idx MorphIndex, target, fraction float64) {
	w[idx] += (target - w[idx]) * fraction
}

// ToMap returns a name-keyed snapshot for the renderer boundary.
func (w Weights) ToMap() map[string]float64 {
	out := make(map[string]float64, MorphCount)
	for i := MorphIndex(0); i < MorphCount; i++ {
		out[MorphNames[i]] = w[i]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
