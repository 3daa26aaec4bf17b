// Package script turns a raw language-model completion into the bounded list
// of reply segments that drive the avatar: display text plus a facial
// expression tag and a body animation tag per segment.
package script

import "github.com/normanking/virtualfriend/internal/lipsync"

// Expression tags understood by the renderer's preset table.
const (
	ExpressionDefault   = "default"
	ExpressionNeutral   = "neutral"
	ExpressionSmile     = "smile"
	ExpressionSad       = "sad"
	ExpressionAngry     = "angry"
	ExpressionSurprised = "surprised"
	ExpressionFunnyFace = "funnyFace"
	ExpressionCrazy     = "crazy"
)

// Animation tags the rigged model ships clips for.
const (
	AnimationIdle         = "Idle"
	AnimationTalking      = "Talking"
	AnimationTalkingOne   = "Talking_1"
	AnimationAsking       = "Asking"
	AnimationConcluding   = "Concluding"
	AnimationDissapointed = "Dissapointed"
	AnimationExplaining   = "Explaining"
	AnimationFormalBow    = "QuickFormalBow"
	AnimationSoftSpeaking = "SoftSpeaking"
	AnimationThumbsUp     = "ThumbsUp"
)

// Segment is one unit of the avatar's scripted reply. Text and the two tags
// come from the assembler; the orchestrator fills in Audio and Lipsync.
// Audio is nil when the artifact could not be read (the renderer treats that
// as a silent segment).
type Segment struct {
	Text             string            `json:"text"`
	FacialExpression string            `json:"facialExpression"`
	Animation        string            `json:"animation"`
	Audio            *string           `json:"audio"`
	Lipsync          *lipsync.Timeline `json:"lipsync,omitempty"`
}

// FallbackSegment is the fixed single-segment reply used when the model
// completion cannot be parsed.
func FallbackSegment() Segment {
	return Segment{
		Text:             "I'm having trouble understanding that.",
		FacialExpression: ExpressionDefault,
		Animation:        AnimationTalkingOne,
	}
}

// ApologySegment is the fixed single-segment reply returned when building the
// reply failed outright (synthesis or transport error).
func ApologySegment() Segment {
	return Segment{
		Text:             "Sorry, I'm having trouble responding.",
		FacialExpression: ExpressionNeutral,
		Animation:        AnimationIdle,
	}
}
