// Package speech provides text-to-speech synthesis with per-viseme timing for
// the avatar's lip sync.
package speech

import (
	"context"
	"errors"

	"github.com/normanking/virtualfriend/internal/lipsync"
)

// ErrNoAudio is returned when a synthesis turn completed without producing
// any audio frames.
var ErrNoAudio = errors.New("synthesis produced no audio")

// The two fixed neural voices the avatar speaks with.
const (
	VoiceMale   = "en-US-GuyNeural"
	VoiceFemale = "en-US-JennyNeural"
)

// VoiceForGender maps the caller-supplied gender flag to a voice name.
// Anything that is not "male" selects the female voice.
func VoiceForGender(gender string) string {
	if gender == "male" {
		return VoiceMale
	}
	return VoiceFemale
}

// Result is one finished utterance: the encoded audio plus the viseme events
// observed while it was synthesized, in offset order.
type Result struct {
	Audio   []byte
	Visemes []lipsync.Event
}

// Synthesizer is the narrow interface the orchestrator drives. Synthesize
// settles exactly once per call: either a complete Result or an error.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, voice string) (*Result, error)
}
