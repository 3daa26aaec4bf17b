// Package lipsync converts the viseme event stream emitted during speech
// synthesis into a compact mouth-cue timeline that a renderer can scrub
// against the audio playback clock.
package lipsync

import "math"

const (
	// lastCueTail keeps the final mouth shape visible instead of letting it
	// collapse to a zero-width cue.
	lastCueTail = 0.3

	// fallbackDuration is reported when an utterance produced no events at
	// all, so the playback driver still has a sensible segment length.
	fallbackDuration = 1.5
)

// Event is a single timestamped viseme as reported by the synthesis engine.
// Offsets are seconds from utterance start and arrive in non-decreasing order.
type Event struct {
	Offset   float64
	VisemeID int
}

// MouthCue is one interval of the finished timeline. Cues are contiguous:
// each cue's End equals the next cue's Start.
type MouthCue struct {
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Value MouthShape `json:"value"`
}

// Metadata describes the audio artifact the timeline belongs to.
type Metadata struct {
	SoundFile string  `json:"soundFile"`
	Duration  float64 `json:"duration"`
}

// Timeline is the finalized, immutable cue list for one utterance.
type Timeline struct {
	Metadata  Metadata   `json:"metadata"`
	MouthCues []MouthCue `json:"mouthCues"`
}

// Duration returns the timeline length in seconds.
func (t *Timeline) Duration() float64 {
	return t.Metadata.Duration
}

// CueAt returns the cue whose [Start, End) interval contains the given
// playback time, or false when no cue is active (past the end, or an empty
// timeline). Cues are few and ordered, so a linear scan is fine.
func (t *Timeline) CueAt(at float64) (MouthCue, bool) {
	for _, cue := range t.MouthCues {
		if at >= cue.Start && at < cue.End {
			return cue, true
		}
	}
	return MouthCue{}, false
}

// Builder accumulates viseme events for one utterance and finalizes them into
// a Timeline. It is not safe for concurrent use; the synthesis task owns it
// for the duration of the utterance.
type Builder struct {
	events []Event
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{events: make([]Event, 0, 64)}
}

// Add records one viseme event. It never fails: unknown viseme ids are kept
// and resolved to the silence shape at build time.
func (b *Builder) Add(ev Event) {
	b.events = append(b.events, ev)
}

// Len returns the number of events recorded so far.
func (b *Builder) Len() int {
	return len(b.events)
}

// Build finalizes the accumulated events into a Timeline for the given sound
// file. Each event spans until the next event's offset; the last event gets a
// fixed tail. All boundaries are rounded to centiseconds to keep the wire
// payload compact and comparisons stable.
func (b *Builder) Build(soundFile string) *Timeline {
	cues := make([]MouthCue, 0, len(b.events))

	for i, ev := range b.events {
		start := roundCentis(ev.Offset)
		var end float64
		if i+1 < len(b.events) {
			end = roundCentis(b.events[i+1].Offset)
		} else {
			end = roundCentis(ev.Offset + lastCueTail)
		}
		cues = append(cues, MouthCue{
			Start: start,
			End:   end,
			Value: ShapeForVisemeID(ev.VisemeID),
		})
	}

	duration := fallbackDuration
	if len(cues) > 0 {
		duration = cues[len(cues)-1].End
	}

	return &Timeline{
		Metadata:  Metadata{SoundFile: soundFile, Duration: duration},
		MouthCues: cues,
	}
}

func roundCentis(v float64) float64 {
	return math.Round(v*100) / 100
}
