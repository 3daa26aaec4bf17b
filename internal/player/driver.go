package player

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/normanking/virtualfriend/internal/script"
)

// ErrBusy is returned by Begin while a previous segment is still playing.
var ErrBusy = errors.New("player: segment already playing")

const (
	expressionBlend = 0.1
	visemeAttack    = 0.2
	visemeDecay     = 0.1

	// Segments without audio hold their expression and animation for a
	// fixed interval before the driver returns to idle.
	silentSegmentDuration = 2.0
)

// State is the driver's playback state.
type State int

const (
	StateIdle State = iota
	StatePlaying
)

// AudioHandle exposes the playback clock of the audio element driving a
// segment. Mouth cues are scrubbed against this clock, never against
// wall time, so pauses and seeks stay in sync.
type AudioHandle interface {
	CurrentTime() float64
}

// Frame is the per-tick output of the driver: morph weights for the
// mesh, skeletal clip weights for the animation system, and a head
// rotation in radians.
type Frame struct {
	Morphs       Weights
	Clips        []ClipState
	HeadRotation mgl32.Vec3
}

// Driver animates one avatar instance. Each Update blends morph weights
// toward their targets: the active expression preset, the mouth cue
// under the audio clock, and the blink schedule. Expressions and lip
// sync converge gradually; blinks snap faster so the lids read as
// crisp. Begin rejects overlapping segments rather than queueing them.
type Driver struct {
	mu sync.Mutex

	state   State
	segment script.Segment
	audio   AudioHandle
	silent  float64

	weights Weights
	presets *PresetStore
	blink   *BlinkGenerator
	mixer   *AnimationMixer
	sway    *HeadSway

	winkLeft  bool
	winkRight bool

	// manualOverride freezes the expression and lip sync channels so
	// individual morphs can be posed through SetMorph. Blinking and
	// head sway keep running.
	manualOverride bool
	manual         Weights

	onFinished func()
	log        zerolog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithBlinkSource seeds the blink schedule, for deterministic tests.
func WithBlinkSource(src rand.Source) Option {
	return func(d *Driver) { d.blink = NewBlinkGenerator(src) }
}

// WithFinishedFunc registers a callback invoked after a segment ends and
// the driver has returned to idle. It runs on the Update goroutine.
func WithFinishedFunc(fn func()) Option {
	return func(d *Driver) { d.onFinished = fn }
}

func NewDriver(presets *PresetStore, log zerolog.Logger, opts ...Option) *Driver {
	d := &Driver{
		state:   StateIdle,
		segment: script.Segment{FacialExpression: script.ExpressionNeutral, Animation: script.AnimationIdle},
		presets: presets,
		blink:   NewBlinkGenerator(nil),
		mixer:   NewAnimationMixer(),
		sway:    NewHeadSway(),
		log:     log.With().Str("component", "player").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current playback state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Begin starts playing seg. audio may be nil for segments that carry no
// synthesized audio; those end after a fixed silent interval instead of
// on OnAudioEnded. Returns ErrBusy if a segment is already playing.
func (d *Driver) Begin(seg script.Segment, audio AudioHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StatePlaying {
		return ErrBusy
	}

	d.state = StatePlaying
	d.segment = seg
	d.audio = audio
	d.silent = 0
	d.mixer.Play(seg.Animation)

	d.log.Debug().
		Str("expression", seg.FacialExpression).
		Str("animation", seg.Animation).
		Bool("hasAudio", audio != nil).
		Msg("segment started")
	return nil
}

// OnAudioEnded signals that the audio element backing the current
// segment finished playing. No-op while idle.
func (d *Driver) OnAudioEnded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StatePlaying {
		return
	}
	d.finishLocked()
}

func (d *Driver) finishLocked() {
	d.state = StateIdle
	d.segment = script.Segment{FacialExpression: script.ExpressionNeutral, Animation: script.AnimationIdle}
	d.audio = nil
	d.silent = 0
	d.mixer.Play(script.AnimationIdle)
	if d.onFinished != nil {
		d.onFinished()
	}
	d.log.Debug().Msg("segment finished")
}

// SetManualOverride toggles manual posing for this driver instance.
// Entering manual mode captures the current weights as the pose base;
// leaving it lets the expression and lip sync channels reclaim their
// morphs.
func (d *Driver) SetManualOverride(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on && !d.manualOverride {
		d.manual = d.weights
	}
	d.manualOverride = on
}

// ManualOverride reports whether manual posing is active.
func (d *Driver) ManualOverride() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manualOverride
}

// SetMorph poses a single morph by name while manual override is
// active. Unknown names and calls outside manual mode are ignored.
func (d *Driver) SetMorph(name string, value float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.manualOverride {
		return
	}
	idx := MorphIndexFromName(name)
	if idx < 0 {
		return
	}
	d.manual.Set(idx, value)
}

// SetWink holds the corresponding eyelid closed until released.
func (d *Driver) SetWink(left, right bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.winkLeft = left
	d.winkRight = right
}

// Update advances the driver by dt seconds and returns the frame to
// apply to the avatar. Call once per render frame.
func (d *Driver) Update(dt float64) Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StatePlaying && d.audio == nil {
		d.silent += dt
		if d.silent >= silentSegmentDuration {
			d.finishLocked()
		}
	}

	if d.manualOverride {
		d.applyManualLocked()
	} else {
		d.applyExpressionLocked()
		d.applyLipsyncLocked()
	}
	d.applyBlinkLocked(dt)

	return Frame{
		Morphs:       d.weights,
		Clips:        d.mixer.Update(dt),
		HeadRotation: d.sway.Update(dt),
	}
}

func (d *Driver) applyManualLocked() {
	for i := MorphIndex(0); i < MorphCount; i++ {
		if i == EyeBlinkLeft || i == EyeBlinkRight {
			continue
		}
		d.weights.Set(i, d.manual.Get(i))
	}
}

// applyExpressionLocked eases every non-viseme, non-blink morph toward
// the preset for the current segment's expression.
func (d *Driver) applyExpressionLocked() {
	preset := d.presets.For(d.segment.FacialExpression)
	for i := MorphIndex(0); i < MorphCount; i++ {
		if i == EyeBlinkLeft || i == EyeBlinkRight {
			continue
		}
		if isVisemeMorph(i) {
			continue
		}
		d.weights.LerpToward(i, preset.Weights.Get(i), expressionBlend)
	}
}

// applyLipsyncLocked scrubs the mouth cue timeline against the audio
// clock. The morph for the active cue ramps toward full weight while
// every other viseme morph decays, so adjacent cues overlap briefly
// instead of popping.
func (d *Driver) applyLipsyncLocked() {
	active := MorphIndex(-1)
	if d.state == StatePlaying && d.audio != nil && d.segment.Lipsync != nil {
		if cue, ok := d.segment.Lipsync.CueAt(d.audio.CurrentTime()); ok {
			active = MorphForShape(cue.Value)
		}
	}
	for _, m := range visemeMorphs {
		if m == active {
			d.weights.LerpToward(m, 1, visemeAttack)
		} else {
			d.weights.LerpToward(m, 0, visemeDecay)
		}
	}
}

func (d *Driver) applyBlinkLocked(dt float64) {
	closed := d.blink.Update(dt)

	left, right := 0.0, 0.0
	if closed || d.winkLeft {
		left = closedTarget
	}
	if closed || d.winkRight {
		right = closedTarget
	}
	d.weights.LerpToward(EyeBlinkLeft, left, blinkBlend)
	d.weights.LerpToward(EyeBlinkRight, right, blinkBlend)
}
