package player

import "github.com/normanking/virtualfriend/internal/script"

const animationFade = 0.5

// ClipState is the mixer's view of one skeletal clip: its blend weight
// and whether it should loop.
type ClipState struct {
	Name   string
	Weight float64
	Loop   bool
}

// AnimationMixer cross-fades between named skeletal clips. Exactly one
// clip is the active target; all clips fade toward their target weight
// over a fixed duration. The very first clip snaps in with no fade so
// the avatar never renders unanimated.
type AnimationMixer struct {
	active  string
	weights map[string]float64
	started bool
}

func NewAnimationMixer() *AnimationMixer {
	m := &AnimationMixer{weights: make(map[string]float64)}
	m.Play(script.AnimationIdle)
	return m
}

// Play makes name the active clip. The previous clip fades out while
// the new one fades in over animationFade seconds.
func (m *AnimationMixer) Play(name string) {
	if name == "" {
		name = script.AnimationIdle
	}
	if m.active == name {
		return
	}
	m.active = name
	if !m.started {
		m.weights[name] = 1
		m.started = true
		return
	}
	if _, ok := m.weights[name]; !ok {
		m.weights[name] = 0
	}
}

// Active returns the clip currently being faded in.
func (m *AnimationMixer) Active() string { return m.active }

// Update advances all fades by dt seconds and returns the current clip
// states. Clips that have fully faded out are dropped.
func (m *AnimationMixer) Update(dt float64) []ClipState {
	step := dt / animationFade
	for name, w := range m.weights {
		if name == m.active {
			w += step
			if w > 1 {
				w = 1
			}
		} else {
			w -= step
			if w <= 0 {
				delete(m.weights, name)
				continue
			}
		}
		m.weights[name] = w
	}

	states := make([]ClipState, 0, len(m.weights))
	for name, w := range m.weights {
		states = append(states, ClipState{
			Name:   name,
			Weight: w,
			Loop:   name == script.AnimationIdle,
		})
	}
	return states
}
