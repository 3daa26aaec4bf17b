package player

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/normanking/virtualfriend/internal/script"
)

// ExpressionPreset is a static mapping from morph target to weight, selected
// by expression tag. Morphs not listed blend toward zero.
type ExpressionPreset struct {
	Name    string
	Weights Weights
}

func preset(name string, entries map[MorphIndex]float64) ExpressionPreset {
	var w Weights
	for idx, v := range entries {
		w.Set(idx, v)
	}
	return ExpressionPreset{Name: name, Weights: w}
}

// builtinPresets are the sculpted expressions the reply script may select.
// The weights were authored against the shipped model.
var builtinPresets = map[string]ExpressionPreset{
	script.ExpressionDefault: preset(script.ExpressionDefault, nil),
	script.ExpressionNeutral: preset(script.ExpressionNeutral, map[MorphIndex]float64{
		BrowInnerUp: 0.17, EyeSquintLeft: 0.4, EyeSquintRight: 0.44,
		NoseSneerLeft: 0.17, NoseSneerRight: 0.14,
		MouthPressLeft: 0.61, MouthPressRight: 0.41,
		MouthSmileLeft: 0.1, MouthSmileRight: 0.1,
	}),
	script.ExpressionSmile: preset(script.ExpressionSmile, map[MorphIndex]float64{
		BrowInnerUp: 0.17, EyeSquintLeft: 0.4, EyeSquintRight: 0.44,
		NoseSneerLeft: 0.17, NoseSneerRight: 0.14,
		MouthPressLeft: 0.61, MouthPressRight: 0.41,
		MouthSmileLeft: 0.2, MouthSmileRight: 0.2,
	}),
	script.ExpressionFunnyFace: preset(script.ExpressionFunnyFace, map[MorphIndex]float64{
		JawLeft: 0.63, MouthPucker: 0.53, NoseSneerLeft: 1, NoseSneerRight: 0.39,
		MouthLeft: 1, EyeLookUpLeft: 1, EyeLookUpRight: 1, CheekPuff: 0.999,
		MouthDimpleLeft: 0.414, MouthRollLower: 0.32,
		MouthSmileLeft: 0.355, MouthSmileRight: 0.355,
	}),
	script.ExpressionSad: preset(script.ExpressionSad, map[MorphIndex]float64{
		MouthFrownLeft: 1, MouthFrownRight: 1, MouthShrugLower: 0.78,
		BrowInnerUp: 0.452, EyeSquintLeft: 0.72, EyeSquintRight: 0.75,
		EyeLookDownLeft: 0.5, EyeLookDownRight: 0.5, JawForward: 1,
	}),
	script.ExpressionSurprised: preset(script.ExpressionSurprised, map[MorphIndex]float64{
		EyeWideLeft: 0.5, EyeWideRight: 0.5, JawOpen: 0.351,
		MouthFunnel: 1, BrowInnerUp: 1,
	}),
	script.ExpressionAngry: preset(script.ExpressionAngry, map[MorphIndex]float64{
		BrowDownLeft: 1, BrowDownRight: 1, EyeSquintLeft: 1, EyeSquintRight: 1,
		JawForward: 1, JawLeft: 1, MouthShrugLower: 1,
		NoseSneerLeft: 1, NoseSneerRight: 0.42,
		EyeLookDownLeft: 0.16, EyeLookDownRight: 0.16,
		CheekSquintLeft: 1, CheekSquintRight: 1,
		MouthClose: 0.23, MouthFunnel: 0.63, MouthDimpleRight: 1,
	}),
	script.ExpressionCrazy: preset(script.ExpressionCrazy, map[MorphIndex]float64{
		BrowInnerUp: 0.9, JawForward: 1, NoseSneerLeft: 0.57, NoseSneerRight: 0.51,
		EyeLookDownLeft: 0.39, EyeLookUpRight: 0.4, EyeLookInLeft: 0.96, EyeLookInRight: 0.96,
		JawOpen: 0.96, MouthDimpleLeft: 0.96, MouthDimpleRight: 0.96,
		MouthStretchLeft: 0.28, MouthStretchRight: 0.29,
		MouthSmileLeft: 0.56, MouthSmileRight: 0.38, TongueOut: 0.96,
	}),
}

// PresetStore resolves expression tags to presets. It starts with the
// built-in set and may be overlaid from a YAML file, optionally hot-reloaded
// (see Watch). Lookups are total: unknown tags resolve to the empty default
// preset, never nil.
type PresetStore struct {
	mu      sync.RWMutex
	presets map[string]ExpressionPreset
}

// NewPresetStore returns a store holding the built-in presets.
func NewPresetStore() *PresetStore {
	presets := make(map[string]ExpressionPreset, len(builtinPresets))
	for name, p := range builtinPresets {
		presets[name] = p
	}
	return &PresetStore{presets: presets}
}

// For resolves an expression tag. Unknown tags (including "") return the
// zero-weight default preset.
func (s *PresetStore) For(tag string) ExpressionPreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.presets[tag]; ok {
		return p
	}
	return s.presets[script.ExpressionDefault]
}

// Names lists the known expression tags.
func (s *PresetStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	return names
}

// LoadFile overlays presets from a YAML file of the form
//
//	smile:
//	  mouthSmileLeft: 0.3
//	  mouthSmileRight: 0.3
//
// on top of the current set. Unknown morph names in the file are an error;
// a preset file must not silently reference targets the mesh does not have.
func (s *PresetStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read presets file: %w", err)
	}

	var raw map[string]map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode presets file: %w", err)
	}

	loaded := make(map[string]ExpressionPreset, len(raw))
	for tag, entries := range raw {
		var w Weights
		for name, value := range entries {
			idx := MorphIndexFromName(name)
			if idx < 0 {
				return fmt.Errorf("preset %q references unknown morph target %q", tag, name)
			}
			w.Set(idx, value)
		}
		loaded[tag] = ExpressionPreset{Name: tag, Weights: w}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for tag, p := range loaded {
		s.presets[tag] = p
	}
	return nil
}
