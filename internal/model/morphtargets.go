// Package model inspects the rigged avatar asset. The backend never renders
// the model, but it validates at startup that the mesh actually carries the
// morph targets the expression presets and lip-sync shapes refer to, so a
// mismatched asset fails fast instead of animating a blank face.
package model

import (
	"fmt"
	"sort"

	"github.com/qmuntal/gltf"
)

// MorphTargets holds the morph target names declared by each morphed mesh
// in a glTF asset.
type MorphTargets struct {
	ByMesh map[string][]string
}

// LoadMorphTargets opens a .glb or .gltf file and collects the morph target
// names of every mesh that declares morph targets. Names come from the
// mesh-level "targetNames" extra; targets without a published name get a
// positional placeholder.
func LoadMorphTargets(path string) (*MorphTargets, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mt := &MorphTargets{ByMesh: make(map[string][]string)}
	for mi, mesh := range doc.Meshes {
		targets := 0
		for _, prim := range mesh.Primitives {
			if len(prim.Targets) > targets {
				targets = len(prim.Targets)
			}
		}
		if targets == 0 {
			continue
		}

		names := make([]string, targets)
		for i := range names {
			names[i] = fmt.Sprintf("target_%d", i)
		}
		if extras, ok := mesh.Extras.(map[string]interface{}); ok {
			if targetNames, ok := extras["targetNames"].([]interface{}); ok {
				for i, name := range targetNames {
					if i >= len(names) {
						break
					}
					if s, ok := name.(string); ok {
						names[i] = s
					}
				}
			}
		}

		key := mesh.Name
		if key == "" {
			key = fmt.Sprintf("mesh_%d", mi)
		}
		mt.ByMesh[key] = names
	}

	if len(mt.ByMesh) == 0 {
		return nil, fmt.Errorf("model %s declares no morph targets", path)
	}
	return mt, nil
}

// Names returns the sorted union of target names across all meshes.
func (m *MorphTargets) Names() []string {
	seen := make(map[string]struct{})
	for _, names := range m.ByMesh {
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Has reports whether any mesh declares the named target.
func (m *MorphTargets) Has(name string) bool {
	for _, names := range m.ByMesh {
		for _, n := range names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// Missing returns the subset of required names no mesh declares, preserving
// the input order.
func (m *MorphTargets) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !m.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate fails when any required name is absent from the asset.
func (m *MorphTargets) Validate(required []string) error {
	if missing := m.Missing(required); len(missing) > 0 {
		return fmt.Errorf("model is missing %d morph targets: %v", len(missing), missing)
	}
	return nil
}
