package player

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// HeadSway produces a slow sinusoidal head rotation so the avatar never
// sits perfectly still. Phase offsets are randomized per instance to keep
// multiple avatars from swaying in unison.
type HeadSway struct {
	time      float64
	rate      float64
	amplitude float64
	phase     [3]float64
}

func NewHeadSway() *HeadSway {
	s := &HeadSway{
		rate:      0.1,
		amplitude: 0.015,
	}
	for i := range s.phase {
		s.phase[i] = rand.Float64() * 100
	}
	return s
}

// Update advances the sway clock and returns the current head rotation
// in radians, pitch/yaw/roll.
func (s *HeadSway) Update(dt float64) mgl32.Vec3 {
	s.time += dt
	t := s.time * s.rate * 2 * math.Pi
	return mgl32.Vec3{
		float32(math.Sin(t+s.phase[0]) * s.amplitude * 0.5),
		float32(math.Sin(t*0.7+s.phase[1]) * s.amplitude),
		float32(math.Sin(t*1.3+s.phase[2]) * s.amplitude * 0.3),
	}
}
