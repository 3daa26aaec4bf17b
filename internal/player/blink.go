package player

import "math/rand"

const (
	blinkGapMin  = 1.0
	blinkGapMax  = 5.0
	blinkHold    = 0.2
	blinkBlend   = 0.5
	closedTarget = 1.0
)

// BlinkGenerator closes and reopens the eyelids on a randomized schedule.
// Between blinks it waits a gap drawn uniformly from [1s, 5s]; a blink
// holds the lids closed for 200ms before releasing.
type BlinkGenerator struct {
	rng    *rand.Rand
	gap    float64
	hold   float64
	closed bool
}

// NewBlinkGenerator seeds the schedule from src. A nil source falls back
// to the shared global generator.
func NewBlinkGenerator(src rand.Source) *BlinkGenerator {
	g := &BlinkGenerator{}
	if src != nil {
		g.rng = rand.New(src)
	}
	g.gap = g.nextGap()
	return g
}

func (g *BlinkGenerator) nextGap() float64 {
	if g.rng != nil {
		return blinkGapMin + g.rng.Float64()*(blinkGapMax-blinkGapMin)
	}
	return blinkGapMin + rand.Float64()*(blinkGapMax-blinkGapMin)
}

// Update advances the schedule by dt seconds and reports whether the
// lids should currently be closed.
func (g *BlinkGenerator) Update(dt float64) bool {
	if g.closed {
		g.hold -= dt
		if g.hold <= 0 {
			g.closed = false
			g.gap = g.nextGap()
		}
		return g.closed
	}

	g.gap -= dt
	if g.gap <= 0 {
		g.closed = true
		g.hold = blinkHold
	}
	return g.closed
}

// Closed reports the current lid state without advancing time.
func (g *BlinkGenerator) Closed() bool { return g.closed }
