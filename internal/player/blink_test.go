package player

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlinkGeneratorSchedule(t *testing.T) {
	g := NewBlinkGenerator(rand.NewSource(1))

	assert.False(t, g.Closed())

	// Longer than the maximum gap, so a blink must have triggered.
	assert.True(t, g.Update(blinkGapMax+1))

	// Still inside the hold window.
	assert.True(t, g.Update(0.1))

	// Past the hold window, lids reopen and a new gap starts.
	assert.False(t, g.Update(0.15))
	assert.False(t, g.Closed())

	// The next gap is at least the minimum.
	assert.False(t, g.Update(blinkGapMin/2))
}

func TestBlinkGeneratorReschedulesAfterEachBlink(t *testing.T) {
	g := NewBlinkGenerator(rand.NewSource(42))

	blinks := 0
	for i := 0; i < 1000; i++ {
		was := g.Closed()
		now := g.Update(0.05)
		if !was && now {
			blinks++
		}
	}

	// 50 seconds of simulated time with gaps of 1 to 5 seconds.
	assert.Greater(t, blinks, 5)
	assert.Less(t, blinks, 50)
}
