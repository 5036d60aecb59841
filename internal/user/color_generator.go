package user

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenRatio = 0.618033988749895

// ColorGenerator: cursor colors spread around the hue wheel by the golden ratio,
// so consecutive clients never get neighbouring hues
type ColorGenerator struct {
	counter uint64
	mu      sync.Mutex
}

func NewColorGenerator() *ColorGenerator {
	return &ColorGenerator{}
}

// NextColor: next hex color of the sequence
func (cg *ColorGenerator) NextColor() string {
	cg.mu.Lock()
	n := cg.counter
	cg.counter++
	cg.mu.Unlock()

	hue := float64(n) * goldenRatio
	hue -= float64(uint64(hue)) // fractional part

	return colorful.Hsl(hue*360, 0.85, 0.55).Hex()
}
