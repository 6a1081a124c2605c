package designer

import (
	"math"
	"math/rand/v2"
)

// Default size of a new component
const (
	DefaultWidth  = 300
	DefaultHeight = 200
)

// area new components are scattered over
const (
	scatterWidth  = 400
	scatterHeight = 300
	cascadeStep   = 20
)

// Placer chooses the position of a new component given those already on
// the canvas. The width and height it returns must be positive.
type Placer func(existing []Component) Position

// RandomPlacer scatters new components over the top left of the canvas. A
// spot that exactly matches an existing component is retried, and after a few
// misses the component is cascaded down and right until it is free.
func RandomPlacer(rnd *rand.Rand) Placer {
	next := rand.Float64
	if rnd != nil {
		next = rnd.Float64
	}
	return func(existing []Component) Position {
		for attempt := 0; attempt < 8; attempt++ {
			p := Position{
				X:      math.Round(next() * scatterWidth),
				Y:      math.Round(next() * scatterHeight),
				Width:  DefaultWidth,
				Height: DefaultHeight,
			}
			if !occupied(existing, p) {
				return p
			}
		}
		return cascade(existing)
	}
}

// TilePlacer lays components out left to right, two per row
func TilePlacer(existing []Component) Position {
	n := len(existing)
	p := Position{
		X:      float64(n%2) * (DefaultWidth + cascadeStep),
		Y:      float64(n/2) * (DefaultHeight + cascadeStep),
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	if occupied(existing, p) {
		return cascade(existing)
	}
	return p
}

func cascade(existing []Component) Position {
	p := Position{Width: DefaultWidth, Height: DefaultHeight}
	for occupied(existing, p) {
		p.X += cascadeStep
		p.Y += cascadeStep
	}
	return p
}

func occupied(existing []Component, p Position) bool {
	for _, c := range existing {
		if c.Position == p {
			return true
		}
	}
	return false
}
