// Package preview lays a fixed-size letter page out inside a terminal
// viewport of arbitrary size.
package preview

import "math"

// Size is a width and height in points.
type Size struct {
	W float64
	H float64
}

// A4 is the logical page size of a letter.
var A4 = Size{W: 595, H: 842}

func (s Size) degenerate() bool {
	return !(s.W > 0) || !(s.H > 0) || math.IsInf(s.W, 0) || math.IsInf(s.H, 0)
}

// Scale returns the uniform factor that fits page inside viewport without
// distortion. It never upscales past 1 and returns 0 when either size is
// empty or not finite.
func Scale(page, viewport Size) float64 {
	if page.degenerate() || viewport.degenerate() {
		return 0
	}
	return math.Min(math.Min(viewport.W/page.W, viewport.H/page.H), 1)
}
