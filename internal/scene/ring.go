package scene

import (
	"sync"

	"github.com/Faultbox/orrery/internal/engine/render"
)

const orbitRingSegments = 100

var (
	orbitRing     *render.Polyline
	orbitRingOnce sync.Once
)

// OrbitRing returns the unit circle every body strokes for its orbit path.
// It lies in the XY plane and is shared, so callers must not modify it.
func OrbitRing() *render.Polyline {
	orbitRingOnce.Do(func() {
		orbitRing = render.Circle(orbitRingSegments)
	})
	return orbitRing
}
