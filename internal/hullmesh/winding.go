package hullmesh

import (
	"fmt"

	"github.com/Faultbox/hullmesh/pkg/math"
)

// MaxPointsOnWinding bounds the size of any winding.
const MaxPointsOnWinding = 64

// Winding is a convex polygon: coplanar points, implicitly closed, all wound
// the same way.
type Winding struct {
	Points []math.Vec3
}

// NewWinding allocates an empty winding with room for n points.
func NewWinding(n int) (*Winding, error) {
	if n > MaxPointsOnWinding {
		return nil, fmt.Errorf("%w: %d points", ErrWindingOverflow, n)
	}
	return &Winding{Points: make([]math.Vec3, 0, n)}, nil
}

// NumPoints returns the number of points.
func (w *Winding) NumPoints() int {
	return len(w.Points)
}

// Clone returns a deep copy.
func (w *Winding) Clone() *Winding {
	pts := make([]math.Vec3, len(w.Points), cap(w.Points))
	copy(pts, w.Points)
	return &Winding{Points: pts}
}

// Area returns the polygon area.
func (w *Winding) Area() float32 {
	var total float32
	for i := 2; i < len(w.Points); i++ {
		d1 := w.Points[i-1].Sub(w.Points[0])
		d2 := w.Points[i].Sub(w.Points[0])
		total += 0.5 * d1.Cross(d2).Length()
	}
	return total
}

func (w *Winding) add(p math.Vec3) {
	w.Points = append(w.Points, p)
}

// free invalidates a consumed winding so later use shows up as an empty polygon.
func (w *Winding) free() {
	w.Points = nil
}
