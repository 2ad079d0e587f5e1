package hullmesh

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/hullmesh/pkg/bsp"
	"github.com/Faultbox/hullmesh/pkg/math"
)

// OnEpsilon is how far a point may be from a plane and still count as on it.
const OnEpsilon = 0.01

// baseWindingExtent is the half size of the quad BaseWindingForPlane builds.
const baseWindingExtent = 8192

type side uint8

const (
	sideFront side = iota
	sideBack
	sideOn
)

// classification holds per-point plane distances and sides. Index n repeats
// index 0 so edge walks can look one point ahead.
type classification struct {
	dists  [MaxPointsOnWinding + 1]float32
	sides  [MaxPointsOnWinding + 1]side
	counts [3]int
}

func classify(in *Winding, split bsp.Plane) (*classification, error) {
	n := len(in.Points)
	if n > MaxPointsOnWinding {
		return nil, fmt.Errorf("%w: classifying %d points", ErrWindingOverflow, n)
	}

	c := &classification{}
	for i, p := range in.Points {
		dot := split.Distance(p)
		c.dists[i] = dot
		switch {
		case dot > OnEpsilon:
			c.sides[i] = sideFront
		case dot < -OnEpsilon:
			c.sides[i] = sideBack
		default:
			c.sides[i] = sideOn
		}
		c.counts[c.sides[i]]++
	}
	if n > 0 {
		c.sides[n] = c.sides[0]
		c.dists[n] = c.dists[0]
	}
	return c, nil
}

// crosses reports whether the edge starting at point i needs a split point.
func (c *classification) crosses(i int) bool {
	s, next := c.sides[i], c.sides[i+1]
	return s != sideOn && next != sideOn && next != s
}

// splitPoint interpolates the crossing of the edge p1->p2. Components of an
// axial plane are taken from the plane itself to avoid drift.
func splitPoint(p1, p2 math.Vec3, d1, d2 float32, split bsp.Plane) math.Vec3 {
	dot := d1 / (d1 - d2)
	var mid math.Vec3
	for j := 0; j < 3; j++ {
		switch split.Normal.Get(j) {
		case 1:
			mid = mid.With(j, split.Dist)
		case -1:
			mid = mid.With(j, -split.Dist)
		default:
			a := p1.Get(j)
			mid = mid.With(j, a+dot*(p2.Get(j)-a))
		}
	}
	return mid
}

// BaseWindingForPlane returns a huge quad lying on p, big enough to cover
// any hull before clipping.
func BaseWindingForPlane(p bsp.Plane) (*Winding, error) {
	// Find the major axis.
	axis := -1
	var best float32
	for i := 0; i < 3; i++ {
		v := float32(gomath.Abs(float64(p.Normal.Get(i))))
		if v > best {
			axis = i
			best = v
		}
	}
	if axis == -1 {
		return nil, fmt.Errorf("%w: normal %v", ErrNoDominantAxis, p.Normal)
	}

	var up math.Vec3
	switch axis {
	case 0, 1:
		up.Z = 1
	case 2:
		up.X = 1
	}

	up = up.MA(-up.Dot(p.Normal), p.Normal).Normalize()
	org := p.Normal.Scale(p.Dist)
	right := up.Cross(p.Normal)

	up = up.Scale(baseWindingExtent)
	right = right.Scale(baseWindingExtent)

	w, err := NewWinding(4)
	if err != nil {
		return nil, err
	}
	w.add(org.Sub(right).Add(up))
	w.add(org.Add(right).Add(up))
	w.add(org.Add(right).Sub(up))
	w.add(org.Sub(right).Sub(up))
	return w, nil
}

// ClipWinding keeps the part of in that lies in front of split.
//
// ClipWinding consumes in: the caller must only use the returned winding,
// which is either in itself (nothing behind the plane, or everything on it
// with keepOn set) or a new winding. A nil result means nothing was in front.
func ClipWinding(in *Winding, split bsp.Plane, keepOn bool) (*Winding, error) {
	c, err := classify(in, split)
	if err != nil {
		return nil, err
	}

	if keepOn && c.counts[sideFront] == 0 && c.counts[sideBack] == 0 {
		return in, nil
	}
	if c.counts[sideFront] == 0 {
		in.free()
		return nil, nil
	}
	if c.counts[sideBack] == 0 {
		return in, nil
	}

	// counts[front]+2 is not enough with fp grouping errors.
	maxpts := len(in.Points) + 4
	neww, err := NewWinding(maxpts)
	if err != nil {
		return nil, err
	}

	for i, p1 := range in.Points {
		if c.sides[i] == sideOn {
			neww.add(p1)
			continue
		}
		if c.sides[i] == sideFront {
			neww.add(p1)
		}
		if !c.crosses(i) {
			continue
		}
		p2 := in.Points[(i+1)%len(in.Points)]
		neww.add(splitPoint(p1, p2, c.dists[i], c.dists[i+1], split))
	}

	if len(neww.Points) > maxpts {
		return nil, fmt.Errorf("%w: clip produced %d points, estimated %d", ErrWindingOverflow, len(neww.Points), maxpts)
	}

	in.free()
	return neww, nil
}

// DivideWinding splits in by split without modifying it. If in lies
// entirely on one side, that side gets in itself and the other side is nil.
// Otherwise both results are new windings; points on the plane go to both.
func DivideWinding(in *Winding, split bsp.Plane) (front, back *Winding, err error) {
	c, err := classify(in, split)
	if err != nil {
		return nil, nil, err
	}

	if c.counts[sideFront] == 0 {
		return nil, in, nil
	}
	if c.counts[sideBack] == 0 {
		return in, nil, nil
	}

	maxpts := len(in.Points) + 4
	if front, err = NewWinding(maxpts); err != nil {
		return nil, nil, err
	}
	if back, err = NewWinding(maxpts); err != nil {
		return nil, nil, err
	}

	for i, p1 := range in.Points {
		switch c.sides[i] {
		case sideOn:
			front.add(p1)
			back.add(p1)
			continue
		case sideFront:
			front.add(p1)
		case sideBack:
			back.add(p1)
		}
		if !c.crosses(i) {
			continue
		}
		p2 := in.Points[(i+1)%len(in.Points)]
		mid := splitPoint(p1, p2, c.dists[i], c.dists[i+1], split)
		front.add(mid)
		back.add(mid)
	}

	if len(front.Points) > maxpts || len(back.Points) > maxpts {
		return nil, nil, fmt.Errorf("%w: divide produced %d/%d points, estimated %d",
			ErrWindingOverflow, len(front.Points), len(back.Points), maxpts)
	}
	return front, back, nil
}
