// Package bsp provides the collision hull model and a loader for Quake BSP29 maps.
package bsp

import (
	"errors"
	"fmt"

	"github.com/Faultbox/hullmesh/pkg/math"
)

// Contents classifies a leaf of a hull. Zero marks a decision node.
type Contents int32

// Leaf content values, as stored in clip-node children and BSP leafs.
const (
	ContentsNode  Contents = 0
	ContentsEmpty Contents = -1
	ContentsSolid Contents = -2
	ContentsWater Contents = -3
	ContentsSlime Contents = -4
	ContentsLava  Contents = -5
	ContentsSky   Contents = -6
)

// String returns a human-readable content name.
func (c Contents) String() string {
	switch c {
	case ContentsNode:
		return "Node"
	case ContentsEmpty:
		return "Empty"
	case ContentsSolid:
		return "Solid"
	case ContentsWater:
		return "Water"
	case ContentsSlime:
		return "Slime"
	case ContentsLava:
		return "Lava"
	case ContentsSky:
		return "Sky"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(c))
	}
}

// IsLeaf reports whether c tags a leaf rather than a decision node.
func (c Contents) IsLeaf() bool {
	return c < 0
}

// Plane types. Axial planes have a normal of exactly +1 or -1 on one axis.
const (
	PlaneX int32 = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

// Plane is a half-space: points p with Normal·p - Dist > 0 are in front.
type Plane struct {
	Normal math.Vec3
	Dist   float32
	Type   int32
}

// NewPlane creates a plane and classifies its type from the normal.
func NewPlane(normal math.Vec3, dist float32) Plane {
	return Plane{Normal: normal, Dist: dist, Type: planeType(normal)}
}

func planeType(n math.Vec3) int32 {
	switch {
	case n.X == 1 || n.X == -1:
		return PlaneX
	case n.Y == 1 || n.Y == -1:
		return PlaneY
	case n.Z == 1 || n.Z == -1:
		return PlaneZ
	}
	ax, ay, az := abs(n.X), abs(n.Y), abs(n.Z)
	if ax >= ay && ax >= az {
		return PlaneAnyX
	}
	if ay >= az {
		return PlaneAnyY
	}
	return PlaneAnyZ
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) - p.Dist
}

// Flip returns the same plane facing the other way.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), Dist: -p.Dist, Type: p.Type}
}

// ClipNode is a decision node of a hull. A child >= 0 indexes another clip
// node; a negative child is the Contents of a leaf.
type ClipNode struct {
	PlaneNum int32
	Children [2]int32
}

// Hull is a collision tree over a shared plane table.
type Hull struct {
	ClipNodes []ClipNode
	Planes    []Plane
	// FirstClipNode is the root. A negative value makes the whole hull a
	// single leaf with that Contents.
	FirstClipNode int32
	ClipMins      math.Vec3
	ClipMaxs      math.Vec3
}

// Hull errors.
var (
	ErrBadClipNode = errors.New("clip node index out of range")
	ErrBadPlane    = errors.New("plane index out of range")
)

// Validate checks that every index reachable in the hull is in range.
func (h *Hull) Validate() error {
	check := func(child int32, from int) error {
		if child >= 0 && int(child) >= len(h.ClipNodes) {
			return fmt.Errorf("%w: %d (from node %d)", ErrBadClipNode, child, from)
		}
		return nil
	}
	if err := check(h.FirstClipNode, -1); err != nil {
		return err
	}
	for i, n := range h.ClipNodes {
		if n.PlaneNum < 0 || int(n.PlaneNum) >= len(h.Planes) {
			return fmt.Errorf("%w: node %d references plane %d", ErrBadPlane, i, n.PlaneNum)
		}
		for _, c := range n.Children {
			if err := check(c, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// PointContents walks the hull from the root and returns the leaf
// classification of p.
func (h *Hull) PointContents(p math.Vec3) Contents {
	num := h.FirstClipNode
	for num >= 0 {
		node := &h.ClipNodes[num]
		if h.Planes[node.PlaneNum].Distance(p) >= 0 {
			num = node.Children[0]
		} else {
			num = node.Children[1]
		}
	}
	return Contents(num)
}

// NewLeafHull returns a hull made of one leaf.
func NewLeafHull(c Contents) *Hull {
	return &Hull{FirstClipNode: int32(c)}
}

// NewBoxHull builds the six-node axial tree enclosing [mins, maxs]. Points
// inside the box are classified as inside, everything else as outside. Every
// plane normal points away from the box.
func NewBoxHull(mins, maxs math.Vec3, inside, outside Contents) *Hull {
	h := &Hull{
		ClipNodes: make([]ClipNode, 6),
		Planes:    make([]Plane, 6),
	}
	for i := 0; i < 6; i++ {
		axis := i >> 1
		var normal math.Vec3
		var dist float32
		if i&1 == 0 {
			normal = normal.With(axis, 1)
			dist = maxs.Get(axis)
		} else {
			normal = normal.With(axis, -1)
			dist = -mins.Get(axis)
		}
		h.Planes[i] = NewPlane(normal, dist)

		next := int32(i + 1)
		if i == 5 {
			next = int32(inside)
		}
		h.ClipNodes[i] = ClipNode{
			PlaneNum: int32(i),
			Children: [2]int32{int32(outside), next},
		}
	}
	return h
}

// NodeCount returns the number of distinct clip nodes reachable from the
// root. Out-of-range children are not followed.
func (h *Hull) NodeCount() int {
	seen := make([]bool, len(h.ClipNodes))
	stack := []int32{h.FirstClipNode}
	count := 0
	for len(stack) > 0 {
		num := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if num < 0 || int(num) >= len(h.ClipNodes) || seen[num] {
			continue
		}
		seen[num] = true
		count++
		stack = append(stack, h.ClipNodes[num].Children[0], h.ClipNodes[num].Children[1])
	}
	return count
}
