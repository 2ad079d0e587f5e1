package bsp

import (
	"errors"
	"testing"

	"github.com/Faultbox/hullmesh/pkg/math"
)

func TestContentsString(t *testing.T) {
	tests := []struct {
		c    Contents
		want string
	}{
		{ContentsNode, "Node"},
		{ContentsEmpty, "Empty"},
		{ContentsSolid, "Solid"},
		{ContentsWater, "Water"},
		{ContentsSky, "Sky"},
		{Contents(-42), "Unknown(-42)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Contents(%d).String() = %q, want %q", int32(tt.c), got, tt.want)
		}
	}
	if ContentsNode.IsLeaf() {
		t.Error("ContentsNode.IsLeaf() = true")
	}
	if !ContentsSolid.IsLeaf() {
		t.Error("ContentsSolid.IsLeaf() = false")
	}
}

func TestNewPlaneType(t *testing.T) {
	tests := []struct {
		normal math.Vec3
		want   int32
	}{
		{math.Vec3{X: 1}, PlaneX},
		{math.Vec3{Y: -1}, PlaneY},
		{math.Vec3{Z: 1}, PlaneZ},
		{math.Vec3{X: 0.8, Y: 0.6}, PlaneAnyX},
		{math.Vec3{X: 0.6, Y: 0.8}, PlaneAnyY},
		{math.Vec3{X: 0.6, Z: -0.8}, PlaneAnyZ},
	}
	for _, tt := range tests {
		if got := NewPlane(tt.normal, 0).Type; got != tt.want {
			t.Errorf("NewPlane(%v).Type = %d, want %d", tt.normal, got, tt.want)
		}
	}
}

func TestPlaneFlip(t *testing.T) {
	p := NewPlane(math.Vec3{Z: 1}, 10)
	f := p.Flip()
	pt := math.Vec3{Z: 15}
	if p.Distance(pt) != 5 {
		t.Errorf("Distance = %v, want 5", p.Distance(pt))
	}
	if f.Distance(pt) != -5 {
		t.Errorf("flipped Distance = %v, want -5", f.Distance(pt))
	}
}

func TestBoxHullPointContents(t *testing.T) {
	h := NewBoxHull(math.Vec3{X: -16, Y: -16, Z: -24}, math.Vec3{X: 16, Y: 16, Z: 32}, ContentsEmpty, ContentsSolid)
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		p    math.Vec3
		want Contents
	}{
		{math.Vec3{}, ContentsEmpty},
		{math.Vec3{X: 15, Y: -15, Z: 31}, ContentsEmpty},
		{math.Vec3{X: 17}, ContentsSolid},
		{math.Vec3{X: -17}, ContentsSolid},
		{math.Vec3{Y: 100}, ContentsSolid},
		{math.Vec3{Z: -25}, ContentsSolid},
		{math.Vec3{Z: 33}, ContentsSolid},
	}
	for _, tt := range tests {
		if got := h.PointContents(tt.p); got != tt.want {
			t.Errorf("PointContents(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	for i, pl := range h.Planes {
		if pl.Dist <= 0 {
			t.Errorf("plane %d dist = %v, want outward facing positive distance", i, pl.Dist)
		}
	}
}

func TestLeafHull(t *testing.T) {
	h := NewLeafHull(ContentsWater)
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := h.PointContents(math.Vec3{X: 1e6}); got != ContentsWater {
		t.Errorf("PointContents = %v, want Water", got)
	}
}

func TestHullValidate(t *testing.T) {
	planes := []Plane{NewPlane(math.Vec3{X: 1}, 0)}
	tests := []struct {
		name string
		hull Hull
		want error
	}{
		{
			name: "bad root",
			hull: Hull{Planes: planes, FirstClipNode: 3},
			want: ErrBadClipNode,
		},
		{
			name: "bad child",
			hull: Hull{Planes: planes, ClipNodes: []ClipNode{{PlaneNum: 0, Children: [2]int32{5, -1}}}},
			want: ErrBadClipNode,
		},
		{
			name: "bad plane",
			hull: Hull{Planes: planes, ClipNodes: []ClipNode{{PlaneNum: 1, Children: [2]int32{-1, -2}}}},
			want: ErrBadPlane,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.hull.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHullNodeCount(t *testing.T) {
	box := NewBoxHull(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}, ContentsSolid, ContentsEmpty)
	if n := box.NodeCount(); n != 6 {
		t.Errorf("box NodeCount() = %d, want 6", n)
	}

	// Starting further down the chain skips the nodes above.
	box.FirstClipNode = 4
	if n := box.NodeCount(); n != 2 {
		t.Errorf("NodeCount() from node 4 = %d, want 2", n)
	}

	if n := NewLeafHull(ContentsEmpty).NodeCount(); n != 0 {
		t.Errorf("leaf NodeCount() = %d, want 0", n)
	}

	shared := &Hull{
		Planes: []Plane{NewPlane(math.Vec3{X: 1}, 0)},
		ClipNodes: []ClipNode{
			{PlaneNum: 0, Children: [2]int32{1, 1}},
			{PlaneNum: 0, Children: [2]int32{-1, 7}},
		},
	}
	if n := shared.NodeCount(); n != 2 {
		t.Errorf("shared NodeCount() = %d, want 2", n)
	}
}
