package bsp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/hullmesh/pkg/math"
)

// Version29 is the only BSP version the loader understands.
const Version29 = 29

// MaxHulls is the number of collision hulls per model.
const MaxHulls = 3

// Lump indices in the BSP29 header.
const (
	LumpEntities = iota
	LumpPlanes
	LumpTextures
	LumpVertexes
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeafs
	LumpMarkSurfaces
	LumpEdges
	LumpSurfEdges
	LumpModels
	numLumps
)

// BSP format errors.
var (
	ErrTruncatedBSPData      = errors.New("truncated BSP data")
	ErrUnsupportedBSPVersion = errors.New("unsupported BSP version")
	ErrBadLump               = errors.New("malformed BSP lump")
	ErrBadHullIndex          = errors.New("hull index out of range")
	ErrBadModelIndex         = errors.New("model index out of range")
)

// Per-hull player box extents, indexed by hull number.
var hullExtents = [MaxHulls][2]math.Vec3{
	{{}, {}},
	{{X: -16, Y: -16, Z: -24}, {X: 16, Y: 16, Z: 32}},
	{{X: -32, Y: -32, Z: -24}, {X: 32, Y: 32, Z: 64}},
}

type lump struct {
	Offset int32
	Length int32
}

type dplane struct {
	Normal [3]float32
	Dist   float32
	Type   int32
}

type dnode struct {
	PlaneNum  int32
	Children  [2]int16
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
}

type dclipnode struct {
	PlaneNum int32
	Children [2]int16
}

type dleaf struct {
	Contents         int32
	VisOffset        int32
	Mins             [3]int16
	Maxs             [3]int16
	FirstMarkSurface uint16
	NumMarkSurfaces  uint16
	AmbientLevel     [4]uint8
}

type dmodel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  [4]int32
	VisLeafs  int32
	FirstFace int32
	NumFaces  int32
}

// Node is a render-tree node. Negative children index leafs as -(child+1).
type Node struct {
	PlaneNum int32
	Children [2]int16
}

// Leaf is a render-tree leaf; only its classification matters for hulls.
type Leaf struct {
	Contents Contents
}

// Model is a brush model: the world (model 0) or a door, platform and so on.
type Model struct {
	Mins     math.Vec3
	Maxs     math.Vec3
	Origin   math.Vec3
	HeadNode [4]int32
}

// HullBounds returns the box a hull of this model can occupy. Clip hulls
// are the brushes grown by the player box, so the model bounds are widened
// by the opposite box extents.
func (m *Model) HullBounds(h *Hull) (mins, maxs math.Vec3) {
	return m.Mins.Sub(h.ClipMaxs), m.Maxs.Sub(h.ClipMins)
}

// File holds the parts of a BSP29 map that collision hulls are built from.
type File struct {
	Version   int32
	Planes    []Plane
	Nodes     []Node
	Leafs     []Leaf
	ClipNodes []ClipNode
	Models    []Model
}

// Parse parses a BSP29 map from raw bytes.
func Parse(data []byte) (*File, error) {
	if len(data) < 4+numLumps*8 {
		return nil, ErrTruncatedBSPData
	}

	r := bytes.NewReader(data)
	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedBSPData)
	}
	if version != Version29 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBSPVersion, version)
	}

	var lumps [numLumps]lump
	if err := binary.Read(r, binary.LittleEndian, &lumps); err != nil {
		return nil, fmt.Errorf("%w: reading lump directory", ErrTruncatedBSPData)
	}

	f := &File{Version: version}

	var planes []dplane
	if err := readLump(data, lumps[LumpPlanes], "planes", &planes); err != nil {
		return nil, err
	}
	f.Planes = make([]Plane, len(planes))
	for i, p := range planes {
		f.Planes[i] = Plane{Normal: vec(p.Normal), Dist: p.Dist, Type: p.Type}
	}

	var nodes []dnode
	if err := readLump(data, lumps[LumpNodes], "nodes", &nodes); err != nil {
		return nil, err
	}
	f.Nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		f.Nodes[i] = Node{PlaneNum: n.PlaneNum, Children: n.Children}
	}

	var clipnodes []dclipnode
	if err := readLump(data, lumps[LumpClipNodes], "clipnodes", &clipnodes); err != nil {
		return nil, err
	}
	f.ClipNodes = make([]ClipNode, len(clipnodes))
	for i, c := range clipnodes {
		f.ClipNodes[i] = ClipNode{
			PlaneNum: c.PlaneNum,
			Children: [2]int32{int32(c.Children[0]), int32(c.Children[1])},
		}
	}

	var leafs []dleaf
	if err := readLump(data, lumps[LumpLeafs], "leafs", &leafs); err != nil {
		return nil, err
	}
	f.Leafs = make([]Leaf, len(leafs))
	for i, l := range leafs {
		f.Leafs[i] = Leaf{Contents: Contents(l.Contents)}
	}

	var models []dmodel
	if err := readLump(data, lumps[LumpModels], "models", &models); err != nil {
		return nil, err
	}
	f.Models = make([]Model, len(models))
	for i, m := range models {
		f.Models[i] = Model{
			Mins:     vec(m.Mins),
			Maxs:     vec(m.Maxs),
			Origin:   vec(m.Origin),
			HeadNode: m.HeadNode,
		}
	}

	return f, nil
}

// readLump decodes a lump into *out, which must point to a nil slice of a
// fixed-size record type.
func readLump[T any](data []byte, l lump, name string, out *[]T) error {
	var rec T
	size := binary.Size(rec)
	if l.Offset < 0 || l.Length < 0 || int64(l.Offset)+int64(l.Length) > int64(len(data)) {
		return fmt.Errorf("%w: %s lump [%d, +%d) outside file", ErrTruncatedBSPData, name, l.Offset, l.Length)
	}
	if int(l.Length)%size != 0 {
		return fmt.Errorf("%w: %s lump length %d is not a multiple of %d", ErrBadLump, name, l.Length, size)
	}
	*out = make([]T, int(l.Length)/size)
	r := bytes.NewReader(data[l.Offset : l.Offset+l.Length])
	if err := binary.Read(r, binary.LittleEndian, *out); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrTruncatedBSPData, name, err)
	}
	return nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// ParseFile parses a BSP29 map from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BSP file: %w", err)
	}
	return Parse(data)
}

// Hull returns collision hull hullIndex of model modelIndex. Hull 0 is
// derived from the render tree; hulls 1 and 2 share the clip-node lump.
func (f *File) Hull(modelIndex, hullIndex int) (*Hull, error) {
	if modelIndex < 0 || modelIndex >= len(f.Models) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrBadModelIndex, modelIndex, len(f.Models))
	}
	if hullIndex < 0 || hullIndex >= MaxHulls {
		return nil, fmt.Errorf("%w: %d", ErrBadHullIndex, hullIndex)
	}

	m := &f.Models[modelIndex]
	h := &Hull{
		Planes:        f.Planes,
		FirstClipNode: m.HeadNode[hullIndex],
		ClipMins:      hullExtents[hullIndex][0],
		ClipMaxs:      hullExtents[hullIndex][1],
	}
	if hullIndex == 0 {
		clipnodes, err := f.makeHull0()
		if err != nil {
			return nil, err
		}
		h.ClipNodes = clipnodes
	} else {
		h.ClipNodes = f.ClipNodes
	}

	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("model %d hull %d: %w", modelIndex, hullIndex, err)
	}
	return h, nil
}

// makeHull0 turns the render tree into clip nodes by replacing leaf
// references with the leaf contents.
func (f *File) makeHull0() ([]ClipNode, error) {
	out := make([]ClipNode, len(f.Nodes))
	for i, n := range f.Nodes {
		out[i].PlaneNum = n.PlaneNum
		for side, child := range n.Children {
			if child >= 0 {
				out[i].Children[side] = int32(child)
				continue
			}
			leaf := -1 - int(child)
			if leaf >= len(f.Leafs) {
				return nil, fmt.Errorf("%w: node %d references leaf %d", ErrBadLump, i, leaf)
			}
			contents := f.Leafs[leaf].Contents
			if !contents.IsLeaf() {
				return nil, fmt.Errorf("%w: leaf %d has contents %d", ErrBadLump, leaf, contents)
			}
			out[i].Children[side] = int32(contents)
		}
	}
	return out, nil
}
