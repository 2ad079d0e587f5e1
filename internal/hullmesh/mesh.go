// Package hullmesh turns collision hulls into renderable triangle meshes.
//
// A hull is mirrored into a graph of convex leaf cells separated by portal
// polygons. Portals between a solid leaf and a non-solid leaf form the
// visible surface, which is fan-triangulated into a flat vertex/index buffer.
package hullmesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hullmesh/internal/logger"
	"github.com/Faultbox/hullmesh/pkg/bsp"
	"github.com/Faultbox/hullmesh/pkg/math"
)

// Vertex is one interleaved position+normal record of the vertex buffer.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Face is one source polygon of the mesh.
type Face struct {
	FirstVertex uint32
	NumVertices uint32
	FirstIndex  uint32
	NumIndices  uint32
	Normal      [3]float32
	// Facing is the contents of the non-solid leaf the face looks into.
	Facing bsp.Contents
}

// Stats describes the work done for one hull.
type Stats struct {
	Nodes          int
	Leafs          int
	Portals        int
	SplitPortals   int
	ClippedPortals int
	Faces          int
}

// Mesh is the triangulated surface of a hull, ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Faces    []Face
	Stats    Stats
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned box of all vertices. ok is false for an
// empty mesh.
func (m *Mesh) Bounds() (mins, maxs math.Vec3, ok bool) {
	for i, v := range m.Vertices {
		p := math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
		if i == 0 {
			mins, maxs = p, p
			continue
		}
		mins = mins.Min(p)
		maxs = maxs.Max(p)
	}
	return mins, maxs, len(m.Vertices) > 0
}

// Options controls a triangulation.
type Options struct {
	// Padding added around the bounds before building the outer portals.
	// Zero means SideSpace.
	Padding float32
	// Strict turns a node portal that clips away into ErrPortalClippedAway
	// instead of a warning.
	Strict bool
	// Validate checks every leaf's portal list after partitioning.
	Validate bool
	// Logger receives warnings. Nil means the global logger.
	Logger *zap.Logger
}

func (o Options) padding() float32 {
	if o.Padding > 0 {
		return o.Padding
	}
	return SideSpace
}

// TriangulateHull builds the portal graph of h inside [mins, maxs] and
// returns the triangulated boundary between solid and non-solid space.
//
// The graph is scoped to this call and released before returning, on error
// paths too. Identical input yields identical buffers.
func TriangulateHull(h *bsp.Hull, mins, maxs math.Vec3, opts Options) (mesh *Mesh, err error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil hull", ErrBadHull)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("hullmesh")
	}

	g := newGraph(h, opts, log)
	root := noNode
	defer func() {
		// After a failure the links may be half rewritten, so only account
		// for portals on success.
		if rerr := g.release(root, err == nil); rerr != nil {
			mesh, err = nil, rerr
		}
	}()

	if root, err = g.convertNodes(h.FirstClipNode); err != nil {
		return nil, err
	}
	if err = g.makeHeadnodePortals(root, mins, maxs); err != nil {
		return nil, err
	}
	if err = g.cutNodePortals(root); err != nil {
		return nil, err
	}
	if opts.Validate {
		if err = g.checkGraph(); err != nil {
			return nil, err
		}
	}

	if mesh, err = g.makeVertexArray(root); err != nil {
		return nil, err
	}
	mesh.Stats = g.stats

	log.Debug("hull triangulated",
		zap.Int("nodes", g.stats.Nodes),
		zap.Int("leafs", g.stats.Leafs),
		zap.Int("portals", g.stats.Portals),
		zap.Int("faces", g.stats.Faces),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return mesh, nil
}

// visitWindings calls fn once for every portal that separates a solid leaf
// from a non-solid one. Each such portal is seen from its solid side only.
func (g *graph) visitWindings(id nodeID, fn func(p *portal, facing bsp.Contents) error) error {
	n := &g.nodes[id]
	if n.contents == bsp.ContentsNode {
		for _, c := range n.children {
			if err := g.visitWindings(c, fn); err != nil {
				return err
			}
		}
		return nil
	}
	if n.contents != bsp.ContentsSolid {
		return nil
	}

	for _, pid := range g.nodePortals(id) {
		p := &g.portals[pid]
		if p.winding == nil {
			continue
		}
		side, err := g.sideOf(pid, id)
		if err != nil {
			return err
		}
		facing := g.nodes[p.nodes[1-side]].contents
		if facing == bsp.ContentsSolid {
			continue
		}
		if err := fn(p, facing); err != nil {
			return err
		}
	}
	return nil
}

// makeVertexArray counts the visible faces, sizes the buffers, then writes
// every face as a triangle fan with its plane normal on each vertex.
func (g *graph) makeVertexArray(root nodeID) (*Mesh, error) {
	var numFaces, numVertices int
	err := g.visitWindings(root, func(p *portal, _ bsp.Contents) error {
		numFaces++
		numVertices += p.winding.NumPoints()
		return nil
	})
	if err != nil {
		return nil, err
	}
	numIndices := 3 * (numVertices - 2*numFaces)

	m := &Mesh{
		Vertices: make([]Vertex, 0, numVertices),
		Indices:  make([]uint32, 0, numIndices),
		Faces:    make([]Face, 0, numFaces),
	}

	err = g.visitWindings(root, func(p *portal, facing bsp.Contents) error {
		w := p.winding
		if w.NumPoints() < 3 {
			return fmt.Errorf("%w: face with %d points", ErrMislinkedPortal, w.NumPoints())
		}
		base := uint32(len(m.Vertices))
		normal := p.plane.Normal.Array()
		m.Faces = append(m.Faces, Face{
			FirstVertex: base,
			NumVertices: uint32(w.NumPoints()),
			FirstIndex:  uint32(len(m.Indices)),
			NumIndices:  uint32(3 * (w.NumPoints() - 2)),
			Normal:      normal,
			Facing:      facing,
		})

		for _, pt := range w.Points {
			m.Vertices = append(m.Vertices, Vertex{Position: pt.Array(), Normal: normal})
		}
		for i := 0; i < w.NumPoints()-2; i++ {
			m.Indices = append(m.Indices, base, base+uint32(i)+1, base+uint32(i)+2)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(m.Vertices) != numVertices || len(m.Indices) != numIndices || len(m.Faces) != numFaces {
		return nil, fmt.Errorf("%w: counted %d vertices/%d indices, wrote %d/%d",
			ErrCountMismatch, numVertices, numIndices, len(m.Vertices), len(m.Indices))
	}
	g.stats.Faces = numFaces
	return m, nil
}
