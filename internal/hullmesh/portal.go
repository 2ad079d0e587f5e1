package hullmesh

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/hullmesh/pkg/bsp"
	"github.com/Faultbox/hullmesh/pkg/math"
)

// SideSpace pads the hull bounds so the outermost leafs never have zero volume.
const SideSpace = 24

type nodeID int32

type portalID int32

const noNode nodeID = -1

// node mirrors one hull node. Decision nodes have a plane and two children;
// leafs have a content tag. portals is ordered by link time.
type node struct {
	plane    *bsp.Plane
	children [2]nodeID
	contents bsp.Contents
	portals  []portalID
}

// portal separates nodes[0] (in front of plane) from nodes[1] (behind it).
type portal struct {
	plane   bsp.Plane
	nodes   [2]nodeID
	winding *Winding
}

// graph owns every node, portal and winding of one triangulation call. The
// outside sentinel and the bounding planes live here, not in package state,
// so independent hulls can be built concurrently.
type graph struct {
	hull    *bsp.Hull
	nodes   []node
	portals []portal
	outside nodeID
	head    [6]bsp.Plane
	onPath  []bool
	visited []bool

	opts  Options
	stats Stats
	log   *zap.Logger
}

func newGraph(h *bsp.Hull, opts Options, log *zap.Logger) *graph {
	g := &graph{
		hull:    h,
		nodes:   make([]node, 0, 2*len(h.ClipNodes)+2),
		onPath:  make([]bool, len(h.ClipNodes)),
		visited: make([]bool, len(h.ClipNodes)),
		opts:    opts,
		log:     log,
	}
	g.outside = g.allocNode(node{contents: bsp.ContentsSolid})
	return g
}

func (g *graph) allocNode(n node) nodeID {
	n.children = [2]nodeID{noNode, noNode}
	g.nodes = append(g.nodes, n)
	return nodeID(len(g.nodes) - 1)
}

func (g *graph) allocPortal(plane bsp.Plane, w *Winding) portalID {
	g.portals = append(g.portals, portal{
		plane:   plane,
		nodes:   [2]nodeID{noNode, noNode},
		winding: w,
	})
	g.stats.Portals++
	return portalID(len(g.portals) - 1)
}

// convertNodes mirrors the hull subtree rooted at idx (a clip-node index, or
// a negative content value for a leaf) into the graph. The hull must be a
// tree: a clip node reached twice is rejected, so the mirror never holds
// more than one node per clip node.
func (g *graph) convertNodes(idx int32) (nodeID, error) {
	if idx < 0 {
		g.stats.Leafs++
		return g.allocNode(node{contents: bsp.Contents(idx)}), nil
	}
	if int(idx) >= len(g.hull.ClipNodes) {
		return noNode, fmt.Errorf("%w: clip node %d out of range", ErrBadHull, idx)
	}
	if g.onPath[idx] {
		return noNode, fmt.Errorf("%w: clip node %d is its own ancestor", ErrBadHull, idx)
	}
	if g.visited[idx] {
		return noNode, fmt.Errorf("%w: clip node %d referenced twice", ErrBadHull, idx)
	}

	cn := &g.hull.ClipNodes[idx]
	if cn.PlaneNum < 0 || int(cn.PlaneNum) >= len(g.hull.Planes) {
		return noNode, fmt.Errorf("%w: clip node %d references plane %d", ErrBadHull, idx, cn.PlaneNum)
	}

	g.visited[idx] = true
	g.onPath[idx] = true
	defer func() { g.onPath[idx] = false }()

	g.stats.Nodes++
	id := g.allocNode(node{plane: &g.hull.Planes[cn.PlaneNum]})
	for i, child := range cn.Children {
		c, err := g.convertNodes(child)
		if err != nil {
			return noNode, err
		}
		g.nodes[id].children[i] = c
	}
	return id, nil
}

// addPortalToNodes links p between front and back.
func (g *graph) addPortalToNodes(pid portalID, front, back nodeID) error {
	p := &g.portals[pid]
	if p.nodes[0] != noNode || p.nodes[1] != noNode {
		return fmt.Errorf("%w: portal %d already included", ErrMislinkedPortal, pid)
	}

	p.nodes[0] = front
	g.nodes[front].portals = append(g.nodes[front].portals, pid)
	p.nodes[1] = back
	g.nodes[back].portals = append(g.nodes[back].portals, pid)
	return nil
}

// removePortalFromNode unlinks p from the list of node id.
func (g *graph) removePortalFromNode(pid portalID, id nodeID) error {
	n := &g.nodes[id]
	at := -1
	for i, other := range n.portals {
		if other == pid {
			at = i
			break
		}
		op := &g.portals[other]
		if op.nodes[0] != id && op.nodes[1] != id {
			return fmt.Errorf("%w: portal %d in list of node %d does not bound it", ErrMislinkedPortal, other, id)
		}
	}
	if at < 0 {
		return fmt.Errorf("%w: portal %d not in node %d", ErrMislinkedPortal, pid, id)
	}
	n.portals = slices.Delete(n.portals, at, at+1)

	p := &g.portals[pid]
	switch id {
	case p.nodes[0]:
		p.nodes[0] = noNode
	case p.nodes[1]:
		p.nodes[1] = noNode
	}
	return nil
}

// sideOf returns which side of portal pid node id is on.
func (g *graph) sideOf(pid portalID, id nodeID) (int, error) {
	p := &g.portals[pid]
	switch id {
	case p.nodes[0]:
		return 0, nil
	case p.nodes[1]:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: portal %d does not bound node %d", ErrMislinkedPortal, pid, id)
}

// nodePortals returns a snapshot of the node's portals, most recently linked
// first.
func (g *graph) nodePortals(id nodeID) []portalID {
	list := slices.Clone(g.nodes[id].portals)
	slices.Reverse(list)
	return list
}

// makeHeadnodePortals encloses the root in a padded box whose six portals
// all face the outside sentinel.
func (g *graph) makeHeadnodePortals(root nodeID, mins, maxs math.Vec3) error {
	var bounds [2]math.Vec3
	pad := g.opts.padding()
	for i := 0; i < 3; i++ {
		lo, hi := mins.Get(i), maxs.Get(i)
		if !(lo <= hi) || isInf(lo) || isInf(hi) {
			return fmt.Errorf("%w: mins %v maxs %v", ErrBadBounds, mins, maxs)
		}
		bounds[0] = bounds[0].With(i, lo-pad)
		bounds[1] = bounds[1].With(i, hi+pad)
	}

	var portals [6]portalID
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			n := j*3 + i

			var normal math.Vec3
			var dist float32
			if j == 1 {
				normal = normal.With(i, -1)
				dist = -bounds[j].Get(i)
			} else {
				normal = normal.With(i, 1)
				dist = bounds[j].Get(i)
			}
			g.head[n] = bsp.NewPlane(normal, dist)

			w, err := BaseWindingForPlane(g.head[n])
			if err != nil {
				return err
			}
			portals[n] = g.allocPortal(g.head[n], w)
			if err := g.addPortalToNodes(portals[n], root, g.outside); err != nil {
				return err
			}
		}
	}

	// Clip the base windings by all the other planes.
	for i := 0; i < 6; i++ {
		p := &g.portals[portals[i]]
		for j := 0; j < 6; j++ {
			if j == i {
				continue
			}
			w, err := ClipWinding(p.winding, g.head[j], true)
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("%w: bounding portal %d clipped away", ErrBadBounds, i)
			}
			p.winding = w
		}
	}
	return nil
}

func isInf(f float32) bool {
	return f > 3.4e38 || f < -3.4e38
}

// cutNodePortals separates the portals of a decision node into its
// children, adds the portal between the two children, and recurses.
func (g *graph) cutNodePortals(id nodeID) error {
	if g.nodes[id].contents != bsp.ContentsNode {
		return nil
	}

	plane := *g.nodes[id].plane
	f, b := g.nodes[id].children[0], g.nodes[id].children[1]

	// The new portal is the full plane winding clipped by the planes of
	// every portal that bounds this node.
	w, err := BaseWindingForPlane(plane)
	if err != nil {
		return err
	}
	for _, pid := range g.nodePortals(id) {
		side, err := g.sideOf(pid, id)
		if err != nil {
			return err
		}
		clip := g.portals[pid].plane
		if side == 1 {
			clip = clip.Flip()
		}
		if w, err = ClipWinding(w, clip, true); err != nil {
			return err
		}
		if w == nil {
			g.stats.ClippedPortals++
			if g.opts.Strict {
				return fmt.Errorf("%w: node %d", ErrPortalClippedAway, id)
			}
			g.log.Warn("new portal was clipped away", zap.Int32("node", int32(id)))
			break
		}
	}
	if w != nil {
		if err := g.addPortalToNodes(g.allocPortal(plane, w), f, b); err != nil {
			return err
		}
	}

	// Partition the existing portals.
	for _, pid := range g.nodePortals(id) {
		side, err := g.sideOf(pid, id)
		if err != nil {
			return err
		}
		other := g.portals[pid].nodes[1-side]
		if err := g.removePortalFromNode(pid, g.portals[pid].nodes[0]); err != nil {
			return err
		}
		if err := g.removePortalFromNode(pid, g.portals[pid].nodes[1]); err != nil {
			return err
		}

		front, back, err := DivideWinding(g.portals[pid].winding, plane)
		if err != nil {
			return err
		}

		if front == nil {
			if err := g.relink(pid, side, b, other); err != nil {
				return err
			}
			continue
		}
		if back == nil {
			if err := g.relink(pid, side, f, other); err != nil {
				return err
			}
			continue
		}

		// The winding is split.
		g.stats.SplitPortals++
		np := g.allocPortal(g.portals[pid].plane, back)
		g.portals[pid].winding.free()
		g.portals[pid].winding = front

		if err := g.relink(pid, side, f, other); err != nil {
			return err
		}
		if err := g.relink(np, side, b, other); err != nil {
			return err
		}
	}

	if err := g.cutNodePortals(f); err != nil {
		return err
	}
	return g.cutNodePortals(b)
}

// relink attaches pid between child and other, keeping child on the side
// the parent node occupied.
func (g *graph) relink(pid portalID, side int, child, other nodeID) error {
	if side == 0 {
		return g.addPortalToNodes(pid, child, other)
	}
	return g.addPortalToNodes(pid, other, child)
}

// checkLeafPortalConsistency verifies that every portal listed on node id
// bounds it and carries a real polygon.
func (g *graph) checkLeafPortalConsistency(id nodeID) error {
	for _, pid := range g.nodes[id].portals {
		if _, err := g.sideOf(pid, id); err != nil {
			return err
		}
		p := &g.portals[pid]
		if p.winding == nil || p.winding.NumPoints() < 3 {
			return fmt.Errorf("%w: portal %d on node %d has a degenerate winding", ErrMislinkedPortal, pid, id)
		}
		if p.nodes[0] == p.nodes[1] {
			return fmt.Errorf("%w: portal %d links node %d to itself", ErrMislinkedPortal, pid, id)
		}
	}
	return nil
}

// checkGraph runs checkLeafPortalConsistency over every node and makes sure
// portals only remain on leafs.
func (g *graph) checkGraph() error {
	for id := range g.nodes {
		n := &g.nodes[id]
		if n.contents == bsp.ContentsNode && len(n.portals) > 0 {
			return fmt.Errorf("%w: decision node %d still has %d portals", ErrMislinkedPortal, id, len(n.portals))
		}
		if err := g.checkLeafPortalConsistency(nodeID(id)); err != nil {
			return err
		}
	}
	return nil
}

// freeAllPortals unlinks and frees every portal reachable from the tree
// rooted at id. A portal leaves both node lists as it is freed, so it is
// counted once; release compares the count against the arena.
func (g *graph) freeAllPortals(id nodeID) (int, error) {
	freed := 0
	if g.nodes[id].contents == bsp.ContentsNode {
		for _, c := range g.nodes[id].children {
			n, err := g.freeAllPortals(c)
			freed += n
			if err != nil {
				return freed, err
			}
		}
	}

	for _, pid := range g.nodePortals(id) {
		p := &g.portals[pid]
		for _, nid := range p.nodes {
			if nid == noNode {
				continue
			}
			if err := g.removePortalFromNode(pid, nid); err != nil {
				return freed, err
			}
		}
		if p.winding != nil {
			p.winding.free()
			p.winding = nil
		}
		freed++
	}
	return freed, nil
}

// release frees the graph. With account set, every allocated portal must be
// reachable from root and freed exactly once.
func (g *graph) release(root nodeID, account bool) error {
	var err error
	if account && root != noNode {
		var freed int
		freed, err = g.freeAllPortals(root)
		if err == nil && freed != len(g.portals) {
			err = fmt.Errorf("%w: freed %d of %d portals", ErrMislinkedPortal, freed, len(g.portals))
		}
	}
	g.nodes = nil
	g.portals = nil
	g.onPath = nil
	g.visited = nil
	return err
}
