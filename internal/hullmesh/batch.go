package hullmesh

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/hullmesh/internal/logger"
	"github.com/Faultbox/hullmesh/pkg/bsp"
)

// Range locates one model's triangles inside a concatenated index buffer.
type Range struct {
	FirstIndex int32
	IndexCount int32
}

// Concat merges meshes into one buffer pair, rebasing indices, and returns
// the index range of each input. Nil meshes get an empty range.
func Concat(meshes []*Mesh) (*Mesh, []Range) {
	var numVertices, numIndices, numFaces int
	for _, m := range meshes {
		if m == nil {
			continue
		}
		numVertices += len(m.Vertices)
		numIndices += len(m.Indices)
		numFaces += len(m.Faces)
	}

	out := &Mesh{
		Vertices: make([]Vertex, 0, numVertices),
		Indices:  make([]uint32, 0, numIndices),
		Faces:    make([]Face, 0, numFaces),
	}
	ranges := make([]Range, len(meshes))

	for i, m := range meshes {
		ranges[i].FirstIndex = int32(len(out.Indices))
		if m == nil {
			continue
		}
		vbase := uint32(len(out.Vertices))
		ibase := uint32(len(out.Indices))

		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+vbase)
		}
		for _, f := range m.Faces {
			f.FirstVertex += vbase
			f.FirstIndex += ibase
			out.Faces = append(out.Faces, f)
		}
		ranges[i].IndexCount = int32(len(m.Indices))

		out.Stats.Nodes += m.Stats.Nodes
		out.Stats.Leafs += m.Stats.Leafs
		out.Stats.Portals += m.Stats.Portals
		out.Stats.SplitPortals += m.Stats.SplitPortals
		out.Stats.ClippedPortals += m.Stats.ClippedPortals
		out.Stats.Faces += m.Stats.Faces
	}
	return out, ranges
}

// BuildOptions controls BuildModels.
type BuildOptions struct {
	Options
	// Workers limits concurrent triangulations. Zero means GOMAXPROCS.
	Workers int
}

// BuildModels triangulates collision hull hullIndex of every model in f.
// Models are independent, so they are built concurrently; the result is
// indexed by model number. The first failure cancels the remaining work.
func BuildModels(ctx context.Context, f *bsp.File, hullIndex int, opts BuildOptions) ([]*Mesh, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	meshes := make([]*Mesh, len(f.Models))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range f.Models {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := f.Hull(i, hullIndex)
			if err != nil {
				return err
			}
			mins, maxs := f.Models[i].HullBounds(h)
			m, err := TriangulateHull(h, mins, maxs, opts.Options)
			if err != nil {
				return fmt.Errorf("model %d hull %d: %w", i, hullIndex, err)
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("hull meshes built",
		zap.Int("models", len(meshes)),
		zap.Int("hull", hullIndex),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return meshes, nil
}
