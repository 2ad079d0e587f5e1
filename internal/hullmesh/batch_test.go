package hullmesh

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/hullmesh/pkg/bsp"
	"github.com/Faultbox/hullmesh/pkg/math"
)

func boxMesh(t *testing.T) *Mesh {
	t.Helper()
	h := bsp.NewBoxHull(boxMins, boxMaxs, bsp.ContentsEmpty, bsp.ContentsSolid)
	m, err := TriangulateHull(h, boxMins, boxMaxs, Options{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("TriangulateHull error: %v", err)
	}
	return m
}

// testFile shares the box clip nodes between several models.
func testFile(models int) *bsp.File {
	box := bsp.NewBoxHull(boxMins, boxMaxs, bsp.ContentsEmpty, bsp.ContentsSolid)
	f := &bsp.File{
		Version:   bsp.Version29,
		Planes:    box.Planes,
		ClipNodes: box.ClipNodes,
	}
	for i := 0; i < models; i++ {
		size := float32(64 + 16*i)
		f.Models = append(f.Models, bsp.Model{
			Mins: math.Vec3{X: -size, Y: -size, Z: -size},
			Maxs: math.Vec3{X: size, Y: size, Z: size},
		})
	}
	return f
}

func TestConcat(t *testing.T) {
	a := boxMesh(t)
	b := boxMesh(t)

	out, ranges := Concat([]*Mesh{a, nil, b})

	want := []Range{{0, 36}, {36, 0}, {36, 36}}
	if !reflect.DeepEqual(ranges, want) {
		t.Errorf("ranges = %v, want %v", ranges, want)
	}
	if len(out.Vertices) != 48 || len(out.Indices) != 72 || len(out.Faces) != 12 {
		t.Fatalf("got %d vertices/%d indices/%d faces", len(out.Vertices), len(out.Indices), len(out.Faces))
	}
	for i, idx := range b.Indices {
		if out.Indices[36+i] != idx+24 {
			t.Fatalf("index %d = %d, want %d", 36+i, out.Indices[36+i], idx+24)
		}
	}
	if f := out.Faces[6]; f.FirstVertex != 24 || f.FirstIndex != 36 {
		t.Errorf("first face of second mesh starts at %d/%d, want 24/36", f.FirstVertex, f.FirstIndex)
	}
	if out.Stats.Faces != 12 {
		t.Errorf("Stats.Faces = %d, want 12", out.Stats.Faces)
	}
}

func TestBuildModels(t *testing.T) {
	f := testFile(4)
	opts := BuildOptions{Options: Options{Logger: zap.NewNop()}, Workers: 2}

	meshes, err := BuildModels(context.Background(), f, 1, opts)
	if err != nil {
		t.Fatalf("BuildModels error: %v", err)
	}
	if len(meshes) != len(f.Models) {
		t.Fatalf("got %d meshes, want %d", len(meshes), len(f.Models))
	}

	for i := range f.Models {
		h, err := f.Hull(i, 1)
		if err != nil {
			t.Fatalf("Hull(%d, 1) error: %v", i, err)
		}
		mins, maxs := f.Models[i].HullBounds(h)
		want, err := TriangulateHull(h, mins, maxs, opts.Options)
		if err != nil {
			t.Fatalf("TriangulateHull(model %d) error: %v", i, err)
		}
		if !reflect.DeepEqual(meshes[i], want) {
			t.Errorf("model %d: concurrent mesh differs from sequential", i)
		}
		if len(meshes[i].Faces) != 6 {
			t.Errorf("model %d: got %d faces, want 6", i, len(meshes[i].Faces))
		}
	}
}

func TestBuildModelsErrors(t *testing.T) {
	broken := testFile(3)
	broken.Models[2].HeadNode[1] = 99

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		file *bsp.File
		hull int
		want error
	}{
		{"bad head node", context.Background(), broken, 1, bsp.ErrBadClipNode},
		{"bad hull index", context.Background(), testFile(1), bsp.MaxHulls, bsp.ErrBadHullIndex},
		{"canceled", canceled, testFile(2), 1, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := BuildOptions{Options: Options{Logger: zap.NewNop()}, Workers: 1}
			meshes, err := BuildModels(tt.ctx, tt.file, tt.hull, opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("BuildModels error = %v, want %v", err, tt.want)
			}
			if meshes != nil {
				t.Error("BuildModels returned meshes with an error")
			}
		})
	}
}
