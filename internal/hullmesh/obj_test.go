package hullmesh

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteOBJ(t *testing.T) {
	m := boxMesh(t)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ error: %v", err)
	}

	var vs, fs []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			vs = append(vs, line)
		case strings.HasPrefix(line, "f "):
			fs = append(fs, line)
		default:
			t.Errorf("unexpected line %q", line)
		}
	}
	if len(vs) != 24 || len(fs) != 6 {
		t.Fatalf("got %d vertex and %d face lines, want 24 and 6", len(vs), len(fs))
	}

	if fs[0] != "f 1 2 3 4" || fs[1] != "f 5 6 7 8" {
		t.Errorf("face lines start %q, %q", fs[0], fs[1])
	}

	p := m.Vertices[0].Position
	if want := fmt.Sprintf("v %f %f %f", p[0], p[2], -p[1]); vs[0] != want {
		t.Errorf("first vertex = %q, want %q", vs[0], want)
	}
}

func TestWriteOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.obj")
	if err := WriteOBJFile(path, boxMesh(t)); err != nil {
		t.Fatalf("WriteOBJFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading OBJ: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("v ")) {
		t.Errorf("OBJ starts with %q", data[:min(len(data), 16)])
	}

	if err := WriteOBJFile(filepath.Join(t.TempDir(), "missing", "box.obj"), boxMesh(t)); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
