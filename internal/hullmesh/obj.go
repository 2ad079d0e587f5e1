package hullmesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteOBJ writes the mesh faces as a Wavefront OBJ polygon list for
// offline inspection. Positions are converted from Z-up to Y-up; face
// indices are 1-based in emission order.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	vertexCount := 0
	for _, f := range m.Faces {
		verts := m.Vertices[f.FirstVertex : f.FirstVertex+f.NumVertices]
		for _, v := range verts {
			fmt.Fprintf(bw, "v %f %f %f\n", v.Position[0], v.Position[2], -v.Position[1])
		}
		bw.WriteString("f ")
		for i := range verts {
			fmt.Fprintf(bw, "%d", vertexCount+1)
			if i < len(verts)-1 {
				bw.WriteByte(' ')
			}
			vertexCount++
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteOBJFile writes the mesh to path as OBJ.
func WriteOBJFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return f.Close()
}
