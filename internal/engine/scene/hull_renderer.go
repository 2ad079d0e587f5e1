package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/hullmesh/internal/engine/scene/shaders"
	"github.com/Faultbox/hullmesh/internal/engine/shader"
	"github.com/Faultbox/hullmesh/internal/hullmesh"
	"github.com/Faultbox/hullmesh/internal/logger"
	"github.com/Faultbox/hullmesh/pkg/math"
)

// Attribute locations shared with shaders.HullVertexShader.
const (
	attribPosition = 0
	attribNormal   = 1
)

// HullRenderer draws triangulated hulls. All models share one vertex and
// one index buffer; each model is drawn from its own index range.
type HullRenderer struct {
	program *shader.Program

	vao uint32
	vbo uint32
	ebo uint32

	ranges []hullmesh.Range

	// Visible toggles individual models.
	Visible []bool
	// Highlight is the model drawn brighter, or -1.
	Highlight int
	// Wireframe draws polygon edges only.
	Wireframe bool
}

// NewHullRenderer compiles the hull program.
func NewHullRenderer() (*HullRenderer, error) {
	program, err := shader.NewProgram(shaders.HullVertexShader, shaders.HullFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("hull shader: %w", err)
	}
	return &HullRenderer{program: program, Highlight: -1}, nil
}

// Upload replaces the GPU buffers with the given meshes, one per model.
func (hr *HullRenderer) Upload(meshes []*hullmesh.Mesh) {
	hr.deleteBuffers()

	mesh, ranges := hullmesh.Concat(meshes)
	hr.ranges = ranges
	hr.Visible = make([]bool, len(ranges))
	for i := range hr.Visible {
		hr.Visible[i] = true
	}
	if len(mesh.Vertices) == 0 {
		return
	}

	stride := int32(unsafe.Sizeof(hullmesh.Vertex{}))

	gl.GenVertexArrays(1, &hr.vao)
	gl.BindVertexArray(hr.vao)

	gl.GenBuffers(1, &hr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, hr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &hr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, hr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, unsafe.Offsetof(hullmesh.Vertex{}.Position))
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, unsafe.Offsetof(hullmesh.Vertex{}.Normal))
	gl.EnableVertexAttribArray(attribNormal)

	gl.BindVertexArray(0)

	logger.Debug("hull buffers uploaded",
		zap.Int("models", len(ranges)),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
	)
}

// ModelCount returns the number of uploaded models.
func (hr *HullRenderer) ModelCount() int {
	return len(hr.ranges)
}

// Draw renders every visible model with the given view-projection matrix.
func (hr *HullRenderer) Draw(viewProj math.Mat4) {
	if hr.vao == 0 {
		return
	}

	hr.program.Use()
	hr.program.SetMat4("uMVP", viewProj)

	if hr.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.BindVertexArray(hr.vao)
	for i, r := range hr.ranges {
		if r.IndexCount == 0 || !hr.Visible[i] {
			continue
		}
		highlight := float32(0)
		if i == hr.Highlight {
			highlight = 0.35
		}
		hr.program.SetFloat("uHighlight", highlight)
		gl.DrawElementsWithOffset(gl.TRIANGLES, r.IndexCount, gl.UNSIGNED_INT, uintptr(r.FirstIndex)*4)
	}
	gl.BindVertexArray(0)
}

func (hr *HullRenderer) deleteBuffers() {
	if hr.vao != 0 {
		gl.DeleteVertexArrays(1, &hr.vao)
		hr.vao = 0
	}
	if hr.vbo != 0 {
		gl.DeleteBuffers(1, &hr.vbo)
		hr.vbo = 0
	}
	if hr.ebo != 0 {
		gl.DeleteBuffers(1, &hr.ebo)
		hr.ebo = 0
	}
}

// Destroy releases GPU resources.
func (hr *HullRenderer) Destroy() {
	hr.deleteBuffers()
	hr.program.Delete()
}
