// Package scene renders triangulated collision hulls around an orbit camera.
package scene

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/hullmesh/internal/engine/camera"
	"github.com/Faultbox/hullmesh/internal/engine/picking"
	"github.com/Faultbox/hullmesh/internal/hullmesh"
	"github.com/Faultbox/hullmesh/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width  int32
	Height int32
	FOV    float32 // Vertical field of view in degrees
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:  1280,
		Height: 720,
		FOV:    70,
	}
}

// Scene holds the uploaded hull meshes and the camera looking at them.
type Scene struct {
	config Config

	hulls  *HullRenderer
	Camera *camera.OrbitCamera

	// Per-model bounds for picking; empty marks models without faces.
	modelBounds []picking.AABB
	empty       []bool

	// Bounds of everything loaded
	MinBounds math.Vec3
	MaxBounds math.Vec3
}

// New creates a scene. An OpenGL context must be current.
func New(cfg Config) (*Scene, error) {
	hulls, err := NewHullRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating hull renderer: %w", err)
	}
	return &Scene{
		config: cfg,
		hulls:  hulls,
		Camera: camera.NewOrbitCamera(),
	}, nil
}

// LoadMeshes uploads one mesh per model and frames the camera on them.
func (s *Scene) LoadMeshes(meshes []*hullmesh.Mesh) {
	s.hulls.Upload(meshes)

	s.modelBounds = make([]picking.AABB, len(meshes))
	s.empty = make([]bool, len(meshes))

	first := true
	for i, m := range meshes {
		if m == nil {
			s.empty[i] = true
			continue
		}
		mins, maxs, ok := m.Bounds()
		if !ok {
			s.empty[i] = true
			continue
		}
		s.modelBounds[i] = picking.AABB{Min: mins, Max: maxs}
		if first {
			s.MinBounds, s.MaxBounds = mins, maxs
			first = false
			continue
		}
		s.MinBounds = s.MinBounds.Min(mins)
		s.MaxBounds = s.MaxBounds.Max(maxs)
	}
	if !first {
		s.Camera.FitToBounds(s.MinBounds, s.MaxBounds)
	}
}

// Hulls returns the hull renderer for toggling models and draw modes.
func (s *Scene) Hulls() *HullRenderer {
	return s.hulls
}

// ViewProj returns the combined projection and camera view matrix.
func (s *Scene) ViewProj() math.Mat4 {
	aspect := float32(s.config.Width) / float32(max(s.config.Height, 1))
	fov := s.config.FOV * gomath.Pi / 180
	far := max(s.Camera.Distance*4, s.MaxBounds.Sub(s.MinBounds).Length()*2, 1024)
	proj := math.Perspective(fov, aspect, 4, far)
	return proj.Mul(s.Camera.ViewMatrix())
}

// Pick returns the model whose bounds are hit first by the ray through a
// window position, or -1. The world model encloses everything, so it is
// only returned when nothing else is hit.
func (s *Scene) Pick(x, y, windowW, windowH float32) int {
	if len(s.modelBounds) == 0 {
		return -1
	}
	ray := picking.ScreenToRay(x, y, windowW, windowH, s.ViewProj().Inverse())

	skip := make([]bool, len(s.empty))
	copy(skip, s.empty)
	skip[0] = true
	if i := ray.Nearest(s.modelBounds, skip); i >= 0 {
		return i
	}
	if _, hit := ray.IntersectAABB(s.modelBounds[0]); hit && !s.empty[0] {
		return 0
	}
	return -1
}

// Render draws the scene into the current framebuffer.
func (s *Scene) Render() {
	gl.Viewport(0, 0, s.config.Width, s.config.Height)
	s.hulls.Draw(s.ViewProj())
}

// Resize updates the viewport size.
func (s *Scene) Resize(width, height int32) {
	s.config.Width = width
	s.config.Height = height
}

// Destroy releases GPU resources.
func (s *Scene) Destroy() {
	s.hulls.Destroy()
}
