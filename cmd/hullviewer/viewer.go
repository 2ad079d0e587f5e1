package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/hullmesh/internal/config"
	"github.com/Faultbox/hullmesh/internal/engine/debug"
	"github.com/Faultbox/hullmesh/internal/engine/input"
	"github.com/Faultbox/hullmesh/internal/engine/renderer"
	"github.com/Faultbox/hullmesh/internal/engine/scene"
	"github.com/Faultbox/hullmesh/internal/engine/window"
	"github.com/Faultbox/hullmesh/internal/hullmesh"
	"github.com/Faultbox/hullmesh/internal/logger"
	"github.com/Faultbox/hullmesh/pkg/bsp"
)

// viewer owns the window and the loaded map.
type viewer struct {
	cfg  *config.Config
	path string
	file *bsp.File
	hull int

	win      *window.Window
	renderer *renderer.Renderer
	scene    *scene.Scene
	input    *input.Input
	shots    *debug.ScreenshotCapture

	screenshotPending bool
	closed            bool
}

func newViewer(cfg *config.Config, path string) (*viewer, error) {
	f, err := bsp.ParseFile(path)
	if err != nil {
		return nil, err
	}

	v := &viewer{cfg: cfg, path: path, file: f, hull: cfg.Hull.Index, input: input.New()}
	v.shots = debug.NewScreenshotCapture("screenshots", "")

	v.win, err = window.New(window.Config{
		Title:      "hullviewer",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, err
	}

	width, height := v.win.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [3]float32{0.1, 0.1, 0.15},
	})
	if err != nil {
		v.Close()
		return nil, err
	}

	v.scene, err = scene.New(scene.Config{
		Width:  int32(width),
		Height: int32(height),
		FOV:    cfg.Viewer.FOV,
	})
	if err != nil {
		v.Close()
		return nil, err
	}

	if err := v.loadHull(v.hull); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// loadHull triangulates hull index of every model and uploads the result.
func (v *viewer) loadHull(index int) error {
	meshes, err := hullmesh.BuildModels(context.Background(), v.file, index, hullmesh.BuildOptions{
		Options: hullmesh.Options{
			Padding:  v.cfg.Hull.Padding,
			Strict:   v.cfg.Hull.Strict,
			Validate: v.cfg.Hull.Validate,
		},
		Workers: v.cfg.Hull.Workers,
	})
	if err != nil {
		return err
	}

	if v.cfg.Export.OBJPath != "" {
		combined, _ := hullmesh.Concat(meshes)
		if err := hullmesh.WriteOBJFile(v.cfg.Export.OBJPath, combined); err != nil {
			return err
		}
		logger.Info("hull exported", zap.String("path", v.cfg.Export.OBJPath))
	}

	v.hull = index
	v.scene.LoadMeshes(meshes)
	base := strings.TrimSuffix(filepath.Base(v.path), filepath.Ext(v.path))
	v.shots.SetPrefix(fmt.Sprintf("%s_hull%d", base, index))
	v.win.SetTitle(fmt.Sprintf("hullviewer - %s - hull %d", filepath.Base(v.path), index))
	return nil
}

// Run is the main loop.
func (v *viewer) Run() error {
	last := time.Now()
	frames := 0
	fpsStart := last

	for {
		if v.input.Update() {
			return nil
		}
		if err := v.handleEvents(); err != nil {
			return err
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		forward, right, up := v.input.Movement()
		if forward != 0 || right != 0 || up != 0 {
			scale := dt * 60
			v.scene.Camera.HandleMovement(forward*scale, right*scale, up*scale)
		}

		v.renderer.Begin()
		v.scene.Render()
		if err := v.renderer.End(); err != nil {
			return err
		}
		if v.screenshotPending {
			v.screenshotPending = false
			v.screenshot()
		}
		v.win.SwapBuffers()

		frames++
		if elapsed := now.Sub(fpsStart); elapsed >= time.Second {
			logger.Debug("frame stats", zap.Float64("fps", float64(frames)/elapsed.Seconds()))
			frames = 0
			fpsStart = now
		}
	}
}

func (v *viewer) handleEvents() error {
	hulls := v.scene.Hulls()
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			width, height := v.win.DrawableSize()
			v.renderer.Resize(width, height)
			v.scene.Resize(int32(width), int32(height))

		case input.EventDrag:
			v.scene.Camera.HandleDrag(e.DX, e.DY)

		case input.EventWheel:
			v.scene.Camera.HandleZoom(e.DY)

		case input.EventClick:
			width, height := v.win.Size()
			hulls.Highlight = v.scene.Pick(float32(e.MouseX), float32(e.MouseY), float32(width), float32(height))
			logger.Debug("model picked", zap.Int("model", hulls.Highlight))

		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_P:
				v.screenshotPending = true
			case sdl.SCANCODE_F:
				hulls.Wireframe = !hulls.Wireframe
			case sdl.SCANCODE_TAB:
				// Cycle through models, then back to none.
				hulls.Highlight++
				if hulls.Highlight >= hulls.ModelCount() {
					hulls.Highlight = -1
				}
			case sdl.SCANCODE_H:
				if i := hulls.Highlight; i >= 0 {
					hulls.Visible[i] = !hulls.Visible[i]
				}
			case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3:
				index := int(e.Key - sdl.SCANCODE_1)
				if index != v.hull {
					if err := v.loadHull(index); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// screenshot saves the back buffer before it is swapped.
func (v *viewer) screenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything. It is safe to call more than once.
func (v *viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.win != nil {
		v.win.Close()
	}
}
