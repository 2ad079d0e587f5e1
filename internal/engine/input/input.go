// Package input turns SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventDrag
	EventWheel
	EventClick
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	// DX and DY are the drag delta in pixels, or the wheel delta.
	DX float32
	DY float32
	// MouseX and MouseY locate a click in window coordinates.
	MouseX int
	MouseY int
}

// Input handles all input processing.
type Input struct {
	events   []Event
	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					i.events = append(i.events, Event{Type: EventQuit})
					return true
				}
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseButtonEvent:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			case sdl.BUTTON_RIGHT:
				if e.Type == sdl.MOUSEBUTTONDOWN {
					i.events = append(i.events, Event{Type: EventClick, MouseX: int(e.X), MouseY: int(e.Y)})
				}
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.events = append(i.events, Event{
					Type: EventDrag,
					DX:   float32(e.XRel),
					DY:   float32(e.YRel),
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventWheel, DY: float32(e.Y)})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Movement returns the held WASD/QE keys as forward, right and up axes.
func (i *Input) Movement() (forward, right, up float32) {
	keys := sdl.GetKeyboardState()
	axis := func(pos, neg sdl.Scancode) float32 {
		return float32(keys[pos]) - float32(keys[neg])
	}
	return axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
}
