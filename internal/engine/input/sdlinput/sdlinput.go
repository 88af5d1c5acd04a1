// Package sdlinput polls SDL2 events and converts them to input.Event.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/orrery/internal/engine/input"
)

var specialKeys = map[sdl.Keycode]input.Key{
	sdl.K_ESCAPE: input.KeyEscape,
	sdl.K_F1:     input.KeyF1,
	sdl.K_F2:     input.KeyF2,
	sdl.K_F11:    input.KeyF11,
	sdl.K_UP:     input.KeyArrowUp,
	sdl.K_DOWN:   input.KeyArrowDown,
	sdl.K_LEFT:   input.KeyArrowLeft,
	sdl.K_RIGHT:  input.KeyArrowRight,
}

// Poller drains the SDL queue once per frame.
type Poller struct {
	events []input.Event
}

// New creates a new poller.
func New() *Poller {
	return &Poller{
		events: make([]input.Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the viewer should quit.
func (p *Poller) Update() bool {
	p.events = p.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, input.Event{Type: input.EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				p.events = append(p.events, input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			ev := translateKey(e.Keysym)
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			} else {
				ev.Type = input.EventKeyUp
			}
			if ev.Rune != 0 || ev.Key != input.KeyNone {
				p.events = append(p.events, ev)
			}

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, input.MouseMove(int(e.X), int(e.Y)))

		case *sdl.MouseButtonEvent:
			b := translateButton(e.Button)
			if e.Type == sdl.MOUSEBUTTONDOWN {
				p.events = append(p.events, input.MouseDown(b, int(e.X), int(e.Y)))
			} else {
				p.events = append(p.events, input.MouseUp(b, int(e.X), int(e.Y)))
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (p *Poller) Events() []input.Event {
	return p.events
}

func translateKey(ks sdl.Keysym) input.Event {
	var ev input.Event
	if ks.Sym >= 0x20 && ks.Sym < 0x7f {
		ev.Rune = rune(ks.Sym)
	} else {
		ev.Key = specialKeys[ks.Sym]
	}
	return ev
}

func translateButton(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return input.ButtonRight
	}
	return input.ButtonNone
}
