// Package input defines backend-neutral input events. Platform layers
// such as sdlinput translate native events into these.
package input

import "unicode"

// EventType identifies an event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Key is a non-printable key code.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyF1
	KeyF2
	KeyF11
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// Button is a mouse button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event represents a processed input event.
type Event struct {
	Type EventType
	// Rune is the printable character for key events, 0 otherwise.
	Rune rune
	// Key is the special key code when Rune is 0.
	Key    Key
	Button Button
	MouseX int
	MouseY int
	Width  int
	Height int
}

// KeyDown builds a printable key-down event.
func KeyDown(r rune) Event { return Event{Type: EventKeyDown, Rune: r} }

// KeyUp builds a printable key-up event.
func KeyUp(r rune) Event { return Event{Type: EventKeyUp, Rune: r} }

// SpecialDown builds a key-down event for a non-printable key.
func SpecialDown(k Key) Event { return Event{Type: EventKeyDown, Key: k} }

// SpecialUp builds a key-up event for a non-printable key.
func SpecialUp(k Key) Event { return Event{Type: EventKeyUp, Key: k} }

// MouseDown builds a button press at (x, y).
func MouseDown(b Button, x, y int) Event {
	return Event{Type: EventMouseDown, Button: b, MouseX: x, MouseY: y}
}

// MouseUp builds a button release at (x, y).
func MouseUp(b Button, x, y int) Event {
	return Event{Type: EventMouseUp, Button: b, MouseX: x, MouseY: y}
}

// MouseMove builds a motion event to (x, y).
func MouseMove(x, y int) Event {
	return Event{Type: EventMouseMove, MouseX: x, MouseY: y}
}

// IsKey reports whether e is a key event for r, ignoring case.
func (e Event) IsKey(r rune) bool {
	if e.Type != EventKeyDown && e.Type != EventKeyUp {
		return false
	}
	return unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// IsSpecial reports whether e is a key event for the non-printable key k.
func (e Event) IsSpecial(k Key) bool {
	if e.Type != EventKeyDown && e.Type != EventKeyUp {
		return false
	}
	return e.Rune == 0 && e.Key == k
}

// Pressed reports whether e is a key-down event. Key-up returns false.
func (e Event) Pressed() bool { return e.Type == EventKeyDown }
