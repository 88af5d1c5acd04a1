package input

import "testing"

func TestIsKey(t *testing.T) {
	tests := []struct {
		ev   Event
		r    rune
		want bool
	}{
		{KeyDown('w'), 'w', true},
		{KeyDown('W'), 'w', true},
		{KeyUp('p'), 'P', true},
		{KeyDown('a'), 'd', false},
		{MouseDown(ButtonLeft, 0, 0), 0, false},
		{Event{Type: EventKeyDown, Key: KeyEscape}, 'e', false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsKey(tt.r); got != tt.want {
			t.Errorf("%+v.IsKey(%q) = %v, want %v", tt.ev, tt.r, got, tt.want)
		}
	}
}

func TestPressed(t *testing.T) {
	if !KeyDown('q').Pressed() || KeyUp('q').Pressed() {
		t.Error("Pressed should follow the event type")
	}
}

func TestIsSpecial(t *testing.T) {
	tests := []struct {
		ev   Event
		k    Key
		want bool
	}{
		{SpecialDown(KeyArrowUp), KeyArrowUp, true},
		{SpecialUp(KeyArrowLeft), KeyArrowLeft, true},
		{SpecialDown(KeyArrowUp), KeyArrowDown, false},
		{KeyDown('w'), KeyNone, false},
		{MouseDown(ButtonLeft, 0, 0), KeyNone, false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsSpecial(tt.k); got != tt.want {
			t.Errorf("%+v.IsSpecial(%d) = %v, want %v", tt.ev, tt.k, got, tt.want)
		}
	}
	if !SpecialDown(KeyF1).Pressed() || SpecialUp(KeyF1).Pressed() {
		t.Error("Pressed should follow the event type for special keys")
	}
}
