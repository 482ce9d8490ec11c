package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() {
		t.Fatal("zero frame should be empty")
	}

	f.Set(ActionFlip)
	f.Set(ActionNone)
	if !f.Has(ActionFlip) || f.Has(ActionPause) || f.Has(ActionNone) {
		t.Errorf("unexpected frame contents: %016b", f.bits)
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}

	g := NewInputFrame(ActionPause, ActionQuit)
	if !g.Has(ActionPause) || !g.Has(ActionQuit) {
		t.Error("NewInputFrame should set all given actions")
	}
}

func TestActionString(t *testing.T) {
	if ActionFlip.String() != "Flip" || Action(200).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
