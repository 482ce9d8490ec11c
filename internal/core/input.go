package core

// Action is a semantic input, abstracted from physical keys.
type Action uint8

const (
	ActionNone       Action = iota
	ActionFlip              // Space, Up, W, mouse click - switch gravity / dismiss tutorial
	ActionPause             // P, Esc - pause a live run, resume a paused one
	ActionRestart           // R - retry the level after the run ended
	ActionNext              // N, Enter - continue to the next level
	ActionMenu              // M, B - back to the level select
	ActionRefresh           // F5 - recompile the current map from its source
	ActionQuit              // Q, Ctrl+C
	ActionVolumeDown        // Minus - lower the volume on the pause screen
	ActionVolumeUp          // Plus, Equals - raise the volume on the pause screen
	actionCount
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionFlip:    "Flip",
	ActionPause:   "Pause",
	ActionRestart: "Restart",
	ActionNext:    "Next",
	ActionMenu:    "Menu",
	ActionRefresh: "Refresh",
	ActionQuit:    "Quit",

	ActionVolumeDown: "VolumeDown",
	ActionVolumeUp:   "VolumeUp",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is the set of actions triggered during one simulation tick.
// The zero value is an empty frame.
type InputFrame struct {
	bits uint16
}

// NewInputFrame creates a frame with the given actions set.
func NewInputFrame(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone || a >= actionCount {
		return
	}
	f.bits |= 1 << a
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.bits&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool { return f.bits == 0 }

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() { f.bits = 0 }
