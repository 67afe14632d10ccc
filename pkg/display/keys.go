package display

import (
	"github.com/thelolagemann/alien8/internal/input"
)

// Key is a driver independent name for a key on the keyboard.
// Drivers translate their native key codes into a Key before
// handing it to a KeyHandler.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyW
	KeyA
	KeyS
	KeyD
	KeyEscape
	KeyP
	KeyR
	KeyF12
)

// Intents maps movement keys to the intent they produce.
var Intents = map[Key]input.Intent{
	KeyLeft:  input.Left,
	KeyRight: input.Right,
	KeyUp:    input.Up,
	KeyDown:  input.Down,
	KeyA:     input.Left,
	KeyD:     input.Right,
	KeyW:     input.Up,
	KeyS:     input.Down,
}

// Action is something a key does other than moving the player.
type Action int

const (
	ActionNone Action = iota
	// ActionClose stops the game and closes the window.
	ActionClose
	// ActionTogglePause pauses or resumes the game.
	ActionTogglePause
	// ActionReset restores the initial sprite layout.
	ActionReset
	// ActionScreenshot writes the current frame to disk.
	ActionScreenshot
)

// Actions maps keys to the action they perform when pressed.
var Actions = map[Key]Action{
	KeyEscape: ActionClose,
	KeyP:      ActionTogglePause,
	KeyR:      ActionReset,
	KeyF12:    ActionScreenshot,
}

// KeyHandler translates key edges into intents on the pressed
// and released channels, and actions into commands on the game.
// It is shared by every driver so that the key bindings are the
// same whichever driver is in use.
type KeyHandler struct {
	game              Game
	pressed, released chan<- input.Intent
	// OnScreenshot, if set, is called with the result of an
	// ActionScreenshot.
	OnScreenshot func(path string, err error)
}

// NewKeyHandler returns a KeyHandler for the game.
func NewKeyHandler(game Game, pressed, released chan<- input.Intent) *KeyHandler {
	return &KeyHandler{game: game, pressed: pressed, released: released}
}

// Press handles a key being pressed. It returns the action
// performed, if any, so that drivers can react to ActionClose.
func (k *KeyHandler) Press(key Key) Action {
	if intent, ok := Intents[key]; ok {
		k.send(k.pressed, intent)
		return ActionNone
	}

	action := Actions[key]
	switch action {
	case ActionClose:
		k.game.SendCommand(Close)
	case ActionTogglePause:
		k.game.SendCommand(TogglePause)
	case ActionReset:
		k.game.SendCommand(Reset)
	case ActionScreenshot:
		resp := k.game.SendCommand(Screenshot)
		if k.OnScreenshot != nil {
			k.OnScreenshot(string(resp.Data), resp.Error)
		}
	}
	return action
}

// Release handles a key being released.
func (k *KeyHandler) Release(key Key) {
	if intent, ok := Intents[key]; ok {
		k.send(k.released, intent)
	}
}

// send never blocks the caller, which is usually the driver's
// event loop on the main thread. An edge is dropped when the
// game has fallen a full channel behind.
func (k *KeyHandler) send(ch chan<- input.Intent, intent input.Intent) {
	select {
	case ch <- intent:
	default:
	}
}
