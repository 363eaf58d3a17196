package tty

import (
	"arcade/internal/game"

	"github.com/gdamore/tcell/v2"
)

// Action is a host-level command that never reaches the engine.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSwitch
	ActionMute
)

// mapKey decodes a terminal key into either an engine key or a host action.
func mapKey(key tcell.Key, r rune) (game.Key, Action) {
	switch key {
	case tcell.KeyUp:
		return game.KeyUp, ActionNone
	case tcell.KeyDown:
		return game.KeyDown, ActionNone
	case tcell.KeyLeft:
		return game.KeyLeft, ActionNone
	case tcell.KeyRight:
		return game.KeyRight, ActionNone
	case tcell.KeyEnter:
		return game.KeyConfirm, ActionNone
	case tcell.KeyTab:
		return game.KeyNone, ActionSwitch
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.KeyNone, ActionQuit
	case tcell.KeyRune:
		switch r {
		case ' ':
			return game.KeyPause, ActionNone
		case 'q', 'Q':
			return game.KeyNone, ActionQuit
		case 'm', 'M':
			return game.KeyNone, ActionMute
		}
		return game.ParseKey(string(r)), ActionNone
	}
	return game.KeyNone, ActionNone
}
