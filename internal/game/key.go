package game

import "strings"

// Key is a discrete input event after host-specific decoding.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPause
	KeyConfirm
)

var keyNames = map[Key]string{
	KeyNone:    "none",
	KeyUp:      "ArrowUp",
	KeyDown:    "ArrowDown",
	KeyLeft:    "ArrowLeft",
	KeyRight:   "ArrowRight",
	KeyPause:   "Space",
	KeyConfirm: "Enter",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKey maps DOM-style key names (KeyboardEvent.key) and a few aliases to
// a Key. Unrecognised names return KeyNone.
func ParseKey(name string) Key {
	switch name {
	case " ", "Space", "Spacebar":
		return KeyPause
	}

	switch strings.ToLower(name) {
	case "arrowup", "up", "w":
		return KeyUp
	case "arrowdown", "down", "s":
		return KeyDown
	case "arrowleft", "left", "a":
		return KeyLeft
	case "arrowright", "right", "d":
		return KeyRight
	case "space", "p":
		return KeyPause
	case "enter", "return":
		return KeyConfirm
	default:
		return KeyNone
	}
}
