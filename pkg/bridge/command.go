package bridge

import "github.com/dancavallaro/keybridge/pkg/keyboard"

// Command is a button event reported by the microcontroller.
type Command int

const (
	Unrecognized Command = iota
	LeftDown
	LeftUp
	RightDown
	RightUp
)

var commandTokens = map[string]Command{
	"LEFT_DOWN":  LeftDown,
	"LEFT_UP":    LeftUp,
	"RIGHT_DOWN": RightDown,
	"RIGHT_UP":   RightUp,
}

// ParseCommand matches a trimmed token exactly and case-sensitively.
func ParseCommand(token string) Command {
	if cmd, ok := commandTokens[token]; ok {
		return cmd
	}
	return Unrecognized
}

func (c Command) String() string {
	switch c {
	case LeftDown:
		return "LEFT_DOWN"
	case LeftUp:
		return "LEFT_UP"
	case RightDown:
		return "RIGHT_DOWN"
	case RightUp:
		return "RIGHT_UP"
	}
	return "UNRECOGNIZED"
}

type Action int

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	if a == Press {
		return "press"
	}
	return "release"
}

// Target returns the key and action a command drives. ok is false for
// Unrecognized.
func (c Command) Target() (key keyboard.Key, action Action, ok bool) {
	switch c {
	case LeftDown:
		return keyboard.Left, Press, true
	case LeftUp:
		return keyboard.Left, Release, true
	case RightDown:
		return keyboard.Right, Press, true
	case RightUp:
		return keyboard.Right, Release, true
	}
	return 0, 0, false
}
