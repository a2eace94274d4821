// Package keyboard injects arrow key events into the host's input stream.
package keyboard

import (
	"errors"
	"fmt"
)

type Key int

const (
	Left Key = iota
	Right
)

func (k Key) String() string {
	switch k {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Keyboard presses and releases keys on the host. Implementations do not
// track key state: a second Press without a Release is passed through.
type Keyboard interface {
	Press(key Key) error
	Release(key Key) error
	Close() error
}

var ErrUnsupported = errors.New("virtual keyboard not supported on this platform")

var ErrUnknownKey = errors.New("unknown key")
