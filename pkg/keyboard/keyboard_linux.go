package keyboard

import (
	"fmt"
	evdev "github.com/holoplot/go-evdev"
	"syscall"
)

const deviceName = "keybridge virtual keyboard"

var evdevCodes = map[Key]evdev.EvCode{
	Left:  evdev.KEY_LEFT,
	Right: evdev.KEY_RIGHT,
}

type uinputKeyboard struct {
	dev *evdev.InputDevice
}

// New creates a uinput keyboard that can emit the left and right arrow
// keys. The caller needs write access to /dev/uinput.
func New() (Keyboard, error) {
	dev, err := evdev.CreateDevice(
		deviceName,
		evdev.InputID{BusType: 0x03, Vendor: 0x2341, Product: 0x8036, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: {evdev.KEY_LEFT, evdev.KEY_RIGHT},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &uinputKeyboard{dev: dev}, nil
}

func (kb *uinputKeyboard) Press(key Key) error {
	return kb.emit(key, 1)
}

func (kb *uinputKeyboard) Release(key Key) error {
	return kb.emit(key, 0)
}

func (kb *uinputKeyboard) emit(key Key, value int32) error {
	code, ok := evdevCodes[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownKey, key)
	}
	var now syscall.Timeval
	if err := syscall.Gettimeofday(&now); err != nil {
		return err
	}
	if err := kb.dev.WriteOne(&evdev.InputEvent{Time: now, Type: evdev.EV_KEY, Code: code, Value: value}); err != nil {
		return fmt.Errorf("write %v key event: %w", key, err)
	}
	if err := kb.dev.WriteOne(&evdev.InputEvent{Time: now, Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}); err != nil {
		return fmt.Errorf("write sync event: %w", err)
	}
	return nil
}

func (kb *uinputKeyboard) Close() error {
	return kb.dev.Close()
}
