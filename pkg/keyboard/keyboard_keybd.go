//go:build darwin || windows

package keyboard

import (
	"fmt"
	"github.com/micmonay/keybd_event"
)

var vkCodes = map[Key]int{
	Left:  keybd_event.VK_LEFT,
	Right: keybd_event.VK_RIGHT,
}

type keybdKeyboard struct {
	bindings map[Key]*keybd_event.KeyBonding
}

// New returns a keyboard backed by the OS input-injection API.
func New() (Keyboard, error) {
	kb := &keybdKeyboard{bindings: make(map[Key]*keybd_event.KeyBonding, len(vkCodes))}
	for key, vk := range vkCodes {
		bonding, err := keybd_event.NewKeyBonding()
		if err != nil {
			return nil, fmt.Errorf("create key binding for %v: %w", key, err)
		}
		bonding.SetKeys(vk)
		kb.bindings[key] = &bonding
	}
	return kb, nil
}

func (kb *keybdKeyboard) Press(key Key) error {
	bonding, ok := kb.bindings[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownKey, key)
	}
	return bonding.Press()
}

func (kb *keybdKeyboard) Release(key Key) error {
	bonding, ok := kb.bindings[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownKey, key)
	}
	return bonding.Release()
}

func (kb *keybdKeyboard) Close() error {
	return nil
}
