//go:build !linux && !darwin && !windows

package keyboard

func New() (Keyboard, error) {
	return nil, ErrUnsupported
}
