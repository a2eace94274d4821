package bridge

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestResolvePortDefaults(t *testing.T) {
	assert.Equal(t, "/dev/tty.usbmodem", ResolvePort(nil, "darwin"))
	assert.Equal(t, "/dev/ttyACM0", ResolvePort(nil, "linux"))
	assert.Equal(t, "COM3", ResolvePort(nil, "windows"))
	assert.Equal(t, "COM3", ResolvePort([]string{}, "windows"))
}

func TestResolvePortOverride(t *testing.T) {
	for _, goos := range []string{"darwin", "linux", "windows"} {
		assert.Equal(t, "/dev/cu.usbmodem14101", ResolvePort([]string{"/dev/cu.usbmodem14101"}, goos))
		assert.Equal(t, "not a port", ResolvePort([]string{"not a port"}, goos))
	}
}
