package bridge

import (
	"github.com/dancavallaro/keybridge/pkg/keyboard"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, LeftDown, ParseCommand("LEFT_DOWN"))
	assert.Equal(t, LeftUp, ParseCommand("LEFT_UP"))
	assert.Equal(t, RightDown, ParseCommand("RIGHT_DOWN"))
	assert.Equal(t, RightUp, ParseCommand("RIGHT_UP"))

	for _, token := range []string{"", "left_down", "Left_Up", "LEFT", "UP_DOWN", " LEFT_DOWN", "LEFT_DOWN\n"} {
		assert.Equal(t, Unrecognized, ParseCommand(token), "token %q", token)
	}
}

func TestCommandTarget(t *testing.T) {
	key, action, ok := LeftDown.Target()
	assert.True(t, ok)
	assert.Equal(t, keyboard.Left, key)
	assert.Equal(t, Press, action)

	key, action, ok = RightUp.Target()
	assert.True(t, ok)
	assert.Equal(t, keyboard.Right, key)
	assert.Equal(t, Release, action)

	_, _, ok = Unrecognized.Target()
	assert.False(t, ok)
}

func TestCommandStringRoundTrips(t *testing.T) {
	for _, cmd := range []Command{LeftDown, LeftUp, RightDown, RightUp} {
		assert.Equal(t, cmd, ParseCommand(cmd.String()))
	}
	assert.Equal(t, Unrecognized, ParseCommand(Unrecognized.String()))
}
