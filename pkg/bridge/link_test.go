package bridge

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestPollNothingWaiting(t *testing.T) {
	r := NewLineReader(&fakeLink{})
	line, ok, err := r.Poll()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, line)
}

func TestPollSplitsLines(t *testing.T) {
	r := NewLineReader(&fakeLink{data: []byte("LEFT_DOWN\nLEFT_UP\r\n")})

	line, ok, err := r.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "LEFT_DOWN\n", string(line))

	line, ok, err = r.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "LEFT_UP\r\n", string(line))

	_, ok, err = r.Poll()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPollJoinsChunks(t *testing.T) {
	r := NewLineReader(&fakeLink{data: []byte("RIGHT_DOWN\n"), chunk: 3})
	line, ok, err := r.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "RIGHT_DOWN\n", string(line))
}

func TestPollReturnsPartialLineOnTimeout(t *testing.T) {
	r := NewLineReader(&fakeLink{data: []byte("RIGHT_U")})
	line, ok, err := r.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "RIGHT_U", string(line))
}

func TestPollReadError(t *testing.T) {
	boom := errors.New("device unplugged")
	r := NewLineReader(&fakeLink{data: []byte("x"), readErr: boom})
	_, _, err := r.Poll()
	assert.ErrorIs(t, err, boom)
}

func TestDecodeToken(t *testing.T) {
	token, err := DecodeToken([]byte("  LEFT_DOWN \r\n"))
	require.NoError(t, err)
	assert.Equal(t, "LEFT_DOWN", token)

	token, err = DecodeToken([]byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, "", token)

	_, err = DecodeToken([]byte{0xff, 0xfe, '\n'})
	assert.ErrorIs(t, err, ErrInvalidText)
}
