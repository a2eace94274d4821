package main

import (
	"bytes"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log"
	"testing"
)

type bufferLink struct {
	data    []byte
	onEmpty func()
}

func (l *bufferLink) Read(p []byte) (int, error) {
	n := copy(p, l.data)
	l.data = l.data[n:]
	return n, nil
}

func (l *bufferLink) Buffered() (int, error) {
	if len(l.data) == 0 {
		l.onEmpty()
	}
	return len(l.data), nil
}

func (l *bufferLink) Close() error {
	return nil
}

func TestMonitorLabelsLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	link := &bufferLink{data: []byte("RIGHT_UP\r\nhello\n"), onEmpty: cancel}
	var out bytes.Buffer

	require.NoError(t, monitor(ctx, link, log.New(&out, "", 0)))
	assert.Equal(t, "\"RIGHT_UP\" -> RIGHT_UP\n\"hello\" (ignored)\n", out.String())
}
