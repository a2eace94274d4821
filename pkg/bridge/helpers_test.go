package bridge

import (
	"context"
	"fmt"
	"github.com/dancavallaro/keybridge/pkg/keyboard"
	"strings"
)

type fakeLink struct {
	data    []byte
	chunk   int
	readErr error
	closes  int
	onEmpty func()
}

func (l *fakeLink) Read(p []byte) (int, error) {
	if l.readErr != nil {
		return 0, l.readErr
	}
	n := len(l.data)
	if l.chunk > 0 && n > l.chunk {
		n = l.chunk
	}
	n = copy(p, l.data[:n])
	l.data = l.data[n:]
	return n, nil
}

func (l *fakeLink) Buffered() (int, error) {
	if len(l.data) == 0 && l.onEmpty != nil {
		l.onEmpty()
	}
	return len(l.data), nil
}

func (l *fakeLink) Close() error {
	l.closes++
	return nil
}

type fakeKeyboard struct {
	actions []string
	err     error
}

func (kb *fakeKeyboard) Press(key keyboard.Key) error {
	if kb.err != nil {
		return kb.err
	}
	kb.actions = append(kb.actions, fmt.Sprintf("press(%v)", key))
	return nil
}

func (kb *fakeKeyboard) Release(key keyboard.Key) error {
	if kb.err != nil {
		return kb.err
	}
	kb.actions = append(kb.actions, fmt.Sprintf("release(%v)", key))
	return nil
}

func (kb *fakeKeyboard) Close() error {
	return nil
}

type testLogger struct {
	lines []string
}

func (l *testLogger) Println(v ...interface{}) {
	l.lines = append(l.lines, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (l *testLogger) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) Observe(_ context.Context, event Event) {
	o.events = append(o.events, event)
}

func newTestBridge(link *fakeLink, kb *fakeKeyboard, observers ...Observer) (*Bridge, *testLogger) {
	logger := &testLogger{}
	session := &Session{Link: link, Port: "/dev/test", logger: logger}
	return New(session, kb, 0, logger, observers...), logger
}

// drain runs the bridge until the link has no more data.
func drain(b *Bridge, link *fakeLink) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	link.onEmpty = cancel
	return b.Run(ctx)
}
