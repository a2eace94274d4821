package bridge

import (
	"context"
	"errors"
	"fmt"
	"github.com/dancavallaro/keybridge/pkg/keyboard"
	"time"
)

// Event describes a key action taken in response to a command.
type Event struct {
	Command  Command
	Key      keyboard.Key
	Action   Action
	Received time.Time
}

type Observer interface {
	Observe(ctx context.Context, event Event)
}

// Bridge forwards commands from a session to a keyboard. Commands are
// forwarded as they arrive: no key state is kept or reconciled.
type Bridge struct {
	session      *Session
	lines        *LineReader
	kb           keyboard.Keyboard
	logger       Logger
	pollInterval time.Duration
	observers    []Observer
	now          func() time.Time
}

func New(session *Session, kb keyboard.Keyboard, pollInterval time.Duration, logger Logger, observers ...Observer) *Bridge {
	return &Bridge{
		session:      session,
		lines:        NewLineReader(session.Link),
		kb:           kb,
		logger:       logger,
		pollInterval: pollInterval,
		observers:    observers,
		now:          time.Now,
	}
}

// Run polls until ctx is cancelled, which is reported as a nil error.
// Any read, decode or keyboard failure stops the loop and is returned.
func (b *Bridge) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if !b.session.Opened() {
			return errors.New("serial link is closed")
		}
		if err := b.Step(ctx); err != nil {
			return err
		}
		if err := sleep(ctx, b.pollInterval); err != nil {
			break
		}
	}
	return nil
}

// Step handles at most one line.
func (b *Bridge) Step(ctx context.Context) error {
	line, ok, err := b.lines.Poll()
	if err != nil {
		return fmt.Errorf("read from %s: %w", b.session.Port, err)
	}
	if !ok {
		return nil
	}
	token, err := DecodeToken(line)
	if err != nil {
		return fmt.Errorf("decode %q: %w", line, err)
	}
	b.logger.Printf("Received: %s", token)
	return b.Dispatch(ctx, ParseCommand(token))
}

// Dispatch performs the key action for cmd. Unrecognized commands are
// dropped.
func (b *Bridge) Dispatch(ctx context.Context, cmd Command) error {
	key, action, ok := cmd.Target()
	if !ok {
		return nil
	}

	switch action {
	case Press:
		if err := b.kb.Press(key); err != nil {
			return fmt.Errorf("press %v: %w", key, err)
		}
		b.logger.Printf("Pressing %v arrow key", key)
	case Release:
		if err := b.kb.Release(key); err != nil {
			return fmt.Errorf("release %v: %w", key, err)
		}
		b.logger.Printf("Releasing %v arrow key", key)
	}

	event := Event{Command: cmd, Key: key, Action: action, Received: b.now()}
	for _, o := range b.observers {
		o.Observe(ctx, event)
	}
	return nil
}
