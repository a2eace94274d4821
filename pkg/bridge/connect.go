package bridge

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

type Config struct {
	Port         string
	BaudRate     int
	ReadTimeout  time.Duration
	SettleDelay  time.Duration
	PollInterval time.Duration
}

// DefaultConfig holds the link parameters the Arduino sketch expects.
func DefaultConfig(port string) Config {
	return Config{
		Port:         port,
		BaudRate:     9600,
		ReadTimeout:  100 * time.Millisecond,
		SettleDelay:  2 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}

type Opener func(port string, baud int, readTimeout time.Duration) (Link, error)

type Lister func() ([]string, error)

// ConnectError is returned when the serial device cannot be opened.
// Available lists the devices present at the time of the failure.
type ConnectError struct {
	Port      string
	Err       error
	Available []string
	ListErr   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Port, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Session owns an open link. The zero value and nil are both valid,
// unopened sessions.
type Session struct {
	Link   Link
	Port   string
	logger Logger
	closed bool
}

// Connect opens the link and waits SettleDelay for the board to finish
// its reset. If ctx is cancelled during the wait, the open session is
// returned together with ctx's error and the caller must close it.
func Connect(ctx context.Context, cfg Config, open Opener, list Lister, logger Logger) (*Session, error) {
	link, err := open(cfg.Port, cfg.BaudRate, cfg.ReadTimeout)
	if err != nil {
		cerr := &ConnectError{Port: cfg.Port, Err: err}
		cerr.Available, cerr.ListErr = list()
		return nil, cerr
	}
	logger.Printf("Connected to Arduino on %s", cfg.Port)

	s := &Session{Link: link, Port: cfg.Port, logger: logger}
	if err := sleep(ctx, cfg.SettleDelay); err != nil {
		return s, err
	}
	return s, nil
}

// Opened reports whether the session holds a link that is still open.
func (s *Session) Opened() bool {
	return s != nil && s.Link != nil && !s.closed
}

// Close releases the link. Calling it again, or on a session that never
// opened, does nothing.
func (s *Session) Close() error {
	if !s.Opened() {
		return nil
	}
	s.closed = true
	err := s.Link.Close()
	if s.logger != nil {
		s.logger.Println("Arduino connection closed")
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
