package bridge

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

// Link is the serial connection to the microcontroller. Read must return
// (0, nil) once the configured read timeout passes without data.
type Link interface {
	Read(p []byte) (int, error)
	Buffered() (int, error)
	Close() error
}

var ErrInvalidText = errors.New("line is not valid UTF-8")

const readChunk = 64

// LineReader splits the link's byte stream into lines. Bytes read past a
// line terminator are kept for the next call.
type LineReader struct {
	link    Link
	pending []byte
	buf     []byte
}

func NewLineReader(link Link) *LineReader {
	return &LineReader{link: link, buf: make([]byte, readChunk)}
}

// Poll returns the next line if one is available. It does not wait when
// nothing has arrived. Once data is waiting it reads until a newline or
// until a read times out, in which case the partial line is returned.
// The returned line still includes its terminator.
func (r *LineReader) Poll() ([]byte, bool, error) {
	if line, ok := r.takeLine(); ok {
		return line, true, nil
	}
	if len(r.pending) == 0 {
		n, err := r.link.Buffered()
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			return nil, false, nil
		}
	}
	for {
		n, err := r.link.Read(r.buf)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			line := r.pending
			r.pending = nil
			return line, len(line) > 0, nil
		}
		r.pending = append(r.pending, r.buf[:n]...)
		if line, ok := r.takeLine(); ok {
			return line, true, nil
		}
	}
}

func (r *LineReader) takeLine() ([]byte, bool) {
	i := bytes.IndexByte(r.pending, '\n')
	if i < 0 {
		return nil, false
	}
	line := make([]byte, i+1)
	copy(line, r.pending[:i+1])
	r.pending = r.pending[i+1:]
	if len(r.pending) == 0 {
		r.pending = nil
	}
	return line, true
}

// DecodeToken turns a raw line into a command token.
func DecodeToken(line []byte) (string, error) {
	if !utf8.Valid(line) {
		return "", ErrInvalidText
	}
	return strings.TrimSpace(string(line)), nil
}
