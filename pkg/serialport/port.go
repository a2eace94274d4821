package serialport

import (
	"fmt"
	"github.com/albenik/go-serial/v2"
	"time"
)

// Port is an open serial device. Read returns (0, nil) when the read
// timeout expires with nothing received.
type Port struct {
	port *serial.Port
	name string
}

func Open(device string, baud int, readTimeout time.Duration) (*Port, error) {
	port, err := serial.Open(
		device,
		serial.WithBaudrate(baud),
		serial.WithReadTimeout(int(readTimeout/time.Millisecond)),
		serial.WithWriteTimeout(1000),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return &Port{port: port, name: device}, nil
}

func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// Buffered reports how many received bytes are waiting to be read.
func (p *Port) Buffered() (int, error) {
	n, err := p.port.ReadyToRead()
	return int(n), err
}

func (p *Port) Close() error {
	return p.port.Close()
}

func (p *Port) Name() string {
	return p.name
}

// ListPorts returns the serial devices currently present on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
