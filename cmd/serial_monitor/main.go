package main

import (
	"context"
	"flag"
	"github.com/dancavallaro/keybridge/pkg/bridge"
	"github.com/dancavallaro/keybridge/pkg/serialport"
	"log"
	"os/signal"
	"syscall"
	"time"
)

const Required = "<REQUIRED>"

// monitor prints every line the board sends, marking which ones the bridge
// would act on. No keys are injected.
func monitor(ctx context.Context, link bridge.Link, logger *log.Logger) error {
	lines := bridge.NewLineReader(link)
	for ctx.Err() == nil {
		line, ok, err := lines.Poll()
		if err != nil {
			return err
		}
		if ok {
			token, err := bridge.DecodeToken(line)
			if err != nil {
				logger.Printf("%q: %v", line, err)
			} else if cmd := bridge.ParseCommand(token); cmd == bridge.Unrecognized {
				logger.Printf("%q (ignored)", token)
			} else {
				logger.Printf("%q -> %v", token, cmd)
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func main() {
	device := flag.String("device", Required, "serial device to read from")
	baud := flag.Int("baud", 9600, "baudrate to use")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *device == Required {
		log.Fatal("must specify path to device!")
	}

	port, err := serialport.Open(*device, *baud, 100*time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := monitor(ctx, port, log.Default()); err != nil {
		log.Printf("Stopped reading %s: %v", port.Name(), err)
	}
}
