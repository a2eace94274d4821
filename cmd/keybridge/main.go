package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/dancavallaro/keybridge/awso"
	"github.com/dancavallaro/keybridge/pkg/bridge"
	"github.com/dancavallaro/keybridge/pkg/keyboard"
	"github.com/dancavallaro/keybridge/pkg/serialport"
	"github.com/dancavallaro/keybridge/pkg/telemetry"
	"github.com/denisbrodbeck/machineid"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

var (
	mqttAddress       = flag.String("mqttAddress", "", "Address:port of MQTT broker; events are not published when empty")
	mqttUsername      = flag.String("mqttUsername", "<none>", "MQTT username")
	mqttPassword      = flag.String("mqttPassword", "<none>", "MQTT password")
	deviceName        = flag.String("deviceName", "", "Name to report this bridge as (default: derived from the machine ID)")
	heartbeatInterval = flag.Duration("heartbeatInterval", 30*time.Second, "How often to publish an MQTT heartbeat")
	publishMetrics    = flag.Bool("cloudwatch", false, "Publish key press counts to Cloudwatch")
	region            = flag.String("region", "us-east-1", "Cloudwatch region to use")
	metricNamespace   = flag.String("metricNamespace", "Testing", "Metric namespace to publish in")
	metricName        = flag.String("metricName", "KeyPress", "Metric name to use for key presses")
	metricDimension   = flag.String("metricDimension", "Device", "Dimension name to use for identifying devices")
)

type deps struct {
	goos        string
	config      func(port string) bridge.Config
	open        bridge.Opener
	list        bridge.Lister
	newKeyboard func() (keyboard.Keyboard, error)
	observers   []bridge.Observer
}

func openSerial(port string, baud int, readTimeout time.Duration) (bridge.Link, error) {
	p, err := serialport.Open(port, baud, readTimeout)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func run(ctx context.Context, args []string, d deps, logger *log.Logger) int {
	logger.Println("Arduino Button to Keyboard Bridge")

	cfg := d.config(bridge.ResolvePort(args, d.goos))
	logger.Printf("Attempting to connect to Arduino on %s...", cfg.Port)

	session, err := bridge.Connect(ctx, cfg, d.open, d.list, logger)
	defer session.Close()
	if err != nil {
		var cerr *bridge.ConnectError
		if errors.As(err, &cerr) {
			reportConnectError(logger, cerr)
			return 1
		}
		logger.Println("Program terminated by user")
		return 0
	}

	kb, err := d.newKeyboard()
	if err != nil {
		logger.Printf("Failed to create virtual keyboard: %v", err)
		return 1
	}
	defer kb.Close()

	logger.Println("Bridge is running! Press Ctrl+C to exit.")
	logger.Println("Waiting for Arduino button signals...")

	if err := bridge.New(session, kb, cfg.PollInterval, logger, d.observers...).Run(ctx); err != nil {
		logger.Printf("Bridge stopped: %v", err)
		return 1
	}
	logger.Println("Program terminated by user")
	return 0
}

func reportConnectError(logger *log.Logger, cerr *bridge.ConnectError) {
	logger.Printf("Failed to connect to Arduino: %v", cerr.Err)
	logger.Println("Available ports:")
	for _, p := range cerr.Available {
		logger.Printf(" - %s", p)
	}
	if cerr.ListErr != nil {
		logger.Printf("Could not list serial ports: %v", cerr.ListErr)
	}
	logger.Println()
	logger.Println("Try specifying the port: keybridge PORT_NAME")
}

func checkFlags() error {
	if *heartbeatInterval <= 0 {
		return fmt.Errorf("-heartbeatInterval must be positive, got %v", *heartbeatInterval)
	}
	if flag.NArg() > 1 {
		return fmt.Errorf("expected at most one PORT_NAME, got %d arguments", flag.NArg())
	}
	return nil
}

func resolveDeviceName() string {
	if *deviceName != "" {
		return *deviceName
	}
	if id, err := machineid.ProtectedID("keybridge"); err == nil {
		return "keybridge-" + id[:12]
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "keybridge"
}

// startTelemetry connects the optional publishers. Their background work
// stops with ctx; the returned func disconnects from the broker.
func startTelemetry(ctx context.Context, logger *log.Logger) ([]bridge.Observer, func(), error) {
	var observers []bridge.Observer
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	device := resolveDeviceName()

	if *mqttAddress != "" {
		pub, err := telemetry.NewMQTTPublisher(telemetry.MQTTConfig{
			BrokerAddress: *mqttAddress,
			Username:      *mqttUsername,
			Password:      *mqttPassword,
			Device:        device,
			Logger:        log.New(os.Stdout, "[mqtt] ", 0),
		})
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() {
			logger.Println("Shutting down MQTT publisher now...")
			pub.Close()
		})
		observers = append(observers, pub)
		go func() {
			if err := pub.RunHeartbeats(ctx, *heartbeatInterval); err != nil {
				logger.Printf("Heartbeats stopped: %v", err)
			}
		}()
		logger.Printf("Publishing button events to %s", pub.ButtonTopic())
	}

	if *publishMetrics {
		identity := awso.NewClientProvider(*region, func(cfg aws.Config) *sts.Client {
			return sts.NewFromConfig(cfg)
		})
		arn, err := awso.CallerIdentity(ctx, identity)
		if err != nil {
			return nil, closeAll, fmt.Errorf("check aws credentials: %w", err)
		}
		logger.Printf("Publishing Cloudwatch metrics as %s", arn)

		cw := awso.NewClientProvider(*region, func(cfg aws.Config) *cloudwatch.Client {
			logger.Println("Creating new Cloudwatch client")
			return cloudwatch.NewFromConfig(cfg)
		})
		pub := telemetry.NewCloudwatchPublisher(
			telemetry.NewCloudwatchProvider(cw), *metricNamespace, *metricName, *metricDimension, device, logger,
		)
		observers = append(observers, pub)
		go pub.Run(ctx)
	}

	return observers, closeAll, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [PORT_NAME]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := checkFlags(); err != nil {
		fmt.Fprintln(flag.CommandLine.Output(), err)
		flag.Usage()
		os.Exit(1)
	}

	log.SetFlags(0)
	log.SetPrefix("[keybridge] ")
	logger := log.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	observers, closeTelemetry, err := startTelemetry(ctx, logger)
	if err != nil {
		closeTelemetry()
		stop()
		logger.Fatalf("Failed to start telemetry: %v", err)
	}

	code := run(ctx, flag.Args(), deps{
		goos:        runtime.GOOS,
		config:      bridge.DefaultConfig,
		open:        openSerial,
		list:        serialport.ListPorts,
		newKeyboard: keyboard.New,
		observers:   observers,
	}, logger)

	stop()
	closeTelemetry()
	os.Exit(code)
}
