package bridge

const (
	// DarwinDefaultPort is only the prefix of the usual Arduino device
	// name on macOS. The suffix differs per board and USB location, so it
	// has to be completed by hand and passed as PORT_NAME.
	DarwinDefaultPort  = "/dev/tty.usbmodem"
	LinuxDefaultPort   = "/dev/ttyACM0"
	WindowsDefaultPort = "COM3"
)

// DefaultPort picks the conventional Arduino device for a GOOS value.
func DefaultPort(goos string) string {
	switch goos {
	case "darwin":
		return DarwinDefaultPort
	case "linux":
		return LinuxDefaultPort
	}
	return WindowsDefaultPort
}

// ResolvePort returns args[0] verbatim when given, otherwise the platform
// default. The identifier is not checked here; a bad one fails at Connect.
func ResolvePort(args []string, goos string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultPort(goos)
}
