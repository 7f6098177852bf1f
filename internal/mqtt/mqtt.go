// Package mqtt provides MQTT subscription plumbing with abstraction for
// testing. It delivers raw payloads tagged with a device and stream kind;
// decoding and filtering happen in the core.
package mqtt

// Kind identifies which of a device's two streams a message belongs to.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindPresence    Kind = "presence"
)

// Message is one raw reading received from the broker. The payload is
// opaque here; the filter core decides whether it parses.
type Message struct {
	Device  string
	Kind    Kind
	Topic   string
	Payload []byte
}

// Route maps a broker topic to a device stream.
type Route struct {
	Topic  string
	Device string
	Kind   Kind
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}
