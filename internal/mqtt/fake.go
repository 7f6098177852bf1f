package mqtt

import "sync"

// FakeSubscriber feeds scripted messages to the processing loop for tests.
type FakeSubscriber struct {
	// Out is the channel messages are delivered on.
	Out chan Message

	// Closed tracks if Close was called.
	Closed bool

	// mu guards connected: tests flip it while the loop under test reads
	// it from another goroutine.
	mu        sync.Mutex
	connected bool
}

// NewFakeSubscriber creates a FakeSubscriber with a buffered delivery
// channel. It starts out connected.
func NewFakeSubscriber(buffer int) *FakeSubscriber {
	return &FakeSubscriber{
		Out:       make(chan Message, buffer),
		connected: true,
	}
}

// Inject delivers one message as if it arrived from the broker.
func (f *FakeSubscriber) Inject(m Message) {
	f.Out <- m
}

// SetConnected scripts the connection state.
func (f *FakeSubscriber) SetConnected(connected bool) {
	f.mu.Lock()
	f.connected = connected
	f.mu.Unlock()
}

// IsConnected reports the scripted connection state.
func (f *FakeSubscriber) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Close marks the subscriber as closed.
func (f *FakeSubscriber) Close() error {
	f.Closed = true
	close(f.Out)
	return nil
}
