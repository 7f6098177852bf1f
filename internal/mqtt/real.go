package mqtt

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// RealSubscriber receives messages from an actual MQTT broker and forwards
// them onto a channel consumed by the daemon's processing loop. Routing to a
// single channel is what serializes ingestion: paho invokes handlers on its
// own goroutines, but everything funnels into one consumer.
type RealSubscriber struct {
	client paho.Client
	routes []Route
	out    chan<- Message
}

// NewRealSubscriber connects to the broker and subscribes to every route.
// Subscriptions are re-established automatically after a reconnect.
func NewRealSubscriber(broker, clientID string, routes []Route, out chan<- Message) (*RealSubscriber, error) {
	s := &RealSubscriber{routes: routes, out: out}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c paho.Client) {
			// Fires on first connect and every reconnect; clean-session
			// connections forget subscriptions, so redo them each time.
			if err := s.subscribeAll(c); err != nil {
				log.Printf("mqtt: resubscribe: %v", err)
			}
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	s.client = client
	return s, nil
}

func (s *RealSubscriber) subscribeAll(c paho.Client) error {
	for _, r := range s.routes {
		r := r
		handler := func(_ paho.Client, m paho.Message) {
			s.out <- Message{
				Device:  r.Device,
				Kind:    r.Kind,
				Topic:   m.Topic(),
				Payload: m.Payload(),
			}
		}
		// QoS 0: a lost reading is fine, the next one replaces it.
		token := c.Subscribe(r.Topic, 0, handler)
		if !token.WaitTimeout(5 * time.Second) {
			return fmt.Errorf("subscribe %s: timeout", r.Topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("subscribe %s: %w", r.Topic, err)
		}
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (s *RealSubscriber) IsConnected() bool {
	return s.client.IsConnected()
}

// Close disconnects from the broker.
func (s *RealSubscriber) Close() error {
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}
