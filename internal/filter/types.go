// Package filter contains pure signal-conditioning logic for dual-measurement
// devices: a moving-average temperature filter with a min-delta publish gate,
// and a presence debounce/hold state machine.
// This package has NO external dependencies (no MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package filter

import (
	"fmt"
	"time"
)

// Default filter knobs, applied by the config layer when a device omits them.
const (
	DefaultWindowSize = 5
	DefaultMinDelta   = 0.1
	DefaultDebounce   = 300 * time.Millisecond
	DefaultHold       = 5 * time.Second
)

// Limits enforced by Config.Validate.
const (
	MaxWindowSize = 60
	MaxDebounce   = 10 * time.Second
	MaxHold       = 10 * time.Minute
)

// Config holds the per-device filter parameters. It is immutable once a
// Session is created from it; changing WindowSize requires a new Session.
type Config struct {
	// WindowSize is the moving-average sample count (1..60).
	WindowSize int

	// MinDelta is the minimum absolute change of the computed average
	// required before the published temperature advances. Zero publishes
	// every new average.
	MinDelta float64

	// Debounce is the minimum time between accepted presence transitions.
	Debounce time.Duration

	// Hold is the minimum time presence must remain on before a repeated
	// "on" reading may expire it back to off.
	Hold time.Duration

	// JSONPath optionally locates a nested numeric field inside a JSON
	// temperature payload, as a dot-separated key path
	// (e.g. "BMP280.Temperature").
	JSONPath string
}

// Validate reports the first configuration error, or nil.
func (c Config) Validate() error {
	if c.WindowSize < 1 || c.WindowSize > MaxWindowSize {
		return fmt.Errorf("window size %d not within allowed [1, %d] range", c.WindowSize, MaxWindowSize)
	}
	if c.MinDelta < 0 {
		return fmt.Errorf("min delta %g must not be negative", c.MinDelta)
	}
	if c.Debounce < 0 || c.Debounce > MaxDebounce {
		return fmt.Errorf("debounce %v not within allowed [0, %v] range", c.Debounce, MaxDebounce)
	}
	if c.Hold < 0 || c.Hold > MaxHold {
		return fmt.Errorf("hold %v not within allowed [0, %v] range", c.Hold, MaxHold)
	}
	return nil
}

// Observer receives notifications about externally visible session changes.
// OnTemperatureChanged fires only when the published temperature advances.
// OnPresenceChanged fires on every presence ingest, including no-ops;
// observers that only care about transitions must track the previous value
// themselves.
type Observer interface {
	OnTemperatureChanged(value float64)
	OnPresenceChanged(on bool)
}

// Counts tracks filtering outcomes since session creation.
type Counts struct {
	// TempPublished is the number of ingests that advanced the published
	// temperature.
	TempPublished int
	// TempSuppressed is the number of ingests whose new average stayed
	// within MinDelta of the published value.
	TempSuppressed int
	// PresenceAccepted is the number of accepted presence transitions.
	PresenceAccepted int
	// PresenceDebounced is the number of presence changes dropped inside
	// the debounce window.
	PresenceDebounced int
	// PresenceExpired is the number of autonomous on->off hold expiries.
	PresenceExpired int
}
