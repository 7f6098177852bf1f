package filter

import (
	"fmt"
	"math"
	"time"
)

// Session is the per-device filtering state: one sample window, one publish
// gate, one presence state machine, and the observers watching them.
//
// A Session is NOT safe for concurrent use. The daemon funnels every message
// for a device through a single loop goroutine, which is the serialization
// the filtering logic relies on.
type Session struct {
	cfg Config

	window        *sampleWindow
	lastAvg       float64
	hasAvg        bool
	lastPublished float64
	hasPublished  bool

	presence   bool
	lastChange time.Time
	lastOn     time.Time

	observers []Observer
	counts    Counts
}

// NewSession creates a Session for the given config. Invalid config is
// fatal to construction: a session never exists with a bad window capacity.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("filter config: %w", err)
	}
	return &Session{
		cfg:    cfg,
		window: newSampleWindow(cfg.WindowSize),
	}, nil
}

// Config returns the immutable configuration the session was created with.
func (s *Session) Config() Config {
	return s.cfg
}

// Register adds an observer. Observers are invoked synchronously, in
// registration order; a slow observer stalls the ingesting call.
func (s *Session) Register(o Observer) {
	s.observers = append(s.observers, o)
}

// IngestTemperature feeds one decoded temperature sample through the moving
// average and the publish gate. It returns the new average and whether the
// published value advanced. Observers are notified only when it did.
func (s *Session) IngestTemperature(value float64) (avg float64, published bool) {
	s.window.push(value)
	avg, _ = s.window.mean() // window is never empty after a push
	s.lastAvg = avg
	s.hasAvg = true

	// Gate: only advance the externally visible value if it moved enough.
	if s.hasPublished && math.Abs(avg-s.lastPublished) < s.cfg.MinDelta {
		s.counts.TempSuppressed++
		return avg, false
	}

	s.lastPublished = avg
	s.hasPublished = true
	s.counts.TempPublished++
	for _, o := range s.observers {
		o.OnTemperatureChanged(avg)
	}
	return avg, true
}

// IngestPresence feeds one decoded presence reading through the debounce and
// hold windows. now must come from a monotonic clock; the state machine has
// no clock of its own. It returns the resulting state and whether it changed
// on this call.
//
// Observers are notified on every call, changed or not. The upstream entity
// model refreshed its state unconditionally and downstream consumers rely on
// the idempotent ping; observers that only want transitions must dedupe.
func (s *Session) IngestPresence(wantOn bool, now time.Time) (on bool, changed bool) {
	if wantOn != s.presence {
		// Debounce: only accept a change if the last one was long enough ago.
		if now.Sub(s.lastChange) >= s.cfg.Debounce {
			s.presence = wantOn
			s.lastChange = now
			if wantOn {
				s.lastOn = now
			}
			s.counts.PresenceAccepted++
			changed = true
		} else {
			s.counts.PresenceDebounced++
		}
	} else if s.presence && now.Sub(s.lastOn) >= s.cfg.Hold {
		// A repeated "on" whose hold window has lapsed means the device
		// stopped refreshing upstream; expire to off.
		s.presence = false
		s.lastChange = now
		s.counts.PresenceExpired++
		changed = true
	}

	for _, o := range s.observers {
		o.OnPresenceChanged(s.presence)
	}
	return s.presence, changed
}

// CurrentTemperature returns the last published temperature.
// The second return is false until something has been published.
func (s *Session) CurrentTemperature() (float64, bool) {
	return s.lastPublished, s.hasPublished
}

// CurrentAverage returns the most recent computed average, which may sit
// below the publish gate. False until the first sample arrives.
func (s *Session) CurrentAverage() (float64, bool) {
	return s.lastAvg, s.hasAvg
}

// CurrentPresence returns the debounced presence state.
func (s *Session) CurrentPresence() bool {
	return s.presence
}

// SampleCount returns how many samples currently fill the window.
func (s *Session) SampleCount() int {
	return s.window.len()
}

// Counts returns a snapshot of the filtering outcome counters.
func (s *Session) Counts() Counts {
	return s.counts
}
