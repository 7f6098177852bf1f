// Package status provides a thread-safe status tracker for the dual-sensor
// daemon. It is the read surface for the HTTP handlers: the processing loop
// writes per-device state in, the web server reads snapshots out.
package status

import (
	"sync"
	"time"

	"github.com/homefilter/dual-sensor/internal/filter"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker      string
	HTTPAddr    string
	DevicesFile string
}

// DeviceStatus is a point-in-time view of one device's filtered state.
type DeviceStatus struct {
	ID string

	// Temperature is the last published (gated) value; nil before the
	// first publish.
	Temperature *float64

	// Average is the last computed mean, which may sit below the publish
	// gate; nil before the first sample.
	Average *float64

	Presence bool
	Samples  int

	Counts filter.Counts

	// Rejected counts unparseable temperature payloads. Maintained by the
	// tracker since rejected payloads never reach a session.
	Rejected int

	// LastUpdate is when the device last received any message.
	LastUpdate time.Time
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released. The Devices
// slice is freshly allocated per snapshot.
type Snapshot struct {
	Devices       []DeviceStatus
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu            sync.RWMutex
	order         []string // display order, fixed at construction
	devices       map[string]DeviceStatus
	startTime     time.Time
	mqttConnected bool
	cfg           Config
}

// NewTracker creates a Tracker pre-registered with the given device ids.
// Display order follows the slice.
func NewTracker(startTime time.Time, cfg Config, deviceIDs []string) *Tracker {
	t := &Tracker{
		order:     append([]string(nil), deviceIDs...),
		devices:   make(map[string]DeviceStatus, len(deviceIDs)),
		startTime: startTime,
		cfg:       cfg,
	}
	for _, id := range deviceIDs {
		t.devices[id] = DeviceStatus{ID: id}
	}
	return t
}

// Update replaces a device's filtered state. The Rejected counter is owned
// by the tracker and survives the update. Unknown devices are ignored.
func (t *Tracker) Update(id string, st DeviceStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.devices[id]
	if !ok {
		return
	}
	st.ID = id
	st.Rejected = prev.Rejected
	t.devices[id] = st
}

// RecordRejected counts one unparseable payload for the device.
func (t *Tracker) RecordRejected(id string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.devices[id]
	if !ok {
		return
	}
	st.Rejected++
	st.LastUpdate = now
	t.devices[id] = st
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqttConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	devices := make([]DeviceStatus, 0, len(t.order))
	for _, id := range t.order {
		devices = append(devices, t.devices[id])
	}
	s := Snapshot{
		Devices:       devices,
		StartTime:     t.startTime,
		MQTTConnected: t.mqttConnected,
		Config:        t.cfg,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
