package web

import (
	"encoding/json"
	"time"

	"github.com/homefilter/dual-sensor/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Devices       []DeviceJSON `json:"devices"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// DeviceJSON is the JSON representation of one device's filtered state.
type DeviceJSON struct {
	ID          string     `json:"id"`
	Temperature *float64   `json:"temperature"`
	Average     *float64   `json:"average"`
	Presence    string     `json:"presence"`
	Samples     int        `json:"samples"`
	LastUpdate  string     `json:"last_update,omitempty"`
	Counts      CountsJSON `json:"counts"`
}

// CountsJSON is the JSON representation of filtering outcome counters.
type CountsJSON struct {
	TempPublished     int `json:"temp_published"`
	TempSuppressed    int `json:"temp_suppressed"`
	TempRejected      int `json:"temp_rejected"`
	PresenceAccepted  int `json:"presence_accepted"`
	PresenceDebounced int `json:"presence_debounced"`
	PresenceExpired   int `json:"presence_expired"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	DevicesFile string `json:"devices_file"`
}

func formatJSON(snap status.Snapshot) []byte {
	devices := make([]DeviceJSON, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		dj := DeviceJSON{
			ID:          d.ID,
			Temperature: d.Temperature,
			Average:     d.Average,
			Presence:    presenceString(d.Presence),
			Samples:     d.Samples,
			Counts: CountsJSON{
				TempPublished:     d.Counts.TempPublished,
				TempSuppressed:    d.Counts.TempSuppressed,
				TempRejected:      d.Rejected,
				PresenceAccepted:  d.Counts.PresenceAccepted,
				PresenceDebounced: d.Counts.PresenceDebounced,
				PresenceExpired:   d.Counts.PresenceExpired,
			},
		}
		if !d.LastUpdate.IsZero() {
			dj.LastUpdate = d.LastUpdate.UTC().Format(time.RFC3339)
		}
		devices = append(devices, dj)
	}

	sj := StatusJSON{
		Status: StatusInner{
			Devices:       devices,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Config: ConfigJSON{
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
				DevicesFile: snap.Config.DevicesFile,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}

func presenceString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
