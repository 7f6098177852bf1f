package config

import (
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
devices:
  - id: livingroom
    temperature_topic: home/livingroom/temperature
    presence_topic: home/livingroom/presence
    window: 3
    min_delta: 0.2
    debounce_ms: 500
    hold_ms: 10000
    json_path: BMP280.Temperature
  - id: hallway
    temperature_topic: home/hallway/temperature
    presence_topic: home/hallway/presence
`

func TestParseFullEntry(t *testing.T) {
	devices, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}

	d := devices[0]
	if d.ID != "livingroom" {
		t.Errorf("id: got %q", d.ID)
	}
	if d.TemperatureTopic != "home/livingroom/temperature" {
		t.Errorf("temperature topic: got %q", d.TemperatureTopic)
	}

	cfg := d.FilterConfig()
	if cfg.WindowSize != 3 {
		t.Errorf("window: got %d, want 3", cfg.WindowSize)
	}
	if cfg.MinDelta != 0.2 {
		t.Errorf("min delta: got %v, want 0.2", cfg.MinDelta)
	}
	if cfg.Debounce != 500*time.Millisecond {
		t.Errorf("debounce: got %v, want 500ms", cfg.Debounce)
	}
	if cfg.Hold != 10*time.Second {
		t.Errorf("hold: got %v, want 10s", cfg.Hold)
	}
	if cfg.JSONPath != "BMP280.Temperature" {
		t.Errorf("json path: got %q", cfg.JSONPath)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	devices, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := devices[1].FilterConfig()
	if cfg.WindowSize != 5 {
		t.Errorf("window default: got %d, want 5", cfg.WindowSize)
	}
	if cfg.MinDelta != 0.1 {
		t.Errorf("min delta default: got %v, want 0.1", cfg.MinDelta)
	}
	if cfg.Debounce != 300*time.Millisecond {
		t.Errorf("debounce default: got %v, want 300ms", cfg.Debounce)
	}
	if cfg.Hold != 5*time.Second {
		t.Errorf("hold default: got %v, want 5s", cfg.Hold)
	}
	if cfg.JSONPath != "" {
		t.Errorf("json path default: got %q, want empty", cfg.JSONPath)
	}
}

func TestParseExplicitZeroMinDelta(t *testing.T) {
	yaml := `
devices:
  - id: dev
    temperature_topic: t
    presence_topic: p
    min_delta: 0
`
	devices, err := Parse(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := devices[0].FilterConfig().MinDelta; got != 0 {
		t.Errorf("explicit zero min delta: got %v, want 0", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty file", ""},
		{"no devices", "devices: []"},
		{"missing id", `
devices:
  - temperature_topic: t
    presence_topic: p
`},
		{"missing temperature topic", `
devices:
  - id: dev
    presence_topic: p
`},
		{"missing presence topic", `
devices:
  - id: dev
    temperature_topic: t
`},
		{"duplicate ids", `
devices:
  - id: dev
    temperature_topic: t1
    presence_topic: p1
  - id: dev
    temperature_topic: t2
    presence_topic: p2
`},
		{"window out of range", `
devices:
  - id: dev
    temperature_topic: t
    presence_topic: p
    window: 61
`},
		{"negative min delta", `
devices:
  - id: dev
    temperature_topic: t
    presence_topic: p
    min_delta: -0.5
`},
		{"debounce out of range", `
devices:
  - id: dev
    temperature_topic: t
    presence_topic: p
    debounce_ms: 10001
`},
		{"hold out of range", `
devices:
  - id: dev
    temperature_topic: t
    presence_topic: p
    hold_ms: 600001
`},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/devices.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
