// Package config loads the devices file that tells the daemon which MQTT
// topics to watch and how aggressively to filter each device's readings.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/homefilter/dual-sensor/internal/filter"
)

// Device is one configured dual-measurement device.
type Device struct {
	ID               string `yaml:"id"`
	TemperatureTopic string `yaml:"temperature_topic"`
	PresenceTopic    string `yaml:"presence_topic"`

	// Filter knobs. Pointers distinguish "omitted" (use default) from an
	// explicit zero, which is meaningful for min_delta and the windows.
	Window     *int     `yaml:"window"`
	MinDelta   *float64 `yaml:"min_delta"`
	DebounceMs *int     `yaml:"debounce_ms"`
	HoldMs     *int     `yaml:"hold_ms"`
	JSONPath   string   `yaml:"json_path"`
}

// FilterConfig converts the device entry to the core's config, applying
// defaults for omitted knobs.
func (d Device) FilterConfig() filter.Config {
	cfg := filter.Config{
		WindowSize: filter.DefaultWindowSize,
		MinDelta:   filter.DefaultMinDelta,
		Debounce:   filter.DefaultDebounce,
		Hold:       filter.DefaultHold,
		JSONPath:   strings.TrimSpace(d.JSONPath),
	}
	if d.Window != nil {
		cfg.WindowSize = *d.Window
	}
	if d.MinDelta != nil {
		cfg.MinDelta = *d.MinDelta
	}
	if d.DebounceMs != nil {
		cfg.Debounce = time.Duration(*d.DebounceMs) * time.Millisecond
	}
	if d.HoldMs != nil {
		cfg.Hold = time.Duration(*d.HoldMs) * time.Millisecond
	}
	return cfg
}

type file struct {
	Devices []Device `yaml:"devices"`
}

// Load reads and validates the devices file at path.
func Load(path string) ([]Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open devices file: %w", err)
	}
	defer f.Close()

	devices, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return devices, nil
}

// Parse decodes and validates a devices file from r.
func Parse(r io.Reader) ([]Device, error) {
	c := file{}
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode devices file: %w", err)
	}

	if len(c.Devices) == 0 {
		return nil, fmt.Errorf("no devices configured")
	}

	seen := make(map[string]bool)
	for i, d := range c.Devices {
		if err := validateDevice(d); err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate device id %q", d.ID)
		}
		seen[d.ID] = true
	}

	return c.Devices, nil
}

func validateDevice(d Device) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(d.TemperatureTopic) == "" {
		return fmt.Errorf("%s: temperature_topic is required", d.ID)
	}
	if strings.TrimSpace(d.PresenceTopic) == "" {
		return fmt.Errorf("%s: presence_topic is required", d.ID)
	}
	// Range checks live in the core config; surface them at load time so a
	// bad file fails before any MQTT subscription happens.
	if err := d.FilterConfig().Validate(); err != nil {
		return fmt.Errorf("%s: %w", d.ID, err)
	}
	return nil
}
