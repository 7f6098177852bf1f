// Command dual-sensor subscribes to per-device temperature and presence MQTT
// topics, runs the raw readings through smoothing and debounce filters, and
// serves the cleaned values on an HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/homefilter/dual-sensor/internal/config"
	"github.com/homefilter/dual-sensor/internal/filter"
	"github.com/homefilter/dual-sensor/internal/mqtt"
	"github.com/homefilter/dual-sensor/internal/status"
	"github.com/homefilter/dual-sensor/internal/web"
)

func main() {
	// Optional .env file supplies flag defaults via DUAL_SENSOR_* vars.
	_ = godotenv.Load(".env")

	broker := flag.String("broker", envOr("DUAL_SENSOR_BROKER", "tcp://localhost:1883"), "MQTT broker address")
	clientID := flag.String("client-id", envOr("DUAL_SENSOR_CLIENT_ID", "dual-sensor"), "MQTT client id")
	devicesPath := flag.String("devices", envOr("DUAL_SENSOR_DEVICES", "devices.yaml"), "Path to the devices YAML file")
	httpAddr := flag.String("http", envOr("DUAL_SENSOR_HTTP", ":8080"), "HTTP status address (empty to disable)")
	printConfig := flag.Bool("print-config", false, "Print effective device configuration and exit")

	flag.Parse()

	if err := run(*broker, *clientID, *devicesPath, *httpAddr, *printConfig); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(broker, clientID, devicesPath, httpAddr string, printConfig bool) error {
	devices, err := config.Load(devicesPath)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}

	// Print-config mode: validate and show what the daemon would run with.
	if printConfig {
		printDevices(os.Stdout, devices)
		return nil
	}

	registry := filter.NewRegistry()
	for _, d := range devices {
		sess, err := registry.Create(d.ID, d.FilterConfig())
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		sess.Register(&logObserver{device: d.ID})
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:      broker,
		HTTPAddr:    httpAddr,
		DevicesFile: devicesPath,
	}, deviceIDs(devices))

	// One delivery channel for all subscriptions; runLoop being the only
	// consumer is what lets the sessions stay lock-free.
	msgCh := make(chan mqtt.Message, 64)
	subscriber, err := mqtt.NewRealSubscriber(broker, clientID, buildRoutes(devices), msgCh)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer subscriber.Close()
	tracker.SetMQTTConnected(subscriber.IsConnected())

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: broker=%s devices=%d http=%s", broker, len(devices), httpAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// A broker outage stops messages from arriving, so connectivity must be
	// polled on its own clock, not piggybacked on traffic.
	ticker := time.NewTicker(connCheckInterval)
	defer ticker.Stop()

	return runLoop(msgCh, sigCh, ticker.C, time.Now, registry, tracker, subscriber)
}

// connCheckInterval is how often runLoop rechecks broker connectivity.
const connCheckInterval = 5 * time.Second

func runLoop(msgs <-chan mqtt.Message, sig <-chan os.Signal, tick <-chan time.Time, now func() time.Time, registry *filter.Registry, tracker *status.Tracker, mqttStatus mqtt.ConnectionStatus) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil

		case <-tick:
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			processMessage(m, now(), registry, tracker)
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

// processMessage routes one raw reading through its device's filter session
// and refreshes the status tracker. A message that doesn't decode degrades
// to "no update" — nothing here may take the daemon down.
func processMessage(m mqtt.Message, now time.Time, registry *filter.Registry, tracker *status.Tracker) {
	sess, ok := registry.Get(m.Device)
	if !ok {
		log.Printf("no session for device %q (topic %s)", m.Device, m.Topic)
		return
	}

	switch m.Kind {
	case mqtt.KindTemperature:
		value, ok := filter.DecodeNumeric(m.Payload, sess.Config().JSONPath)
		if !ok {
			log.Printf("%s: ignoring unparseable temperature payload %q", m.Device, m.Payload)
			tracker.RecordRejected(m.Device, now)
			return
		}
		sess.IngestTemperature(value)

	case mqtt.KindPresence:
		sess.IngestPresence(filter.DecodeBoolean(m.Payload), now)

	default:
		log.Printf("%s: unknown message kind %q", m.Device, m.Kind)
		return
	}

	tracker.Update(m.Device, deviceStatus(m.Device, sess, now))
}

// deviceStatus copies a session's externally visible state into the tracker
// representation.
func deviceStatus(id string, sess *filter.Session, now time.Time) status.DeviceStatus {
	st := status.DeviceStatus{
		ID:         id,
		Presence:   sess.CurrentPresence(),
		Samples:    sess.SampleCount(),
		Counts:     sess.Counts(),
		LastUpdate: now,
	}
	if v, ok := sess.CurrentTemperature(); ok {
		v := v
		st.Temperature = &v
	}
	if a, ok := sess.CurrentAverage(); ok {
		a := a
		st.Average = &a
	}
	return st
}

// logObserver logs externally visible changes for one device. Presence
// notifications arrive on every ingest, so transitions are deduped here.
type logObserver struct {
	device       string
	lastPresence bool
}

func (o *logObserver) OnTemperatureChanged(value float64) {
	log.Printf("%s: temperature %.3f", o.device, value)
}

func (o *logObserver) OnPresenceChanged(on bool) {
	if on == o.lastPresence {
		return
	}
	o.lastPresence = on
	log.Printf("%s: presence %s", o.device, stateString(on))
}

func buildRoutes(devices []config.Device) []mqtt.Route {
	routes := make([]mqtt.Route, 0, 2*len(devices))
	for _, d := range devices {
		routes = append(routes,
			mqtt.Route{Topic: d.TemperatureTopic, Device: d.ID, Kind: mqtt.KindTemperature},
			mqtt.Route{Topic: d.PresenceTopic, Device: d.ID, Kind: mqtt.KindPresence},
		)
	}
	return routes
}

func deviceIDs(devices []config.Device) []string {
	ids := make([]string, len(devices))
	for i, d := range devices {
		ids[i] = d.ID
	}
	return ids
}

func printDevices(w io.Writer, devices []config.Device) {
	for _, d := range devices {
		cfg := d.FilterConfig()
		fmt.Fprintf(w, "%s:\n", d.ID)
		fmt.Fprintf(w, "  temperature topic: %s\n", d.TemperatureTopic)
		fmt.Fprintf(w, "  presence topic:    %s\n", d.PresenceTopic)
		fmt.Fprintf(w, "  window:            %d samples\n", cfg.WindowSize)
		fmt.Fprintf(w, "  min delta:         %g\n", cfg.MinDelta)
		fmt.Fprintf(w, "  debounce:          %v\n", cfg.Debounce)
		fmt.Fprintf(w, "  hold:              %v\n", cfg.Hold)
		if cfg.JSONPath != "" {
			fmt.Fprintf(w, "  json path:         %s\n", cfg.JSONPath)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
