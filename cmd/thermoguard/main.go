// Command thermoguard samples a thermistor ADC and publishes temperature
// safety state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/thermoguard/internal/adc"
	"github.com/sweeney/thermoguard/internal/mqtt"
	"github.com/sweeney/thermoguard/internal/status"
	"github.com/sweeney/thermoguard/internal/thermal"
	"github.com/sweeney/thermoguard/internal/web"
)

func main() {
	poll := flag.Duration("poll", time.Second, "ADC sampling interval")
	high := flag.Float64("high", 100.0, "Trip threshold in °C (Safe -> Unsafe)")
	low := flag.Float64("low", 95.0, "Recovery threshold in °C (Unsafe -> Safe)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pinCLK := flag.Int("pin-clk", adc.DefaultPinCLK, "BCM pin number for SPI clock")
	pinMOSI := flag.Int("pin-mosi", adc.DefaultPinMOSI, "BCM pin number for SPI MOSI")
	pinMISO := flag.Int("pin-miso", adc.DefaultPinMISO, "BCM pin number for SPI MISO")
	pinCS := flag.Int("pin-cs", adc.DefaultPinCS, "BCM pin number for SPI chip select")
	channel := flag.Int("channel", adc.DefaultChannel, "MCP3208 input channel (0-7)")
	printTemp := flag.Bool("print-temp", false, "Print current temperature and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*poll, *high, *low, *broker, *heartbeat, *pinCLK, *pinMOSI, *pinMISO, *pinCS, *channel, *printTemp, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, high, low float64, broker string, heartbeat time.Duration, pinCLK, pinMOSI, pinMISO, pinCS, channel int, printTemp bool, httpAddr, wsBroker string) error {
	highX10 := thermal.TempX10(high * 10)
	lowX10 := thermal.TempX10(low * 10)

	// Initialize the monitor first so bad thresholds fail before any
	// hardware is touched.
	monitor, err := thermal.NewMonitor(highX10, lowX10, time.Now())
	if err != nil {
		return fmt.Errorf("init monitor: %w", err)
	}

	// Initialize ADC
	reader, err := adc.NewRealReader(pinCLK, pinMOSI, pinMISO, pinCS, channel)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()

	// Print temperature mode
	if printTemp {
		raw, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		temp := thermal.Convert(raw)
		fmt.Printf("raw: %d, temperature: %.1f°C\n", raw, temp.Celsius())
		return nil
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		HighX10:     int(highX10),
		LowX10:      int(lowX10),
		Broker:      broker,
		HTTPPort:    httpAddr,
		WSBroker:    wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
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

	log.Printf("started: poll=%v high=%.1f°C low=%.1f°C broker=%s heartbeat=%v", poll, high, low, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, publisher, publisher, tracker, monitor, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader adc.Reader, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, monitor *thermal.Monitor, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	faulted := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			raw, err := reader.Read()
			if err != nil {
				log.Printf("adc read error: %v", err)
				faulted = true
				continue
			}

			if faulted {
				// Stale window after a sensor fault: restart smoothing
				// from scratch rather than averaging across the gap.
				log.Printf("adc recovered, resetting filter")
				monitor.ResetFilter()
				faulted = false
			}

			events := monitor.Process(thermal.Input{
				Raw:  raw,
				Time: t,
			})

			for _, event := range events {
				log.Printf("event: %s (smoothed=%.1f°C)", event.Type, event.Smoothed.Celsius())
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if !monitor.Warm() {
				// Still filling the smoothing window
				continue
			}

			// Check for heartbeat
			if hbData := monitor.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v unsafe_entered=%d safe_restored=%d",
					hbData.Uptime, hbData.Counts.UnsafeEntered, hbData.Counts.SafeRestored)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					updateTracker(tracker, monitor)
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP/LED consumers
			if tracker != nil {
				updateTracker(tracker, monitor)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

func updateTracker(tracker *status.Tracker, monitor *thermal.Monitor) {
	raw, temp, smoothed, ok := monitor.LastReading()
	if !ok {
		return
	}
	tracker.Update(monitor.CurrentState(), monitor.Warm(), raw, temp, smoothed, monitor.EventCountsSnapshot())
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
