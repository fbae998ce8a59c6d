// Package thermal contains the pure signal chain for a temperature channel:
// ADC-to-temperature conversion, moving-average smoothing, and hysteresis
// classification. This package has NO external dependencies (no SPI, MQTT,
// OS, or time.Sleep). Time is always injectable via time.Time parameters.
package thermal

import "time"

// TempX10 is a calibrated temperature in 0.1°C units (e.g. 100.0°C => 1000).
type TempX10 int16

// Valid temperature range after conversion: -40.0°C to +125.0°C.
const (
	TempMin TempX10 = -400
	TempMax TempX10 = 1250
)

// RawMax is the largest valid 12-bit ADC sample.
const RawMax = 4095

// Celsius returns the temperature as floating-point degrees Celsius.
// For display and payloads only; the pipeline itself stays in x10 integers.
func (t TempX10) Celsius() float64 {
	return float64(t) / 10
}

// State represents the safety classification of a channel.
type State string

const (
	StateSafe   State = "SAFE"
	StateUnsafe State = "UNSAFE"
)

// EventType represents a state transition event.
type EventType string

const (
	EventUnsafeEntered EventType = "UNSAFE_ENTERED"
	EventSafeRestored  EventType = "SAFE_RESTORED"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	// Smoothed is the filtered temperature that triggered the transition.
	Smoothed TempX10
}

// Input represents a single raw ADC sample handed to a Monitor.
type Input struct {
	Raw  uint16
	Time time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	UnsafeEntered int
	SafeRestored  int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
