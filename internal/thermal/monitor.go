package thermal

import "time"

// Monitor runs the full signal chain for one sensor channel: each raw
// sample flows Convert -> Filter -> Classifier. The filter gates the
// classifier, so no state evaluation happens until the window is warm.
type Monitor struct {
	filter        Filter
	sm            *Classifier
	startTime     time.Time
	lastHeartbeat time.Time
	eventCounts   EventCounts

	lastRaw      uint16
	lastTemp     TempX10
	lastSmoothed TempX10
	haveSample   bool
	haveSmoothed bool
}

// NewMonitor creates a monitor with the given hysteresis thresholds.
// The startTime is used for calculating uptime in heartbeat events.
func NewMonitor(high, low TempX10, startTime time.Time) (*Monitor, error) {
	sm, err := NewClassifier(high, low)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		sm:            sm,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}, nil
}

// Process takes a new raw sample and returns any events that should be
// emitted. Events are only returned once the filter is warm and only on
// state transitions, so the slice holds at most one event.
func (m *Monitor) Process(input Input) []Event {
	temp := Convert(input.Raw)
	m.lastRaw = input.Raw
	m.lastTemp = temp
	m.haveSample = true

	smoothed, ready := m.filter.Update(temp)
	if !ready {
		return nil
	}
	m.lastSmoothed = smoothed
	m.haveSmoothed = true

	prev := m.sm.State()
	state := m.sm.Evaluate(smoothed)
	if state == prev {
		return nil
	}

	event := Event{
		Timestamp: input.Time,
		State:     state,
		Smoothed:  smoothed,
	}
	if state == StateUnsafe {
		event.Type = EventUnsafeEntered
		m.eventCounts.UnsafeEntered++
	} else {
		event.Type = EventSafeRestored
		m.eventCounts.SafeRestored++
	}

	return []Event{event}
}

// Warm reports whether the filter has accumulated a full window.
func (m *Monitor) Warm() bool {
	return m.filter.Warm()
}

// CurrentState returns the classifier's current state.
func (m *Monitor) CurrentState() State {
	return m.sm.State()
}

// LastReading returns the most recent raw sample, its converted
// temperature, and the most recent smoothed temperature. ok is false until
// the first sample has been processed; smoothed is zero until the filter
// is warm (and again after a reset, until it re-warms).
func (m *Monitor) LastReading() (raw uint16, temp, smoothed TempX10, ok bool) {
	if m.haveSmoothed {
		smoothed = m.lastSmoothed
	}
	return m.lastRaw, m.lastTemp, smoothed, m.haveSample
}

// EventCountsSnapshot returns a copy of the event counters.
func (m *Monitor) EventCountsSnapshot() EventCounts {
	return m.eventCounts
}

// ResetFilter clears the smoothing history, e.g. after a sensor fault or
// reconnect. The classifier keeps its state: a channel that tripped Unsafe
// stays Unsafe until a warm filter reads it back below the low threshold.
func (m *Monitor) ResetFilter() {
	m.filter.Reset()
	m.haveSmoothed = false
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the filter is not yet
// warm, if the interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !m.filter.Warm() {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.eventCounts,
	}
}
