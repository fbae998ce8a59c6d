package thermal

import "errors"

// ErrThresholdOrder is returned when a classifier is constructed with its
// low threshold above its high threshold.
var ErrThresholdOrder = errors.New("thermal: low threshold above high threshold")

// Classifier is a two-state hysteresis machine. From Safe it trips to
// Unsafe when the smoothed temperature reaches the high threshold; from
// Unsafe it recovers to Safe when the temperature falls to the low
// threshold. Inputs strictly between the thresholds never change state,
// which prevents chatter near a single boundary.
//
// Thresholds are fixed for the life of the classifier; there is no reset.
type Classifier struct {
	high  TempX10
	low   TempX10
	state State
}

// NewClassifier creates a classifier in the Safe state. low must not
// exceed high; equal thresholds give zero-width hysteresis.
func NewClassifier(high, low TempX10) (*Classifier, error) {
	if low > high {
		return nil, ErrThresholdOrder
	}
	return &Classifier{high: high, low: low, state: StateSafe}, nil
}

// Evaluate applies one smoothed sample against the current state, mutating
// and returning the (possibly unchanged) resulting state.
func (c *Classifier) Evaluate(smoothed TempX10) State {
	switch c.state {
	case StateSafe:
		if smoothed >= c.high {
			c.state = StateUnsafe
		}
	case StateUnsafe:
		if smoothed <= c.low {
			c.state = StateSafe
		}
	}
	return c.state
}

// State returns the current state without evaluating a sample.
func (c *Classifier) State() State {
	return c.state
}

// Thresholds returns the configured high and low thresholds.
func (c *Classifier) Thresholds() (high, low TempX10) {
	return c.high, c.low
}
