package thermal

// FilterWindow is the number of samples averaged by the smoothing filter.
const FilterWindow = 5

// Filter smooths converted temperatures with an unweighted mean over the
// last FilterWindow samples. The window is a fixed array with a circular
// write cursor; the running sum is maintained incrementally and always
// equals the sum of the resident entries.
//
// Each sensor channel must own its own Filter. The zero value is ready to
// use.
type Filter struct {
	window [FilterWindow]TempX10
	count  int
	index  int
	sum    int32
}

// Update accepts one sample and returns the rolling mean once the window
// has filled. During warm-up (fewer than FilterWindow samples seen) it
// stores the sample and reports not-ready. The mean uses truncating
// division: the converter rounds, the filter deliberately does not.
func (f *Filter) Update(sample TempX10) (TempX10, bool) {
	if f.count < FilterWindow {
		f.window[f.index] = sample
		f.sum += int32(sample)
		f.index = (f.index + 1) % FilterWindow
		f.count++
		return 0, false
	}

	// Evict the oldest resident sample in place.
	f.sum -= int32(f.window[f.index])
	f.window[f.index] = sample
	f.sum += int32(sample)
	f.index = (f.index + 1) % FilterWindow

	return TempX10(f.sum / FilterWindow), true
}

// Reset discards all history, returning the filter to its initial state.
// Used to restart smoothing, e.g. after a sensor reconnect.
func (f *Filter) Reset() {
	*f = Filter{}
}

// Warm reports whether enough samples have accumulated to produce output.
func (f *Filter) Warm() bool {
	return f.count >= FilterWindow
}
