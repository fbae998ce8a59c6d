package thermal

import "testing"

func TestFilterWarmUp(t *testing.T) {
	var f Filter

	for i := 0; i < FilterWindow-1; i++ {
		if _, ready := f.Update(500); ready {
			t.Errorf("sample %d: expected not ready during warm-up", i+1)
		}
		if f.Warm() {
			t.Errorf("sample %d: Warm() = true during warm-up", i+1)
		}
	}

	smoothed, ready := f.Update(500)
	if !ready {
		t.Fatal("expected ready on 5th sample")
	}
	if smoothed != 500 {
		t.Errorf("smoothed = %d, want 500", smoothed)
	}
	if !f.Warm() {
		t.Error("Warm() = false after full window")
	}
}

func TestFilterAverage(t *testing.T) {
	var f Filter
	samples := []TempX10{500, 600, 450, 550, 500}

	var smoothed TempX10
	var ready bool
	for _, s := range samples {
		smoothed, ready = f.Update(s)
	}
	if !ready {
		t.Fatal("expected ready after 5 samples")
	}
	// sum = 2600, truncating /5 = 520
	if smoothed != 520 {
		t.Errorf("smoothed = %d, want 520", smoothed)
	}
}

func TestFilterNoisySequenceStaysBounded(t *testing.T) {
	var f Filter
	samples := []TempX10{500, 600, 450, 550, 500, 480, 520, 490}

	for i, s := range samples {
		smoothed, ready := f.Update(s)
		if i < FilterWindow-1 {
			if ready {
				t.Errorf("sample %d: unexpected ready", i+1)
			}
			continue
		}
		if !ready {
			t.Fatalf("sample %d: expected ready", i+1)
		}
		if smoothed < 480 || smoothed > 520 {
			t.Errorf("sample %d: smoothed = %d, want within [480, 520]", i+1, smoothed)
		}
	}
}

func TestFilterSlidesWindow(t *testing.T) {
	var f Filter
	// Warm up on constant 100s, then feed 200s: the mean climbs by one
	// evicted sample per step until the window is all 200s.
	for i := 0; i < FilterWindow; i++ {
		f.Update(100)
	}
	want := []TempX10{120, 140, 160, 180, 200, 200}
	for i, w := range want {
		smoothed, ready := f.Update(200)
		if !ready {
			t.Fatalf("step %d: expected ready", i)
		}
		if smoothed != w {
			t.Errorf("step %d: smoothed = %d, want %d", i, smoothed, w)
		}
	}
}

func TestFilterTruncatesTowardZero(t *testing.T) {
	var f Filter
	var smoothed TempX10
	var ready bool

	// sum = 2604 -> 520 (not 521)
	for _, s := range []TempX10{520, 521, 521, 521, 521} {
		smoothed, ready = f.Update(s)
	}
	if !ready || smoothed != 520 {
		t.Errorf("smoothed = %d (ready=%v), want 520", smoothed, ready)
	}

	f.Reset()
	// sum = -2604 -> -520 (truncation, not floor)
	for _, s := range []TempX10{-520, -521, -521, -521, -521} {
		smoothed, ready = f.Update(s)
	}
	if !ready || smoothed != -520 {
		t.Errorf("negative smoothed = %d (ready=%v), want -520", smoothed, ready)
	}
}

func TestFilterReset(t *testing.T) {
	var f Filter
	for i := 0; i < 7; i++ {
		f.Update(TempX10(400 + i))
	}

	f.Reset()
	if f.Warm() {
		t.Error("Warm() = true after reset")
	}

	// The next update must behave exactly like the first on a fresh filter.
	if _, ready := f.Update(300); ready {
		t.Error("expected not ready on first sample after reset")
	}
	if f.sum != 300 {
		t.Errorf("sum = %d after first post-reset sample, want 300", f.sum)
	}
	if f.count != 1 {
		t.Errorf("count = %d after first post-reset sample, want 1", f.count)
	}
}

// TestFilterIncrementalSumMatchesRecompute feeds a long pseudo-random
// sequence and checks the incremental rolling sum against a from-scratch
// mean of the last five samples at every step.
func TestFilterIncrementalSumMatchesRecompute(t *testing.T) {
	var f Filter
	var history []TempX10

	// Small LCG for a deterministic sequence spanning the full range.
	seed := uint32(12345)
	next := func() TempX10 {
		seed = seed*1664525 + 1013904223
		span := int32(TempMax) - int32(TempMin) + 1
		return TempX10(int32(TempMin) + int32(seed%uint32(span)))
	}

	for i := 0; i < 10000; i++ {
		s := next()
		history = append(history, s)
		smoothed, ready := f.Update(s)

		if i < FilterWindow-1 {
			if ready {
				t.Fatalf("step %d: unexpected ready", i)
			}
			continue
		}
		if !ready {
			t.Fatalf("step %d: expected ready", i)
		}

		var sum int32
		for _, h := range history[len(history)-FilterWindow:] {
			sum += int32(h)
		}
		if want := TempX10(sum / FilterWindow); smoothed != want {
			t.Fatalf("step %d: incremental = %d, recomputed = %d", i, smoothed, want)
		}
	}
}
