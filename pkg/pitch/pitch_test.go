package pitch

import (
	"math"
	"testing"
)

func TestObserveZeroDeltaConverges(t *testing.T) {
	f := New(1.0 / 48000)
	for range 20000 {
		f.Observe(0)
	}
	if math.Abs(f.X()) > 1e-6 {
		t.Errorf("x = %v, want ~0", f.X())
	}
	if math.Abs(f.Velocity()) > 1e-6 {
		t.Errorf("v = %v, want ~0", f.Velocity())
	}
}

func TestObserveConstantDeltaConvergesVelocity(t *testing.T) {
	const dt = 1.0 / 48000
	f := New(dt)
	const dx = 2.0 / 48000 // 2x playback speed

	for range 20000 {
		f.Observe(dx)
	}

	want := dx / dt
	if got := f.Velocity(); math.Abs(got-want) > 0.01*want {
		t.Errorf("v = %v, want within 1%% of %v", got, want)
	}
	if math.Abs(f.X()) > 1 {
		t.Errorf("x = %v, expected bounded residual", f.X())
	}
}

// TestPitchConvergenceScenario is the concrete end-to-end scenario:
// pitch_init(dt = 1/48000), then 10,000 observations of dx = 1/48000.
// Final v must be within 1% of 1.0.
func TestPitchConvergenceScenario(t *testing.T) {
	const dt = 1.0 / 48000
	f := New(dt)

	for range 10000 {
		f.Observe(dt)
	}

	if got, want := f.Velocity(), 1.0; math.Abs(got-want) > 0.01*want {
		t.Errorf("v = %v, want within 1%% of %v", got, want)
	}
}

func TestInitResetsState(t *testing.T) {
	f := New(1.0 / 48000)
	for range 1000 {
		f.Observe(1.0 / 48000)
	}
	if f.Velocity() == 0 {
		t.Fatal("expected nonzero velocity before reset")
	}

	f.Init(1.0 / 44100)
	if f.Velocity() != 0 || f.X() != 0 {
		t.Errorf("Init did not zero state: v=%v x=%v", f.Velocity(), f.X())
	}
}

func TestVelocityConcurrentRead(t *testing.T) {
	f := New(1.0 / 48000)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 5000 {
			_ = f.Velocity()
		}
	}()
	for range 5000 {
		f.Observe(1.0 / 48000)
	}
	<-done
}
