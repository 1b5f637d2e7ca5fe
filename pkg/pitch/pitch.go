// Package pitch implements the two-state position/velocity filter that
// turns discrete, noisy timecode position observations into a smooth
// velocity estimate for driving playback rate.
//
// Filter has no dependency on pkg/deck: the timecode thread calls
// Observe, the playback thread calls Velocity, and nothing else about
// a deck needs to be visible here.
package pitch

import (
	"math"
	"sync/atomic"
)

// alpha and beta are the filter's attack/coupling gains, determined
// empirically. They are exposed only as these constants; there is no
// runtime reconfiguration.
const (
	alpha = 1.0 / 512
	beta  = alpha / 1024
)

// Filter is a two-state linear filter over a stream of position
// observations timestamped on a fixed period dt.
//
// x is accessed only from the observing thread. v is published
// through an atomic float word so the playback thread can read it
// without locking; Observe is assumed single-threaded (the timecode
// thread), and the race with a concurrent Velocity read is tolerated
// by construction.
type Filter struct {
	dt float64
	x  float64
	v  atomicFloat64
}

// New returns a Filter with the given observation period dt, in the
// same units as future Observe deltas.
func New(dt float64) *Filter {
	f := &Filter{dt: dt}
	return f
}

// Init resets f to a fresh filter with observation period dt. x and v
// are zeroed.
func (f *Filter) Init(dt float64) {
	f.dt = dt
	f.x = 0
	f.v.Store(0)
}

// Observe folds in a position advance dx since the previous
// observation, in the same units as x.
func (f *Filter) Observe(dx float64) {
	v := f.v.Load()

	predictedX := f.x + v*f.dt
	predictedV := v

	residual := dx - predictedX

	f.x = predictedX + residual*alpha
	newV := predictedV + residual*beta/f.dt
	f.v.Store(newV)

	f.x -= dx
}

// Velocity returns the filter's current smoothed velocity estimate,
// same units per second as x. Safe to call from any goroutine without
// additional synchronization.
func (f *Filter) Velocity() float64 {
	return f.v.Load()
}

// X returns the filter's current residual position. Only meaningful
// when called from the observing thread.
func (f *Filter) X() float64 {
	return f.x
}

// atomicFloat64 provides atomic operations for float64 values by
// bit-casting them through an atomic.Uint64. It is 64 bits wide
// because position/velocity accumulate over many hours of
// continuous play and float32 would lose precision over that horizon.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (af *atomicFloat64) Load() float64 {
	return math.Float64frombits(af.bits.Load())
}

func (af *atomicFloat64) Store(val float64) {
	af.bits.Store(math.Float64bits(val))
}
