package rig

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vinyldeck/vinyldeck/pkg/deck"
)

// fakeTrack implements handler over a plain os.Pipe, standing in for
// a *deck.Track without spawning a real importer subprocess.
type fakeTrack struct {
	r, w     *os.File
	handled  atomic.Int32
	interest bool
}

func newFakeTrack() *fakeTrack {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	return &fakeTrack{r: r, w: w, interest: true}
}

func (f *fakeTrack) PollRegister(slot *deck.PollSlot) int {
	if !f.interest {
		slot.Interest = false
		return 0
	}
	slot.FD = int(f.r.Fd())
	slot.Interest = true
	return 1
}

func (f *fakeTrack) Handle() {
	var buf [64]byte
	f.r.Read(buf[:])
	f.handled.Add(1)
}

func TestRunHandlesReadyDescriptor(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	ft := newFakeTrack()
	r.mu.Lock()
	r.entries["fake"] = &entry{track: ft}
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	ft.w.Write([]byte("x"))

	deadline := time.Now().Add(2 * time.Second)
	for ft.handled.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ft.handled.Load() == 0 {
		t.Fatal("Handle was never called for the ready descriptor")
	}

	cancel()
	r.Wake()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}
}

func TestWakeInterruptsRun(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- r.Run(ctx)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	r.Wake()
	cancel()
	r.Wake()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after Wake + cancel")
	}
}
