package deck

import (
	"errors"
	"log/slog"
)

// Import starts decoding sourcePath on this track. If an import is
// already running, its child is aborted first. On failure to start,
// the track returns to idle and the error (always a *SpawnError) is
// returned. On success, the track is reset to a fresh import (blocks
// are cleared: re-import truncates rather than reusing stale storage)
// and, if a waker has been registered with SetWaker, it is invoked
// after the lock is released.
func (t *Track) Import(sourcePath string) error {
	t.mu.Lock()

	if t.state != StateIdle {
		t.abortLocked()
	}

	imp, err := startImporter(t.ImporterPath, sourcePath)
	if err != nil {
		t.state = StateIdle
		t.mu.Unlock()
		return err
	}

	t.blocks = nil
	t.bytesWritten = 0
	t.samplesCommitted.Store(0)
	t.ppmAcc = 0
	t.ovAcc = 0
	t.sampleRate = TrackRate

	t.imp = imp
	t.state = StateImporting
	t.mu.Unlock()

	if w := t.waker; w != nil {
		w()
	}
	return nil
}

// SetWaker registers a function invoked after Import successfully
// starts a new child, so an external event loop can be told to re-poll
// this track. It corresponds to the wake(rig) call in the event-loop
// contract.
func (t *Track) SetWaker(w func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waker = w
}

// Handle drains the current import if the track's registered poll slot
// reports readiness. If no slot is registered, or the slot reports no
// ready events, Handle returns immediately without acquiring the lock:
// only the single thread that owns the poll slot may call Handle, and
// it is the only writer of the slot's Ready flag, so this lock-free
// read is safe.
func (t *Track) Handle() {
	slot := t.slot
	if slot == nil || !slot.Ready {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateImporting {
		return
	}

	slot.Ready = false

	result, err := t.pump()
	switch result {
	case pumpPending:
		return
	case pumpDone:
		t.imp.stop()
		t.finishLocked()
	case pumpFatal:
		switch {
		case errors.Is(err, ErrOutOfMemory), errors.Is(err, ErrTrackFull):
			slog.Warn("deck: ingest stopped", "track", t.ImporterPath, "err", err)
			t.imp.stop()
		default:
			slog.Error("deck: ingest failed", "track", t.ImporterPath, "err", err)
			t.imp.abort()
		}
		t.finishLocked()
	}
}

// finishLocked releases the current import's child and descriptor and
// returns the track to idle, preserving all committed samples.
// Callers must hold t.mu.
func (t *Track) finishLocked() {
	t.imp = nil
	t.state = StateIdle
	t.slot = nil
}

// abortLocked sends a termination signal to the running child and
// waits for it to exit. It asserts the track is not already idle, per
// the programming-invariant-violation policy for misuse of abort.
// Callers must hold t.mu.
func (t *Track) abortLocked() {
	assert(t.state != StateIdle, "abort on idle track")
	t.imp.abort()
	t.finishLocked()
}
