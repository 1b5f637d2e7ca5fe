package deck

// PollSlot is the capability-injection contract between a Track and an
// externally-owned event loop. The core never runs a poll loop itself:
// PollRegister fills in which descriptor to watch, and the event loop
// is responsible for polling it and setting Ready before calling
// Handle.
//
// A PollSlot's lifetime is managed by its owner and must outlive the
// next Handle call after registration. Only the owning thread may
// write Ready; Handle, which runs on that thread, clears it once
// observed.
type PollSlot struct {
	// FD is the descriptor to watch. Valid only while Interest is true.
	FD int
	// Interest reports whether the track currently wants this
	// descriptor polled for readability.
	Interest bool
	// Ready is set by the poll owner when FD is readable, and cleared
	// by Handle once observed.
	Ready bool
}

// PollRegister registers slot to receive this track's current pipe
// descriptor and readiness interest. If the track is importing, slot
// is filled with the pipe's descriptor and read interest and
// PollRegister returns 1; otherwise slot's interest is cleared and
// PollRegister returns 0.
//
// The returned int matches the {0,1} contract: 1 means slot was armed,
// 0 means there is nothing to watch.
func (t *Track) PollRegister(slot *PollSlot) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle || t.imp == nil {
		t.slot = nil
		slot.Interest = false
		return 0
	}

	slot.FD = t.imp.fd()
	slot.Interest = true
	slot.Ready = false
	t.slot = slot
	return 1
}
