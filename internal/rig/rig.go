// Package rig is a reference event loop: the minimal epoll-based
// consumer of a deck's poll-registration contract. It exists to prove
// the contract is drivable and to give cmd/vinyldeckd something to run
// under "serve"; nothing in pkg/deck depends on it, and nothing outside
// cmd/vinyldeckd should import it.
package rig

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/vinyldeck/vinyldeck/pkg/deck"
)

// handler is the subset of *deck.Track the rig drives. Registering
// against this instead of the concrete type keeps the rig's surface
// honest about what it actually touches.
type handler interface {
	PollRegister(slot *deck.PollSlot) int
	Handle()
}

// entry pairs one registered deck with the poll slot the rig fills in
// for it on each pass.
type entry struct {
	track handler
	slot  deck.PollSlot
	// armed is true while slot.FD is currently added to the epoll set,
	// so Run knows whether to EPOLL_CTL_ADD, _MOD, or _DEL.
	armed bool
}

// Rig drives any number of registered decks' PollRegister/Handle
// contract from a single epoll instance. Safe for concurrent Add/Wake
// calls while Run is in progress; Run itself is not safe to call
// concurrently with itself.
type Rig struct {
	epfd int

	mu      sync.Mutex
	entries map[string]*entry

	wakeReadFD, wakeWriteFD int
}

// New creates a Rig with its own epoll instance and wake pipe.
func New() (*Rig, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("rig: epoll_create1: %w", err)
	}

	r := &Rig{
		epfd:    epfd,
		entries: make(map[string]*entry),
	}

	if err := r.initWake(); err != nil {
		unix.Close(epfd)
		return nil, err
	}

	return r, nil
}

// Add registers a deck under id and installs a waker on it so that a
// successful Import immediately interrupts a blocked epoll_wait
// instead of waiting for some other descriptor to become ready.
func (r *Rig) Add(id string, tr *deck.Track) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{track: tr}
	tr.SetWaker(r.Wake)
}

// Remove unregisters a previously added deck, removing its descriptor
// from the epoll set if still armed.
func (r *Rig) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	if e.armed {
		unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, e.slot.FD, nil)
	}
	delete(r.entries, id)
}

// Run polls every registered deck's descriptor until ctx is canceled.
// Each pass re-registers interest (a track's descriptor can come and
// go as imports start and finish), waits for activity or a Wake call,
// then calls Handle on every deck whose descriptor came back ready.
func (r *Rig) Run(ctx context.Context) error {
	events := make([]unix.EpollEvent, 32)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		byFD := r.rearm()

		n, err := unix.EpollWait(r.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("rig: epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == r.wakeFD() {
				r.drainWake()
				continue
			}
			if e, ok := byFD[fd]; ok {
				e.slot.Ready = true
				e.track.Handle()
			}
		}
	}
}

// rearm calls PollRegister on every entry and brings the epoll set in
// sync with the result, returning a lookup from descriptor to entry
// for the events this pass will wait on.
func (r *Rig) rearm() map[int]*entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	byFD := make(map[int]*entry, len(r.entries))
	for id, e := range r.entries {
		want := e.track.PollRegister(&e.slot)

		switch {
		case want == 1 && !e.armed:
			ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(e.slot.FD)}
			if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, e.slot.FD, &ev); err != nil {
				slog.Error("rig: epoll_ctl add", "deck", id, "err", err)
				continue
			}
			e.armed = true
		case want == 1 && e.armed:
			// A new import may have replaced the descriptor (possibly
			// reusing the old number) since the last pass.
			ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(e.slot.FD)}
			if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, e.slot.FD, &ev); err != nil {
				if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, e.slot.FD, &ev); err != nil {
					slog.Error("rig: epoll_ctl mod", "deck", id, "err", err)
					e.armed = false
					continue
				}
			}
		case want == 0 && e.armed:
			unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, e.slot.FD, nil)
			e.armed = false
		}

		if e.armed {
			byFD[e.slot.FD] = e
		}
	}
	return byFD
}

// Close releases the rig's epoll instance and wake pipe.
func (r *Rig) Close() error {
	r.closeWake()
	return unix.Close(r.epfd)
}
