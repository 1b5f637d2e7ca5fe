package rig

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// initWake creates a pipe whose read end is added to the epoll set
// alongside the registered decks, so Wake can interrupt a blocked
// epoll_wait from any goroutine.
func (r *Rig) initWake() error {
	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fmt.Errorf("rig: pipe2: %w", err)
	}
	r.wakeReadFD, r.wakeWriteFD = fds[0], fds[1]

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(r.wakeReadFD)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, r.wakeReadFD, &ev); err != nil {
		unix.Close(r.wakeReadFD)
		unix.Close(r.wakeWriteFD)
		return fmt.Errorf("rig: epoll_ctl add wake: %w", err)
	}
	return nil
}

// Wake interrupts a blocked Run so it re-registers every deck's poll
// interest immediately instead of waiting for the next ready event.
// Safe to call from any goroutine, including a Track's own waker.
func (r *Rig) Wake() {
	var b [1]byte
	unix.Write(r.wakeWriteFD, b[:])
}

func (r *Rig) wakeFD() int {
	return r.wakeReadFD
}

// drainWake empties the wake pipe so repeated Wake calls between Run
// passes coalesce into a single wakeup instead of accumulating.
func (r *Rig) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(r.wakeReadFD, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (r *Rig) closeWake() {
	unix.Close(r.wakeReadFD)
	unix.Close(r.wakeWriteFD)
}
