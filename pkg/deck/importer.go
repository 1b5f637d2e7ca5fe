package deck

import (
	"log/slog"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// importer owns the lifecycle of one running decoder subprocess and
// the non-blocking read end of its output pipe.
type importer struct {
	cmd      *exec.Cmd
	pipeRead *os.File
	rawFD    int
}

// startImporter spawns importerPath as a child with the arguments
// "import" and sourcePath, wiring the child's standard output to a fresh pipe whose
// read end is returned in non-blocking mode. Standard error is passed
// through to the host's.
//
// On any failure, no goroutine or descriptor outlives the call: the
// caller observes a *SpawnError and the track remains idle.
func startImporter(importerPath, sourcePath string) (*importer, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, &SpawnError{SourcePath: sourcePath, Err: err}
	}

	cmd := exec.Command(importerPath, "import", sourcePath)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, &SpawnError{SourcePath: sourcePath, Err: err}
	}
	// The child now holds its own copy of w's descriptor; the parent's
	// copy would otherwise keep the pipe open past the child's exit.
	w.Close()

	// (*os.File).Fd() puts the file back into blocking-syscall mode and
	// hands back the raw descriptor, per its documented contract. We
	// immediately re-apply O_NONBLOCK ourselves and drive reads through
	// unix.Read so EAGAIN surfaces directly to pump, rather than being
	// absorbed by the netpoller's goroutine-parking Read.
	fd := int(r.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		r.Close()
		cmd.Process.Kill()
		cmd.Wait()
		return nil, &SpawnError{SourcePath: sourcePath, Err: err}
	}

	return &importer{cmd: cmd, pipeRead: r, rawFD: fd}, nil
}

func (im *importer) fd() int {
	return im.rawFD
}

// read performs one non-blocking read of up to len(p) bytes. It
// reports (n, false, nil) on a successful read of n>0 bytes, (0, true,
// nil) when the descriptor would block, (0, false, nil) on EOF (io.EOF
// is not used here), and (0, false, err) on any other read error.
func (im *importer) read(p []byte) (n int, wouldBlock bool, err error) {
	n, err = unix.Read(im.rawFD, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, true, nil
		}
		return 0, false, err
	}
	return n, false, nil
}

// stop closes the pipe read end and waits for the child to exit. Must
// be called exactly once per successful startImporter call.
func (im *importer) stop() {
	im.pipeRead.Close()
	err := im.cmd.Wait()
	if err != nil {
		slog.Warn("importer exited with error", "err", err)
	} else {
		slog.Debug("importer exited cleanly")
	}
}

// abort sends a termination signal to the child, then stops it.
func (im *importer) abort() {
	if im.cmd.Process != nil {
		im.cmd.Process.Kill()
	}
	im.stop()
}
