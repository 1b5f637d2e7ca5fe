package deck

// pumpResult is the outcome of one pump call.
type pumpResult int

const (
	// pumpPending means the pipe would block; more data is expected
	// later and the caller should return without further action.
	pumpPending pumpResult = iota
	// pumpDone means the importer reached EOF; stop should be called.
	pumpDone
	// pumpFatal means ingest cannot continue: either a non-EAGAIN read
	// error (returned as an *IOError) or a block store error such as
	// ErrTrackFull (returned as is).
	pumpFatal
)

// pump drains as much of the importer's pipe as is currently available
// into the block store, running the metering update for every newly
// committed sample. Callers must hold t.mu and have t.imp != nil.
//
// It loops obtaining a writable region and reading into it until the
// pipe reports EAGAIN, EOF, or an error, or until writableRegion fails
// with ErrTrackFull (propagated as the returned error).
func (t *Track) pump() (pumpResult, error) {
	for {
		region, err := t.writableRegion()
		if err != nil {
			return pumpFatal, err
		}

		n, wouldBlock, err := t.imp.read(region)
		if err != nil {
			return pumpFatal, &IOError{Err: err}
		}
		if wouldBlock {
			return pumpPending, nil
		}
		if n == 0 {
			return pumpDone, nil
		}

		t.commitBytes(n)
	}
}
