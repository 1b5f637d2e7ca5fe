package deck

import (
	"sync"
	"sync/atomic"
)

// ImportState describes the lifecycle stage of a Track's current import.
type ImportState int

const (
	// StateIdle means no importer is running.
	StateIdle ImportState = iota
	// StateImporting means an importer subprocess is running and its
	// output is still being drained.
	StateImporting
	// StateDraining means the importer has exited but handle has not
	// yet observed EOF and run stop. No code in this package sets it: a
	// track stays StateImporting until Handle observes EOF.
	StateDraining
)

func (s ImportState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImporting:
		return "importing"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// Track is a deck's loaded (or loading) piece of audio: an append-only,
// block-structured PCM buffer fed by an external importer subprocess,
// plus the PPM and overview meters derived from it.
//
// All fields below the mutex are mutated only while holding mu. The
// playback consumer reads committed PCM and meter bytes, and
// SamplesCommitted, without taking mu; see SamplesCommitted for the
// publication contract that makes this safe.
type Track struct {
	// ImporterPath is the decoder executable invoked by Import. Set at
	// construction and never changed.
	ImporterPath string

	// Artist and Title are optional metadata set externally; the core
	// never reads them.
	Artist, Title string

	mu sync.Mutex

	sampleRate int
	blocks     []*Block

	bytesWritten int64
	// samplesCommitted is published with release-store after the PCM and
	// meter bytes of the newly committed sample are in place, and read
	// with acquire-load by SamplesCommitted. That ordering is what lets
	// the playback thread read committed blocks without mu.
	samplesCommitted atomic.Int64

	state ImportState
	imp   *importer

	ppmAcc uint32
	ovAcc  uint32

	slot  *PollSlot
	waker func()
}

// NewTrack constructs an idle Track that will invoke importerPath to
// decode future import sources.
func NewTrack(importerPath string) *Track {
	t := &Track{ImporterPath: importerPath}
	t.init()
	return t
}

// init zeroes all counters and clears the block list. The track starts
// idle. Callers must hold mu, except during construction.
func (t *Track) init() {
	t.sampleRate = TrackRate
	t.blocks = nil
	t.bytesWritten = 0
	t.samplesCommitted.Store(0)
	t.state = StateIdle
	t.imp = nil
	t.ppmAcc = 0
	t.ovAcc = 0
}

// SampleRate returns the track's sample rate, always TrackRate.
func (t *Track) SampleRate() int {
	return t.sampleRate
}

// SamplesCommitted returns the number of whole stereo samples that have
// been written and metered. Safe to call without any other
// synchronization; see the Track doc comment.
func (t *Track) SamplesCommitted() int64 {
	return t.samplesCommitted.Load()
}

// BytesWritten returns the total raw bytes copied from the pipe during
// the current (or most recent) import, including any trailing partial
// sample not yet committed. Callers that need a value consistent with
// SamplesCommitted should read SamplesCommitted first.
func (t *Track) BytesWritten() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytesWritten
}

// State returns the track's current import state.
func (t *Track) State() ImportState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// BlockCount returns the number of allocated blocks. It takes mu
// itself, so callers must not already hold it.
func (t *Track) BlockCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.blocks)
}

// PCMAt returns the interleaved stereo sample at stereo sample index i,
// as (left, right). i must be less than SamplesCommitted(). Safe to
// call without mu, per the Track doc comment.
func (t *Track) PCMAt(i int64) (left, right int16) {
	block, offset := t.blockFor(i)
	pcm := block.pcm
	return pcm[2*offset], pcm[2*offset+1]
}

// PPMAt returns the PPM meter byte for bucket index i, where i ranges
// over [0, SamplesCommitted()/TrackPPMRes). Safe to call without mu.
func (t *Track) PPMAt(i int64) byte {
	samplesPerBlock := int64(TrackBlockSamples)
	bucketsPerBlock := samplesPerBlock / TrackPPMRes
	blockIdx := i / bucketsPerBlock
	bucketIdx := i % bucketsPerBlock
	return t.blocks[blockIdx].ppm[bucketIdx]
}

// OverviewAt returns the overview meter byte for bucket index i, where
// i ranges over [0, SamplesCommitted()/TrackOverviewRes). Safe to call
// without mu.
func (t *Track) OverviewAt(i int64) byte {
	samplesPerBlock := int64(TrackBlockSamples)
	bucketsPerBlock := samplesPerBlock / TrackOverviewRes
	blockIdx := i / bucketsPerBlock
	bucketIdx := i % bucketsPerBlock
	return t.blocks[blockIdx].overview[bucketIdx]
}

func (t *Track) blockFor(i int64) (*Block, int64) {
	blockIdx := i / int64(TrackBlockSamples)
	offset := i % int64(TrackBlockSamples)
	return t.blocks[blockIdx], offset
}

// Clear releases the track's resources. If an import is running it is
// aborted first. Post-condition: the track holds no blocks, no child,
// no descriptor.
func (t *Track) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

func (t *Track) clearLocked() {
	if t.state != StateIdle {
		t.abortLocked()
	}
	t.blocks = nil
	t.samplesCommitted.Store(0)
	t.bytesWritten = 0
	t.ppmAcc = 0
	t.ovAcc = 0
	t.slot = nil
}
