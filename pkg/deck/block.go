package deck

// Block is a fixed-capacity unit of the PCM store plus its parallel
// meter arrays. Blocks are individually heap-allocated and appended to
// a Track's block list, never moved, so pointers handed out by
// blockFor/PCMAt remain valid as the list grows.
type Block struct {
	// pcm holds TrackBlockSamples interleaved stereo 16-bit samples, so
	// len(pcm) == 2*TrackBlockSamples.
	pcm []int16
	// ppm holds one fast-meter byte per TrackPPMRes audio samples.
	ppm []byte
	// overview holds one slow-meter byte per TrackOverviewRes audio
	// samples.
	overview []byte
}

func newBlock() *Block {
	return &Block{
		pcm:      make([]int16, 2*TrackBlockSamples),
		ppm:      make([]byte, TrackBlockSamples/TrackPPMRes),
		overview: make([]byte, TrackBlockSamples/TrackOverviewRes),
	}
}

// writableRegion returns a byte slice at the current write cursor
// inside the current block, allocating a new block first if the cursor
// sits at the end of the last one. It returns ErrTrackFull if another
// block would be needed beyond TrackMaxBlocks.
//
// The returned region never spans a block boundary: its length is the
// remaining byte capacity of the current block, which may be shorter
// than the caller has to write. Callers must call commitBytes and call writableRegion
// again to continue past a block boundary.
//
// Callers must hold t.mu.
func (t *Track) writableRegion() ([]byte, error) {
	const blockBytes = TrackBlockSamples * bytesPerSample

	cursorBlock := int(t.bytesWritten / blockBytes)
	cursorOffset := t.bytesWritten % blockBytes

	if cursorBlock == len(t.blocks) {
		if len(t.blocks) == TrackMaxBlocks {
			return nil, ErrTrackFull
		}
		t.blocks = append(t.blocks, newBlock())
	}

	block := t.blocks[cursorBlock]
	buf := int16ToBytes(block.pcm)
	return buf[cursorOffset:], nil
}

// commitBytes advances bytesWritten by n and promotes any newly
// complete whole samples to committed state, running the metering
// update exactly once per newly committed sample, in order.
//
// Callers must hold t.mu.
func (t *Track) commitBytes(n int) {
	assert(n >= 0, "commitBytes: negative n")

	priorSamples := t.samplesCommitted.Load()
	t.bytesWritten += int64(n)
	newSamples := t.bytesWritten / bytesPerSample

	for s := priorSamples; s < newSamples; s++ {
		t.meterSample(s)
	}

	// Release-store: PCM and meter bytes for [priorSamples, newSamples)
	// are fully written above before this becomes visible.
	t.samplesCommitted.Store(newSamples)
}

// meterSample runs the PPM/overview update for stereo sample index s,
// which must already be present in the block store's PCM bytes.
func (t *Track) meterSample(s int64) {
	block, offset := t.blockFor(s)
	left := block.pcm[2*offset]
	right := block.pcm[2*offset+1]

	v := uint32(abs32(int32(left))) + uint32(abs32(int32(right)))

	if v > t.ppmAcc {
		t.ppmAcc += (v - t.ppmAcc) >> 3
	} else {
		t.ppmAcc -= (t.ppmAcc - v) >> 9
	}
	block.ppm[offset/TrackPPMRes] = byte(t.ppmAcc >> 8)

	w := v << 16
	if w > t.ovAcc {
		t.ovAcc += (w - t.ovAcc) >> 8
	} else {
		t.ovAcc -= (t.ovAcc - w) >> 17
	}
	block.overview[offset/TrackOverviewRes] = byte(t.ovAcc >> 24)
}

// abs32 returns the magnitude of v. Widening int16 samples to int32
// before negating avoids the int16 overflow at math.MinInt16, where
// -v would otherwise wrap back to a negative value.
func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
