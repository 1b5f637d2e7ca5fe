package deck

// Compile-time tuning constants. Names mirror the canonical constants a
// digital-vinyl core is expected to expose: TRACK_CHANNELS, TRACK_RATE,
// TRACK_BLOCK_SAMPLES, TRACK_PPM_RES, TRACK_OVERVIEW_RES, and
// TRACK_MAX_BLOCKS.
const (
	// TrackChannels is the number of interleaved audio channels. Always
	// stereo; the importer protocol and metering both assume it.
	TrackChannels = 2

	// TrackRate is the system audio sample rate in Hz. Every importer
	// subprocess must emit PCM at this rate; nothing in this package
	// resamples or verifies it, since the importer protocol (external
	// collaborator) is the contract enforcement point.
	TrackRate = 44100

	// TrackBlockSamples is the number of stereo samples held per Block.
	// A power of two keeps PPM/Overview bucket math cheap.
	TrackBlockSamples = 1 << 15

	// TrackPPMRes is the number of samples per PPM meter byte; the byte
	// holds the meter value after the bucket's last sample. Must evenly
	// divide TrackBlockSamples.
	TrackPPMRes = 1 << 5

	// TrackOverviewRes is the number of samples per overview meter byte;
	// the byte holds the meter value after the bucket's last sample.
	// Must evenly divide TrackBlockSamples.
	TrackOverviewRes = 1 << 10

	// TrackMaxBlocks bounds the number of blocks a single Track may
	// allocate, which bounds both memory and importable track length to
	// roughly TrackMaxBlocks*TrackBlockSamples samples.
	TrackMaxBlocks = 1 << 12

	// bytesPerSample is the size, in bytes, of one interleaved stereo
	// 16-bit sample (TrackChannels * 2 bytes).
	bytesPerSample = TrackChannels * 2
)

func init() {
	if TrackBlockSamples%TrackPPMRes != 0 {
		panic("deck: TrackPPMRes must evenly divide TrackBlockSamples")
	}
	if TrackBlockSamples%TrackOverviewRes != 0 {
		panic("deck: TrackOverviewRes must evenly divide TrackBlockSamples")
	}
}
