// Package deck implements the real-time core of a digital-vinyl DJ
// system: a Track holds an append-only, block-structured buffer of
// decoded stereo PCM fed by an external importer subprocess, plus the
// PPM and waveform-overview meters derived from it as samples arrive.
//
// A Track is driven by five cooperating pieces:
//
//   - Block / BlockStore (block.go): fixed-capacity PCM+meter blocks,
//     allocated on demand, never moved once published.
//   - importer (importer.go): owns the lifecycle of the external
//     decoder subprocess and its non-blocking output pipe.
//   - pump (pump.go): drains the pipe into the block store and updates
//     the PPM/overview meters, one sample at a time.
//   - Controller (controller.go, with Clear and the track mutex in
//     track.go and PollRegister in poll.go): the externally-visible
//     operations (Import, Clear, PollRegister, Handle) and the mutex
//     that guards everything above.
//   - PollSlot (poll.go): the capability-injection contract through
//     which an external event loop learns which descriptor to watch.
//
// The playback/audio thread and the GUI are not part of this package;
// they are external collaborators that read committed samples and
// meters through the lock-free publication described on Track.
package deck
