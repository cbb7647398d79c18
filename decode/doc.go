// SPDX-License-Identifier: EPL-2.0

// Package decode turns file paths and playback windows into credited
// streams of PCM chunks.
//
// Each active cue gets one session goroutine that owns its decode
// state exclusively. Sessions obey a pull-based credit protocol: they
// never decode ahead of the frame budget granted through
// Coordinator.Credit, and each production step emits at most
// MaxChunkFrames frames. This is the backpressure contract between
// the output stage's buffer-level controller and the decoders.
//
// A session trims decoding to the cue's [in, out) frame window. When
// the window or the file ends with looping enabled, the session
// re-seeks to the in point, resets its per-iteration frame counter,
// and tags the first chunk after the seek with LoopRestart. A short
// settle window is decoded ahead of the in point and discarded on
// every seek, so warm-up artifacts stay out of the audible window.
//
// The Coordinator routes start/stop/update/credit to sessions by cue
// id, bounds simultaneous decode work with a permit pool, and
// restarts a crashed session from its last-known parameters while
// emitting a RestartEvent diagnostic. A decode failure terminates
// only the affected session; it surfaces as an ErrorEvent, never as a
// panic in another cue's path.
package decode
