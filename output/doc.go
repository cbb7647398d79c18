// SPDX-License-Identifier: EPL-2.0

// Package output buffers per-cue PCM in rings, mixes the active rings
// in a hard-real-time render callback, applies fade envelopes and
// publishes level telemetry without ever blocking that callback.
//
// # Ownership
//
// Three parties touch this package, each on its own side of a narrow
// contract:
//
//   - The non-RT loop pushes decoded segments into rings, arms stop
//     flags, attaches envelopes, adds/removes rings on the Mixer and
//     runs the Controller.
//   - The render callback (Mixer.Render) pulls from rings, applies
//     gains, sums, clamps and overwrites telemetry slots. It performs
//     no allocation, no I/O and no logging, and it never removes ring
//     state: a drained ring only flags itself finished.
//   - The Controller compares each ring's fill level against its
//     low-water/target thresholds and issues frame credits toward the
//     decoder, with outstanding-request bookkeeping so a slow session
//     is not double-credited.
//
// # Click avoidance
//
// The block that drains a ring exactly to EOF gets a short linear
// fade-to-zero tail, and an explicit stop truncates the queue to a
// short tail with a fade-to-zero envelope instead of hard-cutting.
// Disabling looping mid-playback arms stop-on-restart-boundary: the
// current iteration plays out, the buffered next iteration is dropped
// at the boundary.
//
// # Drivers
//
// The Driver interface abstracts the OS backend: MalgoDriver
// (miniaudio, cgo, with device enumeration), OtoDriver (pure Go pull
// model on the default device) and ManualDriver (on-demand rendering
// for tests and offline export).
package output
