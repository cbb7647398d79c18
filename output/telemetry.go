// SPDX-License-Identifier: EPL-2.0

package output

import "sync/atomic"

// levelSlot is a single-writer/single-reader latest-value transfer for
// per-channel RMS and peak levels. The render callback overwrites it
// every block without blocking; the non-RT loop samples it at its own
// cadence. A torn read is detected via the sequence counter and simply
// retried or skipped, so neither side ever waits on the other.
type levelSlot struct {
	seq  atomic.Uint64 // odd while a write is in progress
	rms  []float32
	peak []float32
}

func newLevelSlot(channels int) *levelSlot {
	return &levelSlot{
		rms:  make([]float32, channels),
		peak: make([]float32, channels),
	}
}

// publish overwrites the slot. Render-callback context: no allocation,
// no blocking.
func (s *levelSlot) publish(rms, peak []float32) {
	seq := s.seq.Load()
	s.seq.Store(seq + 1)
	copy(s.rms, rms)
	copy(s.peak, peak)
	s.seq.Store(seq + 2)
}

// read copies the latest stable levels into rms and peak. Returns
// false when nothing has been published yet or the slot was mid-write
// on both attempts.
func (s *levelSlot) read(rms, peak []float32) bool {
	for attempt := 0; attempt < 2; attempt++ {
		before := s.seq.Load()
		if before == 0 || before%2 == 1 {
			continue
		}
		copy(rms, s.rms)
		copy(peak, s.peak)
		if s.seq.Load() == before {
			return true
		}
	}
	return false
}

// Levels copies the cue's latest per-channel RMS and peak into the
// provided slices. Returns false when no stable snapshot is available.
func (r *Ring) Levels(rms, peak []float32) bool {
	return r.levels.read(rms, peak)
}
