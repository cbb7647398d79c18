// SPDX-License-Identifier: EPL-2.0

package output

import (
	"math"
	"sync"
	"sync/atomic"
)

// ringSet is the copy-on-write snapshot the render callback iterates.
type ringSet struct {
	rings []*Ring
}

// Mixer pulls every active ring, applies gain or fade envelopes, sums
// the result into the output block and publishes level telemetry. Its
// Render method is the hardware render callback: it never allocates,
// never blocks and never logs.
//
// Ring set changes go through AddRing/RemoveRing on the non-RT side;
// the callback only ever loads an immutable snapshot.
type Mixer struct {
	channels           int
	blockFrames        int
	skipTelemetryAbove int

	set atomic.Pointer[ringSet]
	wmu sync.Mutex // guards copy-on-write set updates

	scratch []float32
	gains   []float32
	rmsBuf  []float32
	peakBuf []float32
	sumBuf  []float64

	master *levelSlot
}

// NewMixer builds a mixer for the given output format. Telemetry is
// skipped in blocks where more than skipTelemetryAbove rings are
// active (0 disables the threshold).
func NewMixer(channels, blockFrames, skipTelemetryAbove int) *Mixer {
	m := &Mixer{
		channels:           channels,
		blockFrames:        blockFrames,
		skipTelemetryAbove: skipTelemetryAbove,
		scratch:            make([]float32, blockFrames*channels),
		gains:              make([]float32, blockFrames),
		rmsBuf:             make([]float32, channels),
		peakBuf:            make([]float32, channels),
		sumBuf:             make([]float64, channels),
		master:             newLevelSlot(channels),
	}
	m.set.Store(&ringSet{})
	return m
}

func (m *Mixer) Channels() int    { return m.channels }
func (m *Mixer) BlockFrames() int { return m.blockFrames }

// Rings returns the current snapshot. Callers must treat it as
// read-only.
func (m *Mixer) Rings() []*Ring {
	return m.set.Load().rings
}

// Ring looks up the cue's ring, or nil.
func (m *Mixer) Ring(cueID string) *Ring {
	for _, r := range m.set.Load().rings {
		if r.cueID == cueID {
			return r
		}
	}
	return nil
}

// AddRing publishes a new snapshot including r. A ring already present
// under the same cue id is replaced.
func (m *Mixer) AddRing(r *Ring) {
	m.wmu.Lock()
	defer m.wmu.Unlock()

	old := m.set.Load().rings
	next := make([]*Ring, 0, len(old)+1)
	for _, existing := range old {
		if existing.cueID != r.cueID {
			next = append(next, existing)
		}
	}
	next = append(next, r)
	m.set.Store(&ringSet{rings: next})
}

// RemoveRing drops the cue's ring from the snapshot and returns it.
// Only the non-RT loop removes rings; the callback merely flags them
// finished, so memory is never reclaimed under the render thread.
func (m *Mixer) RemoveRing(cueID string) *Ring {
	m.wmu.Lock()
	defer m.wmu.Unlock()

	old := m.set.Load().rings
	var removed *Ring
	next := make([]*Ring, 0, len(old))
	for _, existing := range old {
		if existing.cueID == cueID {
			removed = existing
			continue
		}
		next = append(next, existing)
	}
	m.set.Store(&ringSet{rings: next})
	return removed
}

// MasterLevels copies the latest per-channel RMS and peak of the
// final mix. Returns false when no stable snapshot is available.
func (m *Mixer) MasterLevels(rms, peak []float32) bool {
	return m.master.read(rms, peak)
}

// Render mixes one output block. This is the RT callback body: the
// only shared state it touches is atomics, the ring queues behind
// their short-lived mutex, and preallocated scratch.
func (m *Mixer) Render(out []float32) {
	frames := len(out) / m.channels
	clear(out)

	// Drivers normally honor BlockFrames; a larger ask grows scratch
	// once and is then stable again.
	if need := frames * m.channels; len(m.scratch) < need {
		m.scratch = make([]float32, need)
		m.gains = make([]float32, frames)
	}
	buf := m.scratch[:frames*m.channels]

	set := m.set.Load()
	telemetry := m.skipTelemetryAbove <= 0 || len(set.rings) <= m.skipTelemetryAbove

	for _, r := range set.rings {
		if r.Muted() {
			continue
		}

		r.Pull(buf)

		if env := r.Envelope(); env != nil {
			env.GainBlock(m.gains[:frames])
			for f := 0; f < frames; f++ {
				g := m.gains[f]
				base := f * m.channels
				for c := 0; c < m.channels; c++ {
					buf[base+c] *= g
				}
			}
			if env.Done() {
				if env.Target() == 0 {
					r.markFadedOut()
				} else {
					r.SetGain(env.Target())
					r.clearEnvelope()
				}
			}
		} else if g := r.Gain(); g != 1 {
			for i := range buf {
				buf[i] *= g
			}
		}

		for i := range buf {
			out[i] += buf[i]
		}

		if telemetry {
			m.measure(buf, frames, r.levels)
		}
	}

	for i := range out {
		if out[i] > 1 {
			out[i] = 1
		} else if out[i] < -1 {
			out[i] = -1
		}
	}

	if telemetry {
		m.measure(out, frames, m.master)
	}
}

func (m *Mixer) measure(buf []float32, frames int, slot *levelSlot) {
	if frames == 0 {
		return
	}
	for c := 0; c < m.channels; c++ {
		m.sumBuf[c] = 0
		m.peakBuf[c] = 0
	}
	for f := 0; f < frames; f++ {
		base := f * m.channels
		for c := 0; c < m.channels; c++ {
			v := buf[base+c]
			m.sumBuf[c] += float64(v) * float64(v)
			if v < 0 {
				v = -v
			}
			if v > m.peakBuf[c] {
				m.peakBuf[c] = v
			}
		}
	}
	for c := 0; c < m.channels; c++ {
		m.rmsBuf[c] = float32(math.Sqrt(m.sumBuf[c] / float64(frames)))
	}
	slot.publish(m.rmsBuf, m.peakBuf)
}
