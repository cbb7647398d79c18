// SPDX-License-Identifier: EPL-2.0

package output

import (
	"math"
	"sync"
	"sync/atomic"
)

// segment is one pushed chunk of PCM plus its consumption cursor.
type segment struct {
	samples     []float32
	offset      int // consumed samples within samples
	loopRestart bool
}

// PullResult describes what a single Pull delivered.
type PullResult struct {
	// Frames actually filled; the rest of dst is zero-padded.
	Frames int
	// RestartCrossed reports that a loop-restart segment began inside
	// this block, at frame offset RestartOffset.
	RestartCrossed bool
	RestartOffset  int
	// Finished is set on the pull that drains the ring to EOF.
	Finished bool
	Underflow, Partial bool
}

// Ring is the per-cue buffer between the decode side and the render
// callback. The non-RT loop owns all pushes, truncation and credit
// bookkeeping; the render callback owns pulls. The mutex guards only
// the segment queue and is never held across I/O.
type Ring struct {
	cueID          string
	channels       int
	tailFadeFrames int

	mu       sync.Mutex
	segs     []segment
	buffered atomic.Int64 // frames

	eof           atomic.Bool
	stopOnRestart atomic.Bool
	muted         atomic.Bool
	started       atomic.Bool
	finishedOnce  atomic.Bool
	finishedFlag  atomic.Bool // set by RT, consumed by the non-RT loop

	underflows atomic.Int64
	partials   atomic.Int64
	consumed   atomic.Int64 // frames handed to the mixer since start

	gainBits atomic.Uint32
	env      atomic.Pointer[FadeEnvelope]

	outstanding atomic.Int64 // credited frames not yet delivered

	levels *levelSlot
}

// NewRing builds a ring for one cue. tailFadeFrames is the length of
// the linear fade applied to the block that drains exactly to EOF.
func NewRing(cueID string, channels, tailFadeFrames int) *Ring {
	r := &Ring{
		cueID:          cueID,
		channels:       channels,
		tailFadeFrames: tailFadeFrames,
		levels:         newLevelSlot(channels),
	}
	r.SetGain(1)
	return r
}

func (r *Ring) CueID() string { return r.cueID }
func (r *Ring) Channels() int { return r.channels }

func (r *Ring) SetGain(g float32) { r.gainBits.Store(math.Float32bits(g)) }
func (r *Ring) Gain() float32     { return math.Float32frombits(r.gainBits.Load()) }

// SetEnvelope replaces the active fade. A new command for the same
// cue supersedes whatever trajectory was running.
func (r *Ring) SetEnvelope(env *FadeEnvelope) { r.env.Store(env) }
func (r *Ring) Envelope() *FadeEnvelope       { return r.env.Load() }
func (r *Ring) clearEnvelope()                { r.env.Store(nil) }

// SetStopOnRestartBoundary arms (or disarms) clean stop at the next
// loop boundary: buffered audio from the current iteration still
// plays, the next iteration never does.
func (r *Ring) SetStopOnRestartBoundary(v bool) { r.stopOnRestart.Store(v) }

func (r *Ring) EOF() bool         { return r.eof.Load() }
func (r *Ring) Muted() bool       { return r.muted.Load() }
func (r *Ring) Started() bool     { return r.started.Load() }
func (r *Ring) Buffered() int64   { return r.buffered.Load() }
func (r *Ring) Consumed() int64   { return r.consumed.Load() }
func (r *Ring) Underflows() int64 { return r.underflows.Load() }
func (r *Ring) Partials() int64   { return r.partials.Load() }

// TakeFinished consumes the finished-pending flag exactly once.
func (r *Ring) TakeFinished() bool {
	return r.finishedFlag.CompareAndSwap(true, false)
}

// markFadedOut is called by the render callback when a fade-to-zero
// completes: the cue must not emit further audio, and it is finished
// regardless of what is still buffered.
func (r *Ring) markFadedOut() {
	r.muted.Store(true)
	r.eof.Store(true)
	if r.finishedOnce.CompareAndSwap(false, true) {
		r.finishedFlag.Store(true)
	}
}

// Push appends a decoded segment. Non-RT context only. The ring takes
// ownership of samples; chunks are immutable so no copy is made.
func (r *Ring) Push(samples []float32, frames int, eof, loopRestart bool) {
	if frames > 0 {
		r.mu.Lock()
		r.segs = append(r.segs, segment{
			samples:     samples[:frames*r.channels],
			loopRestart: loopRestart,
		})
		r.buffered.Add(int64(frames))
		r.mu.Unlock()

		// Settle credit bookkeeping: delivery reduces what is owed.
		for {
			cur := r.outstanding.Load()
			next := cur - int64(frames)
			if next < 0 {
				next = 0
			}
			if r.outstanding.CompareAndSwap(cur, next) {
				break
			}
		}
	}
	if eof {
		r.eof.Store(true)
	}
}

// OutstandingCredit reports frames requested from the decoder but not
// yet delivered.
func (r *Ring) OutstandingCredit() int64 { return r.outstanding.Load() }
func (r *Ring) addOutstanding(n int64)   { r.outstanding.Add(n) }

// TruncateToTail cuts the queue down to at most tail buffered frames
// and marks EOF. Used by explicit stops so teardown never hard-cuts:
// the caller attaches a fade-to-zero envelope over the kept tail.
func (r *Ring) TruncateToTail(tail int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept int64
	cut := len(r.segs)
	for i := range r.segs {
		seg := &r.segs[i]
		avail := int64(len(seg.samples)-seg.offset) / int64(r.channels)
		if kept+avail >= tail {
			keep := tail - kept
			seg.samples = seg.samples[:seg.offset+int(keep)*r.channels]
			kept += keep
			cut = i + 1
			break
		}
		kept += avail
	}
	r.segs = r.segs[:cut]
	r.buffered.Store(kept)
	r.eof.Store(true)
}

// Pull copies up to len(dst)/channels frames into dst, zero-padding
// any shortfall. Render-callback context: no allocation.
func (r *Ring) Pull(dst []float32) PullResult {
	frames := len(dst) / r.channels
	var res PullResult

	r.mu.Lock()
	filled := 0
	for filled < frames && len(r.segs) > 0 {
		seg := &r.segs[0]
		if seg.loopRestart && seg.offset == 0 {
			if r.stopOnRestart.Load() {
				// Clean stop at the boundary: drop the next iteration
				// entirely instead of playing into it.
				r.segs = r.segs[:0]
				r.buffered.Store(0)
				r.eof.Store(true)
				break
			}
			if !res.RestartCrossed {
				res.RestartCrossed = true
				res.RestartOffset = filled
			}
		}

		avail := len(seg.samples) - seg.offset
		want := (frames - filled) * r.channels
		n := want
		if n > avail {
			n = avail
		}
		copy(dst[filled*r.channels:], seg.samples[seg.offset:seg.offset+n])
		seg.offset += n
		filled += n / r.channels

		if seg.offset == len(seg.samples) {
			r.segs[0] = segment{} // drop the reference for the GC
			r.segs = r.segs[1:]
		}
	}
	if filled > 0 {
		r.buffered.Add(-int64(filled))
	}
	empty := len(r.segs) == 0
	r.mu.Unlock()

	res.Frames = filled
	if filled > 0 {
		r.started.Store(true)
		r.consumed.Add(int64(filled))
	}

	if filled < frames {
		clear(dst[filled*r.channels : frames*r.channels])
		if !r.eof.Load() && r.started.Load() {
			if filled == 0 {
				r.underflows.Add(1)
				res.Underflow = true
			} else {
				r.partials.Add(1)
				res.Partial = true
			}
		}
	}

	if r.eof.Load() && empty {
		if filled > 0 {
			// The block that drains exactly to EOF gets a short
			// fade-to-zero tail so the cut is never audible.
			r.applyTailFade(dst, filled)
		}
		if r.finishedOnce.CompareAndSwap(false, true) {
			r.finishedFlag.Store(true)
			res.Finished = true
		}
	}
	return res
}

func (r *Ring) applyTailFade(dst []float32, filled int) {
	n := r.tailFadeFrames
	if n > filled {
		n = filled
	}
	if n <= 0 {
		return
	}
	start := filled - n
	for f := 0; f < n; f++ {
		g := float32(n-1-f) / float32(n)
		base := (start + f) * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] *= g
		}
	}
}
