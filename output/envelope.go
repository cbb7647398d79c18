// SPDX-License-Identifier: EPL-2.0

package output

import "math"

// Curve selects the gain trajectory shape of a fade.
type Curve int

const (
	CurveLinear Curve = iota
	CurveEqualPower
)

// FadeEnvelope is a time-bounded gain trajectory from a start gain to
// a target gain over a fixed number of frames. The elapsed counter
// never exceeds the total; once it reaches the total every further
// gain is exactly the target.
//
// An envelope is advanced by the render callback only; other code may
// create and hand one over but never tick it.
type FadeEnvelope struct {
	start   float32
	target  float32
	total   int64
	elapsed int64
	curve   Curve
}

// NewFadeEnvelope builds an envelope over totalFrames frames. A
// non-positive total snaps to the target immediately.
func NewFadeEnvelope(start, target float32, totalFrames int64, curve Curve) *FadeEnvelope {
	if totalFrames < 0 {
		totalFrames = 0
	}
	return &FadeEnvelope{
		start:  start,
		target: target,
		total:  totalFrames,
		curve:  curve,
	}
}

// Target reports the gain the envelope ends on.
func (e *FadeEnvelope) Target() float32 { return e.target }

// Done reports whether the trajectory has fully played out.
func (e *FadeEnvelope) Done() bool { return e.elapsed >= e.total }

// Remaining reports how many frames are left.
func (e *FadeEnvelope) Remaining() int64 {
	return e.total - e.elapsed
}

// gainAt evaluates the curve so that frame total-1 lands exactly on
// the target gain.
func (e *FadeEnvelope) gainAt(frame int64) float32 {
	if e.total <= 0 || frame >= e.total-1 {
		return e.target
	}
	t := float32(frame+1) / float32(e.total)
	if e.curve == CurveEqualPower {
		t = float32(math.Sin(float64(t) * math.Pi / 2))
	}
	return e.start + (e.target-e.start)*t
}

// NextGain returns the gain for the next single frame and advances
// the envelope.
func (e *FadeEnvelope) NextGain() float32 {
	g := e.gainAt(e.elapsed)
	if e.elapsed < e.total {
		e.elapsed++
	}
	return g
}

// GainBlock fills dst with one gain per frame, advancing the envelope
// by len(dst) frames. Cheaper than per-frame NextGain calls when many
// fades run concurrently.
func (e *FadeEnvelope) GainBlock(dst []float32) {
	for i := range dst {
		if e.elapsed >= e.total {
			// Flat tail: the rest of the block is the target.
			for j := i; j < len(dst); j++ {
				dst[j] = e.target
			}
			return
		}
		dst[i] = e.gainAt(e.elapsed)
		e.elapsed++
	}
}
