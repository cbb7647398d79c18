// SPDX-License-Identifier: EPL-2.0

package cuemix

import (
	"time"
)

// cueState tracks a cue through its lifecycle. Transitions only move
// forward; a finished cue is removed from the active set rather than
// kept in a terminal state.
type cueState int

const (
	// cueStarting: decode and output are both issued, no PCM forwarded
	// yet.
	cueStarting cueState = iota
	// cuePlaying: at least one chunk reached the ring.
	cuePlaying
	// cueFading: a terminal fade is active or an immediate stop has
	// truncated the ring; the cue finishes when the ring drains.
	cueFading
)

// cue is the engine's private per-cue state. All fields are guarded by
// the engine mutex.
type cue struct {
	id       string
	trackID  string
	path     string
	inFrame  int64
	outFrame int64
	gainDB   float64
	loopFlag bool

	startedAt time.Time
	state     cueState

	// pendingReason and pendingDeadline are set when a terminal fade or
	// stop is issued. The deadline is the emergency force-removal
	// point for a finish that never arrives.
	pendingReason   FinishReason
	pendingDeadline time.Time

	// totalFrames is filled by the best-effort probe; hasTotal stays
	// false for unbounded or unprobed sources.
	totalFrames int64
	hasTotal    bool
}

func (c *cue) snapshot() CueSnapshot {
	return CueSnapshot{
		CueID:       c.id,
		TrackID:     c.trackID,
		FilePath:    c.path,
		InFrame:     c.inFrame,
		OutFrame:    c.outFrame,
		GainDB:      c.gainDB,
		LoopEnabled: c.loopFlag,
		StartedAt:   c.startedAt,
	}
}

// stopPending reports whether a terminal stop or fade has been issued.
func (c *cue) stopPending() bool {
	return c.pendingReason != ""
}

// markPendingStop records the terminal reason and arms the emergency
// deadline. The first reason wins; later stops on the same cue keep
// the original semantics.
func (c *cue) markPendingStop(reason FinishReason, deadline time.Time) {
	if c.stopPending() {
		return
	}
	c.pendingReason = reason
	c.pendingDeadline = deadline
	c.state = cueFading
}

// CueSnapshot is the immutable public view of a cue, carried on
// lifecycle events.
type CueSnapshot struct {
	CueID       string
	TrackID     string
	FilePath    string
	InFrame     int64
	OutFrame    int64
	GainDB      float64
	LoopEnabled bool
	StartedAt   time.Time
}
