// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"time"

	"github.com/stagelight/cuemix/media"
)

// Source is the stream a decoder session pulls from. media.Stream is
// the production implementation; tests substitute fakes.
type Source interface {
	// ReadFrames fills dst with interleaved frames and returns how many
	// complete frames were written. io.EOF marks exhaustion.
	ReadFrames(dst []float32) (int, error)
	// SeekFrame positions the stream at an absolute frame offset.
	SeekFrame(frame int64) error
	// TotalFrames is best-effort; ok=false when the length is unknown.
	TotalFrames() (int64, bool)
	Close() error
}

// Opener opens a Source for a path at the engine's output rate and
// channel count.
type Opener func(path string, sampleRate, channels int) (Source, error)

// MediaOpener is the production Opener, backed by the media package.
func MediaOpener(path string, sampleRate, channels int) (Source, error) {
	return media.Open(path, sampleRate, channels)
}

// StartParams describes a decoder session at start time.
type StartParams struct {
	CueID       string
	Path        string
	InFrame     int64
	OutFrame    int64 // exclusive end of the playback window; < 0 plays to EOF
	SampleRate  int
	Channels    int
	LoopEnabled bool
}

// Update carries optional parameter changes for a running session.
// Nil fields are left untouched. Changes take effect at the session's
// next packet/EOF decision, never retroactively on audio already
// decoded.
type Update struct {
	InFrame     *int64
	OutFrame    *int64 // point at a negative value to clear the out point
	LoopEnabled *bool
}

// Chunk is a unit of decoded PCM handed from a session to the output
// stage. Immutable once produced.
type Chunk struct {
	CueID  string
	Frames int
	// Samples holds Frames * channels interleaved float32 values.
	Samples []float32
	// EOF marks the final chunk of the session.
	EOF bool
	// LoopRestart tags the first chunk after a loop re-seek.
	LoopRestart bool
	// ProducedAt is used for latency diagnostics only.
	ProducedAt time.Time
}

// Config tunes the decode subsystem.
type Config struct {
	// MaxConcurrent bounds how many sessions decode at the same time.
	MaxConcurrent int
	// MaxChunkFrames bounds the frame count of a single chunk.
	MaxChunkFrames int
	// SettleMS is the post-seek discard window, decoded ahead of the
	// in point and thrown away so seek artifacts never reach a ring.
	SettleMS int
	// PermitWait is how long a credited session waits for a decode
	// permit before backing off and retrying.
	PermitWait time.Duration
	// CreditPoll is the idle poll interval of an uncredited session.
	CreditPoll time.Duration
	// MaxRestartAttempts bounds crash-restarts per session.
	MaxRestartAttempts int
	// ChunkBuffer and EventBuffer size the outbound channels.
	ChunkBuffer int
	EventBuffer int
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxChunkFrames <= 0 {
		c.MaxChunkFrames = 4096
	}
	if c.SettleMS < 0 {
		c.SettleMS = 0
	} else if c.SettleMS == 0 {
		c.SettleMS = 10
	}
	if c.PermitWait <= 0 {
		c.PermitWait = 10 * time.Millisecond
	}
	if c.CreditPoll <= 0 {
		c.CreditPoll = 2 * time.Millisecond
	}
	if c.MaxRestartAttempts <= 0 {
		c.MaxRestartAttempts = 3
	}
	if c.ChunkBuffer <= 0 {
		c.ChunkBuffer = 64
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 32
	}
	return c
}
