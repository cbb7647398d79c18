// SPDX-License-Identifier: EPL-2.0

package cuemix

import (
	"time"

	"github.com/stagelight/cuemix/output"
)

// Event is the closed set of notifications the engine emits. Consumers
// receive them from Engine.Events and switch on the concrete type.
type Event interface {
	engineEvent()
}

// FinishReason says why a cue left the active set.
type FinishReason string

const (
	// ReasonNatural is set when a cue played its window to the end.
	ReasonNatural FinishReason = "natural"
	// ReasonStopped is an immediate stop request.
	ReasonStopped FinishReason = "stopped"
	// ReasonFadeOut is a stop or fade that went to silence first.
	ReasonFadeOut FinishReason = "fade_out"
	// ReasonAutoFade is a cue displaced by a non-layered play.
	ReasonAutoFade FinishReason = "auto_fade"
	// ReasonReplaced is a cue terminated by a new play with its id.
	ReasonReplaced FinishReason = "replaced"
	// ReasonDecodeError is a cue whose decoder failed.
	ReasonDecodeError FinishReason = "decode_error"
	// ReasonConfigChange is a cue dropped by an output format change.
	ReasonConfigChange FinishReason = "config_change"
	// ReasonForced is the emergency timeout for a stuck pending stop.
	ReasonForced FinishReason = "forced"
)

// CueStarted is emitted when a play command is accepted.
type CueStarted struct {
	CueID     string
	TrackID   string
	FilePath  string
	StartedAt time.Time
}

// CueFinished is emitted exactly once per cue lifetime.
type CueFinished struct {
	Snapshot CueSnapshot
	Reason   FinishReason
}

// DecodeError reports a decoder failure; a CueFinished with
// ReasonDecodeError follows once the cue's buffered audio drains.
type DecodeError struct {
	CueID    string
	FilePath string
	Err      error
}

// CueLevels carries per-channel RMS and peak for one cue.
type CueLevels struct {
	CueID string
	RMS   []float32
	Peak  []float32
}

// MasterLevels carries per-channel RMS and peak of the final mix.
type MasterLevels struct {
	RMS  []float32
	Peak []float32
}

// CueTime reports playback progress. Total is meaningful only when
// HasTotal is true; loops report position within the current pass.
type CueTime struct {
	CueID     string
	Elapsed   time.Duration
	Remaining time.Duration
	Total     time.Duration
	HasTotal  bool
}

// DeviceChanged is emitted after the output stream moves to a new
// device.
type DeviceChanged struct {
	DeviceID string
}

// DeviceListChanged carries the current set of playback devices.
type DeviceListChanged struct {
	Devices []output.Device
}

// OutputConfigChanged is emitted after the stream is reopened with a
// new format.
type OutputConfigChanged struct {
	SampleRate  int
	Channels    int
	BlockFrames int
}

func (CueStarted) engineEvent()          {}
func (CueFinished) engineEvent()         {}
func (DecodeError) engineEvent()         {}
func (CueLevels) engineEvent()           {}
func (MasterLevels) engineEvent()        {}
func (CueTime) engineEvent()             {}
func (DeviceChanged) engineEvent()       {}
func (DeviceListChanged) engineEvent()   {}
func (OutputConfigChanged) engineEvent() {}
