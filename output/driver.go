// SPDX-License-Identifier: EPL-2.0

package output

import "sync/atomic"

// RenderFunc fills out with one block of interleaved float32 frames.
// It is invoked from the driver's audio thread and must meet the RT
// restrictions Mixer.Render does.
type RenderFunc func(out []float32)

// StreamConfig describes a hardware output stream.
type StreamConfig struct {
	SampleRate  int
	Channels    int
	BlockFrames int
	// DeviceID selects an output device from Driver.Devices; empty
	// picks the system default.
	DeviceID string
}

// Stream is an open hardware output stream. Reconfiguring (device or
// format change) means Close and a fresh Driver.Open; that is not
// RT-safe and happens outside the callback.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Device identifies one output device.
type Device struct {
	ID        string
	Name      string
	IsDefault bool
}

// Driver abstracts the OS audio backend.
type Driver interface {
	Open(cfg StreamConfig, render RenderFunc) (Stream, error)
	Devices() ([]Device, error)
}

// ManualDriver is a Driver with no hardware behind it: blocks are
// rendered only when the owner asks. Used by tests and offline
// rendering (mix to a WAV file faster than real time).
type ManualDriver struct{}

func NewManualDriver() *ManualDriver { return &ManualDriver{} }

func (d *ManualDriver) Devices() ([]Device, error) {
	return []Device{{ID: "manual", Name: "manual render", IsDefault: true}}, nil
}

func (d *ManualDriver) Open(cfg StreamConfig, render RenderFunc) (Stream, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 || cfg.BlockFrames <= 0 {
		return nil, ErrInvalidStreamConfig
	}
	return &ManualStream{
		cfg:    cfg,
		render: render,
		buf:    make([]float32, cfg.BlockFrames*cfg.Channels),
	}, nil
}

// ManualStream renders on demand instead of on a hardware clock.
type ManualStream struct {
	cfg     StreamConfig
	render  RenderFunc
	buf     []float32
	running atomic.Bool
	closed  atomic.Bool
}

func (s *ManualStream) Start() error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	s.running.Store(true)
	return nil
}

func (s *ManualStream) Stop() error {
	s.running.Store(false)
	return nil
}

func (s *ManualStream) Close() error {
	s.running.Store(false)
	s.closed.Store(true)
	return nil
}

func (s *ManualStream) Running() bool { return s.running.Load() }

// RenderBlock produces one block and returns it. The slice is reused
// across calls.
func (s *ManualStream) RenderBlock() []float32 {
	if !s.running.Load() {
		clear(s.buf)
		return s.buf
	}
	s.render(s.buf)
	return s.buf
}
