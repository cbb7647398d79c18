// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/stagelight/cuemix/utils"
)

// OtoDriver outputs through oto's pull model: oto reads s16le PCM from
// an io.Reader on its own schedule and we render blocks into it. It
// needs no cgo, at the cost of device selection (oto always uses the
// system default).
//
// oto allows a single Context per process, so the driver creates one
// on first Open and reuses it for every later stream. Reopens with the
// same sample rate and channel count work (block-size changes reuse
// the existing context; its internal buffer size stays from the first
// open); a different rate or channel count fails with ErrFormatLocked.
type OtoDriver struct {
	mu       sync.Mutex
	ctx      *oto.Context
	rate     int
	channels int
}

func NewOtoDriver() *OtoDriver { return &OtoDriver{} }

func (d *OtoDriver) Devices() ([]Device, error) {
	return []Device{{ID: "", Name: "system default", IsDefault: true}}, nil
}

func (d *OtoDriver) Open(cfg StreamConfig, render RenderFunc) (Stream, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 || cfg.BlockFrames <= 0 {
		return nil, ErrInvalidStreamConfig
	}
	if cfg.DeviceID != "" {
		return nil, fmt.Errorf("%w: oto cannot select devices", ErrUnknownDevice)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.claimFormat(cfg.SampleRate, cfg.Channels); err != nil {
		return nil, err
	}

	if d.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: cfg.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(cfg.BlockFrames) * time.Second / time.Duration(cfg.SampleRate),
		})
		if err != nil {
			d.rate, d.channels = 0, 0
			return nil, fmt.Errorf("initializing oto context: %w", err)
		}
		<-ready
		d.ctx = ctx
	}

	src := &renderReader{
		render:   render,
		channels: cfg.Channels,
		scratch:  make([]float32, cfg.BlockFrames*cfg.Channels),
	}
	return &otoStream{player: d.ctx.NewPlayer(src)}, nil
}

// claimFormat records the context format on first use; later opens
// must match it because the context cannot be recreated.
func (d *OtoDriver) claimFormat(rate, channels int) error {
	if d.rate == 0 {
		d.rate, d.channels = rate, channels
		return nil
	}
	if d.rate != rate || d.channels != channels {
		return fmt.Errorf("%w: context is %d Hz/%dch, requested %d Hz/%dch",
			ErrFormatLocked, d.rate, d.channels, rate, channels)
	}
	return nil
}

// renderReader adapts the push-style RenderFunc to oto's pull reader.
type renderReader struct {
	render   RenderFunc
	channels int
	scratch  []float32
}

func (r *renderReader) Read(p []byte) (int, error) {
	// Whole s16le frames only.
	frames := len(p) / 2 / r.channels
	if frames == 0 {
		return 0, nil
	}
	samples := frames * r.channels

	if cap(r.scratch) < samples {
		r.scratch = make([]float32, samples)
	}
	buf := r.scratch[:samples]
	r.render(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(utils.Float32ToInt16(v)))
	}
	return samples * 2, nil
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Start() error {
	s.player.Play()
	return nil
}

func (s *otoStream) Stop() error {
	s.player.Pause()
	return nil
}

func (s *otoStream) Close() error {
	return s.player.Close()
}
