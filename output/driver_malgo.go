// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

// MalgoDriver outputs through miniaudio. One driver owns one malgo
// context; streams come and go as devices or formats change.
type MalgoDriver struct {
	logger zerolog.Logger

	mu   sync.Mutex
	ctx  *malgo.AllocatedContext
	byID map[string]malgo.DeviceID // from the last enumeration
}

func NewMalgoDriver(logger zerolog.Logger) (*MalgoDriver, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}
	return &MalgoDriver{
		logger: logger.With().Str("component", "malgo").Logger(),
		ctx:    ctx,
		byID:   make(map[string]malgo.DeviceID),
	}, nil
}

func (d *MalgoDriver) Devices() ([]Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	infos, err := d.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerating playback devices: %w", err)
	}

	out := make([]Device, 0, len(infos))
	for _, info := range infos {
		id := info.ID.String()
		d.byID[id] = info.ID
		out = append(out, Device{
			ID:        id,
			Name:      info.Name(),
			IsDefault: info.IsDefault != 0,
		})
	}
	return out, nil
}

func (d *MalgoDriver) Open(cfg StreamConfig, render RenderFunc) (Stream, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 || cfg.BlockFrames <= 0 {
		return nil, ErrInvalidStreamConfig
	}

	devCfg := malgo.DefaultDeviceConfig(malgo.Playback)
	devCfg.Playback.Format = malgo.FormatF32
	devCfg.Playback.Channels = uint32(cfg.Channels)
	devCfg.SampleRate = uint32(cfg.SampleRate)
	devCfg.PeriodSizeInFrames = uint32(cfg.BlockFrames)

	if cfg.DeviceID != "" {
		d.mu.Lock()
		id, ok := d.byID[cfg.DeviceID]
		d.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, cfg.DeviceID)
		}
		devCfg.Playback.DeviceID = id.Pointer()
	}

	scratch := make([]float32, cfg.BlockFrames*cfg.Channels)
	onData := func(pOutput, pInput []byte, frameCount uint32) {
		need := int(frameCount) * cfg.Channels
		if cap(scratch) < need {
			scratch = make([]float32, need)
		}
		buf := scratch[:need]
		render(buf)
		for i, v := range buf {
			binary.LittleEndian.PutUint32(pOutput[i*4:], math.Float32bits(v))
		}
	}

	device, err := malgo.InitDevice(d.ctx.Context, devCfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return nil, fmt.Errorf("initializing playback device: %w", err)
	}

	d.logger.Debug().
		Int("rate", cfg.SampleRate).
		Int("channels", cfg.Channels).
		Int("block_frames", cfg.BlockFrames).
		Msg("playback device opened")

	return &malgoStream{device: device}, nil
}

// Close releases the malgo context. Streams must be closed first.
func (d *MalgoDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx == nil {
		return nil
	}
	if err := d.ctx.Uninit(); err != nil {
		return fmt.Errorf("closing audio context: %w", err)
	}
	d.ctx.Free()
	d.ctx = nil
	return nil
}

type malgoStream struct {
	device *malgo.Device
}

func (s *malgoStream) Start() error {
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("starting playback device: %w", err)
	}
	return nil
}

func (s *malgoStream) Stop() error {
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("stopping playback device: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() error {
	s.device.Uninit()
	return nil
}
