// SPDX-License-Identifier: EPL-2.0

package cuemix

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the playback engine. Zero values are
// not meaningful; start from DefaultConfig or LoadConfig and adjust.
type Config struct {
	// SampleRate and Channels define the output format. All decoded
	// audio is converted to this format before it reaches a ring.
	SampleRate int
	Channels   int

	// BlockFrames is the preferred hardware callback block size.
	BlockFrames int

	// MaxConcurrentDecoders bounds simultaneous decode work across all
	// cues. MaxChunkFrames bounds the size of a single decoded chunk.
	MaxConcurrentDecoders int
	MaxChunkFrames        int

	// SeekSettleMS is decoded ahead of a cue's in point and discarded
	// so post-seek decoder artifacts never reach the output.
	SeekSettleMS int

	// RingLowWaterMS and RingTargetMS drive the buffer-level
	// controller: below low water, credit is requested up to target.
	RingLowWaterMS int
	RingTargetMS   int

	// DrainTailFadeMS shapes the last buffered frames when a ring
	// drains to EOF. StopTailMS is how much audio an immediate stop
	// keeps for its fade-to-zero tail.
	DrainTailFadeMS int
	StopTailMS      int

	// FadeInMS and FadeOutMS are the transition fades used by
	// auto-fade-on-new and transport-level stops.
	FadeInMS  int
	FadeOutMS int

	// ForceRemoveTimeout is the emergency valve for a pending stop or
	// fade whose finished acknowledgement never arrives.
	ForceRemoveTimeout time.Duration

	// PumpInterval is the cadence of the reconciliation loop;
	// TelemetryInterval is the cadence of level/time events.
	PumpInterval      time.Duration
	TelemetryInterval time.Duration

	// SkipTelemetryAbove disables per-cue level measurement when more
	// rings than this are active, keeping the callback cheap.
	SkipTelemetryAbove int

	// EventBuffer sizes the outbound event channel.
	EventBuffer int
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SampleRate:            48000,
		Channels:              2,
		BlockFrames:           512,
		MaxConcurrentDecoders: 4,
		MaxChunkFrames:        4096,
		SeekSettleMS:          10,
		RingLowWaterMS:        200,
		RingTargetMS:          500,
		DrainTailFadeMS:       5,
		StopTailMS:            10,
		FadeInMS:              0,
		FadeOutMS:             150,
		ForceRemoveTimeout:    5 * time.Second,
		PumpInterval:          5 * time.Millisecond,
		TelemetryInterval:     50 * time.Millisecond,
		SkipTelemetryAbove:    16,
		EventBuffer:           256,
	}
}

// LoadConfig builds a Config from CUEMIX_* environment variables,
// falling back to DefaultConfig for anything unset or malformed.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleRate = envInt("CUEMIX_SAMPLE_RATE", cfg.SampleRate)
	cfg.Channels = envInt("CUEMIX_CHANNELS", cfg.Channels)
	cfg.BlockFrames = envInt("CUEMIX_BLOCK_FRAMES", cfg.BlockFrames)
	cfg.MaxConcurrentDecoders = envInt("CUEMIX_MAX_DECODERS", cfg.MaxConcurrentDecoders)
	cfg.MaxChunkFrames = envInt("CUEMIX_MAX_CHUNK_FRAMES", cfg.MaxChunkFrames)
	cfg.SeekSettleMS = envInt("CUEMIX_SEEK_SETTLE_MS", cfg.SeekSettleMS)
	cfg.RingLowWaterMS = envInt("CUEMIX_RING_LOW_WATER_MS", cfg.RingLowWaterMS)
	cfg.RingTargetMS = envInt("CUEMIX_RING_TARGET_MS", cfg.RingTargetMS)
	cfg.DrainTailFadeMS = envInt("CUEMIX_DRAIN_TAIL_FADE_MS", cfg.DrainTailFadeMS)
	cfg.StopTailMS = envInt("CUEMIX_STOP_TAIL_MS", cfg.StopTailMS)
	cfg.FadeInMS = envInt("CUEMIX_FADE_IN_MS", cfg.FadeInMS)
	cfg.FadeOutMS = envInt("CUEMIX_FADE_OUT_MS", cfg.FadeOutMS)
	cfg.ForceRemoveTimeout = envDuration("CUEMIX_FORCE_REMOVE_TIMEOUT", cfg.ForceRemoveTimeout)
	cfg.PumpInterval = envDuration("CUEMIX_PUMP_INTERVAL", cfg.PumpInterval)
	cfg.TelemetryInterval = envDuration("CUEMIX_TELEMETRY_INTERVAL", cfg.TelemetryInterval)
	cfg.SkipTelemetryAbove = envInt("CUEMIX_SKIP_TELEMETRY_ABOVE", cfg.SkipTelemetryAbove)
	cfg.EventBuffer = envInt("CUEMIX_EVENT_BUFFER", cfg.EventBuffer)
	return cfg
}

// framesFromMS converts a millisecond duration to frames at the
// configured sample rate, rounding down.
func (c Config) framesFromMS(ms int) int64 {
	return int64(ms) * int64(c.SampleRate) / 1000
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
