// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the core building blocks the rest of the
// engine is assembled from:
//   - Source interface for decoded audio input
//   - Resampler for sample rate conversion
//   - ChannelMixer for channel-count conversion
//   - Registry for decoder registration by file extension
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All format decoders and processing stages implement it, so they can
// be chained into pipelines: decoder -> Resampler -> ChannelMixer.
//
// # Sample Format
//
// Samples are interleaved float32 in the range [-1.0, 1.0]:
//   - 0.0 is silence
//   - ±1.0 is maximum amplitude
//
// The normalized format keeps intermediate processing free of bit-depth
// concerns and avoids clipping until the final mix stage.
//
// # Resampling
//
// The Resampler converts sample rates using cubic interpolation with a
// simple low-pass filter when downsampling:
//
//	resampler := audio.NewResampler(source, 48000)
//
// # Channel Conversion
//
// The ChannelMixer converts any source channel count to a fixed target:
//
//	stereo := audio.NewChannelMixer(source, 2)
//
// Mono sources are fanned out, surplus channels are averaged down.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available. A short
// read with a nil error is not an end-of-stream condition; callers must
// loop until io.EOF.
package audio
