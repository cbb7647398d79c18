// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) float32
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		generated:    0,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// TotalFrames reports the total frame count, implementing audio.Sized.
func (m *MockSource) TotalFrames() int64 { return int64(m.totalSamples) }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	// Calculate how many frames we can write
	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalSamples - m.generated
	framesToWrite := framesRequested
	if framesToWrite > framesAvailable {
		framesToWrite = framesAvailable
	}

	// Generate samples
	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// MockStream is a frame-addressed test stream. It mirrors the shape of the
// decode-layer source (ReadFrames, SeekFrame, TotalFrames, Close) without
// importing it to avoid cycles.
type MockStream struct {
	SampleRateVal int
	ChannelsVal   int
	Total         int64
	Waveform      func(frame int64, channel int) float32

	pos       int64
	FailSeek  bool
	FailRead  bool
	SeekCalls []int64
	Closed    bool
}

// NewRampStream returns a stream whose sample value encodes the frame index,
// so tests can verify frame-exact positioning after seeks.
func NewRampStream(sampleRate, channels int, totalFrames int64) *MockStream {
	return &MockStream{
		SampleRateVal: sampleRate,
		ChannelsVal:   channels,
		Total:         totalFrames,
		Waveform: func(frame int64, channel int) float32 {
			return float32(frame) / float32(totalFrames)
		},
	}
}

func (s *MockStream) SampleRate() int { return s.SampleRateVal }
func (s *MockStream) Channels() int   { return s.ChannelsVal }

func (s *MockStream) TotalFrames() (int64, bool) {
	if s.Total < 0 {
		return 0, false
	}
	return s.Total, true
}

// Position reports the current frame offset.
func (s *MockStream) Position() int64 { return s.pos }

func (s *MockStream) SeekFrame(frame int64) error {
	s.SeekCalls = append(s.SeekCalls, frame)
	if s.FailSeek {
		return io.ErrUnexpectedEOF
	}
	if frame < 0 {
		return io.ErrUnexpectedEOF
	}
	s.pos = frame
	return nil
}

func (s *MockStream) ReadFrames(dst []float32) (int, error) {
	if s.FailRead {
		return 0, io.ErrUnexpectedEOF
	}
	if s.Total >= 0 && s.pos >= s.Total {
		return 0, io.EOF
	}

	frames := len(dst) / s.ChannelsVal
	if s.Total >= 0 && int64(frames) > s.Total-s.pos {
		frames = int(s.Total - s.pos)
	}

	for f := range frames {
		for ch := range s.ChannelsVal {
			if s.Waveform != nil {
				dst[f*s.ChannelsVal+ch] = s.Waveform(s.pos+int64(f), ch)
			} else {
				dst[f*s.ChannelsVal+ch] = 0
			}
		}
	}

	s.pos += int64(frames)
	if s.Total >= 0 && s.pos >= s.Total {
		return frames, io.EOF
	}
	return frames, nil
}

func (s *MockStream) Close() error {
	s.Closed = true
	return nil
}
