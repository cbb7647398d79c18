// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/stagelight/cuemix/internal/audiotest"

// The pipeline tests drive Sources from the shared audiotest package;
// local constructors keep the call sites short.

func newMockSource(sampleRate, channels, totalSamples int, waveform func(sample, channel int) float32) *audiotest.MockSource {
	return audiotest.NewMockSource(sampleRate, channels, totalSamples, waveform)
}

func newSilentSource(sampleRate, channels, totalSamples int) *audiotest.MockSource {
	return audiotest.NewSilentSource(sampleRate, channels, totalSamples)
}

func newConstantSource(sampleRate, channels, totalSamples int, value float32) *audiotest.MockSource {
	return audiotest.NewConstantSource(sampleRate, channels, totalSamples, value)
}
