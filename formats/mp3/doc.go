// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams via github.com/hajimehoshi/go-mp3.
//
//	decoder := mp3.Decoder{}
//	src, err := decoder.Decode(file)
//
// Decode returns an audio.Source producing interleaved float32 samples
// in [-1.0, 1.0]. Output is always stereo at the stream's native rate;
// go-mp3 upmixes mono internally. To change the rate or channel count,
// chain the audio package stages:
//
//	resampled := audio.NewResampler(src, 48000)
//	mono := audio.NewChannelMixer(resampled, 1)
//
// When the input reader is seekable, the returned source implements
// audio.Sized with the total frame count, which playback uses for cue
// duration estimates. Encoding is not supported.
package mp3
