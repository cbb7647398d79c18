// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams via
// github.com/jfreymuth/oggvorbis.
//
//	decoder := vorbis.Decoder{}
//	src, err := decoder.Decode(file)
//
// Decode returns an audio.Source yielding interleaved float32 samples
// in [-1.0, 1.0] at the channel count and sample rate encoded in the
// stream. ReadSamples requests must cover at least one whole frame.
//
// For seekable inputs the source implements audio.Sized via the ogg
// stream's final granule position; non-seekable inputs report zero.
// Encoding is not supported.
package vorbis
