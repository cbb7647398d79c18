// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// Decoding is built on github.com/go-audio/aiff and accepts PCM at
// 8/16/24/32-bit depth with any channel count and sample rate. AIFF-C
// compressed variants are rejected, as is encoding; the package reads
// only.
//
//	decoder := aiff.Decoder{}
//	src, err := decoder.Decode(file)
//
// Decode returns an audio.Source yielding interleaved float32 samples
// in [-1.0, 1.0]. The source also implements audio.Sized: the COMM
// chunk carries the total frame count, so TotalFrames is available
// without scanning the sound data.
//
// Unlike WAV, AIFF stores its payload big-endian and its sample rate
// as an 80-bit extended float. go-audio normalizes both, so callers
// see the same Source behavior as with the wav package.
//
// Failures map to the package sentinels: ErrNotAiffFile for invalid
// input, ErrUnsupportedBitDepth for depths other than 8/16/24/32, and
// ErrUnsupportedAiffLayout for chunk layouts the reader cannot walk.
package aiff
