// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is built on github.com/go-audio/wav and supports PCM at
// 8/16/24/32-bit depth with any channel count and sample rate. Encoding
// writes canonical 16-bit PCM files.
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//
// The decoder returns an audio.Source producing float32 samples in
// [-1.0, 1.0]. When the container header carries a usable data length,
// the source also implements audio.Sized, which playback uses for
// duration estimates.
//
// # Writing WAV Files
//
// Use WriteWAV16 to create WAV files from interleaved 16-bit PCM:
//
//	err := wav.WriteWAV16(file, 48000, 2, samples)
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a valid WAV file
//   - ErrUnsupportedBitDepth: bit depth outside 8/16/24/32
//   - ErrUnsupportedWavLayout: malformed format chunk or sample layout
package wav
