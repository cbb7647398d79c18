// SPDX-License-Identifier: EPL-2.0

// Package media is the decode capability boundary: it turns a file path
// into a seekable, frame-addressed PCM stream at a caller-chosen sample
// rate and channel count.
//
// Open picks a decoder from the built-in registry by file extension and
// stacks the audio package's Resampler and ChannelMixer on top of it, so
// every Stream delivers the same normalized format regardless of what is
// on disk:
//
//	stream, err := media.Open("intro.ogg", 48000, 2)
//	if err != nil {
//	    // Handle error
//	}
//	defer stream.Close()
//
//	buf := make([]float32, 1024*stream.Channels())
//	frames, err := stream.ReadFrames(buf)
//
// SeekFrame reopens the pipeline and skips frames exactly, because the
// pure-Go decoders expose no native sample seek. Seeking is therefore
// cheap near the start of a file and linear in the seek target.
//
// Probe reads just the header metadata (rate, channels, best-effort
// duration) without decoding the audio.
package media
