// SPDX-License-Identifier: EPL-2.0

package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stagelight/cuemix/audio"
	"github.com/stagelight/cuemix/formats/aiff"
	"github.com/stagelight/cuemix/formats/mp3"
	"github.com/stagelight/cuemix/formats/vorbis"
	"github.com/stagelight/cuemix/formats/wav"
)

// defaultRegistry maps the extensions of all built-in formats.
var defaultRegistry = NewRegistry()

// NewRegistry returns an audio.Registry with every built-in decoder
// registered under its usual extensions.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	return r
}

// Formats returns the file extensions the default registry can decode.
func Formats() []string {
	return defaultRegistry.Formats()
}

// Stream is a seekable, frame-addressed PCM stream at a fixed target
// sample rate and channel count. It owns the file handle and the
// decode/resample/channel-mix pipeline built on top of it.
//
// A Stream is not safe for concurrent use; each decoder session owns
// its stream exclusively.
type Stream struct {
	path     string
	rate     int
	channels int

	file *os.File
	top  audio.Source

	srcRate  int
	srcTotal int64 // total frames at srcRate, -1 when unknown

	pos     int64 // frames consumed at the target rate
	scratch []float32
}

// Open decodes path and returns a Stream delivering interleaved float32
// frames at targetRate/targetChannels. The decoder is picked from the
// default registry by file extension.
func Open(path string, targetRate, targetChannels int) (*Stream, error) {
	if targetRate <= 0 || targetChannels <= 0 {
		return nil, ErrInvalidTarget
	}

	s := &Stream{
		path:     path,
		rate:     targetRate,
		channels: targetChannels,
		srcTotal: -1,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// open builds (or rebuilds) the full pipeline from scratch. Used by
// Open and by SeekFrame's reopen path.
func (s *Stream) open() error {
	dec, ok := defaultRegistry.Get(filepath.Ext(s.path))
	if !ok {
		return fmt.Errorf("%w: %q", audio.ErrUnknownFormat, filepath.Ext(s.path))
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decoding %s: %w", s.path, err)
	}

	s.srcRate = src.SampleRate()
	// Zero from a Sized source means the header carried no usable
	// length, so keep it "unknown".
	if sized, ok := src.(audio.Sized); ok && sized.TotalFrames() > 0 {
		s.srcTotal = sized.TotalFrames()
	}

	top := src
	if top.SampleRate() != s.rate {
		top = audio.NewResampler(top, s.rate)
	}
	if top.Channels() != s.channels {
		top = audio.NewChannelMixer(top, s.channels)
	}

	s.file = f
	s.top = top
	s.pos = 0
	return nil
}

// SampleRate reports the target rate frames are delivered at.
func (s *Stream) SampleRate() int { return s.rate }

// Channels reports the target channel count.
func (s *Stream) Channels() int { return s.channels }

// Position reports the number of frames consumed since the last seek,
// in the target rate domain.
func (s *Stream) Position() int64 { return s.pos }

// TotalFrames reports the stream length in frames at the target rate.
// The second return is false when the container does not know its
// length up front.
func (s *Stream) TotalFrames() (int64, bool) {
	if s.srcTotal < 0 || s.srcRate <= 0 {
		return 0, false
	}
	if s.srcRate == s.rate {
		return s.srcTotal, true
	}
	return s.srcTotal * int64(s.rate) / int64(s.srcRate), true
}

// ReadFrames fills dst with interleaved frames and returns how many
// complete frames were written. len(dst) must be a multiple of the
// channel count. Returns io.EOF when the stream is exhausted.
func (s *Stream) ReadFrames(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n, err := s.top.ReadSamples(dst)
	frames := n / s.channels
	s.pos += int64(frames)
	return frames, err
}

// SeekFrame positions the stream at the given frame offset in the
// target rate domain. The pure-Go decoders have no native sample seek,
// so the pipeline is reopened from the start and frames are skipped
// exactly.
func (s *Stream) SeekFrame(frame int64) error {
	if frame < 0 {
		return ErrInvalidSeek
	}

	if err := s.closePipeline(); err != nil {
		return fmt.Errorf("seek reopen: %w", err)
	}
	if err := s.open(); err != nil {
		return fmt.Errorf("seek reopen: %w", err)
	}

	if s.scratch == nil {
		s.scratch = make([]float32, 4096*s.channels)
	}

	remaining := frame
	for remaining > 0 {
		want := int64(len(s.scratch) / s.channels)
		if want > remaining {
			want = remaining
		}
		n, err := s.top.ReadSamples(s.scratch[:want*int64(s.channels)])
		frames := n / s.channels
		remaining -= int64(frames)
		s.pos += int64(frames)
		if err == io.EOF {
			// Seek target beyond the end: the stream sits at EOF.
			return nil
		}
		if err != nil {
			return fmt.Errorf("seek skip: %w", err)
		}
		if frames == 0 {
			return nil
		}
	}
	return nil
}

func (s *Stream) closePipeline() error {
	var first error
	if s.top != nil {
		if err := s.top.Close(); err != nil && first == nil {
			first = err
		}
		s.top = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && first == nil {
			first = err
		}
		s.file = nil
	}
	return first
}

// Close releases the pipeline and the underlying file.
func (s *Stream) Close() error {
	return s.closePipeline()
}
