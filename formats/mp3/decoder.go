// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/stagelight/cuemix/audio"
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec         mp3Reader
	sampleRate  int
	channels    int
	totalFrames int64
	buf         []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // sample capacity, not bytes

// TotalFrames is derived from go-mp3's decoded stream length. Zero when
// the stream length is unknown (non-seekable input).
func (s *source) TotalFrames() int64 { return s.totalFrames }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// go-mp3 yields 16-bit little-endian stereo PCM, 2 bytes per sample.
	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	samples := n / 2
	for i := range samples {
		low := uint16(s.buf[2*i])
		high := uint16(s.buf[2*i+1])
		val := int16(low | (high << 8))
		dst[i] = float32(val) / 32768.0
	}

	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	// Length is in bytes of decoded PCM: 2 channels x 2 bytes per sample.
	var totalFrames int64
	if l := dec.Length(); l > 0 {
		totalFrames = l / 4
	}

	// go-mp3 always outputs 2 channels
	return &source{
		dec:         dec,
		sampleRate:  dec.SampleRate(),
		channels:    2,
		totalFrames: totalFrames,
		buf:         make([]byte, 8192),
	}, nil
}
