// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/stagelight/cuemix/audio"
)

// wavReader is the subset of gowav.Decoder we use, extracted so tests
// can substitute a fake.
type wavReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec         wavReader
	sampleRate  int
	channels    int
	bitDepth    int
	totalFrames int64
	intBuf      *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

// TotalFrames reports the PCM length from the data chunk header, per
// channel. Zero means the header did not carry a usable length.
func (s *source) TotalFrames() int64 { return s.totalFrames }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	maxVal := pcmScale(s.bitDepth)
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / maxVal
	}

	// A short fill without an error means the data chunk is drained.
	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

// pcmScale returns the normalization divisor for a signed PCM bit depth.
func pcmScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedWavLayout
	}

	// Position at the data chunk so PCMLen reflects the real payload.
	var totalFrames int64
	if err := dec.FwdToPCM(); err == nil {
		bytesPerFrame := int64(format.NumChannels) * int64(dec.BitDepth/8)
		if bytesPerFrame > 0 {
			totalFrames = dec.PCMLen() / bytesPerFrame
		}
	}

	return &source{
		dec:         dec,
		sampleRate:  format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    int(dec.BitDepth),
		totalFrames: totalFrames,
	}, nil
}
