package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/stagelight/cuemix/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec         oggReader
	sampleRate  int
	channels    int
	totalFrames int64
	frameBuf    []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.frameBuf) }

// TotalFrames comes from the ogg stream's granule position and is only
// known for seekable inputs; zero means unknown.
func (s *source) TotalFrames() int64 { return s.totalFrames }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// Request whole frames only so interleaving stays aligned.
	samplesRequested := (len(dst) / s.channels) * s.channels
	if samplesRequested == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	if cap(s.frameBuf) < samplesRequested {
		s.frameBuf = make([]float32, samplesRequested)
	}
	s.frameBuf = s.frameBuf[:samplesRequested]

	// oggvorbis reports the number of float32 values filled.
	n, err := s.dec.Read(s.frameBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	copy(dst, s.frameBuf[:n])
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening ogg vorbis stream: %w", err)
	}

	return &source{
		dec:         dec,
		sampleRate:  dec.SampleRate(),
		channels:    dec.Channels(),
		totalFrames: dec.Length(),
		frameBuf:    make([]float32, 4096),
	}, nil
}
