// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 samples in [-1, 1].
// All decoders and processing stages implement it so they can be
// chained into pipelines.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0
	// with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize reports the source's preferred read size in samples.
	BufSize() int
	// Close releases any resources.
	Close() error
}

// Sized is implemented by sources whose container knows its total
// length up front. TotalFrames is per channel, at the source's own
// sample rate.
type Sized interface {
	TotalFrames() int64
}

// Decoder constructs a Source from an input reader. Decoders for
// container formats that need random access may require r to also
// implement io.ReadSeeker.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps file extensions to decoders. Extensions are stored
// lowercase without the leading dot, so "WAV", ".wav" and "wav" all
// resolve to the same decoder.
type Registry struct {
	mtx    sync.Mutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeExt(ext)] = d
}

func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Formats returns the registered extensions. Order is unspecified.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		out = append(out, ext)
	}
	return out
}
