// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"testing"
)

// mockOggVorbisReader simulates the oggvorbis.Reader for testing.
// Read fills whole values (samples), mirroring the library contract.
type mockOggVorbisReader struct {
	sampleRate   int
	channels     int
	samples      []float32
	offset       int
	returnErrors bool
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf, m.samples[m.offset:])
	m.offset += n

	if m.offset >= len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	// Invalid Ogg Vorbis data
	invalidData := []byte("This is not Ogg Vorbis data")

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader(invalidData))

	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	decoder := Decoder{}
	_, err := decoder.Decode(bytes.NewReader([]byte{}))

	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 44100,
			channels:   2,
			samples:    make([]float32, 100),
		},
		sampleRate: 44100,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}

	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}

	if src.BufSize() <= 0 {
		t.Errorf("BufSize() = %d, want positive value", src.BufSize())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	testSamples := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 8000,
			channels:   2,
			samples:    testSamples,
		},
		sampleRate: 8000,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 8 {
		t.Errorf("ReadSamples() n = %d, want 8", n)
	}

	for i := range n {
		if dst[i] != testSamples[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], testSamples[i])
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 8000,
			channels:   2,
			samples:    []float32{0.1, 0.2},
		},
		sampleRate: 8000,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	testSamples := []float32{0.1, 0.2, 0.3, 0.4}

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 8000,
			channels:   2,
			samples:    testSamples,
		},
		sampleRate: 8000,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	dst := make([]float32, 64)
	total := 0
	for {
		n, err := src.ReadSamples(dst)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if n == 0 {
			t.Fatal("ReadSamples() made no progress without error")
		}
	}

	if total != len(testSamples) {
		t.Errorf("total samples = %d, want %d", total, len(testSamples))
	}
}

func TestSource_ReadSamples_PartialRead(t *testing.T) {
	t.Parallel()

	// 3 stereo frames available, ask for 2 frames at a time
	testSamples := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 8000,
			channels:   2,
			samples:    testSamples,
		},
		sampleRate: 8000,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("first read n = %d, want 4", n)
	}

	n, err = src.ReadSamples(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("second read n = %d, want 2", n)
	}
}

func TestSource_ReadSamples_OddDstSize(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate: 8000,
			channels:   2,
			samples:    []float32{0.1, 0.2},
		},
		sampleRate: 8000,
		channels:   2,
		frameBuf:   make([]float32, 4096),
	}

	// Requests smaller than one frame cannot be served.
	dst := make([]float32, 1)
	if _, err := src.ReadSamples(dst); err == nil {
		t.Error("ReadSamples() with sub-frame dst succeeded, want error")
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := &source{
		dec: &mockOggVorbisReader{
			sampleRate:   8000,
			channels:     1,
			samples:      []float32{0.1},
			returnErrors: true,
		},
		sampleRate: 8000,
		channels:   1,
		frameBuf:   make([]float32, 4096),
	}

	dst := make([]float32, 4)
	if _, err := src.ReadSamples(dst); err != io.ErrUnexpectedEOF {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &mockOggVorbisReader{sampleRate: 8000, channels: 1},
		sampleRate: 8000,
		channels:   1,
		frameBuf:   make([]float32, 16),
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
