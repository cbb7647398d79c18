// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stagelight/cuemix/audio"
)

// encodeTestWAV builds an in-memory WAV file with the given interleaved
// 16-bit samples.
func encodeTestWAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, sampleRate, channels, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	return buf.Bytes()
}

func TestDecoder_ValidWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768}
	data := encodeTestWAV(t, 8000, 1, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}
}

func TestDecoder_StereoWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -100, 200, -200, 300, -300}
	data := encodeTestWAV(t, 44100, 2, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
}

func TestDecoder_NotWAVFile(t *testing.T) {
	t.Parallel()

	junk := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64)

	_, err := Decoder{}.Decode(bytes.NewReader(junk))
	if err == nil {
		t.Fatal("Decode() succeeded on garbage input")
	}
}

func TestDecoder_PlainReaderFallback(t *testing.T) {
	t.Parallel()

	samples := []int16{1000, 2000, 3000, 4000}
	data := encodeTestWAV(t, 8000, 1, samples)

	// Wrap in a reader that hides the Seeker to exercise the in-memory path.
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
}

func TestSource_RoundTripSamples(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 8192, -8192, 16384, -16384, 32767, -32768, 0}
	data := encodeTestWAV(t, 16000, 1, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf := make([]float32, 64)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(out) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(out), len(samples))
	}

	for i, s := range samples {
		want := float64(s) / 32768.0
		if math.Abs(float64(out[i])-want) > 1e-3 {
			t.Errorf("sample %d = %v, want ≈%v", i, out[i], want)
		}
	}
}

func TestSource_TotalFrames(t *testing.T) {
	t.Parallel()

	// 6 interleaved stereo samples = 3 frames.
	samples := []int16{1, 2, 3, 4, 5, 6}
	data := encodeTestWAV(t, 48000, 2, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	sized, ok := src.(audio.Sized)
	if !ok {
		t.Fatal("wav source does not implement audio.Sized")
	}

	if got := sized.TotalFrames(); got != 3 {
		t.Errorf("TotalFrames() = %d, want 3", got)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	data := encodeTestWAV(t, 8000, 1, []int16{1, 2, 3})

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestDecoder_VariousSampleRates(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8000, 16000, 22050, 44100, 48000} {
		data := encodeTestWAV(t, rate, 1, []int16{1, 2, 3, 4})

		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode() at %d Hz error = %v", rate, err)
		}
		if src.SampleRate() != rate {
			t.Errorf("SampleRate() = %d, want %d", src.SampleRate(), rate)
		}
		src.Close()
	}
}

func TestPCMScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		want     float32
	}{
		{8, 128},
		{16, 32768},
		{24, 8388608},
		{32, 2147483648},
		{12, 32768}, // unknown depths fall back to 16-bit scale
	}

	for _, tt := range tests {
		if got := pcmScale(tt.bitDepth); got != tt.want {
			t.Errorf("pcmScale(%d) = %v, want %v", tt.bitDepth, got, tt.want)
		}
	}
}
