package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	samples := []int16{100, 200, 300, 400}
	buf := new(bytes.Buffer)

	if err := WriteWAV16(buf, 44100, 2, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	data := buf.Bytes()
	if len(data) < 44 {
		t.Fatalf("WAV output too small: %d bytes", len(data))
	}

	for _, m := range []struct {
		off  int
		want string
	}{
		{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"},
	} {
		if got := string(data[m.off : m.off+4]); got != m.want {
			t.Errorf("marker at %d = %q, want %q", m.off, got, m.want)
		}
	}

	fields := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(data[4:8]), uint32(36 + len(samples)*2)},
		{"fmt chunk size", binary.LittleEndian.Uint32(data[16:20]), 16},
		{"audio format", uint32(binary.LittleEndian.Uint16(data[20:22])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(data[22:24])), 2},
		{"sample rate", binary.LittleEndian.Uint32(data[24:28]), 44100},
		{"byte rate", binary.LittleEndian.Uint32(data[28:32]), 44100 * 2 * 2},
		{"block align", uint32(binary.LittleEndian.Uint16(data[32:34])), 4},
		{"bits per sample", uint32(binary.LittleEndian.Uint16(data[34:36])), 16},
		{"data size", binary.LittleEndian.Uint32(data[40:44]), uint32(len(samples) * 2)},
	}
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %d, want %d", f.name, f.got, f.want)
		}
	}
}

func TestWriteWAV16_SampleData(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -200, 300, -400}
	buf := new(bytes.Buffer)

	if err := WriteWAV16(buf, 8000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	// Payload follows the 44-byte header, little-endian int16.
	data := buf.Bytes()
	for i, want := range samples {
		off := 44 + i*2
		if got := int16(binary.LittleEndian.Uint16(data[off:])); got != want {
			t.Errorf("sample[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestWriteWAV16_EmptySamples(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 1, nil); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	if buf.Len() != 44 {
		t.Errorf("WAV file size = %d, want 44 (header only)", buf.Len())
	}
}

func TestWriteWAV16_InvalidLayout(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)

	// 3 samples cannot be stereo frames
	if err := WriteWAV16(buf, 8000, 2, []int16{1, 2, 3}); err != ErrUnsupportedWavLayout {
		t.Errorf("WriteWAV16() error = %v, want ErrUnsupportedWavLayout", err)
	}

	if err := WriteWAV16(buf, 8000, 0, []int16{1, 2}); err != ErrUnsupportedWavLayout {
		t.Errorf("WriteWAV16() error = %v, want ErrUnsupportedWavLayout", err)
	}
}

func TestWriteWAV16_LargeFile(t *testing.T) {
	t.Parallel()

	// Larger than one conversion chunk to exercise chunked writes
	samples := make([]int16, 3*8192+17)
	for i := range samples {
		samples[i] = int16(i % 32768)
	}

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 48000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	want := 44 + len(samples)*2
	if buf.Len() != want {
		t.Errorf("WAV file size = %d, want %d", buf.Len(), want)
	}

	// Spot-check a sample past the first chunk boundary.
	data := buf.Bytes()
	idx := 8192 + 5
	if got := int16(binary.LittleEndian.Uint16(data[44+idx*2:])); got != int16(idx%32768) {
		t.Errorf("sample[%d] = %d, want %d", idx, got, idx%32768)
	}
}
