// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"
	"io"

	"github.com/stagelight/cuemix/formats/wav"
)

// Example_decoding demonstrates decoding a WAV file.
func Example_decoding() {
	// Build a small WAV file in memory
	samples := []int16{0, 8192, -8192, 16384}
	buf := new(bytes.Buffer)
	if err := wav.WriteWAV16(buf, 8000, 1, samples); err != nil {
		panic(err)
	}

	// Decode it back
	src, err := wav.Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		panic(err)
	}
	defer src.Close()

	fmt.Printf("rate=%d channels=%d\n", src.SampleRate(), src.Channels())

	out := make([]float32, 16)
	total := 0
	for {
		n, err := src.ReadSamples(out)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
	}
	fmt.Printf("decoded %d samples\n", total)

	// Output:
	// rate=8000 channels=1
	// decoded 4 samples
}

// Example_encoding demonstrates writing stereo PCM as a WAV file.
func Example_encoding() {
	// Interleaved stereo: L R L R
	samples := []int16{1000, -1000, 2000, -2000}

	buf := new(bytes.Buffer)
	if err := wav.WriteWAV16(buf, 48000, 2, samples); err != nil {
		panic(err)
	}

	fmt.Printf("wav size: %d bytes\n", buf.Len())

	// Output:
	// wav size: 52 bytes
}
