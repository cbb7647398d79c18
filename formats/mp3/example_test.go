// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/stagelight/cuemix/audio"
	"github.com/stagelight/cuemix/formats/mp3"
)

// Example demonstrates basic MP3 decoding.
func Example() {
	f, err := os.Open("sample.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	decoder := mp3.Decoder{}
	src, err := decoder.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded MP3: %d Hz, %d channels\n",
		src.SampleRate(), src.Channels())
}

// ExampleDecoder_Decode_resample demonstrates rate and channel conversion.
func ExampleDecoder_Decode_resample() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	decoder := mp3.Decoder{}
	src, err := decoder.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	// Resample to 48kHz stereo for the playback engine
	resampler := audio.NewResampler(src, 48000)
	mixer := audio.NewChannelMixer(resampler, 2)

	buf := make([]float32, 1024)
	for {
		n, err := mixer.ReadSamples(buf)
		if n > 0 {
			// Process samples in buf[:n]
			_ = buf[:n]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("MP3 resampled to 48kHz stereo")
}

// ExampleDecoder_Decode_duration shows reading the stream length.
func ExampleDecoder_Decode_duration() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	if sized, ok := src.(audio.Sized); ok {
		seconds := float64(sized.TotalFrames()) / float64(src.SampleRate())
		fmt.Printf("duration: %.1fs\n", seconds)
	}
}
