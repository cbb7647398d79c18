// SPDX-License-Identifier: EPL-2.0

// Package cuemix is a multi-track audio cue playback engine.
//
// A cue is one file (or a frame window of one file) playing under its
// own gain, fade and loop settings. Any number of cues play at once;
// the engine decodes each one on its own goroutine, buffers decoded
// PCM in per-cue rings and mixes the rings inside the hardware render
// callback.
//
// # Quick Start
//
//	logger := zerolog.New(os.Stderr)
//	engine, err := cuemix.New(cuemix.DefaultConfig(), output.NewOtoDriver(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	go engine.Run(ctx)
//
//	engine.Play(cuemix.PlayCommand{
//	    CueID:    "intro",
//	    FilePath: "intro.wav",
//	    OutFrame: -1,
//	})
//
//	for ev := range engine.Events() {
//	    if fin, ok := ev.(cuemix.CueFinished); ok {
//	        fmt.Println("done:", fin.Reason)
//	    }
//	}
//
// # Commands
//
// Play, Stop, Fade and Update control individual cues; the Set*
// methods control engine-wide behavior (loop override, auto-fade on
// new cues, output device and format, transition fades). Transport*
// methods pause, resume or clear playback as a whole. All commands
// return quickly and never wait for audio progress.
//
// # Events
//
// Everything the engine reports flows out of Events as one closed set
// of types: cue lifecycle (CueStarted, CueFinished, DecodeError),
// telemetry (CueLevels, MasterLevels, CueTime) and output changes
// (DeviceChanged, DeviceListChanged, OutputConfigChanged). Telemetry
// is dropped, never blocked on, when the consumer falls behind.
//
// # Subpackages
//
// The decode package runs per-cue decoder sessions under a credit
// budget; output owns the rings, fades, mixer and hardware drivers;
// media converts any supported file (WAV, MP3, Ogg Vorbis, AIFF) to
// the engine's output format; audio and formats hold the low-level
// decoding primitives.
package cuemix
