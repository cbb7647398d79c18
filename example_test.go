// SPDX-License-Identifier: EPL-2.0

package cuemix_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/stagelight/cuemix"
	"github.com/stagelight/cuemix/output"
)

// Example shows the minimal play-and-wait flow against the manual
// driver (offline rendering; a real application uses the oto or malgo
// driver instead).
func Example() {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)

	engine, err := cuemix.New(cuemix.DefaultConfig(), output.NewManualDriver(), logger)
	if err != nil {
		fmt.Println("engine:", err)
		return
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go engine.Run(ctx)

	err = engine.Play(cuemix.PlayCommand{
		CueID:    "intro",
		FilePath: "does-not-exist.wav",
		OutFrame: -1,
	})
	if err != nil {
		fmt.Println("play:", err)
		return
	}

	for {
		select {
		case ev := <-engine.Events():
			if fin, ok := ev.(cuemix.CueFinished); ok {
				fmt.Println("finished:", fin.Reason)
				return
			}
		case <-ctx.Done():
			fmt.Println("timed out")
			return
		}
	}

	// Output: finished: decode_error
}

// ExampleEngine_Fade fades a cue to -12 dB over two seconds.
func ExampleEngine_Fade() {
	var engine *cuemix.Engine

	engine.Fade("intro", -12, 2000, output.CurveEqualPower)
}
