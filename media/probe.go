// SPDX-License-Identifier: EPL-2.0

package media

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stagelight/cuemix/audio"
)

// Info describes a media file without decoding its audio. All fields
// are in the file's own domain, not a playback target's.
type Info struct {
	Path        string
	SampleRate  int
	Channels    int
	TotalFrames int64 // valid only when HasTotal
	HasTotal    bool
	Duration    time.Duration // zero when HasTotal is false
}

// Probe opens path just long enough to read its header metadata.
// Duration is best-effort: containers that do not announce their
// length (streaming mp3 without a known size, for example) report
// HasTotal=false.
func Probe(path string) (Info, error) {
	dec, ok := defaultRegistry.Get(filepath.Ext(path))
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", audio.ErrUnknownFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", path, err)
	}
	defer src.Close()

	info := Info{
		Path:       path,
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}
	if sized, ok := src.(audio.Sized); ok && sized.TotalFrames() > 0 {
		info.TotalFrames = sized.TotalFrames()
		info.HasTotal = true
		if info.SampleRate > 0 {
			info.Duration = time.Duration(info.TotalFrames) * time.Second / time.Duration(info.SampleRate)
		}
	}
	return info, nil
}
