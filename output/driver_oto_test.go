// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stagelight/cuemix/utils"
)

func TestOtoDriver_ClaimFormat(t *testing.T) {
	t.Parallel()

	d := NewOtoDriver()

	// First open pins the process-wide context format.
	if err := d.claimFormat(48000, 2); err != nil {
		t.Fatalf("claimFormat(first) error = %v", err)
	}

	// Reopens with the same format reuse the context.
	if err := d.claimFormat(48000, 2); err != nil {
		t.Errorf("claimFormat(same) error = %v, want nil", err)
	}

	// A different rate or channel count cannot be served.
	if err := d.claimFormat(44100, 2); !errors.Is(err, ErrFormatLocked) {
		t.Errorf("claimFormat(rate change) error = %v, want ErrFormatLocked", err)
	}
	if err := d.claimFormat(48000, 1); !errors.Is(err, ErrFormatLocked) {
		t.Errorf("claimFormat(channel change) error = %v, want ErrFormatLocked", err)
	}

	// A rejected claim leaves the pinned format intact.
	if err := d.claimFormat(48000, 2); err != nil {
		t.Errorf("claimFormat(same after reject) error = %v, want nil", err)
	}
}

func TestOtoDriver_OpenFormatLocked(t *testing.T) {
	t.Parallel()

	d := NewOtoDriver()
	d.rate, d.channels = 48000, 2

	// Open must refuse a mismatched format before touching the backend.
	cfg := StreamConfig{SampleRate: 44100, Channels: 2, BlockFrames: 512}
	if _, err := d.Open(cfg, func(dst []float32) {}); !errors.Is(err, ErrFormatLocked) {
		t.Errorf("Open() error = %v, want ErrFormatLocked", err)
	}
}

func TestRenderReader_WholeFrames(t *testing.T) {
	t.Parallel()

	r := &renderReader{
		render: func(dst []float32) {
			for i := range dst {
				dst[i] = 0.5
			}
		},
		channels: 2,
		scratch:  make([]float32, 4),
	}

	// 10 bytes hold two whole stereo s16le frames plus a remainder.
	p := make([]byte, 10)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 8 {
		t.Fatalf("Read() n = %d, want 8 (whole frames only)", n)
	}

	want := utils.Float32ToInt16(0.5)
	for i := 0; i < n; i += 2 {
		if got := int16(binary.LittleEndian.Uint16(p[i:])); got != want {
			t.Errorf("sample at %d = %d, want %d", i, got, want)
		}
	}

	// A sub-frame buffer renders nothing.
	n, err = r.Read(make([]byte, 3))
	if n != 0 || err != nil {
		t.Errorf("Read(sub-frame) = (%d, %v), want (0, nil)", n, err)
	}
}
