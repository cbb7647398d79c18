package wav

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Uniqueness(t *testing.T) {
	t.Parallel()

	all := []error{ErrNotWavFile, ErrUnsupportedWavLayout, ErrUnsupportedBitDepth}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors %v and %v compare equal", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("decoding cue source: %w", ErrNotWavFile)
	if !errors.Is(wrapped, ErrNotWavFile) {
		t.Error("errors.Is() failed for wrapped ErrNotWavFile")
	}
}
