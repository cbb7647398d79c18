// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrInvalidDstSize,
		ErrInvalidChannels,
		ErrUnknownFormat,
		ErrReaderMustSeek,
		ErrNoAudioStream,
	}

	for _, sentinel := range sentinels {
		if sentinel == nil || sentinel.Error() == "" {
			t.Fatalf("sentinel %v has no message", sentinel)
		}
		wrapped := fmt.Errorf("decode pipeline: %w", sentinel)
		if !errors.Is(wrapped, sentinel) {
			t.Errorf("errors.Is failed through wrapping for %v", sentinel)
		}
	}

	// Sentinels must stay distinct so callers can branch on them.
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels %v and %v compare equal", a, b)
			}
		}
	}
}
