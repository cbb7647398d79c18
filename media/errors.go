// SPDX-License-Identifier: EPL-2.0

package media

import "errors"

var (
	// ErrInvalidTarget means Open was given a non-positive sample rate
	// or channel count.
	ErrInvalidTarget = errors.New("media: invalid target rate or channel count")

	// ErrInvalidSeek means SeekFrame was given a negative frame offset.
	ErrInvalidSeek = errors.New("media: invalid seek offset")
)
