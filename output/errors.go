// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	// ErrInvalidStreamConfig means a non-positive rate, channel count
	// or block size was passed to Driver.Open.
	ErrInvalidStreamConfig = errors.New("output: invalid stream config")

	// ErrUnknownDevice means StreamConfig.DeviceID did not match any
	// enumerated output device.
	ErrUnknownDevice = errors.New("output: unknown device")

	// ErrStreamClosed means the stream was used after Close.
	ErrStreamClosed = errors.New("output: stream closed")

	// ErrFormatLocked means a backend whose process-wide context is
	// pinned to one sample format was asked to open a different one.
	ErrFormatLocked = errors.New("output: format locked by an earlier stream open")
)
