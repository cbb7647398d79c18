// SPDX-License-Identifier: EPL-2.0

package cuemix

import "errors"

var (
	// ErrEngineClosed is returned by commands issued after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrInvalidCommand marks a command with missing or out-of-range
	// fields.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrNoStream is returned by transport commands when no output
	// stream could be opened.
	ErrNoStream = errors.New("no output stream")
)
