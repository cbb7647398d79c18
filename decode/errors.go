// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	// ErrCoordinatorClosed means Start was called after Close.
	ErrCoordinatorClosed = errors.New("decode: coordinator closed")
)
