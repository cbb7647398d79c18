// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a [-1, 1] sample to signed 16-bit PCM.
// Out-of-range input is clamped first; the symmetric 32767 scale keeps
// +1.0 from overflowing.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32767
	}
	return int16(x * 32767)
}
