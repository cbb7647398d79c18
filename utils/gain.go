// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBToLinear converts a decibel gain value to a linear multiplier.
// 0 dB is unity gain. Values at or below SilenceDB collapse to 0 so
// that "fully faded" really is silence and not a denormal residue.
func DBToLinear(db float64) float32 {
	if db <= SilenceDB {
		return 0
	}
	return float32(math.Pow(10, db/20))
}

// LinearToDB converts a linear gain multiplier to decibels.
// Zero or negative gain maps to SilenceDB.
func LinearToDB(gain float32) float64 {
	if gain <= 0 {
		return SilenceDB
	}
	return 20 * math.Log10(float64(gain))
}

// SilenceDB is the floor below which a decibel gain is treated as silence.
const SilenceDB = -96.0
