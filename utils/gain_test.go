// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestDBToLinear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		db   float64
		want float32
	}{
		{"unity", 0, 1.0},
		{"plus six", 6.0206, 2.0},
		{"minus six", -6.0206, 0.5},
		{"minus twenty", -20, 0.1},
		{"silence floor", SilenceDB, 0},
		{"below floor", -120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DBToLinear(tt.db)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("DBToLinear(%v) = %v, want %v", tt.db, got, tt.want)
			}
		})
	}
}

func TestLinearToDB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gain float32
		want float64
	}{
		{"unity", 1.0, 0},
		{"half", 0.5, -6.0206},
		{"tenth", 0.1, -20},
		{"zero", 0, SilenceDB},
		{"negative", -0.5, SilenceDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LinearToDB(tt.gain)
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("LinearToDB(%v) = %v, want %v", tt.gain, got, tt.want)
			}
		})
	}
}

func TestGainRoundTrip(t *testing.T) {
	t.Parallel()

	for _, db := range []float64{-40, -12, -3, 0, 3, 12} {
		back := LinearToDB(DBToLinear(db))
		if math.Abs(back-db) > 1e-3 {
			t.Errorf("round trip %v dB came back as %v", db, back)
		}
	}
}
