// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0, 0},
		{"full scale positive", 1, 32767},
		{"full scale negative", -1, -32767},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16383},
		{"clamped above", 2.5, 32767},
		{"clamped below", -2.5, -32767},
		{"quarter positive", 0.25, 8191},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Float32ToInt16(tt.in); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1.5)
	for x := float32(-1.5); x <= 1.5; x += 0.01 {
		got := Float32ToInt16(x)
		if got < prev {
			t.Fatalf("Float32ToInt16(%v) = %d, below previous %d", x, got, prev)
		}
		prev = got
	}
}

func TestFloat32ToInt16_Symmetry(t *testing.T) {
	t.Parallel()

	for _, x := range []float32{0.1, 0.25, 0.5, 0.75, 1} {
		pos := Float32ToInt16(x)
		neg := Float32ToInt16(-x)
		if pos != -neg {
			t.Errorf("asymmetric conversion: %v -> %d, -%v -> %d", x, pos, x, neg)
		}
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	samples := make([]float32, 4096)
	for i := range samples {
		samples[i] = float32(i%200)/100 - 1
	}
	b.ReportAllocs()
	for b.Loop() {
		for _, s := range samples {
			_ = Float32ToInt16(s)
		}
	}
}
