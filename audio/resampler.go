// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/stagelight/cuemix/utils"
)

// winFrames is the interpolation window: one frame behind the read
// position and two ahead, as cubic interpolation needs.
const winFrames = 4

// Resampler converts src to a target sample rate by Catmull-Rom cubic
// interpolation over a sliding four-frame window. Channel count is
// preserved; samples stay interleaved. When downsampling, a one-pole
// low-pass smooths the input before interpolation to knock down the
// worst aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	channels int

	// step is source frames advanced per output frame; frac is the
	// fractional position between window frames 1 and 2.
	step float64
	frac float64

	// win holds winFrames interleaved frames; valid counts how many of
	// the trailing frames hold real data (the window is primed lazily
	// on the first read).
	win    []float32
	valid  int
	primed bool
	eof    bool

	readBuf []float32

	// lowpass state, one accumulator per channel; alpha 0 disables it.
	lpState []float32
	lpAlpha float32
}

// NewResampler wraps src so it reads at dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: channels,
		step:     step,
		win:      make([]float32, winFrames*channels),
		readBuf:  make([]float32, channels),
		lpState:  make([]float32, channels),
	}
	if step > 1 {
		r.lpAlpha = 0.5
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// frame returns the window frame at index i, substituting the nearest
// valid frame when the window is not fully populated at the edges.
func (r *Resampler) frame(i int) []float32 {
	if i >= r.valid {
		i = r.valid - 1
	}
	if i < 0 {
		i = 0
	}
	return r.win[i*r.channels : (i+1)*r.channels]
}

// readFrame pulls one source frame into dst, applying the low-pass
// when active. Returns false on EOF.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	n, err := r.src.ReadSamples(r.readBuf)
	if n > 0 {
		copy(dst, r.readBuf[:n])
		if r.lpAlpha > 0 {
			for c := 0; c < r.channels; c++ {
				dst[c] = r.lpAlpha*dst[c] + (1-r.lpAlpha)*r.lpState[c]
				r.lpState[c] = dst[c]
			}
		}
	}
	if err == io.EOF {
		r.eof = true
		return n > 0, nil
	}
	if err != nil {
		return n > 0, fmt.Errorf("read resampler source: %w", err)
	}
	return n > 0, nil
}

// prime fills the initial window. The low-pass state starts at the
// first sample so the filter has no warm-up transient.
func (r *Resampler) prime() error {
	for i := 0; i < winFrames && !r.eof; i++ {
		dst := r.win[i*r.channels : (i+1)*r.channels]
		if i == 0 && r.lpAlpha > 0 {
			n, err := r.src.ReadSamples(r.readBuf)
			if n > 0 {
				copy(r.lpState, r.readBuf[:n])
				copy(dst, r.readBuf[:n])
				r.valid++
			}
			if err == io.EOF {
				r.eof = true
			} else if err != nil {
				return fmt.Errorf("read resampler source: %w", err)
			}
			continue
		}
		ok, err := r.readFrame(dst)
		if err != nil {
			return err
		}
		if ok {
			r.valid++
		}
	}
	r.primed = true
	return nil
}

// advance shifts the window one frame left and appends the next source
// frame. io.EOF is returned once no frame ahead of the read position
// remains.
func (r *Resampler) advance() error {
	copy(r.win, r.win[r.channels:])
	if r.valid > 0 {
		r.valid--
	}

	if !r.eof {
		ok, err := r.readFrame(r.win[(winFrames-1)*r.channels:])
		if err != nil {
			return err
		}
		if ok {
			if r.valid < winFrames {
				r.valid++
			} else {
				r.valid = winFrames
			}
			return nil
		}
	}
	// Interpolation needs frames 1 and 2; the shift consumed one, so
	// fewer than two valid frames means the stream is spent.
	if r.valid < 2 {
		return io.EOF
	}
	return nil
}

// ReadSamples fills dst with interleaved samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
		if r.valid == 0 {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.frac >= 1 {
			r.frac--
			if err := r.advance(); err != nil {
				if err == io.EOF && written > 0 {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}
		if r.valid < 2 {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		y0 := r.frame(0)
		y1 := r.frame(1)
		y2 := r.frame(2)
		y3 := r.frame(3)
		x := float32(r.frac)
		out := dst[written*r.channels:]
		for c := 0; c < r.channels; c++ {
			out[c] = utils.CubicInterpolate(y0[c], y1[c], y2[c], y3[c], x)
		}

		written++
		r.frac += r.step
	}
	return written * r.channels, nil
}
