// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts a source's channel count to a fixed target
// count. Downmixing averages the source channels into each output
// channel group; upmixing from mono duplicates the single channel;
// other upmixes copy matching channels and zero-fill the remainder.
type ChannelMixer struct {
	src    Source
	target int
	tmp    []float32
}

func NewChannelMixer(src Source, targetChannels int) *ChannelMixer {
	return &ChannelMixer{
		src:    src,
		target: targetChannels,
		tmp:    make([]float32, 4096),
	}
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.target }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("channel mixer close: %w", err)
	}
	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.target != 0 {
		return 0, ErrInvalidDstSize
	}

	srcCh := m.src.Channels()
	if srcCh == m.target {
		return m.src.ReadSamples(dst)
	}

	maxFrames := len(dst) / m.target
	samplesNeeded := maxFrames * srcCh

	// Grow tmp if needed, never shrink.
	if cap(m.tmp) < samplesNeeded {
		newCap := samplesNeeded
		if newCap < 8192 {
			newCap = 8192
		}
		m.tmp = make([]float32, newCap)
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / srcCh

	switch {
	case srcCh == 1:
		// Mono fan-out: every output channel gets the same sample.
		for f := range frames {
			v := m.tmp[f]
			base := f * m.target
			for c := range m.target {
				dst[base+c] = v
			}
		}
	case m.target == 1:
		// Downmix to mono by averaging.
		inv := float32(1.0) / float32(srcCh)
		switch srcCh {
		case 2:
			for f := range frames {
				idx := f << 1
				dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
			}
		default:
			for f := range frames {
				sum := float32(0)
				base := f * srcCh
				for c := range srcCh {
					sum += m.tmp[base+c]
				}
				dst[f] = sum * inv
			}
		}
	case srcCh > m.target:
		// Fold surplus channels into the available ones round-robin,
		// then normalize by the fold count per output channel.
		fold := (srcCh + m.target - 1) / m.target
		inv := float32(1.0) / float32(fold)
		for f := range frames {
			srcBase := f * srcCh
			dstBase := f * m.target
			for c := range m.target {
				dst[dstBase+c] = 0
			}
			for c := range srcCh {
				dst[dstBase+c%m.target] += m.tmp[srcBase+c]
			}
			for c := range m.target {
				dst[dstBase+c] *= inv
			}
		}
	default:
		// Upmix from multichannel: copy what exists, zero the rest.
		for f := range frames {
			srcBase := f * srcCh
			dstBase := f * m.target
			for c := range m.target {
				if c < srcCh {
					dst[dstBase+c] = m.tmp[srcBase+c]
				} else {
					dst[dstBase+c] = 0
				}
			}
		}
	}

	return frames * m.target, err
}
