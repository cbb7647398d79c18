// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// session is the per-cue decode cursor. One goroutine owns the decode
// state exclusively; control arrives through the budget counter, the
// pending update slot and the stop channel.
type session struct {
	cfg     Config
	open    Opener
	out     chan<- Chunk
	permits chan struct{}
	emit    func(Event)
	logger  zerolog.Logger

	// Credited frame budget. The session never decodes ahead of it.
	budget atomic.Int64

	mu      sync.Mutex
	params  StartParams
	pending []Update

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Decode cursor, touched only by the run goroutine.
	src           Source
	decodedFrames int64
	loopCount     int64
	restartTag    bool
	scratch       []float32
}

func newSession(p StartParams, cfg Config, open Opener, out chan<- Chunk,
	permits chan struct{}, emit func(Event), logger zerolog.Logger) *session {
	return &session{
		cfg:     cfg,
		open:    open,
		out:     out,
		permits: permits,
		emit:    emit,
		logger:  logger.With().Str("cue", p.CueID).Logger(),
		params:  p,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *session) id() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.CueID
}

// snapshot returns the current parameters, for crash-restart.
func (s *session) snapshot() StartParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *session) shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *session) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *session) queueUpdate(u Update) {
	s.mu.Lock()
	s.pending = append(s.pending, u)
	s.mu.Unlock()
}

// applyPending folds queued updates into the parameters. Called once
// per production step so changes land on packet/EOF decisions only.
func (s *session) applyPending() StartParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.pending {
		if u.InFrame != nil {
			s.params.InFrame = *u.InFrame
		}
		if u.OutFrame != nil {
			s.params.OutFrame = *u.OutFrame
		}
		if u.LoopEnabled != nil {
			s.params.LoopEnabled = *u.LoopEnabled
		}
	}
	s.pending = s.pending[:0]
	return s.params
}

func (s *session) run() {
	p := s.snapshot()

	src, err := s.open(p.Path, p.SampleRate, p.Channels)
	if err != nil {
		s.reportError(p, fmt.Errorf("opening %s: %w", p.Path, err))
		return
	}
	s.src = src
	defer src.Close()

	if err := s.seekToIn(p); err != nil {
		s.reportError(p, err)
		return
	}

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		p = s.applyPending()

		if s.budget.Load() <= 0 {
			select {
			case <-s.stop:
				return
			case <-time.After(s.cfg.CreditPoll):
			}
			continue
		}

		if !s.acquirePermit() {
			continue
		}
		chunk, terminal, err := s.step(p)
		s.releasePermit()

		if err != nil {
			s.reportError(p, err)
			return
		}

		if chunk.Frames > 0 || chunk.EOF {
			select {
			case s.out <- chunk:
			case <-s.stop:
				return
			}
		}
		if terminal {
			return
		}
	}
}

// step decodes one chunk and makes the packet/EOF boundary decision.
// terminal=true means the session is done (EOF emitted or decode error).
func (s *session) step(p StartParams) (chunk Chunk, terminal bool, err error) {
	step := int64(s.cfg.MaxChunkFrames)
	if b := s.budget.Load(); b < step {
		step = b
	}

	// window is the [in,out) length; negative means unbounded.
	window := int64(-1)
	if p.OutFrame >= 0 {
		window = p.OutFrame - p.InFrame
		if window < 0 {
			window = 0
		}
		if remaining := window - s.decodedFrames; remaining < step {
			step = remaining
		}
	}

	var (
		frames  int
		srcEOF  bool
		samples []float32
	)
	if step > 0 {
		samples = make([]float32, step*int64(p.Channels))
		n, rerr := s.src.ReadFrames(samples)
		if rerr != nil && rerr != io.EOF {
			return Chunk{}, true, fmt.Errorf("decoding %s: %w", p.Path, rerr)
		}
		srcEOF = rerr == io.EOF
		frames = n
		s.decodedFrames += int64(n)
		s.budget.Add(-int64(n))
	}

	chunk = Chunk{
		CueID:       p.CueID,
		Frames:      frames,
		Samples:     samples[:frames*p.Channels],
		LoopRestart: s.restartTag,
		ProducedAt:  time.Now(),
	}
	if frames > 0 {
		s.restartTag = false
	}

	reachedOut := window >= 0 && s.decodedFrames >= window
	if !srcEOF && !reachedOut {
		return chunk, false, nil
	}

	if p.LoopEnabled {
		if err := s.seekToIn(p); err != nil {
			// A failed re-seek is a permanent EOF, not an error.
			s.logger.Warn().Err(err).Msg("loop re-seek failed, ending cue")
			chunk.EOF = true
			return chunk, true, nil
		}
		s.decodedFrames = 0
		s.loopCount++
		s.restartTag = true
		return chunk, false, nil
	}

	chunk.EOF = true
	return chunk, true, nil
}

// seekToIn positions the source at the in point. The settle window is
// decoded ahead of the in point and discarded, so warm-up artifacts
// never land inside the [in,out) window itself.
func (s *session) seekToIn(p StartParams) error {
	settle := int64(p.SampleRate) * int64(s.cfg.SettleMS) / 1000
	if settle > p.InFrame {
		settle = p.InFrame
	}

	if err := s.src.SeekFrame(p.InFrame - settle); err != nil {
		return fmt.Errorf("seeking %s to frame %d: %w", p.Path, p.InFrame, err)
	}

	if settle <= 0 {
		return nil
	}
	need := settle * int64(p.Channels)
	if int64(cap(s.scratch)) < need {
		s.scratch = make([]float32, need)
	}
	for discarded := int64(0); discarded < settle; {
		want := (settle - discarded) * int64(p.Channels)
		n, err := s.src.ReadFrames(s.scratch[:want])
		discarded += int64(n)
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return fmt.Errorf("settle discard after seek: %w", err)
		}
	}
	return nil
}

func (s *session) acquirePermit() bool {
	select {
	case s.permits <- struct{}{}:
		return true
	case <-s.stop:
		return false
	case <-time.After(s.cfg.PermitWait):
		// Oversubscribed; back off and retry on the next pass.
		return false
	}
}

func (s *session) releasePermit() {
	<-s.permits
}

func (s *session) reportError(p StartParams, err error) {
	s.logger.Error().Err(err).Str("path", p.Path).Msg("decode session failed")
	s.emit(ErrorEvent{CueID: p.CueID, Path: p.Path, Err: err})
}
