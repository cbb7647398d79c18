// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Coordinator owns one decoder session per active cue. It routes
// start/stop/update/credit to the matching session, bounds concurrent
// decode work with a permit pool, and restarts crashed sessions from
// their last-known parameters.
type Coordinator struct {
	cfg     Config
	open    Opener
	permits chan struct{}
	chunks  chan Chunk
	events  chan Event
	logger  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

func NewCoordinator(open Opener, cfg Config, logger zerolog.Logger) *Coordinator {
	cfg = cfg.withDefaults()
	return &Coordinator{
		cfg:      cfg,
		open:     open,
		permits:  make(chan struct{}, cfg.MaxConcurrent),
		chunks:   make(chan Chunk, cfg.ChunkBuffer),
		events:   make(chan Event, cfg.EventBuffer),
		logger:   logger.With().Str("component", "decode").Logger(),
		sessions: make(map[string]*session),
	}
}

// Chunks is the stream of decoded PCM from every session.
func (c *Coordinator) Chunks() <-chan Chunk { return c.chunks }

// Events carries decode errors and restart diagnostics.
func (c *Coordinator) Events() <-chan Event { return c.events }

// Start spins up a session for the cue. A session already active under
// the same cue id is terminated first, so at most one exists per cue.
func (c *Coordinator) Start(p StartParams) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCoordinatorClosed
	}
	old := c.sessions[p.CueID]
	delete(c.sessions, p.CueID)
	c.mu.Unlock()

	if old != nil {
		old.shutdown()
		<-old.done
	}

	s := newSession(p, c.cfg, c.open, c.chunks, c.permits, c.emit, c.logger)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCoordinatorClosed
	}
	c.sessions[p.CueID] = s
	c.mu.Unlock()

	c.logger.Debug().Str("cue", p.CueID).Str("path", p.Path).Msg("decode start")
	c.spawn(s, 0)
	return nil
}

// Stop winds down the cue's session. Unmatched stops are a no-op.
func (c *Coordinator) Stop(cueID string) {
	c.mu.Lock()
	s := c.sessions[cueID]
	c.mu.Unlock()

	if s != nil {
		s.shutdown()
	}
}

// Update queues parameter changes; they land at the session's next
// packet/EOF decision.
func (c *Coordinator) Update(cueID string, u Update) {
	c.mu.Lock()
	s := c.sessions[cueID]
	c.mu.Unlock()

	if s != nil {
		s.queueUpdate(u)
	}
}

// Credit grants the cue's session permission to decode more frames.
func (c *Coordinator) Credit(cueID string, frames int64) {
	if frames <= 0 {
		return
	}

	c.mu.Lock()
	s := c.sessions[cueID]
	c.mu.Unlock()

	if s != nil {
		s.budget.Add(frames)
	}
}

// Active reports whether a session currently exists for the cue.
func (c *Coordinator) Active(cueID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[cueID]
	return ok
}

// Close stops every session and waits for them to exit.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	active := make([]*session, 0, len(c.sessions))
	for _, s := range c.sessions {
		active = append(active, s)
	}
	c.mu.Unlock()

	for _, s := range active {
		s.shutdown()
	}
	for _, s := range active {
		<-s.done
	}
}

// spawn runs the session goroutine with crash recovery. A panicking
// session is restarted with its last-known parameters and remaining
// credit, up to MaxRestartAttempts.
func (c *Coordinator) spawn(s *session, attempt int) {
	go func() {
		var panicErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = fmt.Errorf("decode session panic: %v", r)
				}
			}()
			s.run()
		}()
		close(s.done)

		id := s.id()
		c.mu.Lock()
		if c.sessions[id] == s {
			delete(c.sessions, id)
		}
		closed := c.closed
		c.mu.Unlock()

		if panicErr == nil || s.stopped() || closed {
			return
		}

		p := s.snapshot()
		if attempt+1 >= c.cfg.MaxRestartAttempts {
			c.logger.Error().Err(panicErr).Str("cue", id).
				Int("attempts", attempt+1).Msg("decode session crash, giving up")
			c.emit(ErrorEvent{CueID: id, Path: p.Path, Err: panicErr})
			return
		}

		c.logger.Warn().Err(panicErr).Str("cue", id).
			Int("attempt", attempt+1).Msg("restarting crashed decode session")
		c.emit(RestartEvent{CueID: id, Attempt: attempt + 1, Reason: panicErr})

		ns := newSession(p, c.cfg, c.open, c.chunks, c.permits, c.emit, c.logger)
		ns.budget.Store(s.budget.Load())

		c.mu.Lock()
		if _, exists := c.sessions[id]; exists || c.closed {
			c.mu.Unlock()
			return
		}
		c.sessions[id] = ns
		c.mu.Unlock()

		c.spawn(ns, attempt+1)
	}()
}

// emit delivers an event without ever blocking a session. A full
// event channel is logged, not silently dropped.
func (c *Coordinator) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Error().Interface("event", ev).Msg("event channel full, dropping")
	}
}
