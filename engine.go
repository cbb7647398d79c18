// SPDX-License-Identifier: EPL-2.0

package cuemix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stagelight/cuemix/decode"
	"github.com/stagelight/cuemix/media"
	"github.com/stagelight/cuemix/output"
	"github.com/stagelight/cuemix/utils"
)

// PlayCommand starts a cue. CueID is the caller's handle; a second
// play with the same id terminates the running cue first.
type PlayCommand struct {
	CueID    string
	FilePath string

	// InFrame and OutFrame bound the playback window in output-rate
	// frames. OutFrame < 0 plays to the end of the file.
	InFrame  int64
	OutFrame int64

	GainDB      float64
	LoopEnabled bool

	// FadeInMS < 0 uses the configured transition fade-in.
	FadeInMS int

	// Layered plays alongside active cues even when auto-fade-on-new
	// is enabled.
	Layered bool
}

// UpdateCommand changes parameters of a running cue. Nil fields are
// left untouched.
type UpdateCommand struct {
	InFrame     *int64
	OutFrame    *int64
	GainDB      *float64
	LoopEnabled *bool
}

// Engine ties the decode coordinator, the mixer and the output driver
// together and exposes the cue-level command surface. All methods are
// safe for concurrent use; none of them blocks on audio progress.
type Engine struct {
	cfg    Config
	logger zerolog.Logger

	coord      *decode.Coordinator
	driver     output.Driver
	controller *output.Controller

	events chan Event

	mu       sync.Mutex
	mixer    *output.Mixer
	cues     map[string]*cue
	stream   output.Stream
	deviceID string
	closed   bool

	globalLoop    bool
	loopOverride  bool
	autoFadeOnNew bool
	fadeInMS      int
	fadeOutMS     int

	lastTelemetry time.Time
	rmsBuf        []float32
	peakBuf       []float32
}

// New builds an engine decoding through the media package and opens
// the output stream on the driver's default device. A stream open
// failure is logged, not fatal; the open is retried on the next play
// or device command.
func New(cfg Config, driver output.Driver, logger zerolog.Logger) (*Engine, error) {
	return NewWithOpener(cfg, driver, decode.MediaOpener, logger)
}

// NewWithOpener is New with a custom decode source opener. Offline
// rendering and tests inject synthetic sources here.
func NewWithOpener(cfg Config, driver output.Driver, open decode.Opener, logger zerolog.Logger) (*Engine, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 || cfg.BlockFrames <= 0 {
		return nil, fmt.Errorf("%w: sample rate, channels and block frames must be positive", ErrInvalidCommand)
	}
	e := &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
		driver: driver,
		events: make(chan Event, cfg.EventBuffer),
		mixer:  output.NewMixer(cfg.Channels, cfg.BlockFrames, cfg.SkipTelemetryAbove),
		cues:   make(map[string]*cue),

		autoFadeOnNew: true,
		fadeInMS:      cfg.FadeInMS,
		fadeOutMS:     cfg.FadeOutMS,

		rmsBuf:  make([]float32, cfg.Channels),
		peakBuf: make([]float32, cfg.Channels),
	}
	e.coord = decode.NewCoordinator(open, decode.Config{
		MaxConcurrent:  cfg.MaxConcurrentDecoders,
		MaxChunkFrames: cfg.MaxChunkFrames,
		SettleMS:       cfg.SeekSettleMS,
	}, logger)
	e.controller = output.NewController(
		cfg.framesFromMS(cfg.RingLowWaterMS),
		cfg.framesFromMS(cfg.RingTargetMS),
		e.coord.Credit,
	)

	if err := e.openStreamLocked(); err != nil {
		e.logger.Warn().Err(err).Msg("output stream open failed, will retry")
	}
	return e, nil
}

// Events is the outbound notification stream. Telemetry events are
// dropped under backpressure; lifecycle events get a deep buffer and a
// log line if they ever drop.
func (e *Engine) Events() <-chan Event { return e.events }

// Play starts a cue: the decoder is started first so it is warm, then
// the ring is published without waiting for the first chunk. A cue id
// already in use terminates its previous cue.
func (e *Engine) Play(cmd PlayCommand) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if cmd.CueID == "" || cmd.FilePath == "" {
		return fmt.Errorf("%w: cue id and file path are required", ErrInvalidCommand)
	}
	if cmd.InFrame < 0 {
		return fmt.Errorf("%w: negative in frame", ErrInvalidCommand)
	}

	if e.stream == nil {
		if err := e.openStreamLocked(); err != nil {
			e.logger.Warn().Err(err).Msg("output stream still unavailable")
		}
	}
	if _, ok := e.cues[cmd.CueID]; ok {
		e.finishCueLocked(cmd.CueID, ReasonReplaced)
	}

	c := &cue{
		id:        cmd.CueID,
		trackID:   uuid.NewString(),
		path:      cmd.FilePath,
		inFrame:   cmd.InFrame,
		outFrame:  cmd.OutFrame,
		gainDB:    cmd.GainDB,
		loopFlag:  cmd.LoopEnabled,
		startedAt: time.Now(),
		state:     cueStarting,
	}
	loop := e.effectiveLoopLocked(cmd.LoopEnabled)

	if err := e.coord.Start(decode.StartParams{
		CueID:       cmd.CueID,
		Path:        cmd.FilePath,
		InFrame:     cmd.InFrame,
		OutFrame:    cmd.OutFrame,
		SampleRate:  e.cfg.SampleRate,
		Channels:    e.cfg.Channels,
		LoopEnabled: loop,
	}); err != nil {
		return fmt.Errorf("start decoder for %q: %w", cmd.CueID, err)
	}

	ring := output.NewRing(cmd.CueID, e.cfg.Channels, int(e.cfg.framesFromMS(e.cfg.DrainTailFadeMS)))
	ring.SetStopOnRestartBoundary(!loop)
	gain := utils.DBToLinear(cmd.GainDB)
	ring.SetGain(gain)
	fadeIn := cmd.FadeInMS
	if fadeIn < 0 {
		fadeIn = e.fadeInMS
	}
	if frames := e.cfg.framesFromMS(fadeIn); frames > 0 && gain > 0 {
		ring.SetEnvelope(output.NewFadeEnvelope(0, gain, frames, output.CurveLinear))
	}
	e.mixer.AddRing(ring)
	e.cues[cmd.CueID] = c

	e.emit(CueStarted{
		CueID:     c.id,
		TrackID:   c.trackID,
		FilePath:  c.path,
		StartedAt: c.startedAt,
	})

	if e.autoFadeOnNew && !cmd.Layered {
		for id, other := range e.cues {
			if id == cmd.CueID || other.stopPending() {
				continue
			}
			e.beginTerminalFadeLocked(other, e.fadeOutMS, ReasonAutoFade)
		}
	}

	go e.probe(cmd.CueID, cmd.FilePath)
	return nil
}

// Stop winds a cue down. fadeOutMS > 0 fades to silence and lets the
// fade's natural finish drive teardown; otherwise the ring is cut to a
// short tail immediately. Stopping an unknown or already-stopping cue
// is a no-op.
func (e *Engine) Stop(cueID string, fadeOutMS int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.cues[cueID]
	if c == nil || c.stopPending() {
		return
	}
	if fadeOutMS > 0 {
		e.beginTerminalFadeLocked(c, fadeOutMS, ReasonFadeOut)
	} else {
		e.stopImmediateLocked(c, ReasonStopped)
	}
}

// Fade moves a cue's gain toward targetDB over durationMS. A target at
// or below the silence floor is terminal: the cue finishes when the
// fade completes.
func (e *Engine) Fade(cueID string, targetDB float64, durationMS int, curve output.Curve) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.cues[cueID]
	if c == nil {
		return
	}
	ring := e.mixer.Ring(cueID)
	if ring == nil {
		return
	}

	target := utils.DBToLinear(targetDB)
	frames := e.cfg.framesFromMS(durationMS)
	if frames <= 0 {
		frames = 1
	}
	start := ring.Gain()
	if env := ring.Envelope(); env != nil {
		start = env.Target()
	}
	ring.SetEnvelope(output.NewFadeEnvelope(start, target, frames, curve))

	if target == 0 {
		e.coord.Stop(cueID)
		deadline := time.Now().Add(time.Duration(durationMS)*time.Millisecond + e.cfg.ForceRemoveTimeout)
		c.markPendingStop(ReasonFadeOut, deadline)
	} else {
		c.gainDB = targetDB
		c.state = cueFading
	}
}

// Update forwards changed fields to the output side first and the
// decoder second, so a loop-disable is armed at the ring before any
// stale loop iteration could drain.
func (e *Engine) Update(cueID string, u UpdateCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.cues[cueID]
	if c == nil {
		return
	}
	ring := e.mixer.Ring(cueID)

	du := decode.Update{InFrame: u.InFrame, OutFrame: u.OutFrame}
	if u.LoopEnabled != nil {
		c.loopFlag = *u.LoopEnabled
		eff := e.effectiveLoopLocked(c.loopFlag)
		if ring != nil {
			ring.SetStopOnRestartBoundary(!eff)
		}
		du.LoopEnabled = &eff
	}
	if u.GainDB != nil {
		c.gainDB = *u.GainDB
		if ring != nil && ring.Envelope() == nil {
			ring.SetGain(utils.DBToLinear(c.gainDB))
		}
	}
	if u.InFrame != nil {
		c.inFrame = *u.InFrame
	}
	if u.OutFrame != nil {
		c.outFrame = *u.OutFrame
	}
	if du.InFrame != nil || du.OutFrame != nil || du.LoopEnabled != nil {
		e.coord.Update(cueID, du)
	}
}

// SetGlobalLoopEnabled sets the shared loop state used while the loop
// override is active, and reapplies loop settings to running cues.
func (e *Engine) SetGlobalLoopEnabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globalLoop = v
	e.applyLoopStateLocked()
}

// SetLoopOverride toggles whether the global loop state overrides
// per-cue loop flags.
func (e *Engine) SetLoopOverride(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loopOverride = v
	e.applyLoopStateLocked()
}

// SetAutoFadeOnNew toggles fading out active cues when a non-layered
// play arrives.
func (e *Engine) SetAutoFadeOnNew(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoFadeOnNew = v
}

// SetTransitionFadeDurations sets the fades used by auto-fade-on-new
// and transport-level teardown.
func (e *Engine) SetTransitionFadeDurations(fadeInMS, fadeOutMS int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fadeInMS >= 0 {
		e.fadeInMS = fadeInMS
	}
	if fadeOutMS >= 0 {
		e.fadeOutMS = fadeOutMS
	}
}

// SetOutputDevice closes the stream and reopens it on the named
// device. Rings and cue state survive; playback resumes where the old
// stream left off.
func (e *Engine) SetOutputDevice(deviceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	e.closeStreamLocked()
	e.deviceID = deviceID
	if err := e.openStreamLocked(); err != nil {
		return fmt.Errorf("reopen on device %q: %w", deviceID, err)
	}
	e.emit(DeviceChanged{DeviceID: deviceID})
	return nil
}

// SetOutputConfig reopens the stream with a new format. A change of
// sample rate or channel count finishes all active cues, since their
// buffered audio is in the old format; a block-size-only change keeps
// every cue running.
func (e *Engine) SetOutputConfig(sampleRate, channels, blockFrames int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if sampleRate <= 0 || channels <= 0 || blockFrames <= 0 {
		return fmt.Errorf("%w: sample rate, channels and block frames must be positive", ErrInvalidCommand)
	}

	formatChanged := sampleRate != e.cfg.SampleRate || channels != e.cfg.Channels
	e.closeStreamLocked()

	if formatChanged {
		for id := range e.cues {
			e.finishCueLocked(id, ReasonConfigChange)
		}
		e.cfg.SampleRate = sampleRate
		e.cfg.Channels = channels
		e.cfg.BlockFrames = blockFrames
		e.mixer = output.NewMixer(channels, blockFrames, e.cfg.SkipTelemetryAbove)
		e.controller = output.NewController(
			e.cfg.framesFromMS(e.cfg.RingLowWaterMS),
			e.cfg.framesFromMS(e.cfg.RingTargetMS),
			e.coord.Credit,
		)
		e.rmsBuf = make([]float32, channels)
		e.peakBuf = make([]float32, channels)
	} else {
		e.cfg.BlockFrames = blockFrames
	}

	if err := e.openStreamLocked(); err != nil {
		return fmt.Errorf("reopen with new config: %w", err)
	}
	e.emit(OutputConfigChanged{
		SampleRate:  sampleRate,
		Channels:    channels,
		BlockFrames: blockFrames,
	})
	return nil
}

// TransportPlay starts (or resumes) the hardware stream.
func (e *Engine) TransportPlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.stream == nil {
		if err := e.openStreamLocked(); err != nil {
			return fmt.Errorf("%w: %v", ErrNoStream, err)
		}
	}
	return e.stream.Start()
}

// TransportPause stops the hardware stream without touching cue
// state; TransportPlay resumes exactly where playback paused.
func (e *Engine) TransportPause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream == nil {
		return ErrNoStream
	}
	return e.stream.Stop()
}

// TransportStop ends every active cue immediately. The stream keeps
// running and renders silence.
func (e *Engine) TransportStop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.cues {
		if !c.stopPending() {
			e.stopImmediateLocked(c, ReasonStopped)
		}
	}
}

// TransportNext fades every active cue out with the transition fade.
// The control layer starts the next material on top.
func (e *Engine) TransportNext() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.cues {
		if !c.stopPending() {
			e.beginTerminalFadeLocked(c, e.fadeOutMS, ReasonFadeOut)
		}
	}
}

// OutputDevices lists the driver's playback devices and publishes a
// DeviceListChanged event with the same set.
func (e *Engine) OutputDevices() ([]output.Device, error) {
	devices, err := e.driver.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	e.emit(DeviceListChanged{Devices: devices})
	return devices, nil
}

// Active returns snapshots of every cue currently in the active set.
func (e *Engine) Active() []CueSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]CueSnapshot, 0, len(e.cues))
	for _, c := range e.cues {
		out = append(out, c.snapshot())
	}
	return out
}

// Pump is the single reconciliation point. It is non-blocking end to
// end and ordered so a natural finish always wins over the stuck-cue
// timeout for the same cue.
func (e *Engine) Pump() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()

	// Finished flags set by the render callback.
	for _, r := range e.mixer.Rings() {
		if !r.TakeFinished() {
			continue
		}
		reason := ReasonNatural
		if c := e.cues[r.CueID()]; c != nil && c.pendingReason != "" {
			reason = c.pendingReason
		}
		e.finishCueLocked(r.CueID(), reason)
	}

	// Emergency removal of cues whose pending stop never completed.
	for id, c := range e.cues {
		if c.stopPending() && now.After(c.pendingDeadline) {
			e.finishCueLocked(id, ReasonForced)
		}
	}

	// Decoded chunks into rings.
drainChunks:
	for {
		select {
		case ch := <-e.coord.Chunks():
			e.deliverChunkLocked(ch)
		default:
			break drainChunks
		}
	}

	// Decoder lifecycle and diagnostics.
drainEvents:
	for {
		select {
		case ev := <-e.coord.Events():
			e.handleDecodeEventLocked(ev, now)
		default:
			break drainEvents
		}
	}

	e.controller.Tick(e.mixer.Rings())

	if now.Sub(e.lastTelemetry) >= e.cfg.TelemetryInterval {
		e.emitTelemetryLocked()
		e.lastTelemetry = now
	}
}

// Run drives Pump on the configured cadence until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(e.cfg.PumpInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				e.Pump()
			}
		}
	})
	return g.Wait()
}

// Close stops every cue, closes the stream and shuts the decode side
// down. The engine cannot be reused afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	for id := range e.cues {
		e.finishCueLocked(id, ReasonStopped)
	}
	e.closeStreamLocked()
	e.mu.Unlock()

	e.coord.Close()
	return nil
}

func (e *Engine) effectiveLoopLocked(cueFlag bool) bool {
	if e.loopOverride {
		return e.globalLoop
	}
	return cueFlag
}

func (e *Engine) applyLoopStateLocked() {
	for id, c := range e.cues {
		if c.stopPending() {
			continue
		}
		eff := e.effectiveLoopLocked(c.loopFlag)
		if r := e.mixer.Ring(id); r != nil {
			r.SetStopOnRestartBoundary(!eff)
		}
		le := eff
		e.coord.Update(id, decode.Update{LoopEnabled: &le})
	}
}

// beginTerminalFadeLocked fades the cue to silence and arms the
// emergency removal deadline. Decoding stops now; the buffered tail
// plays out under the envelope.
func (e *Engine) beginTerminalFadeLocked(c *cue, fadeOutMS int, reason FinishReason) {
	frames := e.cfg.framesFromMS(fadeOutMS)
	ring := e.mixer.Ring(c.id)
	if ring == nil || frames <= 0 {
		e.stopImmediateLocked(c, reason)
		return
	}

	e.coord.Stop(c.id)
	start := ring.Gain()
	if env := ring.Envelope(); env != nil {
		start = env.Target()
	}
	ring.SetEnvelope(output.NewFadeEnvelope(start, 0, frames, output.CurveLinear))

	deadline := time.Now().Add(time.Duration(fadeOutMS)*time.Millisecond + e.cfg.ForceRemoveTimeout)
	c.markPendingStop(reason, deadline)
}

// stopImmediateLocked cuts the ring down to a short fade-to-zero tail.
// The finish event still arrives through the normal drained path.
func (e *Engine) stopImmediateLocked(c *cue, reason FinishReason) {
	e.coord.Stop(c.id)
	if ring := e.mixer.Ring(c.id); ring != nil {
		tail := e.cfg.framesFromMS(e.cfg.StopTailMS)
		ring.TruncateToTail(tail)
		if tail > 0 {
			start := ring.Gain()
			if env := ring.Envelope(); env != nil {
				start = env.Target()
			}
			ring.SetEnvelope(output.NewFadeEnvelope(start, 0, tail, output.CurveLinear))
		}
	}
	c.markPendingStop(reason, time.Now().Add(e.cfg.ForceRemoveTimeout))
}

// finishCueLocked removes the cue from every subsystem and emits the
// single CueFinished. Removal from the map is what makes the event
// exactly-once.
func (e *Engine) finishCueLocked(cueID string, reason FinishReason) {
	c := e.cues[cueID]
	if c == nil {
		return
	}
	delete(e.cues, cueID)
	e.coord.Stop(cueID)
	e.mixer.RemoveRing(cueID)
	e.emit(CueFinished{Snapshot: c.snapshot(), Reason: reason})
	e.logger.Debug().Str("cue", cueID).Str("reason", string(reason)).Msg("cue finished")
}

func (e *Engine) deliverChunkLocked(ch decode.Chunk) {
	c := e.cues[ch.CueID]
	if c == nil {
		// Late chunk for a cue already removed.
		return
	}
	ring := e.mixer.Ring(ch.CueID)
	if ring == nil {
		return
	}
	ring.Push(ch.Samples, ch.Frames, ch.EOF, ch.LoopRestart)
	if c.state == cueStarting && ch.Frames > 0 {
		c.state = cuePlaying
	}
}

func (e *Engine) handleDecodeEventLocked(ev decode.Event, now time.Time) {
	switch de := ev.(type) {
	case decode.ErrorEvent:
		e.emit(DecodeError{CueID: de.CueID, FilePath: de.Path, Err: de.Err})
		c := e.cues[de.CueID]
		if c == nil {
			return
		}
		ring := e.mixer.Ring(de.CueID)
		if ring == nil || (!ring.Started() && ring.Buffered() == 0) {
			// Nothing ever played; no tail to drain.
			e.finishCueLocked(de.CueID, ReasonDecodeError)
			return
		}
		// Let the buffered audio drain, then finish through the normal
		// path. The deadline covers a stream that is not running.
		ring.Push(nil, 0, true, false)
		c.markPendingStop(ReasonDecodeError, now.Add(e.cfg.ForceRemoveTimeout))
	case decode.RestartEvent:
		e.logger.Warn().
			Str("cue", de.CueID).
			Int("attempt", de.Attempt).
			AnErr("reason", de.Reason).
			Msg("decoder session restarted")
	}
}

func (e *Engine) emitTelemetryLocked() {
	for _, r := range e.mixer.Rings() {
		cueID := r.CueID()
		if r.Levels(e.rmsBuf, e.peakBuf) {
			ev := CueLevels{
				CueID: cueID,
				RMS:   append([]float32(nil), e.rmsBuf...),
				Peak:  append([]float32(nil), e.peakBuf...),
			}
			e.emit(ev)
		}
		if c := e.cues[cueID]; c != nil {
			e.emit(e.cueTimeLocked(c, r))
		}
	}
	if e.mixer.MasterLevels(e.rmsBuf, e.peakBuf) {
		e.emit(MasterLevels{
			RMS:  append([]float32(nil), e.rmsBuf...),
			Peak: append([]float32(nil), e.peakBuf...),
		})
	}
}

func (e *Engine) cueTimeLocked(c *cue, r *output.Ring) CueTime {
	ev := CueTime{CueID: c.id}
	pos := r.Consumed()
	window, ok := c.windowFrames()
	if ok && e.effectiveLoopLocked(c.loopFlag) && window > 0 {
		pos %= window
	}
	ev.Elapsed = e.framesToDuration(pos)
	if ok {
		ev.HasTotal = true
		ev.Total = e.framesToDuration(window)
		if rem := window - pos; rem > 0 {
			ev.Remaining = e.framesToDuration(rem)
		}
	}
	return ev
}

// windowFrames is the playback window length in output frames, when
// known. The out point wins over the probed total.
func (c *cue) windowFrames() (int64, bool) {
	end := c.outFrame
	if end < 0 {
		if !c.hasTotal {
			return 0, false
		}
		end = c.totalFrames
	}
	if end <= c.inFrame {
		return 0, false
	}
	return end - c.inFrame, true
}

func (e *Engine) framesToDuration(frames int64) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(e.cfg.SampleRate)
}

// probe fills in duration metadata without ever delaying playback.
func (e *Engine) probe(cueID, path string) {
	info, err := media.Probe(path)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("probe failed")
		return
	}
	if !info.HasTotal || info.SampleRate <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.cues[cueID]
	if c == nil || c.path != path {
		return
	}
	c.totalFrames = info.TotalFrames * int64(e.cfg.SampleRate) / int64(info.SampleRate)
	c.hasTotal = true
}

func (e *Engine) openStreamLocked() error {
	stream, err := e.driver.Open(output.StreamConfig{
		SampleRate:  e.cfg.SampleRate,
		Channels:    e.cfg.Channels,
		BlockFrames: e.cfg.BlockFrames,
		DeviceID:    e.deviceID,
	}, e.mixer.Render)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	e.stream = stream
	return nil
}

func (e *Engine) closeStreamLocked() {
	if e.stream == nil {
		return
	}
	if err := e.stream.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("closing output stream")
	}
	e.stream = nil
}

// emit never blocks. Telemetry drops are routine under a slow
// consumer; anything else dropping is logged.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		switch ev.(type) {
		case CueLevels, MasterLevels, CueTime:
		default:
			e.logger.Warn().Type("event", ev).Msg("event channel full, dropping")
		}
	}
}
