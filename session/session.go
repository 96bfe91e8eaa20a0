// Package session owns the dictation state machine: one cycle records a
// clip, transcribes it, and fans the text out to the enabled sinks. Cycles
// are strictly single-flight; hotkey and shutdown events only ever reach the
// controller as channel signals.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"murmur/audio"
	"murmur/hotkey"
	"murmur/log"
	"murmur/settings"
	"murmur/shutdown"
	"murmur/sink"
	"murmur/transcriber"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingHotkeyStart
	StateRecording
	StateTranscribing
	StateDispatching
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingHotkeyStart:
		return "awaiting-hotkey"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateDispatching:
		return "dispatching"
	case StateShuttingDown:
		return "shutting-down"
	}
	return "unknown"
}

// RecordMode selects how a recording is bounded.
type RecordMode int

const (
	// ModeFixed records for the duration configured in settings.
	ModeFixed RecordMode = iota
	// ModeHotkey records until the toggle hotkey fires again, capped at
	// MaxRecord.
	ModeHotkey
)

// ErrBusy is returned when RunCycle is called while a cycle is in flight.
// The controller is single-flight; concurrent calls are a programming error.
var ErrBusy = errors.New("session: cycle already in progress")

const (
	defaultTick      = 100 * time.Millisecond
	defaultMaxRecord = 60 * time.Second
)

type Config struct {
	Store    *settings.Store
	Audio    audio.Context
	Engine   transcriber.Transcriber
	Hotkeys  hotkey.Watcher
	Sinks    *sink.Dispatcher
	Shutdown *shutdown.Signal

	// Device is the preferred capture device; nil means system default.
	Device *audio.DeviceInfo

	// Tick bounds how quickly a stop condition is observed while recording.
	// Zero means 100ms.
	Tick time.Duration
	// MaxRecord is the hard recording cap protecting memory when the stop
	// hotkey never arrives. Zero means 60s.
	MaxRecord time.Duration
}

// Events are optional hooks for user feedback (beeps, status lines). All
// fields may be nil.
type Events struct {
	RecordingStarted func()
	RecordingStopped func()
	SilenceWarning   func()
	SilenceCleared   func()
}

type Controller struct {
	cfg    Config
	events Events
	busy   atomic.Bool

	mu     sync.Mutex
	state  State
	cycles int
}

func NewController(cfg Config, events Events) *Controller {
	if cfg.Tick == 0 {
		cfg.Tick = defaultTick
	}
	if cfg.MaxRecord == 0 {
		cfg.MaxRecord = defaultMaxRecord
	}
	return &Controller{cfg: cfg, events: events}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State reports the current state. Mostly useful for status display.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cycles reports how many cycles completed dispatching.
func (c *Controller) Cycles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

// Busy reports whether a cycle is in flight.
func (c *Controller) Busy() bool { return c.busy.Load() }

// Report describes how a cycle ended.
type Report struct {
	// Final is StateIdle for a completed or failed cycle and
	// StateShuttingDown when the shutdown signal ended it.
	Final State
	// Text is the trimmed transcription, "" when nothing was dispatched.
	Text string
	// Delivered counts sinks that accepted the text.
	Delivered int
	// ClipDuration is the length of the recorded audio.
	ClipDuration time.Duration
}

// RunCycle drives one record -> transcribe -> dispatch pass and blocks until
// the cycle reaches Idle or ShuttingDown. Settings are snapshotted once at
// entry; mutations made while the cycle runs apply to the next one.
func (c *Controller) RunCycle(mode RecordMode) (Report, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer c.busy.Store(false)

	snap := c.cfg.Store.Snapshot()
	rep := Report{Final: StateIdle}

	if c.cfg.Shutdown.Triggered() {
		c.setState(StateShuttingDown)
		rep.Final = StateShuttingDown
		return rep, nil
	}

	if mode == ModeHotkey {
		c.setState(StateAwaitingHotkeyStart)
		select {
		case <-c.cfg.Hotkeys.Toggle():
		case <-c.cfg.Shutdown.Done():
			c.setState(StateShuttingDown)
			rep.Final = StateShuttingDown
			return rep, nil
		}
	}

	c.setState(StateRecording)
	if c.events.RecordingStarted != nil {
		c.events.RecordingStarted()
	}
	clip, err := c.record(mode, snap)
	if c.events.RecordingStopped != nil {
		c.events.RecordingStopped()
	}
	if err != nil {
		c.setState(StateIdle)
		return rep, err
	}
	if clip == nil {
		// Shutdown observed mid-recording; the partial clip is discarded.
		log.Info("recording aborted by shutdown, clip discarded")
		c.setState(StateShuttingDown)
		rep.Final = StateShuttingDown
		return rep, nil
	}
	rep.ClipDuration = clip.Duration()

	c.setState(StateTranscribing)
	start := time.Now()
	text, err := c.cfg.Engine.Transcribe(context.Background(), clip, snap.Language)
	transcribeMs := float64(time.Since(start).Milliseconds())
	clip = nil // the clip is never reused, success or failure
	if err != nil {
		log.Errorf("transcription failed: %v", err)
		c.setState(StateIdle)
		return rep, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Info("empty transcription, nothing to dispatch")
		log.CycleMetrics(c.cfg.Engine.Name(), string(snap.Model), rep.ClipDuration.Seconds(), transcribeMs, false)
		c.setState(StateIdle)
		return rep, nil
	}

	c.setState(StateDispatching)
	rep.Text = text
	rep.Delivered = c.cfg.Sinks.Dispatch(text, snap)
	log.TranscriptionText(text)
	log.CycleMetrics(c.cfg.Engine.Name(), string(snap.Model), rep.ClipDuration.Seconds(), transcribeMs, true)

	c.mu.Lock()
	c.cycles++
	c.state = StateIdle
	c.mu.Unlock()
	return rep, nil
}
