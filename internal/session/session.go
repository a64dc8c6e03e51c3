package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/notify"
	"github.com/voicepad/voicepad/internal/store"
)

type Status string

const (
	Idle      Status = "idle"
	Recording Status = "recording"
	Paused    Status = "paused"
)

// Submitter receives finalized recordings for background transcription.
// Submit must return without waiting for the result.
type Submitter interface {
	Submit(rec store.Recording)
}

// Session owns the lifecycle of a single in-progress capture. At most one
// capture handle is live at a time; starting a new capture supersedes the
// previous one, release-before-reacquire.
type Session struct {
	engine    audio.Engine
	store     *store.Store
	submitter Submitter
	notifier  notify.Notifier
	cfg       audio.CaptureConfig

	// tickInterval is one second in production; tests shorten it.
	tickInterval time.Duration

	mu      sync.Mutex
	status  Status
	elapsed int
	handle  audio.CaptureHandle
	tickGen int
	tickCh  chan struct{}
}

func New(engine audio.Engine, st *store.Store, submitter Submitter, notifier notify.Notifier, cfg audio.CaptureConfig) *Session {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Session{
		engine:       engine,
		store:        st,
		submitter:    submitter,
		notifier:     notifier,
		cfg:          cfg,
		tickInterval: time.Second,
		status:       Idle,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Start acquires a fresh capture handle. An already-live capture is force
// released first; two live handles can never coexist.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		log.Printf("Session: superseding live capture")
		s.stopTickLocked()
		if _, err := s.handle.Stop(); err != nil {
			log.Printf("Session: release superseded capture: %v", err)
		}
		s.handle = nil
	}

	handle, err := s.engine.StartCapture(ctx, s.cfg)
	if err != nil {
		s.status = Idle
		s.elapsed = 0
		s.store.SetCapture(string(Idle), 0)
		s.notifier.Error("Could not start recording: " + err.Error())
		return &CaptureStartError{Err: err}
	}

	s.handle = handle
	s.status = Recording
	s.elapsed = 0
	s.store.SetCapture(string(Recording), 0)
	s.startTickLocked()
	log.Printf("Session: recording started")
	return nil
}

// Pause suspends capture and freezes the elapsed tick. No-op without a live
// handle.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || s.status != Recording {
		return nil
	}
	if err := s.handle.Pause(); err != nil {
		return err
	}
	s.status = Paused
	s.stopTickLocked()
	s.store.SetCapture(string(Paused), s.elapsed)
	log.Printf("Session: paused at %ds", s.elapsed)
	return nil
}

// Resume continues capture; the tick restarts without resetting elapsed.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || s.status != Paused {
		return nil
	}
	if err := s.handle.Resume(); err != nil {
		return err
	}
	s.status = Recording
	s.store.SetCapture(string(Recording), s.elapsed)
	s.startTickLocked()
	log.Printf("Session: resumed at %ds", s.elapsed)
	return nil
}

// PauseResume toggles between Recording and Paused.
func (s *Session) PauseResume() error {
	if s.Status() == Paused {
		return s.Resume()
	}
	return s.Pause()
}

// Stop finalizes the capture into a Recording, prepends it to the store and
// hands it to the submitter fire-and-forget. No-op without a live handle. On
// finalize failure the session still resets to Idle and nothing is appended.
func (s *Session) Stop() error {
	s.mu.Lock()

	if s.handle == nil {
		s.mu.Unlock()
		return nil
	}

	s.stopTickLocked()
	handle := s.handle
	elapsed := s.elapsed
	s.handle = nil
	s.status = Idle
	s.elapsed = 0

	uri, err := handle.Stop()
	s.store.SetCapture(string(Idle), 0)
	s.mu.Unlock()

	if err != nil {
		s.notifier.Error("Could not save recording: " + err.Error())
		return &CaptureStopError{Err: err}
	}

	rec := s.store.NewRecording(uri, FormatDuration(elapsed))
	s.store.Append(rec)
	log.Printf("Session: finalized recording %d (%s)", rec.ID, rec.DurationLabel)

	if s.submitter != nil {
		s.submitter.Submit(rec)
	}
	return nil
}

// Close releases a live capture handle without producing a recording.
// Daemon teardown only.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return
	}
	s.stopTickLocked()
	if _, err := s.handle.Stop(); err != nil {
		log.Printf("Session: release on close: %v", err)
	}
	s.handle = nil
	s.status = Idle
	s.elapsed = 0
	s.store.SetCapture(string(Idle), 0)
}

// startTickLocked spawns the elapsed ticker. The generation counter keeps a
// stale goroutine from incrementing after pause/stop raced with a tick.
func (s *Session) startTickLocked() {
	s.tickGen++
	gen := s.tickGen
	stop := make(chan struct{})
	s.tickCh = stop

	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if s.tickGen == gen && s.status == Recording {
					s.elapsed++
					s.store.SetCapture(string(Recording), s.elapsed)
				}
				s.mu.Unlock()
			}
		}
	}()
}

func (s *Session) stopTickLocked() {
	s.tickGen++
	if s.tickCh != nil {
		close(s.tickCh)
		s.tickCh = nil
	}
}
