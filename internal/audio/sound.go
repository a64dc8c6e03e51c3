package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

const positionInterval = 200 * time.Millisecond

// LoadSound prepares a WAV asset for playback. The pw-play process is not
// spawned until Play.
func (e *PipeWireEngine) LoadSound(uri string, opts SoundOptions) (SoundHandle, error) {
	probe, err := e.ProbeAsset(uri)
	if err != nil {
		return nil, err
	}
	if !probe.Exists {
		return nil, fmt.Errorf("asset not found: %s", uri)
	}

	volume := opts.Volume
	if volume <= 0 || volume > 1 {
		volume = 1.0
	}

	return &pipeWireSound{
		uri:        uri,
		volume:     volume,
		durationMs: DurationMillis(probe.SizeBytes, DefaultCaptureConfig()),
		subs:       make(map[int]PositionFunc),
	}, nil
}

type pipeWireSound struct {
	uri        string
	volume     float64
	durationMs int64

	mu          sync.Mutex
	cmd         *exec.Cmd
	cancel      context.CancelFunc
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	paused      bool
	unloaded    bool

	subs    map[int]PositionFunc
	nextSub int
}

func (s *pipeWireSound) OnPositionUpdate(fn PositionFunc) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *pipeWireSound) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unloaded {
		return errors.New("sound unloaded")
	}
	if s.cmd != nil {
		return errors.New("sound already playing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "pw-play",
		"--volume", fmt.Sprintf("%.2f", s.volume),
		s.uri,
	)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start pw-play: %w", err)
	}

	s.cmd = cmd
	s.cancel = cancel
	s.startedAt = time.Now()
	s.pausedTotal = 0
	s.paused = false

	go s.positionLoop(ctx, cmd)
	return nil
}

// positionLoop emits periodic position updates and the final done callback
// when pw-play exits on its own.
func (s *pipeWireSound) positionLoop(ctx context.Context, cmd *exec.Cmd) {
	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	ticker := time.NewTicker(positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.emit(s.position(), s.durationMs, false)

		case err := <-waitCh:
			if ctx.Err() != nil {
				// Stopped or superseded; no natural completion.
				return
			}
			if err != nil {
				log.Printf("Playback: pw-play exited: %v", err)
			}
			s.mu.Lock()
			s.cmd = nil
			s.cancel = nil
			s.mu.Unlock()
			s.emit(s.durationMs, s.durationMs, true)
			return

		case <-ctx.Done():
			return
		}
	}
}

func (s *pipeWireSound) position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	elapsed := time.Since(s.startedAt) - s.pausedTotal
	if s.paused {
		elapsed = s.pausedAt.Sub(s.startedAt) - s.pausedTotal
	}
	pos := elapsed.Milliseconds()
	if pos > s.durationMs {
		pos = s.durationMs
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func (s *pipeWireSound) emit(positionMs, durationMs int64, done bool) {
	s.mu.Lock()
	fns := make([]PositionFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(positionMs, durationMs, done)
	}
}

func (s *pipeWireSound) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil || s.paused {
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}
	s.paused = true
	s.pausedAt = time.Now()
	return nil
}

func (s *pipeWireSound) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil || !s.paused {
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("resume playback: %w", err)
	}
	s.paused = false
	s.pausedTotal += time.Since(s.pausedAt)
	return nil
}

func (s *pipeWireSound) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		if s.paused {
			// A stopped process ignores SIGKILL until continued.
			_ = s.cmd.Process.Signal(syscall.SIGCONT)
		}
		s.cancel()
		s.cancel = nil
		s.cmd = nil
	}
	s.paused = false
	s.startedAt = time.Time{}
	return nil
}

func (s *pipeWireSound) Unload() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mu.Lock()
	s.unloaded = true
	s.subs = make(map[int]PositionFunc)
	s.mu.Unlock()
	return nil
}
