package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// PipeWireEngine drives microphone capture through pw-record and playback
// through pw-play. Assets are WAV files under the user cache dir.
type PipeWireEngine struct {
	assetDir string
}

func NewPipeWireEngine() (*PipeWireEngine, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	assetDir := filepath.Join(dir, "voicepad", "recordings")
	if err := os.MkdirAll(assetDir, 0o700); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &PipeWireEngine{assetDir: assetDir}, nil
}

// RequestPermission checks that PipeWire tooling is installed and the daemon
// is reachable.
func (e *PipeWireEngine) RequestPermission(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)
	}
	if _, err := exec.LookPath("pw-play"); err != nil {
		return fmt.Errorf("pw-play not found: %w (install pipewire-tools)", err)
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := exec.CommandContext(checkCtx, "pw-cli", "info").Run(); err != nil {
		return fmt.Errorf("PipeWire not running or accessible: %w", err)
	}
	return nil
}

func (e *PipeWireEngine) ProbeAsset(uri string) (ProbeResult, error) {
	info, err := os.Stat(uri)
	if os.IsNotExist(err) {
		return ProbeResult{Exists: false}, nil
	}
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe asset %s: %w", uri, err)
	}
	return ProbeResult{Exists: true, SizeBytes: info.Size()}, nil
}

func (e *PipeWireEngine) StartCapture(ctx context.Context, cfg CaptureConfig) (CaptureHandle, error) {
	if err := validateCaptureConfig(cfg); err != nil {
		return nil, err
	}
	if err := e.RequestPermission(ctx); err != nil {
		return nil, err
	}

	captureCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(captureCtx, "pw-record",
		"--format", cfg.Format,
		"--rate", strconv.Itoa(cfg.SampleRate),
		"--channels", strconv.Itoa(cfg.Channels),
		"-", // stream to stdout
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start pw-record: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Printf("Capture stderr: %s", scanner.Text())
		}
	}()

	h := &pipeWireCapture{
		engine: e,
		cfg:    cfg,
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.captureLoop(captureCtx, stdout)
	return h, nil
}

type pipeWireCapture struct {
	engine *PipeWireEngine
	cfg    CaptureConfig
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}

	paused  atomic.Bool
	stopped atomic.Bool

	mu      sync.Mutex
	pcm     []byte
	readErr error
}

func (h *pipeWireCapture) captureLoop(ctx context.Context, stdout io.Reader) {
	defer close(h.done)

	buffer := make([]byte, h.cfg.BufferSize)
	for {
		n, err := stdout.Read(buffer)
		if n > 0 && !h.paused.Load() {
			h.mu.Lock()
			h.pcm = append(h.pcm, buffer[:n]...)
			h.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				h.mu.Lock()
				h.readErr = fmt.Errorf("read audio: %w", err)
				h.mu.Unlock()
				log.Printf("Capture: read error: %v", err)
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (h *pipeWireCapture) Pause() error {
	if h.stopped.Load() {
		return errors.New("capture already stopped")
	}
	h.paused.Store(true)
	return nil
}

func (h *pipeWireCapture) Resume() error {
	if h.stopped.Load() {
		return errors.New("capture already stopped")
	}
	h.paused.Store(false)
	return nil
}

// Stop finalizes the capture: kills pw-record, wraps the buffered PCM as WAV
// and writes it into the engine's asset dir.
func (h *pipeWireCapture) Stop() (string, error) {
	if !h.stopped.CompareAndSwap(false, true) {
		return "", errors.New("capture already stopped")
	}

	h.cancel()
	<-h.done
	_ = h.cmd.Wait()

	h.mu.Lock()
	pcm := h.pcm
	readErr := h.readErr
	h.pcm = nil
	h.mu.Unlock()

	if readErr != nil {
		return "", readErr
	}

	wav, err := EncodeWAV(pcm, h.cfg)
	if err != nil {
		return "", err
	}

	uri := filepath.Join(h.engine.assetDir, fmt.Sprintf("rec-%d.wav", time.Now().UnixMilli()))
	if err := os.WriteFile(uri, wav, 0o600); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}

	log.Printf("Capture: finalized %d PCM bytes to %s", len(pcm), uri)
	return uri, nil
}

func validateCaptureConfig(cfg CaptureConfig) error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", cfg.Channels)
	}
	if cfg.BufferSize <= 0 {
		return fmt.Errorf("invalid BufferSize: %d", cfg.BufferSize)
	}
	if cfg.Format != "s16le" {
		return fmt.Errorf("invalid Format: %q", cfg.Format)
	}
	return nil
}
