package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/voicepad/voicepad/internal/audio"
)

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// MockEngine implements audio.Engine with scripted captures, sounds and
// probes.
type MockEngine struct {
	mu sync.Mutex

	StartCaptureErr error
	LoadSoundErr    error
	PermissionErr   error

	// Probes maps URI to result; unknown URIs probe as missing.
	Probes map[string]audio.ProbeResult

	// FinalizedURI is what the next capture handle's Stop returns.
	FinalizedURI string
	StopErr      error

	Captures []*MockCaptureHandle
	Sounds   []*MockSoundHandle
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		Probes:       make(map[string]audio.ProbeResult),
		FinalizedURI: "/tmp/mock.wav",
	}
}

func (e *MockEngine) RequestPermission(ctx context.Context) error {
	return e.PermissionErr
}

func (e *MockEngine) StartCapture(ctx context.Context, cfg audio.CaptureConfig) (audio.CaptureHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.StartCaptureErr != nil {
		return nil, e.StartCaptureErr
	}
	h := &MockCaptureHandle{uri: e.FinalizedURI, stopErr: e.StopErr}
	e.Captures = append(e.Captures, h)
	return h, nil
}

func (e *MockEngine) LoadSound(uri string, opts audio.SoundOptions) (audio.SoundHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.LoadSoundErr != nil {
		return nil, e.LoadSoundErr
	}
	h := NewMockSoundHandle(uri)
	e.Sounds = append(e.Sounds, h)
	return h, nil
}

func (e *MockEngine) ProbeAsset(uri string) (audio.ProbeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Probes[uri], nil
}

// SetProbe scripts a probe result for a URI.
func (e *MockEngine) SetProbe(uri string, exists bool, size int64) {
	e.mu.Lock()
	e.Probes[uri] = audio.ProbeResult{Exists: exists, SizeBytes: size}
	e.mu.Unlock()
}

// LiveCaptures counts capture handles that have not been stopped.
func (e *MockEngine) LiveCaptures() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, h := range e.Captures {
		if !h.Stopped() {
			n++
		}
	}
	return n
}

// MockCaptureHandle is a scripted capture handle.
type MockCaptureHandle struct {
	mu      sync.Mutex
	uri     string
	stopErr error
	paused  bool
	stopped bool
}

func (h *MockCaptureHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return errors.New("capture already stopped")
	}
	h.paused = true
	return nil
}

func (h *MockCaptureHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return errors.New("capture already stopped")
	}
	h.paused = false
	return nil
}

func (h *MockCaptureHandle) Stop() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return "", errors.New("capture already stopped")
	}
	h.stopped = true
	if h.stopErr != nil {
		return "", h.stopErr
	}
	return h.uri, nil
}

func (h *MockCaptureHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

func (h *MockCaptureHandle) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// MockSoundHandle is a scripted sound handle. Tests drive position updates
// through EmitPosition/EmitDone.
type MockSoundHandle struct {
	mu       sync.Mutex
	uri      string
	playing  bool
	paused   bool
	unloaded bool

	subs    map[int]audio.PositionFunc
	nextSub int
}

func NewMockSoundHandle(uri string) *MockSoundHandle {
	return &MockSoundHandle{
		uri:  uri,
		subs: make(map[int]audio.PositionFunc),
	}
}

func (h *MockSoundHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return errors.New("sound unloaded")
	}
	h.playing = true
	h.paused = false
	return nil
}

func (h *MockSoundHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
	return nil
}

func (h *MockSoundHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
	return nil
}

func (h *MockSoundHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	return nil
}

func (h *MockSoundHandle) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	h.unloaded = true
	return nil
}

func (h *MockSoundHandle) OnPositionUpdate(fn audio.PositionFunc) func() {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// EmitPosition fires a position update to current subscribers.
func (h *MockSoundHandle) EmitPosition(positionMs, durationMs int64) {
	h.emit(positionMs, durationMs, false)
}

// EmitDone fires the natural-completion callback.
func (h *MockSoundHandle) EmitDone(durationMs int64) {
	h.emit(durationMs, durationMs, true)
}

func (h *MockSoundHandle) emit(positionMs, durationMs int64, done bool) {
	h.mu.Lock()
	fns := make([]audio.PositionFunc, 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(positionMs, durationMs, done)
	}
}

// Subscribers reports how many position subscriptions are live.
func (h *MockSoundHandle) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *MockSoundHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *MockSoundHandle) Unloaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unloaded
}

// MockNotifier records notices for assertions.
type MockNotifier struct {
	mu      sync.Mutex
	Notices []string
	Errors  []string
}

func (n *MockNotifier) Notice(title, body string) {
	n.mu.Lock()
	n.Notices = append(n.Notices, title+": "+body)
	n.mu.Unlock()
}

func (n *MockNotifier) Error(msg string) {
	n.mu.Lock()
	n.Errors = append(n.Errors, msg)
	n.mu.Unlock()
}

func (n *MockNotifier) ErrorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Errors)
}

// MockTranscriptionClient implements transcription.Client for testing.
type MockTranscriptionClient struct {
	mu            sync.Mutex
	TranscribeFunc func(ctx context.Context, uri string) (string, error)
	Calls         int
}

func (m *MockTranscriptionClient) Transcribe(ctx context.Context, uri string) (string, error) {
	m.mu.Lock()
	m.Calls++
	fn := m.TranscribeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, uri)
	}
	return "mock transcription", nil
}

func (m *MockTranscriptionClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
