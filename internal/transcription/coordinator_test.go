package transcription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/session"
	"github.com/voicepad/voicepad/internal/store"
	"github.com/voicepad/voicepad/internal/testutil"
)

const waitTimeout = 2 * time.Second

func testConfig() Config {
	return Config{Provider: "openai", APIKey: "sk-test", Model: "whisper-1", Language: "en"}
}

func newTestCoordinator(cfg Config, client Client) (*Coordinator, *testutil.MockEngine, *store.Store, *testutil.MockNotifier) {
	engine := testutil.NewMockEngine()
	st := store.New()
	notifier := &testutil.MockNotifier{}
	c := NewCoordinator(st, engine, notifier, func() Config { return cfg })
	c.newClient = func(Config) (Client, error) { return client, nil }
	return c, engine, st, notifier
}

func pendingRecording(st *store.Store, uri string) store.Recording {
	rec := st.NewRecording(uri, "0.00.05")
	st.Append(rec)
	return rec
}

func waitResolved(t *testing.T, st *store.Store, id int64) store.Recording {
	t.Helper()
	testutil.WaitForCondition(t, func() bool {
		rec, ok := st.Get(id)
		return ok && !rec.IsTranscribing
	}, waitTimeout)
	rec, _ := st.Get(id)
	return rec
}

func TestCoordinatorSuccess(t *testing.T) {
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			return "hello world", nil
		},
	}
	c, engine, st, notifier := newTestCoordinator(testConfig(), client)
	rec := pendingRecording(st, "/tmp/a.wav")
	engine.SetProbe(rec.URI, true, 2048)

	c.Submit(rec)
	got := waitResolved(t, st, rec.ID)

	if got.Transcription != "hello world" {
		t.Errorf("transcription = %q, want %q", got.Transcription, "hello world")
	}
	if client.CallCount() != 1 {
		t.Errorf("client calls = %d, want 1", client.CallCount())
	}
	if notifier.ErrorCount() != 0 {
		t.Errorf("unexpected error notices: %d", notifier.ErrorCount())
	}
}

func TestCoordinatorEmptyResult(t *testing.T) {
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			return "   \n ", nil
		},
	}
	c, engine, st, _ := newTestCoordinator(testConfig(), client)
	rec := pendingRecording(st, "/tmp/a.wav")
	engine.SetProbe(rec.URI, true, 2048)

	c.Submit(rec)
	got := waitResolved(t, st, rec.ID)

	if got.Transcription != NoTranscriptionText {
		t.Errorf("transcription = %q, want %q", got.Transcription, NoTranscriptionText)
	}
}

func TestCoordinatorPreflight(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		uri     string
		probe   bool
		size    int64
		message string
	}{
		{
			name:    "empty api key",
			cfg:     Config{Provider: "openai", APIKey: ""},
			uri:     "/tmp/a.wav",
			probe:   true,
			size:    2048,
			message: FailureMessage(NotConfigured, nil),
		},
		{
			name:    "placeholder api key",
			cfg:     Config{Provider: "openai", APIKey: PlaceholderAPIKey},
			uri:     "/tmp/a.wav",
			probe:   true,
			size:    2048,
			message: FailureMessage(NotConfigured, nil),
		},
		{
			name:    "no uri",
			cfg:     testConfig(),
			uri:     "",
			message: FailureMessage(AssetMissing, nil),
		},
		{
			name:    "asset missing",
			cfg:     testConfig(),
			uri:     "/tmp/gone.wav",
			probe:   false,
			message: FailureMessage(AssetMissing, nil),
		},
		{
			name:    "asset empty",
			cfg:     testConfig(),
			uri:     "/tmp/empty.wav",
			probe:   true,
			size:    0,
			message: FailureMessage(AssetMissing, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &testutil.MockTranscriptionClient{}
			c, engine, st, notifier := newTestCoordinator(tt.cfg, client)
			rec := pendingRecording(st, tt.uri)
			if tt.uri != "" {
				engine.SetProbe(tt.uri, tt.probe, tt.size)
			}

			c.Submit(rec)
			got := waitResolved(t, st, rec.ID)

			if got.Transcription != tt.message {
				t.Errorf("transcription = %q, want %q", got.Transcription, tt.message)
			}
			if client.CallCount() != 0 {
				t.Errorf("pre-flight failure must not call the client, got %d calls", client.CallCount())
			}
			if notifier.ErrorCount() != 1 {
				t.Errorf("error notices = %d, want 1", notifier.ErrorCount())
			}
		})
	}
}

func TestCoordinatorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401}, Unauthorized},
		{"payload too large", &openai.APIError{HTTPStatusCode: 413}, PayloadTooLarge},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, RateLimited},
		{"bad request", &openai.APIError{HTTPStatusCode: 400}, BadRequest},
		{"server error", &openai.APIError{HTTPStatusCode: 500, Message: "upstream exploded"}, OtherRemote},
		{"request error", &openai.RequestError{HTTPStatusCode: 429}, RateLimited},
		{"wrapped api error", fmt.Errorf("transcribe: %w", &openai.APIError{HTTPStatusCode: 401}), Unauthorized},
		{"plain network error", errors.New("dial tcp: connection refused"), NetworkUnreachable},
		{"deadline", context.DeadlineExceeded, NetworkUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("other remote carries the service message", func(t *testing.T) {
		err := &openai.APIError{HTTPStatusCode: 500, Message: "upstream exploded"}
		msg := FailureMessage(Classify(err), err)
		if !strings.Contains(msg, "upstream exploded") {
			t.Errorf("message %q should carry the remote message", msg)
		}
	})
}

func TestCoordinatorRemoteFailureResolves(t *testing.T) {
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			return "", &openai.APIError{HTTPStatusCode: 401}
		},
	}
	c, engine, st, notifier := newTestCoordinator(testConfig(), client)
	rec := pendingRecording(st, "/tmp/a.wav")
	engine.SetProbe(rec.URI, true, 2048)

	c.Submit(rec)
	got := waitResolved(t, st, rec.ID)

	want := FailureMessage(Unauthorized, nil)
	if got.Transcription != want {
		t.Errorf("transcription = %q, want %q", got.Transcription, want)
	}
	if client.CallCount() != 1 {
		t.Errorf("client calls = %d, want exactly 1 attempt", client.CallCount())
	}
	if notifier.ErrorCount() != 1 {
		t.Errorf("error notices = %d, want 1", notifier.ErrorCount())
	}
}

func TestCoordinatorResolvesExactlyOnce(t *testing.T) {
	var notified int32
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			return "first result", nil
		},
	}
	c, engine, st, _ := newTestCoordinator(testConfig(), client)
	rec := pendingRecording(st, "/tmp/a.wav")
	engine.SetProbe(rec.URI, true, 2048)

	unsubscribe := st.Subscribe(func() { atomic.AddInt32(&notified, 1) })
	defer unsubscribe()

	c.Submit(rec)
	got := waitResolved(t, st, rec.ID)
	if got.Transcription != "first result" {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if atomic.LoadInt32(&notified) == 0 {
		t.Error("resolution should notify store observers")
	}

	// A second resolution attempt against an already-resolved recording is a
	// silent no-op.
	if st.ResolveTranscription(rec.ID, "second result") {
		t.Error("second resolution should report false")
	}
	got, _ = st.Get(rec.ID)
	if got.Transcription != "first result" {
		t.Errorf("transcription = %q, want first result preserved", got.Transcription)
	}
}

func TestCoordinatorJobsAreIndependent(t *testing.T) {
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			if uri == "/tmp/bad.wav" {
				return "", &openai.APIError{HTTPStatusCode: 429}
			}
			return "good one", nil
		},
	}
	c, engine, st, _ := newTestCoordinator(testConfig(), client)

	good := pendingRecording(st, "/tmp/good.wav")
	bad := pendingRecording(st, "/tmp/bad.wav")
	engine.SetProbe(good.URI, true, 1024)
	engine.SetProbe(bad.URI, true, 1024)

	c.Submit(good)
	c.Submit(bad)

	gotGood := waitResolved(t, st, good.ID)
	gotBad := waitResolved(t, st, bad.ID)

	if gotGood.Transcription != "good one" {
		t.Errorf("good transcription = %q", gotGood.Transcription)
	}
	if want := FailureMessage(RateLimited, nil); gotBad.Transcription != want {
		t.Errorf("bad transcription = %q, want %q", gotBad.Transcription, want)
	}
}

// TestRecordToTranscriptPipeline drives the whole path a finalized capture
// takes: session stop, store prepend with the pending sentinel, background
// transcription, resolution.
func TestRecordToTranscriptPipeline(t *testing.T) {
	client := &testutil.MockTranscriptionClient{
		TranscribeFunc: func(ctx context.Context, uri string) (string, error) {
			if uri != "/tmp/pipeline.wav" {
				t.Errorf("client got uri %q", uri)
			}
			return "hello", nil
		},
	}
	c, engine, st, _ := newTestCoordinator(testConfig(), client)
	engine.FinalizedURI = "/tmp/pipeline.wav"
	engine.SetProbe("/tmp/pipeline.wav", true, 4096)

	sess := session.New(engine, st, c, nil, audio.DefaultCaptureConfig())

	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := sess.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	snap := st.Snapshot()
	if len(snap.Recordings) != 1 {
		t.Fatalf("recordings = %d, want 1", len(snap.Recordings))
	}
	rec := snap.Recordings[0]
	if rec.DurationLabel != "0.00.00" {
		t.Errorf("duration label = %q, want %q", rec.DurationLabel, "0.00.00")
	}

	got := waitResolved(t, st, rec.ID)
	if got.Transcription != "hello" {
		t.Errorf("transcription = %q, want %q", got.Transcription, "hello")
	}
	if got.IsTranscribing {
		t.Error("recording should no longer be pending")
	}
	if client.CallCount() != 1 {
		t.Errorf("client calls = %d, want 1", client.CallCount())
	}
}
