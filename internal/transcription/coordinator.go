package transcription

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/notify"
	"github.com/voicepad/voicepad/internal/store"
)

// RequestTimeout bounds the single transcription attempt.
const RequestTimeout = 30 * time.Second

// PlaceholderAPIKey is the key the generated config ships with; it counts as
// not-configured.
const PlaceholderAPIKey = "your-api-key"

// NoTranscriptionText replaces an empty remote result. Still a success.
const NoTranscriptionText = "No transcription available."

// Coordinator runs one fire-and-forget transcription job per finalized
// recording. Jobs are independent, unordered, uncancellable, and each
// resolves the recording's transcription exactly once.
type Coordinator struct {
	store    *store.Store
	engine   audio.Engine
	notifier notify.Notifier

	// configFn is read per job so config hot reloads apply to new jobs.
	configFn func() Config

	// newClient is swappable in tests.
	newClient func(Config) (Client, error)
}

func NewCoordinator(st *store.Store, engine audio.Engine, notifier notify.Notifier, configFn func() Config) *Coordinator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Coordinator{
		store:     st,
		engine:    engine,
		notifier:  notifier,
		configFn:  configFn,
		newClient: NewClient,
	}
}

// Submit spawns the background job and returns immediately.
func (c *Coordinator) Submit(rec store.Recording) {
	go c.run(rec)
}

func (c *Coordinator) run(rec store.Recording) {
	cfg := c.configFn()

	// Pre-flight, each a distinct terminal outcome with no network call.
	if cfg.APIKey == "" || cfg.APIKey == PlaceholderAPIKey {
		c.fail(rec.ID, NotConfigured, nil)
		return
	}
	if rec.URI == "" {
		c.fail(rec.ID, AssetMissing, nil)
		return
	}
	probe, err := c.engine.ProbeAsset(rec.URI)
	if err != nil || !probe.Exists || probe.SizeBytes == 0 {
		c.fail(rec.ID, AssetMissing, err)
		return
	}

	client, err := c.newClient(cfg)
	if err != nil {
		c.fail(rec.ID, NotConfigured, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
	defer cancel()

	text, err := client.Transcribe(ctx, rec.URI)
	if err != nil {
		c.fail(rec.ID, Classify(err), err)
		return
	}

	if strings.TrimSpace(text) == "" {
		text = NoTranscriptionText
	}
	c.store.ResolveTranscription(rec.ID, text)
	log.Printf("Coordinator: recording %d transcribed (%d chars)", rec.ID, len(text))
}

func (c *Coordinator) fail(id int64, kind FailureKind, err error) {
	msg := FailureMessage(kind, err)
	c.store.ResolveTranscription(id, msg)
	c.notifier.Error(msg)
	if err != nil {
		log.Printf("Coordinator: recording %d failed (%s): %v", id, kind, err)
	} else {
		log.Printf("Coordinator: recording %d failed (%s)", id, kind)
	}
}
