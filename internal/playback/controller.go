package playback

import (
	"fmt"
	"log"
	"sync"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/notify"
	"github.com/voicepad/voicepad/internal/store"
)

// Controller enforces at-most-one-active playback across the recordings
// collection and keeps per-recording progress percentages live in the store.
// The sound handle is exclusively owned here; release-before-reacquire.
type Controller struct {
	engine   audio.Engine
	store    *store.Store
	notifier notify.Notifier

	mu          sync.Mutex
	activeID    int64
	isPaused    bool
	handle      audio.SoundHandle
	unsubscribe func()
}

func NewController(engine audio.Engine, st *store.Store, notifier notify.Notifier) *Controller {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Controller{
		engine:   engine,
		store:    st,
		notifier: notifier,
	}
}

func (c *Controller) ActiveID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isPaused
}

// Play starts playback of the given recording, superseding whatever is
// active. A recording without a URI, or whose asset is missing or empty, is
// rejected with no state mutation; stale URIs are a known failure mode, so
// the probe is not optional.
func (c *Controller) Play(id int64) error {
	rec, ok := c.store.Get(id)
	if !ok {
		return c.reject(fmt.Sprintf("unknown recording %d", id))
	}
	if rec.URI == "" {
		return c.reject("recording has no audio")
	}
	probe, err := c.engine.ProbeAsset(rec.URI)
	if err != nil {
		return c.reject("could not inspect audio file")
	}
	if !probe.Exists || probe.SizeBytes == 0 {
		return c.reject("audio file is missing or empty")
	}

	c.mu.Lock()
	c.releaseLocked()

	// The previous item's last progress value stays; only the item about to
	// start is reset.
	c.store.ResetProgress(id)

	handle, err := c.engine.LoadSound(rec.URI, audio.SoundOptions{Volume: 1.0})
	if err != nil {
		c.activeID = 0
		c.isPaused = false
		c.mu.Unlock()
		c.store.SetPlayback(0, false)
		c.notifier.Error("Could not play recording: " + err.Error())
		return &LoadError{Reason: "engine load", Err: err}
	}

	c.handle = handle
	c.activeID = id
	c.isPaused = false
	c.unsubscribe = handle.OnPositionUpdate(c.positionUpdate(id))

	if err := handle.Play(); err != nil {
		c.releaseLocked()
		c.mu.Unlock()
		c.store.SetPlayback(0, false)
		c.notifier.Error("Could not play recording: " + err.Error())
		return &LoadError{Reason: "engine play", Err: err}
	}
	c.mu.Unlock()

	c.store.SetPlayback(id, false)
	log.Printf("Playback: playing %d", id)
	return nil
}

// positionUpdate builds the per-sound callback. The id guard makes a late
// callback from a superseded sound harmless even if it slipped past
// unsubscription.
func (c *Controller) positionUpdate(id int64) audio.PositionFunc {
	return func(positionMs, durationMs int64, done bool) {
		c.mu.Lock()
		if c.activeID != id {
			c.mu.Unlock()
			return
		}

		if done {
			if c.unsubscribe != nil {
				c.unsubscribe()
				c.unsubscribe = nil
			}
			if c.handle != nil {
				_ = c.handle.Unload()
				c.handle = nil
			}
			c.activeID = 0
			c.isPaused = false
			c.mu.Unlock()

			c.store.ResetProgress(id)
			c.store.SetPlayback(0, false)
			log.Printf("Playback: %d finished", id)
			return
		}
		c.mu.Unlock()

		pct := 0.0
		if durationMs > 0 {
			pct = float64(positionMs) / float64(durationMs) * 100
		}
		c.store.SetProgress(id, pct)
	}
}

// TogglePause pauses a playing item or resumes a paused one. Resume (not
// restart) is disambiguated by the item already being active. No-op when
// nothing is active.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	if c.handle == nil {
		c.mu.Unlock()
		return nil
	}

	var err error
	if c.isPaused {
		err = c.handle.Resume()
		if err == nil {
			c.isPaused = false
		}
	} else {
		err = c.handle.Pause()
		if err == nil {
			c.isPaused = true
		}
	}
	id, paused := c.activeID, c.isPaused
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.store.SetPlayback(id, paused)
	return nil
}

// Stop releases the active handle and clears the entire progress map.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.releaseLocked()
	c.activeID = 0
	c.isPaused = false
	c.mu.Unlock()

	c.store.ClearProgress()
	c.store.SetPlayback(0, false)
}

// releaseLocked unsubscribes before unloading, so a superseded sound's
// callback can never overwrite the next item's progress.
func (c *Controller) releaseLocked() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.handle != nil {
		_ = c.handle.Stop()
		_ = c.handle.Unload()
		c.handle = nil
	}
}

func (c *Controller) reject(reason string) error {
	c.notifier.Error("Cannot play: " + reason)
	return &LoadError{Reason: reason}
}
