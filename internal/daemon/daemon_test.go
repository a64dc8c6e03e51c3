package daemon

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/voicepad/voicepad/internal/config"
	"github.com/voicepad/voicepad/internal/store"
	"github.com/voicepad/voicepad/internal/testutil"
)

func newTestDaemon(t *testing.T) (*Daemon, *testutil.MockEngine) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	manager, err := config.NewManager()
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	engine := testutil.NewMockEngine()
	d := newDaemon(manager, engine, &testutil.MockNotifier{})
	t.Cleanup(d.teardown)
	return d, engine
}

func TestDispatchRecordLifecycle(t *testing.T) {
	d, engine := newTestDaemon(t)

	if got := d.dispatch("record"); got != "OK recording" {
		t.Fatalf("record = %q", got)
	}
	if got := d.dispatch("pause"); got != "OK paused" {
		t.Errorf("pause = %q", got)
	}
	if got := d.dispatch("pause"); got != "OK recording" {
		t.Errorf("second pause = %q, want resume", got)
	}
	if got := d.dispatch("stop"); got != "OK stopped" {
		t.Errorf("stop = %q", got)
	}

	if engine.LiveCaptures() != 0 {
		t.Error("no capture should be live after stop")
	}
	if len(d.store.Recordings()) != 1 {
		t.Errorf("recordings = %d, want 1", len(d.store.Recordings()))
	}
}

func TestDispatchPlayback(t *testing.T) {
	d, engine := newTestDaemon(t)

	rec := d.store.NewRecording("/tmp/a.wav", "0.00.03")
	d.store.Append(rec)
	engine.SetProbe(rec.URI, true, 2048)

	t.Run("play requires an id", func(t *testing.T) {
		if got := d.dispatch("play"); !strings.HasPrefix(got, "ERR") {
			t.Errorf("play = %q, want ERR", got)
		}
		if got := d.dispatch("play abc"); !strings.HasPrefix(got, "ERR") {
			t.Errorf("play abc = %q, want ERR", got)
		}
	})

	t.Run("play toggle halt", func(t *testing.T) {
		if got := d.dispatch("play " + strconv.FormatInt(rec.ID, 10)); !strings.HasPrefix(got, "OK playing") {
			t.Fatalf("play = %q", got)
		}
		if got := d.dispatch("toggle"); got != "OK toggled" {
			t.Errorf("toggle = %q", got)
		}
		if !d.playback.IsPaused() {
			t.Error("playback should be paused after toggle")
		}
		if got := d.dispatch("halt"); got != "OK halted" {
			t.Errorf("halt = %q", got)
		}
		if d.playback.ActiveID() != 0 {
			t.Error("halt should clear the active item")
		}
	})

	t.Run("play unknown id", func(t *testing.T) {
		if got := d.dispatch("play 42"); !strings.HasPrefix(got, "ERR") {
			t.Errorf("play 42 = %q, want ERR", got)
		}
	})
}

func TestDispatchList(t *testing.T) {
	d, _ := newTestDaemon(t)
	d.store.Append(d.store.NewRecording("/tmp/a.wav", "0.00.03"))

	got := d.dispatch("list")
	payload, ok := strings.CutPrefix(got, "DATA ")
	if !ok {
		t.Fatalf("list = %q, want DATA prefix", got)
	}

	var snap store.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("payload is not valid json: %v", err)
	}
	if len(snap.Recordings) != 1 {
		t.Errorf("recordings = %d, want 1", len(snap.Recordings))
	}
	if snap.Recordings[0].Transcription != store.TranscribingSentinel {
		t.Errorf("transcription = %q, want pending sentinel", snap.Recordings[0].Transcription)
	}
}

func TestDispatchStatus(t *testing.T) {
	d, _ := newTestDaemon(t)

	got := d.dispatch("status")
	if !strings.HasPrefix(got, "STATUS ") {
		t.Fatalf("status = %q", got)
	}
	for _, field := range []string{"capture=idle", "elapsed=0", "playback=none", "paused=false", "recordings=0"} {
		if !strings.Contains(got, field) {
			t.Errorf("status %q missing %q", got, field)
		}
	}

	d.dispatch("record")
	if got := d.dispatch("status"); !strings.Contains(got, "capture=recording") {
		t.Errorf("status = %q after record", got)
	}
}

func TestDispatchMisc(t *testing.T) {
	d, _ := newTestDaemon(t)

	if got := d.dispatch(""); got != "ERR empty" {
		t.Errorf("empty = %q", got)
	}
	if got := d.dispatch("launch-missiles"); !strings.HasPrefix(got, "ERR unknown=") {
		t.Errorf("unknown = %q", got)
	}
	if got := d.dispatch("version"); !strings.HasPrefix(got, "STATUS proto=") {
		t.Errorf("version = %q", got)
	}

	if got := d.dispatch("quit"); got != "OK quitting" {
		t.Errorf("quit = %q", got)
	}
	if d.ctx.Err() == nil {
		t.Error("quit should cancel the daemon context")
	}
}

func TestDispatchRecordSupersedes(t *testing.T) {
	d, engine := newTestDaemon(t)

	d.dispatch("record")
	d.dispatch("record")

	if engine.LiveCaptures() != 1 {
		t.Errorf("live captures = %d, want 1", engine.LiveCaptures())
	}
	if len(d.store.Recordings()) != 0 {
		t.Error("superseded capture must not produce a recording")
	}
}

