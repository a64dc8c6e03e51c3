package tui

import (
	"strings"
	"testing"

	"github.com/voicepad/voicepad/internal/store"
)

func snapshotWith(recs ...store.Recording) store.Snapshot {
	return store.Snapshot{
		Recordings: recs,
		Capture:    store.CaptureState{Status: "idle"},
		Progress:   map[int64]float64{},
	}
}

func TestRenderListEmpty(t *testing.T) {
	out := RenderList(snapshotWith())
	if !strings.Contains(out, "No recordings yet") {
		t.Errorf("empty list = %q", out)
	}
}

func TestRenderListGroupsBySection(t *testing.T) {
	snap := snapshotWith(
		store.Recording{ID: 2, Section: "Today", DurationLabel: "0.00.05", Transcription: "two"},
		store.Recording{ID: 1, Section: "Today", DurationLabel: "0.00.03", Transcription: "one"},
	)

	out := RenderList(snap)
	if strings.Count(out, "Today") != 1 {
		t.Errorf("section header should appear once:\n%s", out)
	}
	if strings.Index(out, "two") > strings.Index(out, "one") {
		t.Error("recordings should render in snapshot order, newest first")
	}
}

func TestPlayGlyph(t *testing.T) {
	tests := []struct {
		name string
		pb   store.PlaybackState
		want string
	}{
		{"inactive", store.PlaybackState{}, "▶"},
		{"active playing", store.PlaybackState{ActiveID: 7}, "⏸"},
		{"active paused", store.PlaybackState{ActiveID: 7, IsPaused: true}, "▶"},
		{"other item active", store.PlaybackState{ActiveID: 8}, "▶"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playGlyph(7, tt.pb); got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderListShowsProgressForActiveItem(t *testing.T) {
	snap := snapshotWith(
		store.Recording{ID: 1, Section: "Today", Transcription: "hello"},
	)
	snap.Playback = store.PlaybackState{ActiveID: 1}
	snap.Progress[1] = 42

	out := RenderList(snap)
	if !strings.Contains(out, "42%") {
		t.Errorf("active item should show progress:\n%s", out)
	}
}

func TestTranscriptionPreview(t *testing.T) {
	t.Run("short text verbatim", func(t *testing.T) {
		rec := store.Recording{Transcription: "short note"}
		if got := transcriptionPreview(rec); got != "short note" {
			t.Errorf("preview = %q", got)
		}
	})

	t.Run("long text truncated", func(t *testing.T) {
		long := strings.Repeat("a", store.LongTranscriptionThreshold+50)
		rec := store.Recording{Transcription: long}

		got := transcriptionPreview(rec)
		if !strings.HasSuffix(got, "… (more)") {
			t.Errorf("preview should end with the expand hint, got %q", got)
		}
		if len([]rune(got)) >= len([]rune(long)) {
			t.Error("preview should be shorter than the full text")
		}
	})
}

func TestRenderStatus(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		out := RenderStatus(snapshotWith())
		if !strings.Contains(out, "idle") || !strings.Contains(out, "none") {
			t.Errorf("status = %q", out)
		}
	})

	t.Run("recording with elapsed", func(t *testing.T) {
		snap := snapshotWith()
		snap.Capture = store.CaptureState{Status: "recording", ElapsedSeconds: 65}
		out := RenderStatus(snap)
		if !strings.Contains(out, "recording (1:05)") {
			t.Errorf("status = %q", out)
		}
	})

	t.Run("paused playback", func(t *testing.T) {
		snap := snapshotWith()
		snap.Playback = store.PlaybackState{ActiveID: 9, IsPaused: true}
		out := RenderStatus(snap)
		if !strings.Contains(out, "9 (paused)") {
			t.Errorf("status = %q", out)
		}
	})
}
