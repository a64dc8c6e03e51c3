package tui

import (
	"fmt"
	"strings"

	"github.com/voicepad/voicepad/internal/store"
)

// RenderList renders a store snapshot as the recordings list: recordings
// grouped by section, newest first, with playback glyphs and progress.
func RenderList(snap store.Snapshot) string {
	if len(snap.Recordings) == 0 {
		return StyleMuted.Render("No recordings yet. Run 'voicepad record' to make one.")
	}

	var b strings.Builder
	lastSection := ""

	for _, rec := range snap.Recordings {
		if rec.Section != lastSection {
			if lastSection != "" {
				b.WriteString("\n")
			}
			b.WriteString(StyleSection.Render(rec.Section))
			b.WriteString("\n")
			lastSection = rec.Section
		}

		b.WriteString(renderRecording(rec, snap))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderRecording(rec store.Recording, snap store.Snapshot) string {
	glyph := playGlyph(rec.ID, snap.Playback)

	line := fmt.Sprintf("  %s %d  %s  %s", glyph, rec.ID, rec.CreatedAtLabel, rec.DurationLabel)
	if rec.ID == snap.Playback.ActiveID {
		pct := snap.Progress[rec.ID]
		line = StyleActive.Render(line) + StyleMuted.Render(fmt.Sprintf("  %3.0f%%", pct))
	}

	preview := transcriptionPreview(rec)
	return line + "\n" + StyleSubtle.Render("      "+preview)
}

// playGlyph derives the control glyph: pause iff the item is active and not
// paused, play otherwise (an active-but-paused item resumes on play).
func playGlyph(id int64, pb store.PlaybackState) string {
	if id == pb.ActiveID && !pb.IsPaused {
		return "⏸"
	}
	return "▶"
}

func transcriptionPreview(rec store.Recording) string {
	text := rec.Transcription
	if !store.IsLongTranscription(text) {
		return text
	}

	runes := []rune(text)
	return string(runes[:store.LongTranscriptionThreshold]) + "… (more)"
}

// RenderStatus renders the capture/playback summary line.
func RenderStatus(snap store.Snapshot) string {
	capture := snap.Capture.Status
	if capture != "idle" {
		capture = fmt.Sprintf("%s (%s)", capture, formatElapsed(snap.Capture.ElapsedSeconds))
	}

	playbackState := "none"
	if snap.Playback.ActiveID != 0 {
		playbackState = fmt.Sprintf("%d", snap.Playback.ActiveID)
		if snap.Playback.IsPaused {
			playbackState += " (paused)"
		}
	}

	return fmt.Sprintf("%s %s  %s %s",
		StyleMuted.Render("capture:"), capture,
		StyleMuted.Render("playback:"), playbackState)
}

func formatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
