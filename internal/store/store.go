package store

import (
	"sync"
	"time"
	"unicode/utf8"
)

// TranscribingSentinel is the transcription placeholder a Recording carries
// from creation until the coordinator resolves it.
const TranscribingSentinel = "Transcribing…"

// LongTranscriptionThreshold is the rune count above which presentation
// offers a truncation/expand affordance.
const LongTranscriptionThreshold = 200

// Recording is a finalized voice memo. Identity is immutable; Transcription
// and IsTranscribing are written exactly once by the coordinator.
type Recording struct {
	ID             int64  `json:"id"`
	DurationLabel  string `json:"duration_label"`
	Transcription  string `json:"transcription"`
	IsTranscribing bool   `json:"is_transcribing"`
	CreatedAtLabel string `json:"created_at_label"`
	Section        string `json:"section"`
	URI            string `json:"uri"`
}

// CaptureState is the presentation view of the recording session.
type CaptureState struct {
	Status         string `json:"status"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// PlaybackState is the presentation view of the playback controller.
// ActiveID == 0 means nothing is playing.
type PlaybackState struct {
	ActiveID int64 `json:"active_id"`
	IsPaused bool  `json:"is_paused"`
}

// Snapshot is a read-only copy of the whole store, safe to hand to
// presentation or serialize over the bus.
type Snapshot struct {
	Recordings []Recording       `json:"recordings"`
	Capture    CaptureState      `json:"capture"`
	Playback   PlaybackState     `json:"playback"`
	Progress   map[int64]float64 `json:"progress"`
}

// Store is the in-memory session store: the ordered recordings collection
// (newest first), the capture and playback state slots, and the per-recording
// progress map. Mutation is split by component: only the recording session
// appends, only the coordinator resolves transcriptions, only the playback
// controller touches progress. Every mutation notifies subscribed observers.
type Store struct {
	mu         sync.RWMutex
	recordings []Recording
	progress   map[int64]float64
	capture    CaptureState
	playback   PlaybackState
	lastID     int64

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

func New() *Store {
	return &Store{
		progress:  make(map[int64]float64),
		capture:   CaptureState{Status: "idle"},
		observers: make(map[int]func()),
	}
}

// Subscribe registers an observer called after every mutation. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// NewRecording builds a Recording with a fresh monotonic id and the fixed
// creation-time fields. It does not append; the session does that explicitly.
func (s *Store) NewRecording(uri, durationLabel string) Recording {
	now := time.Now()

	s.mu.Lock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	s.mu.Unlock()

	return Recording{
		ID:             id,
		DurationLabel:  durationLabel,
		Transcription:  TranscribingSentinel,
		IsTranscribing: true,
		CreatedAtLabel: now.Format("15:04"),
		Section:        "Today",
		URI:            uri,
	}
}

// Append prepends a recording (newest first). Recording session only.
func (s *Store) Append(rec Recording) {
	s.mu.Lock()
	s.recordings = append([]Recording{rec}, s.recordings...)
	s.mu.Unlock()
	s.notify()
}

// Get returns a copy of the recording with the given id.
func (s *Store) Get(id int64) (Recording, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.recordings {
		if rec.ID == id {
			return rec, true
		}
	}
	return Recording{}, false
}

// Recordings returns a copy of the ordered collection.
func (s *Store) Recordings() []Recording {
	s.mu.RLock()
	out := make([]Recording, len(s.recordings))
	copy(out, s.recordings)
	s.mu.RUnlock()
	return out
}

// ResolveTranscription writes the final transcription text and flips
// IsTranscribing to false. Coordinator only. Returns false when the recording
// is unknown or already resolved; a resolved recording is never re-resolved.
func (s *Store) ResolveTranscription(id int64, text string) bool {
	s.mu.Lock()
	resolved := false
	for i := range s.recordings {
		if s.recordings[i].ID == id && s.recordings[i].IsTranscribing {
			s.recordings[i].Transcription = text
			s.recordings[i].IsTranscribing = false
			resolved = true
			break
		}
	}
	s.mu.Unlock()

	if resolved {
		s.notify()
	}
	return resolved
}

// SetProgress records the playback progress percentage for a recording.
// Playback controller only.
func (s *Store) SetProgress(id int64, pct float64) {
	s.mu.Lock()
	s.progress[id] = pct
	s.mu.Unlock()
	s.notify()
}

// ResetProgress sets a single recording's progress back to zero.
func (s *Store) ResetProgress(id int64) {
	s.SetProgress(id, 0)
}

// ClearProgress drops every progress entry (explicit playback stop).
func (s *Store) ClearProgress() {
	s.mu.Lock()
	s.progress = make(map[int64]float64)
	s.mu.Unlock()
	s.notify()
}

// Progress returns the progress percentage for a recording (0 when unset).
func (s *Store) Progress(id int64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[id]
}

// SetCapture updates the capture state slot. Recording session only.
func (s *Store) SetCapture(status string, elapsedSeconds int) {
	s.mu.Lock()
	s.capture = CaptureState{Status: status, ElapsedSeconds: elapsedSeconds}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Capture() CaptureState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capture
}

// SetPlayback updates the playback state slot. Playback controller only.
func (s *Store) SetPlayback(activeID int64, isPaused bool) {
	s.mu.Lock()
	s.playback = PlaybackState{ActiveID: activeID, IsPaused: isPaused}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Playback() PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playback
}

// Snapshot returns a consistent copy of the entire store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]Recording, len(s.recordings))
	copy(recs, s.recordings)

	progress := make(map[int64]float64, len(s.progress))
	for id, pct := range s.progress {
		progress[id] = pct
	}

	return Snapshot{
		Recordings: recs,
		Capture:    s.capture,
		Playback:   s.playback,
		Progress:   progress,
	}
}

// IsLongTranscription reports whether final text is long enough to warrant a
// truncation/expand affordance. Derived from length, never stored.
func IsLongTranscription(text string) bool {
	return utf8.RuneCountInString(text) > LongTranscriptionThreshold
}
