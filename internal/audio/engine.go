package audio

import "context"

// CaptureConfig is the fixed capture quality used for every recording.
// It is deliberately not user-tunable beyond the config file surfacing it;
// a recording made with one config must never silently fall back to another.
type CaptureConfig struct {
	SampleRate        int
	Channels          int
	Format            string
	BufferSize        int
	ChannelBufferSize int
}

func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		SampleRate:        16000,
		Channels:          1,
		Format:            "s16le",
		BufferSize:        4096,
		ChannelBufferSize: 20,
	}
}

// SoundOptions configures a loaded sound. Volume 1.0 is maximum.
type SoundOptions struct {
	Volume float64
}

// ProbeResult describes an audio asset on disk.
type ProbeResult struct {
	Exists    bool
	SizeBytes int64
}

// PositionFunc receives periodic playback position updates. done is true
// exactly once, when playback reaches the natural end of the asset; a sound
// stopped or unloaded early never reports done.
type PositionFunc func(positionMs, durationMs int64, done bool)

// CaptureHandle is a live microphone capture. Exclusively owned by the
// recording session; released by Stop.
type CaptureHandle interface {
	// Pause suspends buffering without releasing the capture.
	Pause() error
	// Resume continues buffering after Pause.
	Resume() error
	// Stop finalizes the capture to an asset and releases the handle,
	// returning the asset URI.
	Stop() (string, error)
}

// SoundHandle is a loaded, playable audio asset. Exclusively owned by the
// playback controller; released by Unload.
type SoundHandle interface {
	Play() error
	Pause() error
	Resume() error
	Stop() error
	Unload() error
	// OnPositionUpdate subscribes to periodic position callbacks and returns
	// an unsubscribe function. Unsubscribing before releasing the handle is
	// required so a superseded sound cannot report into fresh state.
	OnPositionUpdate(fn PositionFunc) (unsubscribe func())
}

// Engine is the boundary to the platform audio primitives.
type Engine interface {
	// RequestPermission verifies the audio system is present and usable.
	RequestPermission(ctx context.Context) error
	StartCapture(ctx context.Context, cfg CaptureConfig) (CaptureHandle, error)
	LoadSound(uri string, opts SoundOptions) (SoundHandle, error)
	ProbeAsset(uri string) (ProbeResult, error)
}
