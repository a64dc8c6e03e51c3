package config

type Config struct {
	Recording     RecordingConfig           `toml:"recording"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
}

// RecordingConfig surfaces the capture constants. They are fixed by design;
// the file carries them so the values are visible, not so they can drift per
// recording.
type RecordingConfig struct {
	SampleRate        int    `toml:"sample_rate"`
	Channels          int    `toml:"channels"`
	Format            string `toml:"format"`
	BufferSize        int    `toml:"buffer_size"`
	ChannelBufferSize int    `toml:"channel_buffer_size"`
}

type TranscriptionConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// ProviderConfig holds the API key for a provider.
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

// APIKey returns the configured key for the active transcription provider.
func (c *Config) APIKey() string {
	if c.Providers == nil {
		return ""
	}
	return c.Providers[c.Transcription.Provider].APIKey
}
