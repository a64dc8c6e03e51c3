package config

// Default returns the configuration a fresh install runs with. The API key
// placeholder keeps the app usable; transcription short-circuits to a
// not-configured annotation until a real key is set.
func Default() *Config {
	return &Config{
		Recording: RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Format:            "s16le",
			BufferSize:        4096,
			ChannelBufferSize: 20,
		},
		Transcription: TranscriptionConfig{
			Provider: "openai",
			Model:    "whisper-1",
			Language: "en",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: map[string]ProviderConfig{
			"openai": {APIKey: "your-api-key"},
		},
	}
}
