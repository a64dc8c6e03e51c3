package config

import (
	"os"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/transcription"
)

// CaptureConfig maps the recording section onto the audio engine config.
func (c *Config) CaptureConfig() audio.CaptureConfig {
	return audio.CaptureConfig{
		SampleRate:        c.Recording.SampleRate,
		Channels:          c.Recording.Channels,
		Format:            c.Recording.Format,
		BufferSize:        c.Recording.BufferSize,
		ChannelBufferSize: c.Recording.ChannelBufferSize,
	}
}

// TranscriptionConfig builds the client config. The environment key wins over
// the file so a key never has to be written to disk.
func (c *Config) TranscriptionClientConfig() transcription.Config {
	apiKey := c.APIKey()
	if env := os.Getenv("OPENAI_API_KEY"); env != "" && c.Transcription.Provider == "openai" {
		apiKey = env
	}
	if env := os.Getenv("GROQ_API_KEY"); env != "" && c.Transcription.Provider == "groq" {
		apiKey = env
	}

	return transcription.Config{
		Provider: c.Transcription.Provider,
		APIKey:   apiKey,
		Model:    c.Transcription.Model,
		Language: c.Transcription.Language,
	}
}

// NotifierType returns the effective notifier kind.
func (c *Config) NotifierType() string {
	if !c.Notifications.Enabled {
		return "none"
	}
	if c.Notifications.Type == "" {
		return "desktop"
	}
	return c.Notifications.Type
}
