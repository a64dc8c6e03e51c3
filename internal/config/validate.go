package config

import "fmt"

var validProviders = map[string]bool{
	"openai": true,
	"groq":   true,
}

var validNotificationTypes = map[string]bool{
	"desktop": true,
	"log":     true,
	"none":    true,
}

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("recording.sample_rate must be positive, got %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("recording.channels must be positive, got %d", c.Recording.Channels)
	}
	if c.Recording.Format != "s16le" {
		return fmt.Errorf("recording.format must be s16le, got %q", c.Recording.Format)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("recording.buffer_size must be positive, got %d", c.Recording.BufferSize)
	}

	if !validProviders[c.Transcription.Provider] {
		return fmt.Errorf("transcription.provider must be one of openai, groq; got %q", c.Transcription.Provider)
	}
	if c.Transcription.Model == "" {
		return fmt.Errorf("transcription.model must not be empty")
	}

	if c.Notifications.Type != "" && !validNotificationTypes[c.Notifications.Type] {
		return fmt.Errorf("notifications.type must be one of desktop, log, none; got %q", c.Notifications.Type)
	}

	return nil
}
