package transcription

import "context"

// Client sends a finalized audio asset to a remote speech-to-text service.
// Exactly one attempt per call; retries are a caller decision (and this
// system never retries).
type Client interface {
	Transcribe(ctx context.Context, uri string) (string, error)
}

// Config selects and parameterizes the remote service. Decoding is
// deterministic: temperature 0, fixed language hint, JSON response format.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Language string
}

func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "whisper-1",
		Language: "en",
	}
}

// NewClient builds the adapter for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg), nil
	case "groq":
		return NewGroqClient(cfg), nil
	default:
		return nil, &UnsupportedProviderError{Provider: cfg.Provider}
	}
}

type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return "unsupported transcription provider: " + e.Provider
}
