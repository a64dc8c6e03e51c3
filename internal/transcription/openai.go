package transcription

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client against the OpenAI Whisper API.
type OpenAIClient struct {
	client *openai.Client
	cfg    Config
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

func (c *OpenAIClient) Transcribe(ctx context.Context, uri string) (string, error) {
	return transcribeFile(ctx, c.client, c.cfg, uri, "openai")
}

// GroqClient implements Client against Groq's OpenAI-compatible Whisper API.
type GroqClient struct {
	client *openai.Client
	cfg    Config
}

func NewGroqClient(cfg Config) *GroqClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = "https://api.groq.com/openai/v1"
	return &GroqClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}
}

func (c *GroqClient) Transcribe(ctx context.Context, uri string) (string, error) {
	return transcribeFile(ctx, c.client, c.cfg, uri, "groq")
}

func transcribeFile(ctx context.Context, client *openai.Client, cfg Config, uri, name string) (string, error) {
	req := openai.AudioRequest{
		Model:       cfg.Model,
		FilePath:    uri,
		Language:    cfg.Language,
		Format:      openai.AudioResponseFormatJSON,
		Temperature: 0,
	}

	start := time.Now()
	resp, err := client.CreateTranscription(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("Transcription: %s API call failed after %v: %v", name, elapsed, err)
		return "", fmt.Errorf("%s transcription: %w", name, err)
	}

	log.Printf("Transcription: %s transcribed %s in %v: %q", name, uri, elapsed, resp.Text)
	return resp.Text, nil
}
