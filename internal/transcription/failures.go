package transcription

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

// FailureKind classifies a terminal transcription outcome. Each kind maps to
// a fixed human-readable message that becomes the recording's permanent
// transcription annotation.
type FailureKind string

const (
	NotConfigured      FailureKind = "not_configured"
	AssetMissing       FailureKind = "asset_missing"
	Unauthorized       FailureKind = "unauthorized"
	PayloadTooLarge    FailureKind = "payload_too_large"
	RateLimited        FailureKind = "rate_limited"
	BadRequest         FailureKind = "bad_request"
	OtherRemote        FailureKind = "other_remote"
	NetworkUnreachable FailureKind = "network_unreachable"
)

// Classify maps a client error to a failure kind. Anything that never
// produced a remote response counts as network-unreachable.
func Classify(err error) FailureKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}
	return NetworkUnreachable
}

func classifyStatus(status int) FailureKind {
	switch status {
	case 401:
		return Unauthorized
	case 413:
		return PayloadTooLarge
	case 429:
		return RateLimited
	case 400:
		return BadRequest
	default:
		return OtherRemote
	}
}

// FailureMessage is the fixed user-facing annotation for a failure kind.
// OtherRemote carries the remote-supplied message.
func FailureMessage(kind FailureKind, err error) string {
	switch kind {
	case NotConfigured:
		return "Transcription not configured. Add an API key with 'voicepad configure'."
	case AssetMissing:
		return "Audio file is missing."
	case Unauthorized:
		return "Transcription failed: API key was rejected."
	case PayloadTooLarge:
		return "Transcription failed: recording is too large to upload."
	case RateLimited:
		return "Transcription failed: rate limited by the service, try again later."
	case BadRequest:
		return "Transcription failed: the service rejected the request."
	case NetworkUnreachable:
		return "Transcription failed: could not reach the service."
	default:
		var apiErr *openai.APIError
		if err != nil && errors.As(err, &apiErr) && apiErr.Message != "" {
			return "Transcription failed: " + apiErr.Message
		}
		return "Transcription failed: unexpected service error."
	}
}
