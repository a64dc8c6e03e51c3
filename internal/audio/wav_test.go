package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAV(t *testing.T) {
	cfg := DefaultCaptureConfig()
	pcm := make([]byte, 32000) // one second at 16kHz mono s16le

	wav, err := EncodeWAV(pcm, cfg)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), wavHeaderSize+len(pcm))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE markers")
	}
	if !bytes.Equal(wav[12:16], []byte("fmt ")) || !bytes.Equal(wav[36:40], []byte("data")) {
		t.Error("missing fmt/data chunks")
	}

	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size = %d, want %d", got, 36+len(pcm))
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != uint16(cfg.Channels) {
		t.Errorf("channels = %d, want %d", got, cfg.Channels)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != uint32(cfg.SampleRate) {
		t.Errorf("sample rate = %d, want %d", got, cfg.SampleRate)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate = %d, want 32000", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(wav[wavHeaderSize:], pcm) {
		t.Error("pcm payload mismatch")
	}
}

func TestEncodeWAVEmptyPayload(t *testing.T) {
	wav, err := EncodeWAV(nil, DefaultCaptureConfig())
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(wav) != wavHeaderSize {
		t.Errorf("len = %d, want header only", len(wav))
	}
}

func TestEncodeWAVUnsupportedFormat(t *testing.T) {
	cfg := DefaultCaptureConfig()
	cfg.Format = "f32le"
	if _, err := EncodeWAV(nil, cfg); err == nil {
		t.Fatal("unsupported format should be rejected")
	}
}

func TestDurationMillis(t *testing.T) {
	cfg := DefaultCaptureConfig() // byte rate 32000

	tests := []struct {
		name string
		size int64
		want int64
	}{
		{"one second", wavHeaderSize + 32000, 1000},
		{"half second", wavHeaderSize + 16000, 500},
		{"header only", wavHeaderSize, 0},
		{"truncated below header", 10, 0},
		{"zero", 0, 0},
		{"five seconds", wavHeaderSize + 160000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationMillis(tt.size, cfg); got != tt.want {
				t.Errorf("DurationMillis(%d) = %d, want %d", tt.size, got, tt.want)
			}
		})
	}

	t.Run("degenerate config", func(t *testing.T) {
		if got := DurationMillis(100000, CaptureConfig{}); got != 0 {
			t.Errorf("DurationMillis = %d, want 0 for zero byte rate", got)
		}
	})
}
