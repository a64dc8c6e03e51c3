package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// EncodeWAV wraps raw PCM samples in a WAV container matching cfg.
func EncodeWAV(pcm []byte, cfg CaptureConfig) ([]byte, error) {
	if cfg.Format != "s16le" {
		return nil, fmt.Errorf("unsupported capture format %q", cfg.Format)
	}

	const bitsPerSample = 16
	byteRate := cfg.SampleRate * cfg.Channels * bitsPerSample / 8
	blockAlign := cfg.Channels * bitsPerSample / 8

	dataSize := len(pcm)
	fileSize := 36 + dataSize

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(fileSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(cfg.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(cfg.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// DurationMillis derives playback duration from a WAV file size, assuming the
// fixed capture config (s16le PCM, 44-byte header).
func DurationMillis(fileSizeBytes int64, cfg CaptureConfig) int64 {
	byteRate := int64(cfg.SampleRate * cfg.Channels * 2)
	if byteRate <= 0 {
		return 0
	}
	dataSize := fileSizeBytes - wavHeaderSize
	if dataSize <= 0 {
		return 0
	}
	return dataSize * 1000 / byteRate
}
