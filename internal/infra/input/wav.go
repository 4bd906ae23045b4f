package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// encodeWAV wraps mono 16-bit PCM samples in a RIFF/WAVE header.
func encodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer

	dataSize := len(samples) * 2
	header := []any{
		[]byte("RIFF"),
		int32(36 + dataSize),
		[]byte("WAVE"),
		[]byte("fmt "),
		int32(16),
		int16(1), // PCM
		int16(1), // mono
		int32(sampleRate),
		int32(sampleRate * 2),
		int16(2),
		int16(16),
		[]byte("data"),
		int32(dataSize),
	}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("writing wav header: %w", err)
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("writing wav samples: %w", err)
	}

	return buf.Bytes(), nil
}

func isLoud(frame []int16, threshold int16) bool {
	for _, s := range frame {
		if s > threshold || s < -threshold {
			return true
		}
	}
	return false
}
