//go:build portaudio
// +build portaudio

package input

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"domovoice/internal/domain"
)

const (
	framesPerBuffer  = 1024
	silenceThreshold = int16(500)
)

// MicrophoneSource records one utterance at a time from the default input
// device: it waits for sound above the silence threshold and stops after a
// second of silence or ten seconds of audio.
type MicrophoneSource struct {
	stream     *portaudio.Stream
	frame      []int16
	sampleRate int
	logger     *slog.Logger
}

func NewMicrophoneSource(sampleRate int, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		sampleRate: sampleRate,
		logger:     logger,
		frame:      make([]int16, framesPerBuffer),
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(m.frame), m.frame)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	m.logger.Info("microphone started", "sampleRate", m.sampleRate)
	return nil
}

func (m *MicrophoneSource) Stop() error {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	return portaudio.Terminate()
}

func (m *MicrophoneSource) Next(ctx context.Context) (domain.Utterance, error) {
	samples := make([]int16, 0, m.sampleRate*5)
	heard := false
	silent := 0

	for {
		select {
		case <-ctx.Done():
			return domain.Utterance{}, ctx.Err()
		default:
		}

		if err := m.stream.Read(); err != nil {
			return domain.Utterance{}, fmt.Errorf("reading from stream: %w", err)
		}

		loud := isLoud(m.frame, silenceThreshold)
		if !heard && !loud {
			continue
		}
		heard = true
		samples = append(samples, m.frame...)

		if loud {
			silent = 0
		} else {
			silent += len(m.frame)
		}

		if silent > m.sampleRate || len(samples) > m.sampleRate*10 {
			break
		}
	}

	wav, err := encodeWAV(samples, m.sampleRate)
	if err != nil {
		return domain.Utterance{}, err
	}
	return domain.Utterance{Source: "microphone", Audio: wav}, nil
}
