package application

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Speaker delivers a response sentence to the user.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

type SpeakerFunc func(ctx context.Context, text string) error

func (f SpeakerFunc) Say(ctx context.Context, text string) error {
	return f(ctx, text)
}

// MultiSpeaker says the same sentence through every speaker, in order.
type MultiSpeaker []Speaker

func (m MultiSpeaker) Say(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Say(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type WriterSpeaker struct {
	W io.Writer
}

func (w WriterSpeaker) Say(_ context.Context, text string) error {
	_, err := fmt.Fprintln(w.W, text)
	return err
}

type NoopSpeaker struct{}

func (NoopSpeaker) Say(_ context.Context, _ string) error {
	return nil
}
