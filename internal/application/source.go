package application

import (
	"context"

	"domovoice/internal/domain"
)

// Source delivers utterances, as text or as recorded audio.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Next(ctx context.Context) (domain.Utterance, error)
	Name() string
}
