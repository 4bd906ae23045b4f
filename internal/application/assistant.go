package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"domovoice/internal/domain"
)

const MsgNotRelevant = "That does not sound like a home automation command."

// Assistant pulls utterances from a source and answers them one at a time.
type Assistant struct {
	source  Source
	stt     SpeechToText
	handler *Handler
	speaker Speaker
	journal Journal
	logger  *slog.Logger
}

func NewAssistant(
	source Source,
	stt SpeechToText,
	handler *Handler,
	speaker Speaker,
	logger *slog.Logger,
) *Assistant {
	return &Assistant{
		source:  source,
		stt:     stt,
		handler: handler,
		speaker: speaker,
		logger:  logger,
	}
}

// WithJournal makes the assistant record every answered command through j.
func (a *Assistant) WithJournal(j Journal) *Assistant {
	a.journal = j
	return a
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting input source", "source", a.source.Name())
	if err := a.source.Start(ctx); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	defer a.source.Stop()

	a.logger.Info("assistant ready, listening for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOne(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.logger.Error("processing command", "error", err)
			}
		}
	}
}

func (a *Assistant) processOne(ctx context.Context) error {
	u, err := a.source.Next(ctx)
	if err != nil {
		return fmt.Errorf("getting utterance: %w", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	logger := a.logger.With("command_id", u.ID, "source", u.Source)

	text := u.Text
	if u.IsAudio() {
		logger.Info("received audio", "bytes", len(u.Audio))
		text, err = a.stt.Transcribe(ctx, u.Audio)
		if err != nil {
			return fmt.Errorf("transcribing: %w", err)
		}
		logger.Info("transcribed", "text", text)
	} else {
		logger.Info("received text command", "text", text)
	}

	if text == "" {
		return nil
	}

	if !IsRelevant(text) {
		logger.Info("ignoring utterance unrelated to home automation", "text", text)
		if u.Reply != nil {
			return u.Reply(ctx, MsgNotRelevant)
		}
		return nil
	}

	var said string
	out := MultiSpeaker{a.speaker}
	if u.Reply != nil {
		out = append(out, SpeakerFunc(u.Reply))
	}
	recorder := SpeakerFunc(func(ctx context.Context, response string) error {
		said = response
		return out.Say(ctx, response)
	})

	if err := a.handler.Handle(ctx, text, recorder); err != nil {
		var cfgErr *domain.ConfigurationError
		if u.Reply != nil && errors.As(err, &cfgErr) {
			_ = u.Reply(ctx, MsgServerUnavailable)
		}
		return fmt.Errorf("handling %q: %w", text, err)
	}
	logger.Info("answered", "intent", Classify(text), "response", said)

	if a.journal != nil && said != "" {
		if err := a.journal.AddLogMessage(ctx, fmt.Sprintf("domovoice: %q -> %q", text, said)); err != nil {
			logger.Warn("writing domoticz log message", "error", err)
		}
	}
	return nil
}
