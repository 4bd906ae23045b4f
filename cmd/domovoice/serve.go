package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"domovoice/internal/application"
	"domovoice/internal/infra/input"
	"domovoice/internal/infra/mqtt"
	"domovoice/internal/infra/openai"
	"domovoice/internal/infra/pushover"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for commands on the configured input source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(os.Stdout)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), s)
	},
}

func serve(parent context.Context, s *session) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger := s.cfg, s.logger

	var broker *mqtt.Client
	if cfg.Input.Source == "mqtt" || cfg.UsesOutput("mqtt") {
		b, err := mqtt.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		broker = b
	}

	source := createSource(s, broker)
	speaker := createSpeaker(s, broker)

	var stt application.SpeechToText = &application.NoopSTT{}
	if cfg.OpenAI.APIKey != "" {
		stt = openai.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.Language)
	}

	handler := application.NewHandler(s.client, logger)
	assistant := application.NewAssistant(source, stt, handler, speaker, logger)
	if cfg.Domoticz.LogCommands {
		assistant.WithJournal(s.client)
	}

	logger.Info("starting domovoice",
		"input_source", cfg.Input.Source,
		"outputs", cfg.Speaker.Outputs,
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("assistant: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func createSource(s *session, broker *mqtt.Client) application.Source {
	cfg := s.cfg.Input
	switch cfg.Source {
	case "file":
		return input.NewFileSource(cfg.FileDir)
	case "microphone":
		return input.NewMicrophoneSource(cfg.SampleRate, s.logger)
	case "mqtt":
		return mqtt.NewSource(broker, s.cfg.MQTT.UtteranceTopic, s.logger)
	default:
		return input.NewHTTPSource(cfg.HTTPAddr, cfg.AuthToken, cfg.RateLimit, s.logger)
	}
}

func createSpeaker(s *session, broker *mqtt.Client) application.Speaker {
	var speakers application.MultiSpeaker
	for _, out := range s.cfg.Speaker.Outputs {
		switch out {
		case "console":
			speakers = append(speakers, application.WriterSpeaker{W: os.Stdout})
		case "pushover":
			speakers = append(speakers, pushover.NewClient(s.cfg.Pushover.Token, s.cfg.Pushover.UserKey))
		case "mqtt":
			speakers = append(speakers, mqtt.NewSpeaker(broker, s.cfg.MQTT.ResponseTopic))
		}
	}
	if len(speakers) == 0 {
		return application.NoopSpeaker{}
	}
	return speakers
}
