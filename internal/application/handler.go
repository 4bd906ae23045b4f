package application

import (
	"context"
	"log/slog"
	"strings"

	"domovoice/internal/domain"
	"domovoice/internal/metrics"
)

const (
	MsgNotDefined        = "Your command is not defined in Domoticz"
	MsgServerUnavailable = "I could not reach the automation server."
)

// Handler turns one utterance into at most a few Domoticz calls and a
// response sentence. It keeps no state between calls.
type Handler struct {
	ctl    Controller
	logger *slog.Logger
}

func NewHandler(ctl Controller, logger *slog.Logger) *Handler {
	return &Handler{ctl: ctl, logger: logger}
}

// command is an utterance prepared for matching.
type command struct {
	text   string
	tokens []string
}

func newCommand(utterance string) command {
	return command{
		text:   strings.ToLower(utterance),
		tokens: tokenize(utterance),
	}
}

// Handle answers the utterance through out exactly once. Server failures are
// spoken as a generic apology; configuration errors are returned unspoken.
func (h *Handler) Handle(ctx context.Context, utterance string, out Speaker) error {
	response, err := h.Respond(ctx, utterance)
	if err != nil {
		if !domain.IsServerFailure(err) {
			return err
		}
		h.logger.Error("domoticz request failed", "error", err, "utterance", utterance)
		response = MsgServerUnavailable
	}
	return out.Say(ctx, response)
}

// Respond computes the response sentence without delivering it. Server
// credentials are resolved once for the whole command.
func (h *Handler) Respond(ctx context.Context, utterance string) (string, error) {
	ctx = domain.WithCredentialScope(ctx)
	intent := Classify(utterance)
	cmd := newCommand(utterance)

	var (
		response string
		err      error
	)
	switch intent {
	case domain.IntentRoom:
		response, err = h.handleRooms(ctx, cmd)
	case domain.IntentSceneGroup:
		response, err = h.handleScenes(ctx, cmd)
	case domain.IntentLight:
		response, err = h.handleLights(ctx, cmd)
	case domain.IntentThermostat:
		response, err = h.handleThermostats(ctx, cmd)
	default:
		response = MsgNotDefined
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CommandCounter.WithLabelValues(string(intent), outcome).Inc()
	h.logger.Debug("handled utterance", "intent", intent, "response", response, "error", err)

	return response, err
}
