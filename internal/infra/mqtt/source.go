package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"domovoice/internal/domain"
)

// request is the JSON form of an utterance message. Plain-text payloads are
// accepted as well.
type request struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	ReplyTo string `json:"reply_to"`
}

type reply struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	Response string `json:"response"`
}

// Source turns messages on the utterance topic into utterances. A JSON
// message with reply_to gets its response published there.
type Source struct {
	broker  Broker
	topic   string
	queue   chan domain.Utterance
	logger  *slog.Logger
	mu      sync.Mutex
	running bool
}

func NewSource(broker Broker, topic string, logger *slog.Logger) *Source {
	return &Source{
		broker: broker,
		topic:  topic,
		queue:  make(chan domain.Utterance, 10),
		logger: logger,
	}
}

func (s *Source) Name() string {
	return "mqtt"
}

func (s *Source) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.broker.Subscribe(s.topic, s.onMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", s.topic, err)
	}
	s.running = true
	return nil
}

func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	if err := s.broker.Unsubscribe(s.topic); err != nil {
		return fmt.Errorf("unsubscribing from %s: %w", s.topic, err)
	}
	return nil
}

func (s *Source) Next(ctx context.Context) (domain.Utterance, error) {
	select {
	case <-ctx.Done():
		return domain.Utterance{}, ctx.Err()
	case u := <-s.queue:
		return u, nil
	}
}

func (s *Source) onMessage(topic string, payload []byte) {
	req := parseRequest(payload)
	if req.Text == "" {
		s.logger.Warn("ignoring empty mqtt utterance", "topic", topic)
		return
	}

	u := domain.Utterance{ID: req.ID, Source: "mqtt", Text: req.Text}
	if req.ReplyTo != "" {
		u.Reply = func(_ context.Context, response string) error {
			data, err := json.Marshal(reply{ID: req.ID, Text: req.Text, Response: response})
			if err != nil {
				return fmt.Errorf("encoding reply: %w", err)
			}
			return s.broker.Publish(req.ReplyTo, data)
		}
	}

	select {
	case s.queue <- u:
		s.logger.Info("received command via MQTT", "topic", topic, "text", req.Text)
	default:
		s.logger.Warn("utterance queue full, dropping mqtt message", "topic", topic)
	}
}

func parseRequest(payload []byte) request {
	trimmed := strings.TrimSpace(string(payload))
	var req request
	if strings.HasPrefix(trimmed, "{") && json.Unmarshal([]byte(trimmed), &req) == nil {
		req.Text = strings.TrimSpace(req.Text)
		return req
	}
	return request{Text: trimmed}
}
