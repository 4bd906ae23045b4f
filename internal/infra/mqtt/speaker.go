package mqtt

import "context"

// Speaker publishes every response sentence to a fixed topic.
type Speaker struct {
	broker Broker
	topic  string
}

func NewSpeaker(broker Broker, topic string) *Speaker {
	return &Speaker{broker: broker, topic: topic}
}

func (s *Speaker) Say(_ context.Context, text string) error {
	return s.broker.Publish(s.topic, []byte(text))
}
