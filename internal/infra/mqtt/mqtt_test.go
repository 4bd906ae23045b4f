package mqtt

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeBroker struct {
	mu        sync.Mutex
	handlers  map[string]func(string, []byte)
	published map[string][][]byte
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		handlers:  make(map[string]func(string, []byte)),
		published: make(map[string][][]byte),
	}
}

func (b *fakeBroker) Subscribe(topic string, cb func(string, []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = cb
	return nil
}

func (b *fakeBroker) Unsubscribe(topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, topic)
	return nil
}

func (b *fakeBroker) Publish(topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[topic] = append(b.published[topic], payload)
	return nil
}

func (b *fakeBroker) deliver(topic string, payload string) {
	b.mu.Lock()
	cb := b.handlers[topic]
	b.mu.Unlock()
	if cb != nil {
		cb(topic, []byte(payload))
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSource_PlainTextMessage(t *testing.T) {
	broker := newFakeBroker()
	source := NewSource(broker, "domovoice/utterance", discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	broker.deliver("domovoice/utterance", "  turn on the kitchen light \n")

	u, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if u.Text != "turn on the kitchen light" || u.Source != "mqtt" {
		t.Errorf("utterance: got %+v", u)
	}
	if u.Reply != nil {
		t.Error("plain text message should not carry a reply function")
	}
}

func TestSource_JSONMessageWithReplyTo(t *testing.T) {
	broker := newFakeBroker()
	source := NewSource(broker, "domovoice/utterance", discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	broker.deliver("domovoice/utterance", `{"id":"abc","text":"scene movie on","reply_to":"phone/reply"}`)

	u, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if u.ID != "abc" || u.Text != "scene movie on" {
		t.Fatalf("utterance: got %+v", u)
	}
	if err := u.Reply(ctx, "Activating movie"); err != nil {
		t.Fatalf("Reply error: %v", err)
	}

	msgs := broker.published["phone/reply"]
	if len(msgs) != 1 {
		t.Fatalf("published replies: got %d, want 1", len(msgs))
	}
	var got reply
	if err := json.Unmarshal(msgs[0], &got); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if got.ID != "abc" || got.Response != "Activating movie" {
		t.Errorf("reply: got %+v", got)
	}
}

func TestSource_EmptyMessageIgnored(t *testing.T) {
	broker := newFakeBroker()
	source := NewSource(broker, "domovoice/utterance", discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	broker.deliver("domovoice/utterance", `{"text":"   "}`)

	if _, err := source.Next(ctx); err == nil {
		t.Fatal("expected no utterance for an empty message")
	}
}

func TestSource_StopUnsubscribes(t *testing.T) {
	broker := newFakeBroker()
	source := NewSource(broker, "domovoice/utterance", discardLogger())

	if err := source.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := source.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if _, ok := broker.handlers["domovoice/utterance"]; ok {
		t.Error("topic still subscribed after Stop")
	}
}

func TestSpeaker_PublishesResponse(t *testing.T) {
	broker := newFakeBroker()
	speaker := NewSpeaker(broker, "domovoice/response")

	if err := speaker.Say(context.Background(), "Turning kitchen light on"); err != nil {
		t.Fatalf("Say error: %v", err)
	}
	msgs := broker.published["domovoice/response"]
	if len(msgs) != 1 || string(msgs[0]) != "Turning kitchen light on" {
		t.Errorf("published: got %q", msgs)
	}
}

func TestConnect_RejectsBadURL(t *testing.T) {
	if _, err := Connect("ftp://broker:21", "domovoice", discardLogger()); err == nil {
		t.Error("expected error for unsupported scheme")
	}
	if _, err := Connect("not a url", "domovoice", discardLogger()); err == nil {
		t.Error("expected error for missing host")
	}
}
