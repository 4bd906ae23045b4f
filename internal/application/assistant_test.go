package application_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"domovoice/internal/application"
	"domovoice/internal/domain"
)

type mockSource struct {
	utterances []domain.Utterance
	index      int
}

func (m *mockSource) Start(_ context.Context) error { return nil }
func (m *mockSource) Stop() error                   { return nil }
func (m *mockSource) Name() string                  { return "mock" }

func (m *mockSource) Next(ctx context.Context) (domain.Utterance, error) {
	if m.index >= len(m.utterances) {
		<-ctx.Done()
		return domain.Utterance{}, ctx.Err()
	}
	u := m.utterances[m.index]
	m.index++
	return u, nil
}

type mockSTT struct {
	transcriptions map[string]string
}

func (m *mockSTT) Transcribe(_ context.Context, audio []byte) (string, error) {
	if text, ok := m.transcriptions[string(audio)]; ok {
		return text, nil
	}
	return "unknown command", nil
}

type mockJournal struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockJournal) AddLogMessage(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockJournal) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for response")
		return ""
	}
}

func TestAssistant_AnswersTextAndAudio(t *testing.T) {
	ctl := &fakeController{
		lights: []domain.Device{{ID: "1", Name: "Kitchen", Status: "Off"}},
		scenes: []domain.Scene{{ID: "9", Name: "Movie", Type: domain.SceneTypeScene}},
	}
	speaker := newRecordingSpeaker()
	journal := &mockJournal{}

	source := &mockSource{utterances: []domain.Utterance{
		{Source: "mock", Text: "turn on the kitchen light"},
		{Source: "mock", Audio: []byte("movie audio")},
	}}
	stt := &mockSTT{transcriptions: map[string]string{"movie audio": "activate the movie scene"}}

	assistant := application.NewAssistant(
		source,
		stt,
		application.NewHandler(ctl, discardLogger()),
		speaker,
		discardLogger(),
	).WithJournal(journal)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = assistant.Run(ctx)
	}()

	if got := waitFor(t, speaker.calls); got != "Turning kitchen light on" {
		t.Errorf("first response: got %q", got)
	}
	if got := waitFor(t, speaker.calls); got != "Activating the movie scene" {
		t.Errorf("second response: got %q", got)
	}
	cancel()

	writes := ctl.recorded()
	if len(writes) != 2 {
		t.Fatalf("writes: got %+v, want 2", writes)
	}

	// The journal is written after the speaker returns.
	deadline := time.Now().Add(2 * time.Second)
	for len(journal.all()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	messages := journal.all()
	if len(messages) < 1 || !strings.Contains(messages[0], "Turning kitchen light on") {
		t.Errorf("journal: got %v", messages)
	}
}

func TestAssistant_RepliesToIrrelevantUtterance(t *testing.T) {
	ctl := &fakeController{}
	speaker := newRecordingSpeaker()
	replies := make(chan string, 1)

	source := &mockSource{utterances: []domain.Utterance{{
		Source: "mock",
		Text:   "what time is it",
		Reply: func(_ context.Context, response string) error {
			replies <- response
			return nil
		},
	}}}

	assistant := application.NewAssistant(
		source,
		&application.NoopSTT{},
		application.NewHandler(ctl, discardLogger()),
		speaker,
		discardLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = assistant.Run(ctx)
	}()

	if got := waitFor(t, replies); got != application.MsgNotRelevant {
		t.Errorf("reply: got %q, want %q", got, application.MsgNotRelevant)
	}
	cancel()

	if len(speaker.lines()) != 0 {
		t.Errorf("speaker: got %v, want nothing", speaker.lines())
	}
}

func TestAssistant_ReplyReceivesResponse(t *testing.T) {
	ctl := &fakeController{}
	replies := make(chan string, 1)

	source := &mockSource{utterances: []domain.Utterance{{
		Source: "mock",
		Text:   "turn on the kitchen light",
		Reply: func(_ context.Context, response string) error {
			replies <- response
			return nil
		},
	}}}

	assistant := application.NewAssistant(
		source,
		&application.NoopSTT{},
		application.NewHandler(ctl, discardLogger()),
		application.NoopSpeaker{},
		discardLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = assistant.Run(ctx)
	}()

	if got := waitFor(t, replies); got != "There are no lights defined" {
		t.Errorf("reply: got %q", got)
	}
}
