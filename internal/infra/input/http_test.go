package input_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"domovoice/internal/domain"
	"domovoice/internal/infra/input"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPSource_InjectAndNext(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 30, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		source.Inject(domain.Utterance{Source: "test", Text: "turn on the kitchen light"})
	}()

	u, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if u.Text != "turn on the kitchen light" {
		t.Errorf("text: got %q", u.Text)
	}
}

func TestHTTPSource_TextEndpointReturnsResponse(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 30, discardLogger())
	handler := source.Handler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		u, err := source.Next(ctx)
		if err != nil {
			return
		}
		_ = u.Reply(ctx, "Turning kitchen light on")
	}()

	req := httptest.NewRequest(http.MethodPost, "/text", bytes.NewReader([]byte("turn on the kitchen light")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["response"] != "Turning kitchen light on" {
		t.Errorf("response: got %v", body["response"])
	}
}

func TestHTTPSource_EmptyTextRejected(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 30, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/text", bytes.NewReader([]byte("   ")))
	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status code: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHTTPSource_AudioEndpoint(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 30, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/audio", bytes.NewReader([]byte("RIFF fake audio")))
	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status code: got %d, want %d", rec.Code, http.StatusAccepted)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if !u.IsAudio() {
		t.Errorf("utterance should carry audio: %+v", u)
	}
}

func TestHTTPSource_AlexaEndpointWithToken(t *testing.T) {
	authToken := "test-secret-token-123"
	source := input.NewHTTPSource(":0", authToken, 30, discardLogger())
	handler := source.Handler()

	tests := []struct {
		name       string
		token      string
		method     string
		wantStatus int
	}{
		{name: "valid token in header", token: authToken, method: "header", wantStatus: http.StatusAccepted},
		{name: "valid token in query", token: authToken, method: "query", wantStatus: http.StatusAccepted},
		{name: "invalid token", token: "wrong-token", method: "header", wantStatus: http.StatusUnauthorized},
		{name: "missing token", token: "", method: "header", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bytes.NewReader([]byte("turn on the lights"))
			var req *http.Request
			if tt.method == "query" {
				req = httptest.NewRequest(http.MethodPost, "/alexa?token="+tt.token, body)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/alexa", body)
				if tt.token != "" {
					req.Header.Set("X-Auth-Token", tt.token)
				}
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status code: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHTTPSource_RateLimit(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 2, discardLogger())
	handler := source.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/alexa", bytes.NewReader([]byte("light on")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusAccepted || codes[1] != http.StatusAccepted {
		t.Errorf("first requests: got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want %d", codes[2], http.StatusTooManyRequests)
	}
}

func TestHTTPSource_HealthNotRunning(t *testing.T) {
	source := input.NewHTTPSource(":0", "", 30, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestFileSource_TextAndAudio(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string][]byte{
		"01-command.txt": []byte("activate the movie scene\n"),
		"02-command.wav": []byte("RIFF....WAVEfmt audio data"),
		"03-notes.md":    []byte("ignored"),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), content, 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}
	}

	source := input.NewFileSource(tmpDir)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("starting source: %v", err)
	}

	first, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("reading first command: %v", err)
	}
	if first.Text != "activate the movie scene" {
		t.Errorf("first text: got %q", first.Text)
	}

	second, err := source.Next(ctx)
	if err != nil {
		t.Fatalf("reading second command: %v", err)
	}
	if !second.IsAudio() {
		t.Error("second command should be audio")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "01-command.txt.processed")); err != nil {
		t.Errorf("processed file not renamed: %v", err)
	}
}
