package input

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"domovoice/internal/domain"
	"domovoice/internal/metrics"
)

const replyTimeout = 15 * time.Second

type HTTPSource struct {
	addr        string
	server      *http.Server
	queue       chan domain.Utterance
	logger      *slog.Logger
	mu          sync.Mutex
	running     bool
	router      chi.Router
	closeOnce   sync.Once
	rateLimiter *RateLimiter
	authToken   string
}

func NewHTTPSource(addr, authToken string, ratePerMinute int, logger *slog.Logger) *HTTPSource {
	if ratePerMinute <= 0 {
		ratePerMinute = 30
	}
	h := &HTTPSource{
		addr:        addr,
		queue:       make(chan domain.Utterance, 10),
		logger:      logger,
		rateLimiter: NewRateLimiter(ratePerMinute, time.Minute),
		authToken:   authToken,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.rateLimiter.Middleware)
		r.Post("/text", h.handleText)
		r.Post("/audio", h.handleAudio)
		r.With(h.requireToken).Post("/alexa", h.handleAlexa)
	})

	h.router = r
	return h
}

func (h *HTTPSource) Name() string {
	return "http"
}

func (h *HTTPSource) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: replyTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		h.logger.Info("HTTP input server starting", "addr", h.addr)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", "error", err)
		}
	}()

	h.running = true
	return nil
}

func (h *HTTPSource) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			h.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := h.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	h.closeOnce.Do(func() {
		close(h.queue)
	})
	h.running = false
	return nil
}

func (h *HTTPSource) Next(ctx context.Context) (domain.Utterance, error) {
	select {
	case <-ctx.Done():
		return domain.Utterance{}, ctx.Err()
	case u, ok := <-h.queue:
		if !ok {
			return domain.Utterance{}, fmt.Errorf("utterance queue closed")
		}
		return u, nil
	}
}

func (h *HTTPSource) Handler() http.Handler {
	return h.router
}

// Inject queues an utterance as if it had arrived over HTTP. It reports
// false when the queue is full.
func (h *HTTPSource) Inject(u domain.Utterance) bool {
	select {
	case h.queue <- u:
		return true
	default:
		return false
	}
}

func (h *HTTPSource) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != h.authToken {
			h.logger.Warn("unauthorized request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleText answers synchronously: the response sentence is returned in the
// body once the assistant has handled the utterance.
func (h *HTTPSource) handleText(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r, 1024)
	if !ok {
		return
	}

	replies := make(chan string, 1)
	u := domain.Utterance{
		Source: "http",
		Text:   text,
		Reply: func(_ context.Context, response string) error {
			select {
			case replies <- response:
			default:
			}
			return nil
		},
	}

	if !h.Inject(u) {
		http.Error(w, "queue full, try again", http.StatusServiceUnavailable)
		return
	}
	h.logger.Info("received text command via HTTP", "text", text)

	select {
	case response := <-replies:
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "text": text, "response": response})
	case <-time.After(replyTimeout):
		writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted", "text": text})
	case <-r.Context().Done():
	}
}

func (h *HTTPSource) handleAlexa(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r, 4096)
	if !ok {
		return
	}

	if !h.Inject(domain.Utterance{Source: "alexa", Text: text}) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
		return
	}
	h.logger.Info("received command from Alexa", "text", text)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "ok", "message": "command received"})
}

func (h *HTTPSource) handleAudio(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 10*1024*1024))
	if err != nil {
		h.logger.Error("reading audio body", "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(data) == 0 {
		http.Error(w, "empty audio", http.StatusBadRequest)
		return
	}

	if !h.Inject(domain.Utterance{Source: "http-audio", Audio: data}) {
		http.Error(w, "queue full, try again", http.StatusServiceUnavailable)
		return
	}
	h.logger.Info("received audio via HTTP", "bytes", len(data))
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "received", "bytes": len(data)})
}

func (h *HTTPSource) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	running := h.running
	queueSize := len(h.queue)
	h.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]any{"status": status, "running": running, "queue_size": queueSize})
}

func readText(w http.ResponseWriter, r *http.Request, limit int64) (string, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, limit))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}
	defer r.Body.Close()

	text := strings.TrimSpace(string(data))
	if text == "" {
		http.Error(w, "empty text", http.StatusBadRequest)
		return "", false
	}
	return text, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
