package pushover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"domovoice/internal/infra/pushover"
)

func TestClient_Say(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		got = map[string]string{
			"token":   r.PostForm.Get("token"),
			"user":    r.PostForm.Get("user"),
			"message": r.PostForm.Get("message"),
			"title":   r.PostForm.Get("title"),
		}
		w.Write([]byte(`{"status":1}`))
	}))
	defer server.Close()

	client := pushover.NewClient("app-token", "user-key").WithEndpoint(server.URL)
	if err := client.Say(context.Background(), "Turning kitchen light on"); err != nil {
		t.Fatalf("Say error: %v", err)
	}

	want := map[string]string{
		"token":   "app-token",
		"user":    "user-key",
		"message": "Turning kitchen light on",
		"title":   "domovoice",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %q, want %q", k, got[k], v)
		}
	}
}

func TestClient_SayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := pushover.NewClient("app-token", "user-key").WithEndpoint(server.URL)
	if err := client.Say(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_SayUnconfigured(t *testing.T) {
	client := pushover.NewClient("", "").WithEndpoint("http://127.0.0.1:1")
	if err := client.Say(context.Background(), "hello"); err != nil {
		t.Errorf("unconfigured client should be a no-op, got %v", err)
	}
}
