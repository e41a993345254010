package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("empty API key", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient(""); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("error = %v, want ErrMissingAPIKey", err)
		}
	})

	t.Run("defaults and options", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("test-key", WithModel("custom-model"), WithMaxTokens(64))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if client.model != "custom-model" {
			t.Errorf("model = %q", client.model)
		}
		if client.maxTokens != 64 {
			t.Errorf("maxTokens = %d", client.maxTokens)
		}
		if client.endpoint != defaultEndpoint {
			t.Errorf("endpoint = %q", client.endpoint)
		}
	})
}

func TestClientComplete(t *testing.T) {
	t.Parallel()

	t.Run("successful completion", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-api-key") != "test-key" {
				t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
			}
			if r.Header.Get("anthropic-version") == "" {
				t.Error("anthropic-version header missing")
			}

			var req apiRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if len(req.Messages) != 1 || req.Messages[0].Content != "say hi" {
				t.Errorf("messages = %+v", req.Messages)
			}

			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write([]byte(`{"content":[{"type":"text","text":"hi"}]}`)); err != nil {
				t.Errorf("write response: %v", err)
			}
		}))
		defer server.Close()

		client, err := NewClient("test-key", WithEndpoint(server.URL))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		got, err := client.Complete(context.Background(), "say hi")
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "hi" {
			t.Errorf("Complete() = %q, want %q", got, "hi")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		client, err := NewClient("test-key", WithEndpoint(server.URL))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		if _, err := client.Complete(context.Background(), "x"); err == nil {
			t.Error("Complete() error = nil, want status error")
		} else if !strings.Contains(err.Error(), "429") {
			t.Errorf("error = %v, want status code in message", err)
		}
	})

	t.Run("API-level error payload", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(`{"error":{"message":"bad model"}}`)); err != nil {
				t.Errorf("write response: %v", err)
			}
		}))
		defer server.Close()

		client, err := NewClient("test-key", WithEndpoint(server.URL))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		if _, err := client.Complete(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "bad model") {
			t.Errorf("error = %v, want API error message", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(`{"content":[]}`)); err != nil {
				t.Errorf("write response: %v", err)
			}
		}))
		defer server.Close()

		client, err := NewClient("test-key", WithEndpoint(server.URL))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		if _, err := client.Complete(context.Background(), "x"); err == nil {
			t.Error("Complete() error = nil, want empty response error")
		}
	})
}
