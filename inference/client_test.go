package inference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		AccountID: "acct-1",
		APIToken:  "tok-1",
		Model:     "@cf/meta/llama-3.1-8b-instruct",
		BaseURL:   srv.URL,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSummarizeRequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"result":{"response":"ok"},"success":true}`))
	})

	summary, err := c.Summarize(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "ok" {
		t.Fatalf("summary = %q", summary)
	}
	if gotPath != "/accounts/acct-1/ai/run/@cf/meta/llama-3.1-8b-instruct" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("auth = %q", gotAuth)
	}

	var req runRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", req.Messages)
	}
	if req.Messages[1].Content != "summarize this" {
		t.Fatalf("user content = %q", req.Messages[1].Content)
	}
}

func TestSummarizeFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"response field", `{"result":{"response":"primary"}}`, "primary"},
		{"message field", `{"result":{"message":"secondary"}}`, "secondary"},
		{"bare string", `{"result":"just text"}`, "just text"},
		{"opaque object", `{"result":{"other":1}}`, `{"other":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			got, err := c.Summarize(context.Background(), "p")
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSummarizeHTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	})
	_, err := c.Summarize(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("error missing status/body: %v", err)
	}
}

func TestSummarizeNon200Success(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":{"response":"ok"}}`))
	})
	got, err := c.Summarize(context.Background(), "p")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "ok" {
		t.Fatalf("summary = %q", got)
	}
}

func TestSummarizeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{
		AccountID: "a",
		APIToken:  "t",
		Model:     "m",
		BaseURL:   url,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if _, err := c.Summarize(context.Background(), "p"); err == nil {
		t.Fatal("expected transport error against closed server")
	}
}
