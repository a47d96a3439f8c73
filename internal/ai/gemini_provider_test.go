package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/synergy/internal/model"
)

func TestGeminiProvider_Complete(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"gemini synergy"}]}}]}`)
	}))
	defer srv.Close()

	provider, err := NewGeminiProvider(context.Background(), "test-key", "test-model", srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}

	got, err := provider.Complete(context.Background(), testMessages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "gemini synergy" {
		t.Errorf("got %q, want %q", got, "gemini synergy")
	}
	if !strings.Contains(gotPath, "test-model:generateContent") {
		t.Errorf("path = %q, want model generateContent call", gotPath)
	}
	if !strings.Contains(gotBody, "You are a VC analyst at Fund") {
		t.Errorf("request body missing system instruction: %s", gotBody)
	}
	if !strings.Contains(gotBody, "describe Acme") {
		t.Errorf("request body missing user content: %s", gotBody)
	}
}

func TestGeminiProvider_NoUserMessage(t *testing.T) {
	provider, err := NewGeminiProvider(context.Background(), "test-key", "test-model", "http://127.0.0.1:0", http.DefaultClient)
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	_, err = provider.Complete(context.Background(), []model.Message{{Role: model.RoleSystem, Content: "x"}})
	if err == nil {
		t.Fatal("expected error without a user message")
	}
}

func TestGeminiProvider_APIErrorBecomesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
	}))
	defer srv.Close()

	provider, err := NewGeminiProvider(context.Background(), "test-key", "test-model", srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}

	_, err = provider.Complete(context.Background(), testMessages)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", httpErr.StatusCode)
	}
}
