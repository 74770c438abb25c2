package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Complete(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		resp := ollamaResponse{
			Model:           gotReq.Model,
			Response:        "  []  ",
			Done:            true,
			PromptEvalCount: 100,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:      "system text",
		Prompt:      "user text",
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "[]" {
		t.Errorf("Text = %q, want trimmed response", resp.Text)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("TokensUsed = %d, want 120", resp.TokensUsed)
	}

	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if gotReq.System != "system text" || gotReq.Prompt != "user text" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Options.NumPredict != 500 {
		t.Errorf("num_predict = %d, want 500", gotReq.Options.NumPredict)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'missing' not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{Prompt: "hi", Model: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should carry the API message, got: %v", err)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("expected available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("expected unavailable after server shutdown")
	}
}

func TestOllamaProvider_TrimsBaseURL(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434/"})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q", provider.baseURL)
	}
}
