package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_ProviderNames(t *testing.T) {
	p, err := New("offline", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "offline" {
		t.Errorf("Name = %q", p.Name())
	}

	p, err = New("", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "offline" {
		t.Error("empty name should default to offline")
	}

	if _, err := New("openai", Config{}); err == nil {
		t.Error("openai without API key should fail")
	}
	if _, err := New("gemini", Config{}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			var req ollamaGenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Stream {
				t.Error("stream should be disabled")
			}
			if req.Model != "testmodel" {
				t.Errorf("model = %q", req.Model)
			}
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "generated text"})
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "testmodel")
	if !p.Available(context.Background()) {
		t.Error("server is up, Available should be true")
	}
	answer, err := p.Generate(context.Background(), "say something", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "generated text" {
		t.Errorf("answer = %q", answer)
	}
}

func TestOllamaProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	if _, err := p.Generate(context.Background(), "hi", Options{}); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestOllamaProvider_Unreachable(t *testing.T) {
	p := NewOllamaProvider("http://127.0.0.1:1", "m")
	if p.Available(context.Background()) {
		t.Error("unreachable server should not be available")
	}
}

func TestOfflineProvider_ExtractsTopDocument(t *testing.T) {
	p := NewOfflineProvider()
	prompt := strings.Join([]string{
		"Answer the question using only the documents below.",
		"",
		"[Document 1]",
		"Wear protective gloves at all times. Check the machine guard before starting. Report defects immediately. Further details follow here.",
		"",
		"[Document 2]",
		"Unrelated content.",
		"",
		"Question: What should I wear?",
		"",
		"Answer:",
	}, "\n")

	answer, err := p.Generate(context.Background(), prompt, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(answer, "protective gloves") {
		t.Errorf("answer should quote the top document, got %q", answer)
	}
	if strings.Contains(answer, "Unrelated") {
		t.Errorf("answer leaked a lower-ranked document: %q", answer)
	}
	if strings.Contains(answer, "Further details") {
		t.Errorf("answer should stop after three sentences: %q", answer)
	}
}

func TestOfflineProvider_NoContext(t *testing.T) {
	p := NewOfflineProvider()
	answer, err := p.Generate(context.Background(), "no documents here", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if answer == "" {
		t.Error("offline provider should always return some answer")
	}
	if !p.Available(context.Background()) {
		t.Error("offline provider is always available")
	}
}
