package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaClientAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var payload struct {
			Model   string `json:"model"`
			Prompt  string `json:"prompt"`
			Stream  bool   `json:"stream"`
			Options struct {
				Temperature float64 `json:"temperature"`
				NumCtx      int     `json:"num_ctx"`
			} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "deepseek-llm:7b" {
			t.Fatalf("expected model deepseek-llm:7b, got %s", payload.Model)
		}
		if !strings.Contains(payload.Prompt, "Question: How do I zoom in?") {
			t.Fatalf("prompt missing question: %s", payload.Prompt)
		}
		if payload.Stream {
			t.Fatal("expected streaming to be disabled")
		}
		if payload.Options.Temperature != 0 || payload.Options.NumCtx != 8192 {
			t.Fatalf("unexpected options %+v", payload.Options)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"  Step 1: Pinch outward.\nStep 2: Let go.  ","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{
		host:   server.URL,
		model:  "deepseek-llm:7b",
		numCtx: 8192,
		client: server.Client(),
	}

	answer, err := client.Answer(context.Background(), AnswerRequest{
		Context:  "Text: How do I zoom in?",
		Question: "How do I zoom in?",
	})
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if answer != "Step 1: Pinch outward.\nStep 2: Let go." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestOllamaClientReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "missing", client: server.Client()}
	_, err := client.Answer(context.Background(), AnswerRequest{Question: "hi"})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestOllamaClientRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"   ","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	if _, err := client.Answer(context.Background(), AnswerRequest{Question: "hi"}); err == nil {
		t.Fatal("expected empty response error")
	}
}

func TestOllamaClientPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestOpenAIClientAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "Question: How do I charge it?") {
			t.Fatalf("unexpected messages %+v", payload.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Step 1: Plug in the cable."}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", model: "gpt-4o-mini", base: server.URL, client: server.Client()}
	answer, err := client.Answer(context.Background(), AnswerRequest{Context: "Text: How do I charge it?", Question: "How do I charge it?"})
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if answer != "Step 1: Plug in the cable." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}
