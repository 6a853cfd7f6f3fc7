package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func testContexts() []domain.GenerationContext {
	return []domain.GenerationContext{{
		Title:       "Forbidden City",
		Address:     "Beijing",
		DisplayTime: "Ming(1368-1644)",
		Content:     "Built between 1406 and 1420.",
	}}
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("blocking request must not stream")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "[Document 1]") ||
			!strings.Contains(req.Messages[1].Content, "Ming(1368-1644)") {
			t.Errorf("user prompt missing context: %s", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("  Built from 1406 to 1420.  "))
	}))
	defer server.Close()

	gen := NewGenerator(testConfig(server.URL), GeneratorOptions{})
	text, err := gen.Generate(context.Background(), "When was it built?", testContexts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Built from 1406 to 1420." {
		t.Errorf("text = %q", text)
	}
	if gen.Model() != "test-model" {
		t.Errorf("model = %q", gen.Model())
	}
}

func TestGenerator_GenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "boom"}})
	}))
	defer server.Close()

	_, err := NewGenerator(testConfig(server.URL), GeneratorOptions{}).Generate(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func streamServer(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			b, _ := json.Marshal(map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   "test-model",
				"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": c}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", b)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestGenerator_Stream(t *testing.T) {
	server := streamServer(t, []string{"Built ", "in ", "1420."})
	defer server.Close()

	gen := NewGenerator(testConfig(server.URL), GeneratorOptions{})
	var got []string
	for chunk, err := range gen.Stream(context.Background(), "q", testContexts()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, chunk)
	}
	if strings.Join(got, "") != "Built in 1420." {
		t.Errorf("stream = %q", got)
	}
}

func TestGenerator_StreamEarlyBreak(t *testing.T) {
	server := streamServer(t, []string{"a", "b", "c"})
	defer server.Close()

	gen := NewGenerator(testConfig(server.URL), GeneratorOptions{})
	n := 0
	for range gen.Stream(context.Background(), "q", nil) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("n = %d", n)
	}
}

func TestGenerator_StreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad key"}})
	}))
	defer server.Close()

	var errs []error
	for _, err := range NewGenerator(testConfig(server.URL), GeneratorOptions{}).Stream(context.Background(), "q", nil) {
		errs = append(errs, err)
	}
	if len(errs) != 1 || !errors.Is(errs[0], domain.ErrGenerationFailed) {
		t.Fatalf("expected one ErrGenerationFailed, got %v", errs)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	long := strings.Repeat("长", 600)
	p := buildUserPrompt("Where?", []domain.GenerationContext{
		{Title: "A", Content: long},
		{Title: "B", Address: "Xi'an", Content: "short"},
	})

	if !strings.Contains(p, "Question: Where?") {
		t.Error("missing question")
	}
	if !strings.Contains(p, "[Document 2]") || !strings.Contains(p, "Location: Xi'an") {
		t.Error("missing second document")
	}
	if !strings.Contains(p, "Location: unknown location") || !strings.Contains(p, "Time: unknown time") {
		t.Error("missing placeholders")
	}
	if strings.Contains(p, strings.Repeat("长", 501)) {
		t.Error("content should be truncated to 500 runes")
	}
	if !strings.Contains(p, strings.Repeat("长", 500)+"...") {
		t.Error("truncated content should end with ellipsis")
	}
}
