package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func stubAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-sonnet-4-20250514",
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := stubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"question":"What is 14 + 9?","answer":"23"}`},
			},
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  62,
				"output_tokens": 18,
			},
		})
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a friendly math tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Give me an addition problem."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Usage.InputTokens != 62 || resp.Usage.OutputTokens != 18 {
		t.Errorf("usage = %+v, want 62 in and 18 out", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want %q", resp.StopReason, "end")
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		want   any
	}{
		{
			name:   "429 maps to rate limit",
			status: http.StatusTooManyRequests,
			body: map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "rate_limit_error", "message": "Rate limit exceeded"},
			},
			want: new(*ErrRateLimit),
		},
		{
			name:   "500 maps to unavailable",
			status: http.StatusInternalServerError,
			body: map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "Internal server error"},
			},
			want: new(*ErrProviderUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			})

			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "hello"}},
				MaxTokens: 64,
			})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.As(err, tt.want) {
				t.Fatalf("wrong error type: %T (%v)", err, err)
			}
		})
	}
}

func TestAnthropicProvider_ModelID(t *testing.T) {
	p := &AnthropicProvider{model: "claude-sonnet-4-20250514"}
	if p.ModelID() != "claude-sonnet-4-20250514" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestAnthropicModelAliases(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, anthropicModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
