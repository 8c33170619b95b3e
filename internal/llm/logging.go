package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/IanScripts/Learnbot-AiTutor/internal/store"
)

// EventLoggingProvider is a decorator that records every LLM request as a
// store event and a structured log line.
type EventLoggingProvider struct {
	inner Provider
	repo  store.Repository
}

// WithEventLogging wraps a Provider with request logging. A nil repo
// disables the store event and keeps only the log line.
func WithEventLogging(p Provider, repo store.Repository) Provider {
	return &EventLoggingProvider{inner: p, repo: repo}
}

func (l *EventLoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		if cost := LookupCost(resp.Model); cost != nil {
			data.CostUSD = cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		slog.Warn("llm request failed",
			"purpose", purpose, "model", data.Model,
			"latency_ms", latencyMs, "error", err)
	} else {
		slog.Debug("llm request",
			"purpose", purpose, "model", data.Model,
			"latency_ms", latencyMs, "tokens", resp.Usage.TotalTokens)
	}

	// Record the event but never fail the request over logging.
	if l.repo != nil {
		if logErr := l.repo.AppendLLMRequest(ctx, data); logErr != nil {
			slog.Warn("failed to record llm event", "error", logErr)
		}
	}

	return resp, err
}

func (l *EventLoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
