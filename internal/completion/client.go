// Package completion sends a system instruction and a user message to a
// hosted chat-completion API and returns the assistant's reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bestfit/internal/config"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("API key not configured")

// Mode selects the response format requested from the provider.
type Mode int

const (
	// ModeText asks for free-form text.
	ModeText Mode = iota
	// ModeJSON asks for a single JSON object.
	ModeJSON
)

func (m Mode) String() string {
	if m == ModeJSON {
		return "json"
	}
	return "text"
}

// Request is one two-message exchange.
type Request struct {
	Model       string
	System      string
	User        string
	Mode        Mode
	MaxTokens   int
	Temperature float64
}

// Client is a chat-completion provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider identifiers accepted in config.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, timeout), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL, timeout)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// withDefaultTimeout applies timeout when ctx carries no deadline.
func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
