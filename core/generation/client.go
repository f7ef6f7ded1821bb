package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("generation service returned an empty response")

// Prompt is one completion request.
type Prompt struct {
	// System carries the instructions and output contract.
	System string
	// User carries the request itself.
	User string
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Client is a text completion service.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// StatusError is a non-success response from the provider.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}

// NewClient builds the client selected by cfg.Provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generation api key is required")
	}
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenRouter:
		return NewOpenRouter(cfg), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Provider)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
