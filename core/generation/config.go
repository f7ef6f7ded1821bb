package generation

import "time"

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config holds configuration for the text generation provider.
type Config struct {
	// Provider selects the backend (openrouter, gemini).
	Provider string `mapstructure:"provider" default:"openrouter"`
	// APIKey authenticates against the provider.
	APIKey string `mapstructure:"api_key" default:""`
	// Model is the provider model id.
	Model string `mapstructure:"model" default:"openai/gpt-4o-mini"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `mapstructure:"base_url" default:""`
	// TimeoutSeconds bounds one completion call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"90"`
	// MaxTokens caps the completion length.
	MaxTokens int `mapstructure:"max_tokens" default:"2048"`
	// Temperature is the sampling temperature.
	Temperature float64 `mapstructure:"temperature" default:"0.4"`
	// MaxRetries is the number of retries after a rate limited or unavailable response.
	MaxRetries int `mapstructure:"max_retries" default:"4"`
	// InitialBackoffMs is the first retry delay; later delays double.
	InitialBackoffMs int `mapstructure:"initial_backoff_ms" default:"2000"`
	// MaxBackoffMs caps a single retry delay.
	MaxBackoffMs int `mapstructure:"max_backoff_ms" default:"32000"`
	// JitterMs is the upper bound of the random delay added to each backoff.
	JitterMs int `mapstructure:"jitter_ms" default:"1000"`
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryPolicy derives the retry policy from the configuration.
func (c Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     c.MaxRetries,
		InitialBackoff: time.Duration(c.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(c.MaxBackoffMs) * time.Millisecond,
		Jitter:         time.Duration(c.JitterMs) * time.Millisecond,
	}
}
