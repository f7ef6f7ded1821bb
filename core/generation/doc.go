// Package generation is the client side of the external text generation
// service used to draft recipes.
//
// # Providers
//
//   - OpenRouter: any OpenAI compatible /chat/completions endpoint, over resty.
//   - Gemini: the Gemini API through google.golang.org/genai.
//
// Both return *StatusError for non-success responses so that callers can
// classify failures without knowing the provider.
//
// # Retry
//
// Retry re-runs a call only when IsRetryable says the failure is a rate limit
// (status 429, or a message mentioning one) or a transient unavailability
// (status 503). Delays start at InitialBackoff and double per retry, plus a
// random jitter; any other error is returned at once.
//
// # Output helpers
//
// Models often wrap JSON in markdown fences or surround it with prose;
// StripCodeFences and ExtractJSONObject recover the object text.
package generation
