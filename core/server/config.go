package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies, which bounds CSV uploads.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
	// StreamTimeoutSeconds is the wall-clock ceiling of one streaming response.
	StreamTimeoutSeconds int `mapstructure:"stream_timeout_seconds" default:"600"`
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 16 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// StreamTimeout returns the streaming response ceiling.
func (c Config) StreamTimeout() time.Duration {
	if c.StreamTimeoutSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.StreamTimeoutSeconds) * time.Second
}
