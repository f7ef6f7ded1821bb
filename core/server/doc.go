// Package server holds the HTTP server configuration.
//
// The server itself is assembled in cmd/start.go from Fiber, the middleware
// packages and the feature loader; this package only carries the tunables:
// listen port, static API key, request body limit and the ceiling applied to
// streaming (server-sent events) responses.
package server
