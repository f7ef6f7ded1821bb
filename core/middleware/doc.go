// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: rejects requests without the configured API key, read from
//     X-API-Key or an "Authorization: Bearer" header. An empty key disables it.
//   - rayid: tags every request with a ray id, stored in the "ray_id" local
//     for logger.WithRayID and echoed in the X-Ray-ID response header.
//
// rayid is registered first so every log line of a request carries its id.
package middleware
