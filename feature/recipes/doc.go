// Package recipes wires the recipe pipelines into the HTTP server.
//
// Routes, all under /recipes:
//
//	POST /bulk-update                    JSON batch of field corrections
//	POST /bulk-update/csv                multipart CSV batch
//	GET  /bulk-update/reports            archived report ids
//	GET  /bulk-update/reports/:batchId   one archived report
//	POST /bulk-generate                  generation batch as an event stream
//	GET  /similar?name=&limit=           name similarity search
//	GET  /:id                            one recipe, read through the cache
//
// Request validation happens before any work starts: a malformed body, an
// empty or oversized batch, or a CSV header without uuid or _id is a 400.
// Per-row and per-item failures are reported inside the response instead.
package recipes
