// Package cache provides the read-through cache for recipe reads and the
// "invalidate by tag" hook the bulk pipelines call once per batch.
//
// Two backends implement Cache:
//   - Memory: in-process map with TTL, a tag index and singleflight-coalesced loads.
//   - Redis: go-redis v9; values under "<prefix>:v:<key>", tag sets under
//     "<prefix>:t:<tag>".
//
// Invalidation is best-effort from the caller's point of view: the pipelines
// log a failed InvalidateTag and carry on.
package cache
