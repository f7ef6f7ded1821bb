// Package bulk applies batches of field corrections to stored recipes.
//
// Each record names a recipe by "_id" or "uuid" and carries allow-listed
// field overrides. Records are processed one after another in input order:
// resolve, normalize, diff against the stored values, then write only the
// fields that differ together with an audit row. Every record ends in
// exactly one result (success, no_changes, not_found or error); a failing
// record never aborts the batch.
//
// Concurrent batches touching the same recipe are not coordinated. The last
// write wins. This is accepted for offline corrections; callers that need
// stronger guarantees must serialise their batches.
package bulk
