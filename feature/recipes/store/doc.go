// Package store persists recipes through gorm and resolves external
// identifiers to stored records.
//
// Records carry two identities: the database id (a UUID string, exposed as
// "_id") and an optional external uuid that historic imports saved either as
// a number or as a string. Resolver treats both spellings as the same value.
package store
