// Package store persists repository collections, display settings, the
// access token, and sync bookkeeping in a single SQLite key/value table.
//
// Each logical document lives under one well-known key and is stored as a
// JSON blob, so a snapshot is exactly what a Load returns and a Save writes.
// When the collections key is empty, Load falls back to an optional seed
// file before settling on an empty collection.
package store
