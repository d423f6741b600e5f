// Package models defines the domain entities for the ghshelf repository tracker.
//
// The package contains two categories of types:
//
// 1. Repository data:
//   - [Repo] : A single tracked repository, either imported from GitHub or created by hand
//   - [Collection] : The pair of owned and starred repository lists that makes up all tracked state
//
// 2. Display preferences:
//   - [Settings] : Per-collection card element visibility flags consumed by rendering layers
//
// Repository records imported from GitHub carry deterministic IDs of the form
// "github-<collection>-<numeric id>" so that re-imports are idempotent at the
// identity level. Manually created records use opaque locally generated IDs.
//
// Timestamps are kept as ISO 8601 strings rather than time.Time values: they
// round-trip unchanged through the persisted JSON snapshots, and records with
// a missing or malformed updatedAt remain representable (sorting handles them
// with an explicit fallback, see tasks.Merge).
package models
