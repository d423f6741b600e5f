// Package tasks runs the import pipeline: validate the token, fetch both
// remote collections exhaustively, merge them into the stored snapshot, and
// persist the result.
//
// Merging is non-destructive. A fetched repository that matches a stored one
// (same URL, or same name and owner) is dropped; stored records are never
// overwritten. The engine admits one import at a time and clears the token
// when the API rejects it as invalid.
package tasks
