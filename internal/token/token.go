// Package token manages the GitHub personal access token's lifecycle.
//
// The token is stored base64-encoded. Encoding is obfuscation against
// casual inspection of the database file, not protection; anyone with the
// file can decode it.
package token

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/ghshelf/ghshelf/internal/store"
)

// Entries is the slice of the key/value store the keeper needs.
type Entries interface {
	GetEntry(key string) (string, error)
	SetEntry(key, value string) error
	DeleteEntry(key string) error
}

// Keeper stores, retrieves, and clears the access token.
type Keeper struct {
	entries Entries
	logger  *log.Logger
}

// NewKeeper creates a keeper over the given entry store.
func NewKeeper(entries Entries, logger *log.Logger) *Keeper {
	return &Keeper{entries: entries, logger: logger}
}

// Set stores the token. An empty or whitespace-only token is a no-op, so
// callers cannot accidentally blank a working token.
func (k *Keeper) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(token))
	return k.entries.SetEntry(store.KeyToken, encoded)
}

// Get returns the stored token. Fail-soft: a missing or undecodable entry
// yields an empty string, never an error, so a corrupt value reads as
// "no token configured".
func (k *Keeper) Get() string {
	encoded, err := k.entries.GetEntry(store.KeyToken)
	if err != nil {
		if !errors.Is(err, shared.ErrEntryNotFound) {
			k.logger.Warn("failed to read token", "error", err)
		}
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		k.logger.Warn("stored token is undecodable, treating as absent", "error", err)
		return ""
	}
	return string(decoded)
}

// Present reports whether a usable token is stored.
func (k *Keeper) Present() bool {
	return k.Get() != ""
}

// Clear removes the stored token.
func (k *Keeper) Clear() error {
	return k.entries.DeleteEntry(store.KeyToken)
}
