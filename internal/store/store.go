package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ghshelf/ghshelf/internal/models"
	"github.com/ghshelf/ghshelf/internal/shared"
)

// Well-known keys for the entries table.
const (
	KeyRepos    = "github_repos"
	KeySettings = "github_settings"
	KeyToken    = "github_token"
	KeyLastSync = "last_github_sync"
)

// Store reads and writes the application's documents.
type Store struct {
	db     *sql.DB
	logger *log.Logger

	// seedPath and settingsSeedPath optionally point at JSON files used to
	// bootstrap the collection and settings when nothing is stored yet.
	seedPath         string
	settingsSeedPath string
}

// New creates a store backed by db. The database must already be migrated.
func New(db *sql.DB, logger *log.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// WithSeed returns the store configured to bootstrap the collection from path.
func (s *Store) WithSeed(path string) *Store {
	s.seedPath = path
	return s
}

// WithSettingsSeed returns the store configured to bootstrap settings from path.
func (s *Store) WithSettingsSeed(path string) *Store {
	s.settingsSeedPath = path
	return s
}

// GetEntry returns the raw value stored under key.
func (s *Store) GetEntry(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", shared.ErrEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry %s: %w", key, err)
	}
	return value, nil
}

// SetEntry writes value under key, replacing any previous value.
func (s *Store) SetEntry(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write entry %s: %w", key, err)
	}
	return nil
}

// DeleteEntry removes key. Deleting an absent key is not an error.
func (s *Store) DeleteEntry(key string) error {
	if _, err := s.db.Exec("DELETE FROM entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", key, err)
	}
	return nil
}

// Load returns the current collection snapshot. A missing snapshot falls
// back to the seed file when configured, otherwise to an empty collection.
// A corrupt snapshot also degrades to empty rather than blocking startup.
func (s *Store) Load() (models.Collection, error) {
	raw, err := s.GetEntry(KeyRepos)
	if errors.Is(err, shared.ErrEntryNotFound) {
		return s.bootstrap()
	}
	if err != nil {
		return models.EmptyCollection(), err
	}

	var collection models.Collection
	if err := json.Unmarshal([]byte(raw), &collection); err != nil {
		s.logger.Warn("stored collection is unreadable, starting empty", "error", err)
		return models.EmptyCollection(), nil
	}
	if collection.Owned == nil {
		collection.Owned = []models.Repo{}
	}
	if collection.Starred == nil {
		collection.Starred = []models.Repo{}
	}
	return collection, nil
}

// bootstrap reads the seed file if one is configured and present.
func (s *Store) bootstrap() (models.Collection, error) {
	if s.seedPath == "" {
		return models.EmptyCollection(), nil
	}

	data, err := os.ReadFile(s.seedPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("seed file unreadable", "path", s.seedPath, "error", err)
		}
		return models.EmptyCollection(), nil
	}

	var collection models.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		s.logger.Warn("seed file is not valid JSON, ignoring", "path", s.seedPath, "error", err)
		return models.EmptyCollection(), nil
	}
	if collection.Owned == nil {
		collection.Owned = []models.Repo{}
	}
	if collection.Starred == nil {
		collection.Starred = []models.Repo{}
	}

	s.logger.Info("seeded collection from file", "path", s.seedPath,
		"owned", len(collection.Owned), "starred", len(collection.Starred))
	return collection, nil
}

// Save replaces the stored snapshot with collection.
func (s *Store) Save(collection models.Collection) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	return s.SetEntry(KeyRepos, string(data))
}

// LoadSettings returns stored display settings. A missing entry falls back
// to the settings seed file when configured, then to the defaults. An
// unreadable blob also yields the defaults.
func (s *Store) LoadSettings() models.Settings {
	raw, err := s.GetEntry(KeySettings)
	if err != nil {
		return s.bootstrapSettings()
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Warn("stored settings are unreadable, using defaults", "error", err)
		return models.DefaultSettings()
	}
	if settings.CardElements == nil {
		return models.DefaultSettings()
	}
	return settings
}

// bootstrapSettings reads the settings seed file if one is configured.
func (s *Store) bootstrapSettings() models.Settings {
	if s.settingsSeedPath == "" {
		return models.DefaultSettings()
	}

	data, err := os.ReadFile(s.settingsSeedPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("settings seed unreadable", "path", s.settingsSeedPath, "error", err)
		}
		return models.DefaultSettings()
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil || settings.CardElements == nil {
		s.logger.Warn("settings seed is not valid, ignoring", "path", s.settingsSeedPath)
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings persists settings.
func (s *Store) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.SetEntry(KeySettings, string(data))
}

// RecordSyncTime stamps the moment an import completed.
func (s *Store) RecordSyncTime(at time.Time) error {
	return s.SetEntry(KeyLastSync, at.UTC().Format(time.RFC3339))
}

// LastSyncTime returns the completion time of the most recent import.
// The second return is false when no import has completed yet.
func (s *Store) LastSyncTime() (time.Time, bool) {
	raw, err := s.GetEntry(KeyLastSync)
	if err != nil {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
