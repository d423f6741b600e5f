package models

import (
	"fmt"
	"time"
)

// CollectionType identifies one of the two repository lists.
type CollectionType string

const (
	Owned   CollectionType = "owned"
	Starred CollectionType = "starred"
)

// CollectionTypes lists the valid collection types in display order.
var CollectionTypes = []CollectionType{Owned, Starred}

// ParseCollectionType validates a user-supplied collection name.
func ParseCollectionType(s string) (CollectionType, error) {
	switch CollectionType(s) {
	case Owned:
		return Owned, nil
	case Starred:
		return Starred, nil
	}
	return "", fmt.Errorf("invalid collection type %q (want %q or %q)", s, Owned, Starred)
}

// Sentinel values applied during normalization when GitHub omits a field.
const (
	NoDescription = "No description available"
	NoLanguage    = "Other"
)

// Repo represents a tracked repository.
type Repo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	URL         string   `json:"url"`
	Private     bool     `json:"private"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Owner       string   `json:"owner,omitempty"`
	Topics      []string `json:"topics"`
	Archived    bool     `json:"archived"`
}

// Validate checks the record's invariants before it is persisted.
func (r Repo) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("repo ID is required")
	}
	if r.Name == "" {
		return fmt.Errorf("repo name is required")
	}
	if r.Stars < 0 {
		return fmt.Errorf("repo stars must be non-negative, got %d", r.Stars)
	}
	if r.Forks < 0 {
		return fmt.Errorf("repo forks must be non-negative, got %d", r.Forks)
	}
	return nil
}

// timestampFormats are the layouts accepted for record timestamps.
// GitHub emits RFC 3339; hand-edited snapshots sometimes carry bare dates.
var timestampFormats = []string{time.RFC3339, "2006-01-02"}

// UpdatedTime parses the record's updatedAt field.
// The second return value is false when the field is absent or unparseable.
func (r Repo) UpdatedTime() (time.Time, bool) {
	if r.UpdatedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, r.UpdatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Collection is the pair of repository lists that makes up all tracked state.
type Collection struct {
	Owned   []Repo `json:"owned"`
	Starred []Repo `json:"starred"`
}

// EmptyCollection returns the default state used when nothing has been persisted.
func EmptyCollection() Collection {
	return Collection{Owned: []Repo{}, Starred: []Repo{}}
}

// List returns the sequence for the given collection type.
func (c Collection) List(t CollectionType) []Repo {
	if t == Starred {
		return c.Starred
	}
	return c.Owned
}

// SetList replaces the sequence for the given collection type.
func (c *Collection) SetList(t CollectionType, repos []Repo) {
	if t == Starred {
		c.Starred = repos
		return
	}
	c.Owned = repos
}

// Find locates a record by ID within one collection.
// Returns the index and true, or -1 and false when absent.
func (c Collection) Find(t CollectionType, id string) (int, bool) {
	for i, r := range c.List(t) {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}
