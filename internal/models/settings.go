package models

// ElementKey names a toggleable repository card element.
type ElementKey string

const (
	ElemVisibility  ElementKey = "visibility"
	ElemLanguage    ElementKey = "language"
	ElemStars       ElementKey = "stars"
	ElemForks       ElementKey = "forks"
	ElemCreatedDate ElementKey = "createdDate"
	ElemUpdatedDate ElementKey = "updatedDate"
	ElemOwner       ElementKey = "owner"
	ElemDescription ElementKey = "description"
	ElemArchived    ElementKey = "archived"
	ElemTopics      ElementKey = "topics"
	ElemActionMenu  ElementKey = "actionMenu"
)

// ElementKeys lists every card element in display order.
var ElementKeys = []ElementKey{
	ElemVisibility,
	ElemLanguage,
	ElemStars,
	ElemForks,
	ElemCreatedDate,
	ElemUpdatedDate,
	ElemOwner,
	ElemDescription,
	ElemArchived,
	ElemTopics,
	ElemActionMenu,
}

// SettingsVersion is the current settings schema version.
const SettingsVersion = "1.0.0"

// ParseElementKey validates a user-supplied element name.
func ParseElementKey(s string) (ElementKey, bool) {
	for _, k := range ElementKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Settings holds per-collection display preferences.
//
// Every (collection, element) pair not explicitly present is treated as true,
// so a zero-value or partially populated Settings renders everything.
type Settings struct {
	CardElements map[CollectionType]map[ElementKey]bool `json:"cardElements"`
	Version      string                                 `json:"version"`
}

// DefaultSettings returns a fully populated Settings with every flag enabled.
func DefaultSettings() Settings {
	s := Settings{
		CardElements: make(map[CollectionType]map[ElementKey]bool, len(CollectionTypes)),
		Version:      SettingsVersion,
	}
	for _, t := range CollectionTypes {
		elems := make(map[ElementKey]bool, len(ElementKeys))
		for _, k := range ElementKeys {
			elems[k] = true
		}
		s.CardElements[t] = elems
	}
	return s
}

// Show reports whether the given element is visible for the collection,
// applying the default-true rule for unset pairs.
func (s Settings) Show(t CollectionType, k ElementKey) bool {
	elems, ok := s.CardElements[t]
	if !ok {
		return true
	}
	v, ok := elems[k]
	if !ok {
		return true
	}
	return v
}

// Card returns the effective flag map for one collection with defaults filled in.
func (s Settings) Card(t CollectionType) map[ElementKey]bool {
	out := make(map[ElementKey]bool, len(ElementKeys))
	for _, k := range ElementKeys {
		out[k] = s.Show(t, k)
	}
	return out
}

// Set updates a single flag, allocating maps as needed.
func (s *Settings) Set(t CollectionType, k ElementKey, v bool) {
	if s.CardElements == nil {
		s.CardElements = make(map[CollectionType]map[ElementKey]bool, len(CollectionTypes))
	}
	if s.CardElements[t] == nil {
		s.CardElements[t] = make(map[ElementKey]bool, len(ElementKeys))
	}
	s.CardElements[t][k] = v
	if s.Version == "" {
		s.Version = SettingsVersion
	}
}
