package github

import (
	"fmt"

	"github.com/ghshelf/ghshelf/internal/models"
)

// remoteRepo mirrors the subset of the API repository payload we keep.
type remoteRepo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	HTMLURL     string   `json:"html_url"`
	Private     bool     `json:"private"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
	Archived    bool     `json:"archived"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// normalizeRepo maps an API payload into a local record. The identifier is
// deterministic so re-imports of the same remote repository collide with the
// record already stored.
func normalizeRepo(r remoteRepo, typ models.CollectionType) models.Repo {
	description := r.Description
	if description == "" {
		description = models.NoDescription
	}
	language := r.Language
	if language == "" {
		language = models.NoLanguage
	}

	return models.Repo{
		ID:          fmt.Sprintf("github-%s-%d", typ, r.ID),
		Name:        r.Name,
		Description: description,
		Language:    language,
		URL:         r.HTMLURL,
		Private:     r.Private,
		Stars:       r.Stars,
		Forks:       r.Forks,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Owner:       r.Owner.Login,
		Topics:      r.Topics,
		Archived:    r.Archived,
	}
}
