package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghshelf/ghshelf/internal/formatter"
	"github.com/ghshelf/ghshelf/internal/models"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/ghshelf/ghshelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RepoAdd adds a hand-entered repository to one collection.
func (r *Runner) RepoAdd(ctx context.Context, cmd *cli.Command) error {
	typ, err := models.ParseCollectionType(cmd.String("collection"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	description := cmd.String("description")
	if description == "" {
		description = models.NoDescription
	}
	language := cmd.String("language")
	if language == "" {
		language = models.NoLanguage
	}

	now := time.Now().UTC().Format(time.RFC3339)
	repo := models.Repo{
		ID:          shared.LocalRepoID(),
		Name:        cmd.String("name"),
		Description: description,
		Language:    language,
		URL:         cmd.String("url"),
		Private:     cmd.Bool("private"),
		Owner:       cmd.String("owner"),
		CreatedAt:   now,
		UpdatedAt:   now,
		Topics:      []string{},
	}
	if err := repo.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	collection, err := s.Load()
	if err != nil {
		return err
	}

	repos := append(collection.List(typ), repo)
	tasks.SortByUpdated(repos)
	collection.SetList(typ, repos)

	if err := s.Save(collection); err != nil {
		return err
	}
	r.logger.Info("repository added", "id", repo.ID, "collection", typ)
	r.writePlain("✓ Added %s (%s)\n", repo.Name, repo.ID)
	return nil
}

// RepoEdit updates fields of a tracked repository. Only the flags that were
// set change; everything else, including stars and forks, is preserved.
// The update bumps the record's updatedAt.
func (r *Runner) RepoEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: repository id is required", shared.ErrMissingArgument)
	}
	typ, err := models.ParseCollectionType(cmd.String("collection"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	collection, err := s.Load()
	if err != nil {
		return err
	}

	idx, ok := collection.Find(typ, id)
	if !ok {
		return fmt.Errorf("%w: %s in %s", shared.ErrRepoNotFound, id, typ)
	}

	repos := collection.List(typ)
	repo := repos[idx]
	changed := false
	for flag, target := range map[string]*string{
		"name":        &repo.Name,
		"description": &repo.Description,
		"language":    &repo.Language,
		"url":         &repo.URL,
	} {
		if cmd.IsSet(flag) {
			*target = cmd.String(flag)
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("%w: nothing to change, pass at least one field flag", shared.ErrMissingArgument)
	}

	repo.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := repo.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	repos[idx] = repo
	tasks.SortByUpdated(repos)
	collection.SetList(typ, repos)

	if err := s.Save(collection); err != nil {
		return err
	}
	r.writePlain("✓ Updated %s\n", id)
	return nil
}

// RepoDelete removes a tracked repository from one collection.
func (r *Runner) RepoDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: repository id is required", shared.ErrMissingArgument)
	}
	typ, err := models.ParseCollectionType(cmd.String("collection"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	collection, err := s.Load()
	if err != nil {
		return err
	}

	idx, ok := collection.Find(typ, id)
	if !ok {
		return fmt.Errorf("%w: %s in %s", shared.ErrRepoNotFound, id, typ)
	}

	repos := collection.List(typ)
	name := repos[idx].Name
	collection.SetList(typ, append(repos[:idx], repos[idx+1:]...))

	if err := s.Save(collection); err != nil {
		return err
	}
	r.logger.Info("repository deleted", "id", id, "collection", typ)
	r.writePlain("✓ Deleted %s (%s)\n", name, id)
	return nil
}

// RepoList prints one collection, optionally filtered by a search term.
func (r *Runner) RepoList(ctx context.Context, cmd *cli.Command) error {
	typ, err := models.ParseCollectionType(cmd.String("collection"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	collection, err := s.Load()
	if err != nil {
		return err
	}

	repos := collection.List(typ)
	if search := cmd.String("search"); search != "" {
		repos = filterRepos(repos, search)
	}

	if cmd.Bool("json") {
		return r.writeJSON(repos, cmd.Bool("pretty"))
	}

	if len(repos) == 0 {
		r.writePlain("No %s repositories\n", typ)
		return nil
	}

	settings := s.LoadSettings()
	for _, repo := range repos {
		r.writePlain("%s\n", formatter.RenderCard(repo, typ, settings))
	}
	r.writePlain("%d repositories\n", len(repos))
	return nil
}

// filterRepos keeps repos whose name, description, language, owner, or any
// topic contains the term, case-insensitively.
func filterRepos(repos []models.Repo, term string) []models.Repo {
	term = strings.ToLower(term)
	matched := []models.Repo{}
	for _, repo := range repos {
		if repoMatches(repo, term) {
			matched = append(matched, repo)
		}
	}
	return matched
}

func repoMatches(repo models.Repo, term string) bool {
	for _, field := range []string{repo.Name, repo.Description, repo.Language, repo.Owner} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, topic := range repo.Topics {
		if strings.Contains(strings.ToLower(topic), term) {
			return true
		}
	}
	return false
}
