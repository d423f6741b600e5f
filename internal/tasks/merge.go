package tasks

import (
	"sort"

	"github.com/ghshelf/ghshelf/internal/models"
)

// MergeResult reports what a merge changed.
type MergeResult struct {
	Collection   models.Collection
	AddedOwned   int
	AddedStarred int
}

// Added returns the total number of records the merge introduced.
func (r MergeResult) Added() int {
	return r.AddedOwned + r.AddedStarred
}

// Merge folds freshly fetched repositories into an existing collection.
// Existing records win every conflict; fetched duplicates are discarded.
// Each merged list is sorted by update time, newest first.
func Merge(existing models.Collection, fetchedOwned, fetchedStarred []models.Repo) MergeResult {
	mergedOwned, addedOwned := mergeList(existing.Owned, fetchedOwned)
	mergedStarred, addedStarred := mergeList(existing.Starred, fetchedStarred)

	return MergeResult{
		Collection:   models.Collection{Owned: mergedOwned, Starred: mergedStarred},
		AddedOwned:   addedOwned,
		AddedStarred: addedStarred,
	}
}

// mergeList appends the fetched records that match nothing already present,
// then sorts. Matching is by URL, or by name and owner together.
func mergeList(existing, fetched []models.Repo) ([]models.Repo, int) {
	merged := make([]models.Repo, len(existing), len(existing)+len(fetched))
	copy(merged, existing)

	added := 0
	for _, candidate := range fetched {
		if containsRepo(existing, candidate) {
			continue
		}
		merged = append(merged, candidate)
		added++
	}

	SortByUpdated(merged)
	return merged, added
}

func containsRepo(repos []models.Repo, candidate models.Repo) bool {
	for _, r := range repos {
		if r.URL != "" && r.URL == candidate.URL {
			return true
		}
		if r.Name == candidate.Name && r.Owner == candidate.Owner {
			return true
		}
	}
	return false
}

// SortByUpdated orders repos newest first. Records whose update time is
// absent or unparseable sink to the end; ties keep their relative order.
func SortByUpdated(repos []models.Repo) {
	sort.SliceStable(repos, func(i, j int) bool {
		ti, iok := repos[i].UpdatedTime()
		tj, jok := repos[j].UpdatedTime()
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ti.After(tj)
	})
}
