// package formatter exports repository collections to various formats (JSON, CSV, Markdown)
// and renders repository cards for terminal display.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ghshelf/ghshelf/internal/models"
	"github.com/ghshelf/ghshelf/internal/shared"
)

// ExportFileName builds the default export filename for the given day,
// e.g. github-repos-2025-06-01.json.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("github-repos-%s.json", at.Format("2006-01-02"))
}

// ExportToJSON renders the full collection as indented JSON.
func ExportToJSON(collection models.Collection) ([]byte, error) {
	return shared.MarshalJSON(collection, true)
}

// ExportToCSV converts both collections to CSV with columns:
// Collection, ID, Name, Owner, Description, Language, URL, Stars, Forks, Updated
func ExportToCSV(collection models.Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Collection", "ID", "Name", "Owner", "Description", "Language", "URL", "Stars", "Forks", "Updated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, typ := range models.CollectionTypes {
		for _, repo := range collection.List(typ) {
			record := []string{
				string(typ),
				repo.ID,
				repo.Name,
				repo.Owner,
				repo.Description,
				repo.Language,
				repo.URL,
				strconv.Itoa(repo.Stars),
				strconv.Itoa(repo.Forks),
				repo.UpdatedAt,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts both collections to a Markdown document with one
// section per collection.
func ExportToMarkdown(collection models.Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# GitHub Repositories\n\n")

	for _, typ := range models.CollectionTypes {
		repos := collection.List(typ)
		buf.WriteString(fmt.Sprintf("## %s (%d)\n\n", titleCase(string(typ)), len(repos)))

		for _, repo := range repos {
			name := repo.Name
			if repo.Owner != "" {
				name = repo.Owner + "/" + repo.Name
			}
			buf.WriteString(fmt.Sprintf("- [%s](%s)", name, repo.URL))
			if repo.Description != "" && repo.Description != models.NoDescription {
				buf.WriteString(" - " + repo.Description)
			}
			buf.WriteString(fmt.Sprintf(" (%s, ★%d)\n", repo.Language, repo.Stars))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WriteJSONExport writes the collection to path, defaulting to the
// date-stamped filename in the current directory.
func WriteJSONExport(collection models.Collection, path string) (string, error) {
	if path == "" {
		path = ExportFileName(time.Now())
	}

	data, err := ExportToJSON(collection)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// RenderCard renders one repository as a multi-line text card, honoring the
// per-collection display settings.
func RenderCard(repo models.Repo, typ models.CollectionType, settings models.Settings) string {
	var buf bytes.Buffer
	show := func(k models.ElementKey) bool { return settings.Show(typ, k) }

	buf.WriteString(repo.Name)
	if show(models.ElemOwner) && repo.Owner != "" {
		buf.WriteString("  (" + repo.Owner + ")")
	}
	if show(models.ElemVisibility) {
		if repo.Private {
			buf.WriteString("  [private]")
		} else {
			buf.WriteString("  [public]")
		}
	}
	if show(models.ElemArchived) && repo.Archived {
		buf.WriteString("  [archived]")
	}
	buf.WriteString("\n")

	if show(models.ElemDescription) {
		buf.WriteString("  " + repo.Description + "\n")
	}

	var facts []string
	if show(models.ElemLanguage) {
		facts = append(facts, repo.Language)
	}
	if show(models.ElemStars) {
		facts = append(facts, fmt.Sprintf("★ %d", repo.Stars))
	}
	if show(models.ElemForks) {
		facts = append(facts, fmt.Sprintf("⑂ %d", repo.Forks))
	}
	if show(models.ElemCreatedDate) && repo.CreatedAt != "" {
		facts = append(facts, "created "+shortDate(repo.CreatedAt))
	}
	if show(models.ElemUpdatedDate) && repo.UpdatedAt != "" {
		facts = append(facts, "updated "+shortDate(repo.UpdatedAt))
	}
	if len(facts) > 0 {
		buf.WriteString("  " + strings.Join(facts, " · ") + "\n")
	}

	if show(models.ElemTopics) && len(repo.Topics) > 0 {
		buf.WriteString("  topics: " + strings.Join(repo.Topics, ", ") + "\n")
	}

	return buf.String()
}

// shortDate trims a timestamp down to its date part for display.
func shortDate(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02")
	}
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
