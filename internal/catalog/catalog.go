// Package catalog folds canonical pattern records into the corpus-level
// master catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pattern-repository/internal/models"
)

// Build aggregates records into a catalog: per-source counts plus one summary
// entry per record, in input order. It is a pure, total rebuild; no prior
// catalog state is consulted.
func Build(records []models.PatternMetadata, now time.Time) models.Catalog {
	catalog := models.Catalog{
		Updated:       now.Format(time.RFC3339),
		TotalPatterns: len(records),
		Sources:       map[string]int{},
		Patterns:      []models.CatalogEntry{},
	}

	for _, meta := range records {
		source := meta.Source
		if source == "" {
			source = "unknown"
		}
		catalog.Sources[source]++

		catalog.Patterns = append(catalog.Patterns, models.CatalogEntry{
			ID:         meta.ID,
			Title:      meta.Title,
			Source:     source,
			Type:       meta.Type,
			Category:   meta.Category,
			Difficulty: meta.Difficulty.Level,
			Path:       "patterns/" + meta.ID,
		})
	}

	return catalog
}

// Write replaces the catalog file in place. Consumers must treat the file as
// fully replaced on every aggregation run.
func Write(path string, catalog models.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
