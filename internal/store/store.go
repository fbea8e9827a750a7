// Package store owns the on-disk pattern directory layout: one directory per
// canonical record, keyed by its identifier, holding metadata.json, the
// cleaned and raw instructions, an optional preview image and the embeddings
// subdirectory.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pattern-repository/internal/models"
	"pattern-repository/internal/validate"
)

// Store manages pattern directories under one root.
type Store struct {
	Root string
}

// New creates the root directory if needed.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pattern root: %w", err)
	}
	return &Store{Root: root}, nil
}

// PatternDir returns the directory for one pattern identifier.
func (s *Store) PatternDir(id string) string {
	return filepath.Join(s.Root, id)
}

// Write lays down one complete pattern directory. The metadata is validated
// against the repository schema first; raw is the verbatim source document;
// previewPath, when non-empty, is copied in as preview.png.
func (s *Store) Write(meta models.PatternMetadata, parsed *models.ParsedPattern, raw []byte, previewPath string) error {
	if err := validate.Metadata(meta); err != nil {
		return err
	}

	dir := s.PatternDir(meta.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create pattern directory: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	clean := RenderInstructions(parsed)
	if err := os.WriteFile(filepath.Join(dir, "instructions.md"), []byte(clean), 0o644); err != nil {
		return fmt.Errorf("failed to write instructions: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "instructions_raw.txt"), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write raw instructions: %w", err)
	}

	if previewPath != "" {
		if err := copyFile(previewPath, filepath.Join(dir, "preview.png")); err != nil {
			return fmt.Errorf("failed to copy preview image: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, "embeddings"), 0o755); err != nil {
		return fmt.Errorf("failed to create embeddings directory: %w", err)
	}

	return nil
}

// List reads every pattern directory's metadata.json. Directory enumeration
// is sorted by name, so listing order is stable across runs.
func (s *Store) List() ([]models.PatternMetadata, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern root: %w", err)
	}

	var records []models.PatternMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Root, entry.Name(), "metadata.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata for %s: %w", entry.Name(), err)
		}
		var meta models.PatternMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", entry.Name(), err)
		}
		records = append(records, meta)
	}
	return records, nil
}

// Instructions returns the cleaned instruction text for one pattern.
func (s *Store) Instructions(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.PatternDir(id), "instructions.md"))
	if err != nil {
		return "", fmt.Errorf("failed to read instructions for %s: %w", id, err)
	}
	return string(data), nil
}

// SetTextEmbedding records the embedding model and vector file path in a
// pattern's metadata.json after the embedding stage has run.
func (s *Store) SetTextEmbedding(id, model, vectorPath string) error {
	path := filepath.Join(s.PatternDir(id), "metadata.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read metadata for %s: %w", id, err)
	}
	var meta models.PatternMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}

	meta.Embeddings.TextModel = model
	meta.Embeddings.TextVectorPath = vectorPath

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", id, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", id, err)
	}
	return nil
}

// RenderInstructions regenerates a clean instruction document from the parsed
// record. The output uses the same section and row headings the parser
// recognizes, so re-parsing it reproduces the original lists.
func RenderInstructions(parsed *models.ParsedPattern) string {
	var sb strings.Builder

	sb.WriteString("# " + parsed.Title + "\n\n")

	sb.WriteString("## Materials\n\n")
	for _, mat := range parsed.Materials {
		sb.WriteString("- " + mat + "\n")
	}

	sb.WriteString("\n## Gauge\n\n")
	if parsed.Gauge != "" {
		sb.WriteString(parsed.Gauge + "\n")
	} else {
		sb.WriteString("Gauge is not critical for this pattern.\n")
	}

	sb.WriteString("\n## Color Scheme\n\n")
	for i, color := range parsed.ColorScheme {
		fmt.Fprintf(&sb, "- Color %d: %s (%s)\n", i+1, color.Name, color.Hex)
	}

	sb.WriteString("\n## Pattern Notes\n\n")
	for _, note := range parsed.PatternNotes {
		sb.WriteString("- " + note + "\n")
	}

	sb.WriteString("\n## Instructions\n\n")
	for _, row := range parsed.Instructions {
		fmt.Fprintf(&sb, "### Row %d\n%s\n\n", row.Row, row.Instruction)
	}

	sb.WriteString("## Tips\n\n")
	for _, tip := range parsed.Tips {
		sb.WriteString("- " + tip + "\n")
	}

	return sb.String()
}

// copyFile copies src to dst, replacing dst if present.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
