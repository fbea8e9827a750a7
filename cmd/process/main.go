package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pattern-repository/internal/catalog"
	"pattern-repository/internal/parser"
	"pattern-repository/internal/standardizer"
	"pattern-repository/internal/store"
)

func main() {
	_ = godotenv.Load()

	inputDir := flag.String("input", "", "Directory containing pattern_*.md source files (required)")
	patternsDir := flag.String("patterns", getenv("PATTERNS_DIR", "processed/patterns"), "Pattern directory root")
	catalogPath := flag.String("catalog", getenv("CATALOG_PATH", "processed/index/master_catalog.json"), "Master catalog file")
	profilePath := flag.String("profile", "", "YAML source profile (default: built-in knitting-llms profile)")
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("Input directory is required")
	}

	profile := standardizer.DefaultProfile()
	if *profilePath != "" {
		var err error
		profile, err = standardizer.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}
	}
	std := standardizer.New(profile)

	st, err := store.New(*patternsDir)
	if err != nil {
		log.Fatalf("Failed to create pattern store: %v", err)
	}

	mdFiles, err := filepath.Glob(filepath.Join(*inputDir, "pattern_*.md"))
	if err != nil {
		log.Fatalf("Failed to list pattern files: %v", err)
	}
	log.Printf("Found %d pattern files", len(mdFiles))

	processed := 0
	failed := 0

	for _, mdFile := range mdFiles {
		if err := processPattern(mdFile, std, st); err != nil {
			log.Printf("Error processing %s: %v", filepath.Base(mdFile), err)
			failed++
			continue
		}
		processed++
	}

	// Rebuild the master catalog from the complete set of pattern
	// directories; the catalog file is fully replaced.
	records, err := st.List()
	if err != nil {
		log.Fatalf("Failed to list pattern directories: %v", err)
	}
	cat := catalog.Build(records, time.Now())
	if err := catalog.Write(*catalogPath, cat); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}

	log.Printf("Processing complete: %d processed, %d failed", processed, failed)
	log.Printf("Catalog updated: %s (%d patterns)", *catalogPath, cat.TotalPatterns)
}

// processPattern converts one markdown source into a pattern directory.
func processPattern(mdFile string, std *standardizer.Standardizer, st *store.Store) error {
	raw, err := os.ReadFile(mdFile)
	if err != nil {
		return err
	}

	parsed := parser.Parse(string(raw))

	stem := strings.TrimSuffix(filepath.Base(mdFile), filepath.Ext(mdFile))
	if parsed.Title == "" {
		log.Printf("Warning: could not parse title from %s", filepath.Base(mdFile))
		parsed.Title = parser.TitleFromFilename(stem)
	}

	// A sibling .png is the pattern's preview image.
	previewPath := strings.TrimSuffix(mdFile, filepath.Ext(mdFile)) + ".png"
	if _, err := os.Stat(previewPath); err != nil {
		previewPath = ""
	}

	meta := std.Standardize(parsed, standardizer.Source{
		Name:     stem,
		Content:  raw,
		HasImage: previewPath != "",
	})

	if err := st.Write(meta, parsed, raw, previewPath); err != nil {
		return err
	}

	log.Printf("Created: %s (%s)", meta.ID, meta.Title)
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
