// Package standardizer maps intermediate pattern records into the canonical
// metadata schema shared by every source. It is a pure mapping: all
// filesystem writes belong to the pattern directory store.
package standardizer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pattern-repository/internal/models"
)

// patternNamespace is the UUIDv5 namespace for pattern identifiers.
var patternNamespace = uuid.MustParse("7a8f1c3e-4b6d-4a2f-9c0e-2d5b8e7f1a94")

// Source is the side information standardization needs beyond the parsed
// record itself.
type Source struct {
	// Name is the source document's own name (stem), recorded verbatim so the
	// mapping back to the input is always recoverable.
	Name string
	// Content is the raw source document; identifiers are derived from it.
	Content []byte
	// HasImage reports whether a preview image exists for this document.
	HasImage bool
}

// Standardizer maps parsed patterns into canonical metadata using a
// per-source profile for defaults.
type Standardizer struct {
	profile Profile

	// Now supplies the record's date_added timestamp; overridable in tests.
	Now func() time.Time
}

// New creates a standardizer for one source profile.
func New(profile Profile) *Standardizer {
	return &Standardizer{profile: profile, Now: time.Now}
}

var sizeRe = regexp.MustCompile(`^(\d+)x(\d+)`)

// scoreForLevel is a fixed lookup, a deliberate simplification: only
// "beginner" is distinguished, everything else maps to the midpoint.
func scoreForLevel(level string) float64 {
	if level == "beginner" {
		return 0.2
	}
	return 0.5
}

// PatternID derives a deterministic identifier from the source family, the
// document's name and its content, so re-processing the same document always
// yields the same pattern directory.
func (s *Standardizer) PatternID(src Source) string {
	seed := make([]byte, 0, len(s.profile.Source)+len(src.Name)+len(src.Content)+2)
	seed = append(seed, s.profile.Source...)
	seed = append(seed, '/')
	seed = append(seed, src.Name...)
	seed = append(seed, '\n')
	seed = append(seed, src.Content...)
	return uuid.NewSHA1(patternNamespace, seed).String()
}

// Standardize maps one parsed pattern into the canonical schema. Every field
// that cannot be derived from the source gets an explicit default from the
// profile, never left absent.
func (s *Standardizer) Standardize(parsed *models.ParsedPattern, src Source) models.PatternMetadata {
	id := s.PatternID(src)

	// Stitch and row counts come from a "WxH" size string; no match leaves
	// both at zero.
	stitchCount, rowCount := 0, 0
	if m := sizeRe.FindStringSubmatch(parsed.Size); m != nil {
		stitchCount, _ = strconv.Atoi(m[1])
		rowCount, _ = strconv.Atoi(m[2])
	}

	level := parsed.Difficulty
	if level == "" {
		level = s.profile.DefaultDifficulty
	}

	title := parsed.Title
	if title == "" {
		title = fmt.Sprintf("Generated Pattern %s", id[:8])
	}

	preview := ""
	if src.HasImage {
		preview = "preview.png"
	}

	prompt := parsed.Prompt
	if runes := []rune(prompt); len(runes) > 100 {
		prompt = string(runes[:100])
	}

	// Lists are emitted as empty, never absent.
	colors := parsed.ColorScheme
	if colors == nil {
		colors = []models.ColorEntry{}
	}
	rows := parsed.Instructions
	if rows == nil {
		rows = []models.RowInstruction{}
	}
	notes := parsed.PatternNotes
	if notes == nil {
		notes = []string{}
	}
	tips := parsed.Tips
	if tips == nil {
		tips = []string{}
	}

	return models.PatternMetadata{
		ID:       id,
		Source:   s.profile.Source,
		SourceID: src.Name,
		Title:    title,
		Type:     s.profile.Type,
		Category: s.profile.Category,

		Difficulty: models.Difficulty{
			Level: level,
			Score: scoreForLevel(level),
		},

		Techniques: s.profile.Techniques,

		Materials: models.Materials{
			YarnWeight:   s.profile.YarnWeight,
			FiberContent: s.profile.FiberContent,
			Yardage:      s.profile.Yardage,
			NeedleSize:   s.profile.NeedleSize,
			NeedleSizeMM: s.profile.NeedleSizeMM,
			Notions:      s.profile.Notions,
			Colors:       colors,
		},

		Gauge: models.Gauge{
			StitchesPerInch: s.profile.StitchesPerInch,
			StitchesPer10CM: s.profile.StitchesPer10CM,
			RowsPerInch:     s.profile.RowsPerInch,
			RowsPer10CM:     s.profile.RowsPer10CM,
			SwatchSize:      s.profile.SwatchSize,
			PatternUsed:     s.profile.GaugePattern,
			RawGauge:        parsed.Gauge,
		},

		Sizing: models.Sizing{
			AvailableSizes: []string{"one size"},
			SizeRange:      parsed.Size,
		},

		Instructions: models.Instructions{
			Format:            "written",
			Sections:          s.profile.Sections,
			StitchCount:       stitchCount,
			RowCount:          rowCount,
			AbbreviationsUsed: s.profile.Abbreviations,
			Rows:              rows,
			Notes:             notes,
			Tips:              tips,
		},

		Images: models.Images{
			Preview:  preview,
			Swatches: []string{},
		},

		Embeddings: models.Embeddings{},

		License:      s.profile.License,
		Attribution:  fmt.Sprintf(s.profile.AttributionFormat, parsed.Model),
		DateAdded:    s.Now().Format("2006-01-02"),
		DateOriginal: s.profile.DateOriginal,
		Tags:         s.profile.Tags,

		Generation: models.GenerationMetadata{
			Model:  parsed.Model,
			Prompt: parsed.Prompt,
		},
		Notes: fmt.Sprintf(s.profile.NotesFormat, prompt),
	}
}
