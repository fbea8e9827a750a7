package standardizer

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pattern-repository/internal/models"
)

func testStandardizer() *Standardizer {
	s := New(DefaultProfile())
	s.Now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

func testSource() Source {
	return Source{Name: "pattern_001", Content: []byte("# Test\n"), HasImage: false}
}

func TestStandardize_DifficultyScore(t *testing.T) {
	cases := []struct {
		level string
		want  float64
	}{
		{"beginner", 0.2},
		{"intermediate", 0.5},
		{"advanced", 0.5},
		{"expert", 0.5},
		{"anything-else", 0.5},
	}

	s := testStandardizer()
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			meta := s.Standardize(&models.ParsedPattern{Difficulty: tc.level}, testSource())
			if meta.Difficulty.Level != tc.level {
				t.Errorf("level = %q", meta.Difficulty.Level)
			}
			if meta.Difficulty.Score != tc.want {
				t.Errorf("score = %v, want %v", meta.Difficulty.Score, tc.want)
			}
		})
	}
}

func TestStandardize_MissingDifficultyDefaults(t *testing.T) {
	s := testStandardizer()
	meta := s.Standardize(&models.ParsedPattern{}, testSource())
	if meta.Difficulty.Level != "beginner" {
		t.Errorf("level = %q, want beginner", meta.Difficulty.Level)
	}
	if meta.Difficulty.Score != 0.2 {
		t.Errorf("score = %v, want 0.2", meta.Difficulty.Score)
	}
}

func TestStandardize_SizeCounts(t *testing.T) {
	cases := []struct {
		size         string
		wantStitches int
		wantRows     int
	}{
		{"20x20", 20, 20},
		{"15x30 stitches", 15, 30},
		{"one size fits all", 0, 0},
		{"", 0, 0},
		{"x20", 0, 0},
	}

	s := testStandardizer()
	for _, tc := range cases {
		meta := s.Standardize(&models.ParsedPattern{Size: tc.size}, testSource())
		if meta.Instructions.StitchCount != tc.wantStitches || meta.Instructions.RowCount != tc.wantRows {
			t.Errorf("size %q: counts = %dx%d, want %dx%d", tc.size,
				meta.Instructions.StitchCount, meta.Instructions.RowCount,
				tc.wantStitches, tc.wantRows)
		}
	}
}

func TestPatternID_Deterministic(t *testing.T) {
	s := testStandardizer()
	src := Source{Name: "pattern_007", Content: []byte("# Same Content\n")}

	id1 := s.PatternID(src)
	id2 := s.PatternID(src)
	if id1 != id2 {
		t.Errorf("same input produced different IDs: %s vs %s", id1, id2)
	}

	other := Source{Name: "pattern_007", Content: []byte("# Changed Content\n")}
	if s.PatternID(other) == id1 {
		t.Error("different content produced the same ID")
	}

	renamed := Source{Name: "pattern_008", Content: src.Content}
	if s.PatternID(renamed) == id1 {
		t.Error("different source name produced the same ID")
	}
}

func TestStandardize_IdempotentRecord(t *testing.T) {
	s := testStandardizer()
	parsed := &models.ParsedPattern{Title: "Hat", Difficulty: "beginner", Size: "10x10"}
	src := Source{Name: "pattern_003", Content: []byte("# Hat\n")}

	a := s.Standardize(parsed, src)
	b := s.Standardize(parsed, src)
	if a.ID != b.ID {
		t.Error("re-standardization changed the identifier")
	}
}

func TestStandardize_DefaultsAlwaysPopulated(t *testing.T) {
	s := testStandardizer()
	meta := s.Standardize(&models.ParsedPattern{}, testSource())

	if meta.Title == "" {
		t.Error("title left empty")
	}
	if len(meta.Techniques) == 0 {
		t.Error("techniques left empty")
	}
	if meta.Materials.YarnWeight == "" || meta.Materials.NeedleSizeMM == 0 {
		t.Error("material defaults missing")
	}
	if meta.Gauge.StitchesPerInch == 0 || meta.Gauge.SwatchSize == "" {
		t.Error("gauge defaults missing")
	}
	if len(meta.Sizing.AvailableSizes) == 0 {
		t.Error("sizing defaults missing")
	}
	if meta.License == "" || meta.DateAdded == "" {
		t.Error("license or date missing")
	}
	if meta.Instructions.Format != "written" {
		t.Errorf("format = %q", meta.Instructions.Format)
	}
}

func TestStandardize_PromptTruncatesOnRuneBoundary(t *testing.T) {
	s := testStandardizer()
	prompt := strings.Repeat("a", 99) + strings.Repeat("é", 10)

	meta := s.Standardize(&models.ParsedPattern{Prompt: prompt}, testSource())

	if !utf8.ValidString(meta.Notes) {
		t.Fatal("notes contain a split multi-byte character")
	}
	want := strings.Repeat("a", 99) + "é"
	if !strings.Contains(meta.Notes, want+"...") {
		t.Errorf("notes = %q, want truncated prompt %q", meta.Notes, want)
	}
	// The full prompt is preserved in the generation record.
	if meta.Generation.Prompt != prompt {
		t.Error("generation prompt truncated")
	}
}

func TestStandardize_SourceIdentityRecoverable(t *testing.T) {
	s := testStandardizer()
	meta := s.Standardize(&models.ParsedPattern{Title: "Hat"}, Source{
		Name:    "pattern_042_swatch",
		Content: []byte("# Hat\n"),
	})

	if meta.SourceID != "pattern_042_swatch" {
		t.Errorf("source_id = %q", meta.SourceID)
	}
	if meta.Source != "knitting_llms" {
		t.Errorf("source = %q", meta.Source)
	}
}

func TestStandardize_PreviewFollowsHasImage(t *testing.T) {
	s := testStandardizer()

	with := s.Standardize(&models.ParsedPattern{Title: "A"}, Source{Name: "a", Content: []byte("x"), HasImage: true})
	if with.Images.Preview != "preview.png" {
		t.Errorf("preview = %q", with.Images.Preview)
	}

	without := s.Standardize(&models.ParsedPattern{Title: "A"}, Source{Name: "a", Content: []byte("x")})
	if without.Images.Preview != "" {
		t.Errorf("preview = %q, want empty", without.Images.Preview)
	}
}
