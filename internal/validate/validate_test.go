package validate_test

import (
	"strings"
	"testing"

	"pattern-repository/internal/parser"
	"pattern-repository/internal/standardizer"
	"pattern-repository/internal/validate"
)

func newStandardizer(t *testing.T) (std *standardizer.Standardizer, src standardizer.Source) {
	t.Helper()
	return standardizer.New(standardizer.DefaultProfile()),
		standardizer.Source{Name: "pattern_001", Content: []byte("# Hat\n")}
}

func TestMetadata_StandardizedRecordValidates(t *testing.T) {
	std, src := newStandardizer(t)
	meta := std.Standardize(parser.Parse("# Hat\n- **Difficulty**: Beginner\n"), src)

	if err := validate.Metadata(meta); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestMetadata_MinimalParseStillValidates(t *testing.T) {
	// Even a completely empty source must standardize into a valid record:
	// the schema is the contract that defaults are always populated.
	std, src := newStandardizer(t)
	meta := std.Standardize(parser.Parse(""), src)

	if err := validate.Metadata(meta); err != nil {
		t.Fatalf("defaulted record rejected: %v", err)
	}
}

func TestMetadata_MalformedIdentifierRejected(t *testing.T) {
	std, src := newStandardizer(t)
	meta := std.Standardize(parser.Parse("# Hat\n"), src)
	meta.ID = "not-a-uuid"

	err := validate.Metadata(meta)
	if err == nil {
		t.Fatal("malformed identifier accepted")
	}
	if !strings.Contains(err.Error(), "schema") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMetadata_ScoreOutOfRangeRejected(t *testing.T) {
	std, src := newStandardizer(t)
	meta := std.Standardize(parser.Parse("# Hat\n"), src)
	meta.Difficulty.Score = 3.5

	if err := validate.Metadata(meta); err == nil {
		t.Fatal("out-of-range difficulty score accepted")
	}
}
