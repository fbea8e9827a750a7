package standardizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pattern-repository/internal/models"
)

// Profile carries the per-source defaults the standardizer falls back to for
// fields the source itself cannot supply: technique descriptors, material and
// gauge assumptions, license and tagging. Keeping these outside the
// standardizer lets new intermediate-record producers plug in their own
// defaults without touching shared code.
type Profile struct {
	Source   string `yaml:"source"`
	Type     string `yaml:"type"`
	Category string `yaml:"category"`

	DefaultDifficulty string             `yaml:"default_difficulty"`
	Techniques        []models.Technique `yaml:"techniques"`

	YarnWeight   string   `yaml:"yarn_weight"`
	FiberContent []string `yaml:"fiber_content"`
	Yardage      int      `yaml:"yardage"`
	NeedleSize   string   `yaml:"needle_size"`
	NeedleSizeMM float64  `yaml:"needle_size_mm"`
	Notions      []string `yaml:"notions"`

	StitchesPerInch float64 `yaml:"stitches_per_inch"`
	StitchesPer10CM float64 `yaml:"stitches_per_10cm"`
	RowsPerInch     float64 `yaml:"rows_per_inch"`
	RowsPer10CM     float64 `yaml:"rows_per_10cm"`
	SwatchSize      string  `yaml:"swatch_size"`
	GaugePattern    string  `yaml:"gauge_pattern"`

	Sections      []string `yaml:"sections"`
	Abbreviations []string `yaml:"abbreviations"`

	License      string   `yaml:"license"`
	DateOriginal string   `yaml:"date_original"`
	Tags         []string `yaml:"tags"`

	// AttributionFormat receives the generating model name.
	AttributionFormat string `yaml:"attribution_format"`
	// NotesFormat receives the (truncated) generation prompt.
	NotesFormat string `yaml:"notes_format"`
}

// DefaultProfile returns the profile for the knitting-llms source family:
// LLM-generated colorwork swatches with fixed material and gauge assumptions.
func DefaultProfile() Profile {
	return Profile{
		Source:   "knitting_llms",
		Type:     "knitting",
		Category: "swatch",

		DefaultDifficulty: "beginner",
		Techniques: []models.Technique{
			{Name: "colorwork", Complexity: 0.4, Description: "Stranded colorwork"},
			{Name: "stockinette", Complexity: 0.1, Description: "Basic stockinette stitch"},
		},

		YarnWeight:   "worsted",
		FiberContent: []string{"acrylic", "wool"},
		Yardage:      50,
		NeedleSize:   "US 7 / 4.5mm",
		NeedleSizeMM: 4.5,
		Notions:      []string{"tapestry needle", "stitch markers"},

		StitchesPerInch: 5,
		StitchesPer10CM: 20,
		RowsPerInch:     7,
		RowsPer10CM:     28,
		SwatchSize:      "4x4 inches",
		GaugePattern:    "stockinette",

		Sections:      []string{"setup", "body"},
		Abbreviations: []string{"k", "p"},

		License:      "mit",
		DateOriginal: "2024",
		Tags:         []string{"colorwork", "generated", "swatch", "beginner", "llm-generated"},

		AttributionFormat: "Generated by %s via knitting-llms project",
		NotesFormat:       "Pattern generated from LLM activation patterns. Prompt: %s...",
	}
}

// LoadProfile reads a source profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}
