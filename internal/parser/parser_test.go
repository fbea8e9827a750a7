package parser

import (
	"reflect"
	"testing"

	"pattern-repository/internal/models"
)

const samplePattern = `# Baby Blanket
- **Model**: gpt-x
- **Size**: 20x20
- **Difficulty**: Beginner
## Materials
- Worsted yarn, 2 skeins
## Color Scheme
- Color 1: Light Blue (#E3F2FD)
## Instructions
### Row 1
Work knit across all stitches.
`

func TestParse_SamplePattern(t *testing.T) {
	p := Parse(samplePattern)

	if p.Title != "Baby Blanket" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Model != "gpt-x" {
		t.Errorf("model = %q", p.Model)
	}
	if p.Size != "20x20" {
		t.Errorf("size = %q", p.Size)
	}
	if p.Difficulty != "beginner" {
		t.Errorf("difficulty = %q, want lowercased", p.Difficulty)
	}
	if !reflect.DeepEqual(p.Materials, []string{"Worsted yarn, 2 skeins"}) {
		t.Errorf("materials = %v", p.Materials)
	}
	wantColors := []models.ColorEntry{{Name: "Light Blue", Hex: "#E3F2FD"}}
	if !reflect.DeepEqual(p.ColorScheme, wantColors) {
		t.Errorf("color scheme = %v", p.ColorScheme)
	}
	wantRows := []models.RowInstruction{{Row: 1, Instruction: "Work knit across all stitches."}}
	if !reflect.DeepEqual(p.Instructions, wantRows) {
		t.Errorf("instructions = %v", p.Instructions)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := Parse("")

	if p.Title != "" || p.Gauge != "" {
		t.Error("empty input produced non-empty scalars")
	}
	if len(p.Materials) != 0 || len(p.Instructions) != 0 || len(p.ColorScheme) != 0 {
		t.Error("empty input produced non-empty lists")
	}
}

func TestTransition_Lines(t *testing.T) {
	cases := []struct {
		name       string
		state      State
		line       string
		wantState  State
		wantAction Action
	}{
		{
			name:       "title line",
			line:       "# Cozy Scarf",
			wantAction: Action{Kind: ActionSetTitle, Value: "Cozy Scarf"},
		},
		{
			name:       "model field independent of state",
			state:      State{Section: SectionMaterials},
			line:       "- **Model**: llama-2",
			wantState:  State{Section: SectionMaterials},
			wantAction: Action{Kind: ActionSetModel, Value: "llama-2"},
		},
		{
			name:       "prompt field strips quotes",
			line:       `- **Prompt**: "a warm hat"`,
			wantAction: Action{Kind: ActionSetPrompt, Value: "a warm hat"},
		},
		{
			name:      "materials heading",
			line:      "## Materials Needed",
			wantState: State{Section: SectionMaterials},
		},
		{
			name:      "row keyword maps to instructions",
			line:      "## Row-by-Row Guide",
			wantState: State{Section: SectionInstructions},
		},
		{
			name:      "unknown heading clears section",
			state:     State{Section: SectionTips},
			line:      "## Acknowledgements",
			wantState: State{Section: SectionNone},
		},
		{
			name:      "row header keeps section",
			state:     State{Section: SectionInstructions},
			line:      "### Row 7",
			wantState: State{Section: SectionInstructions, Row: 7},
		},
		{
			name:      "row persists across section change",
			state:     State{Section: SectionInstructions, Row: 4},
			line:      "## Tips",
			wantState: State{Section: SectionTips, Row: 4},
		},
		{
			name:       "bullet under materials",
			state:      State{Section: SectionMaterials},
			line:       "- US 7 needles",
			wantState:  State{Section: SectionMaterials},
			wantAction: Action{Kind: ActionAppendMaterial, Value: "US 7 needles"},
		},
		{
			name:      "unstructured color bullet dropped",
			state:     State{Section: SectionColors},
			line:      "- a nice shade of blue",
			wantState: State{Section: SectionColors},
		},
		{
			name:      "structured color bullet",
			state:     State{Section: SectionColors},
			line:      "- Color 2: Forest Green (#228B22)",
			wantState: State{Section: SectionColors},
			wantAction: Action{
				Kind:  ActionAppendColor,
				Color: models.ColorEntry{Name: "Forest Green", Hex: "#228B22"},
			},
		},
		{
			name:       "gauge free text",
			state:      State{Section: SectionGauge},
			line:       "20 stitches and 28 rows = 4 inches",
			wantState:  State{Section: SectionGauge},
			wantAction: Action{Kind: ActionAppendGauge, Value: "20 stitches and 28 rows = 4 inches"},
		},
		{
			name:      "gauge bullet dropped",
			state:     State{Section: SectionGauge},
			line:      "- in stockinette",
			wantState: State{Section: SectionGauge},
		},
		{
			name:       "instruction with row set",
			state:      State{Section: SectionInstructions, Row: 3},
			line:       "Work purl across.",
			wantState:  State{Section: SectionInstructions, Row: 3},
			wantAction: Action{Kind: ActionAppendInstruction, Value: "Work purl across.", Row: 3},
		},
		{
			name:      "instruction before any row header dropped",
			state:     State{Section: SectionInstructions},
			line:      "Work cast on 20 stitches.",
			wantState: State{Section: SectionInstructions},
		},
		{
			name:      "non-marker line under instructions dropped",
			state:     State{Section: SectionInstructions, Row: 2},
			line:      "Continue in this manner.",
			wantState: State{Section: SectionInstructions, Row: 2},
		},
		{
			name:  "bullet with no active section dropped",
			line:  "- stray bullet",
			state: State{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotState, gotAction := Transition(tc.state, tc.line)
			if gotState != tc.wantState {
				t.Errorf("state = %+v, want %+v", gotState, tc.wantState)
			}
			if !reflect.DeepEqual(gotAction, tc.wantAction) {
				t.Errorf("action = %+v, want %+v", gotAction, tc.wantAction)
			}
		})
	}
}

func TestParse_RowZeroNeverRecorded(t *testing.T) {
	p := Parse(`## Instructions
### Row 0
Work something that should vanish.
### Row 1
Work the real first row.
`)

	if len(p.Instructions) != 1 {
		t.Fatalf("instructions = %v", p.Instructions)
	}
	if p.Instructions[0].Row != 1 {
		t.Errorf("row = %d, want 1", p.Instructions[0].Row)
	}
}

func TestParse_RowOrderFollowsHeaders(t *testing.T) {
	p := Parse(`## Instructions
### Row 2
Work row two.
### Row 5
Work row five.
Work row five again.
### Row 9
Work row nine.
`)

	var rows []int
	for _, inst := range p.Instructions {
		rows = append(rows, inst.Row)
	}
	want := []int{2, 5, 5, 9}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i] < rows[i-1] {
			t.Errorf("row order decreased at %d: %v", i, rows)
		}
	}
}

func TestParse_GaugeAccumulatesSpaceJoined(t *testing.T) {
	p := Parse(`## Gauge
20 sts x 28 rows
over 4 inches in stockinette
`)

	want := "20 sts x 28 rows over 4 inches in stockinette"
	if p.Gauge != want {
		t.Errorf("gauge = %q, want %q", p.Gauge, want)
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		stem string
		want string
	}{
		{"pattern_042_swatch", "Pattern 042 Swatch"},
		{"baby_blanket", "Baby Blanket"},
		{"scarf", "Scarf"},
	}
	for _, tc := range cases {
		if got := TitleFromFilename(tc.stem); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.stem, got, tc.want)
		}
	}
}
