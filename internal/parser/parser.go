// Package parser converts generated pattern markdown into a structured
// intermediate record. Parsing is a line-driven state machine: an explicit
// tagged state plus a pure Transition function, so every rule is testable
// line by line. Malformed input never produces an error; missing fields
// resolve to empty values.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"pattern-repository/internal/models"
)

// Section identifies which list-bearing section of the document is active.
type Section int

const (
	SectionNone Section = iota
	SectionMaterials
	SectionGauge
	SectionColors
	SectionNotes
	SectionInstructions
	SectionTips
)

// State is the full parser state between lines. Row persists across section
// transitions once set.
type State struct {
	Section Section
	Row     int
}

// ActionKind tags what a transition wants recorded.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSetTitle
	ActionSetModel
	ActionSetPrompt
	ActionSetSize
	ActionSetDifficulty
	ActionAppendMaterial
	ActionAppendNote
	ActionAppendTip
	ActionAppendColor
	ActionAppendGauge
	ActionAppendInstruction
)

// Action is the side effect a transition produces for one line.
type Action struct {
	Kind  ActionKind
	Value string
	Color models.ColorEntry // set for ActionAppendColor
	Row   int               // set for ActionAppendInstruction
}

var (
	rowHeaderRe = regexp.MustCompile(`^### Row (\d+)`)
	colorRe     = regexp.MustCompile(`^Color \d+: (.+) \((#[A-Fa-f0-9]+)\)`)
)

// instructionMarker is the fixed prefix instruction lines carry in generated
// patterns.
const instructionMarker = "Work "

// Transition evaluates one trimmed line against the current state and returns
// the next state plus the action to record. Rules are checked in priority
// order: title, scalar metadata fields, section headings, row headings,
// bullets, then section-specific free text.
func Transition(st State, line string) (State, Action) {
	line = strings.TrimSpace(line)

	// Title: a single leading "#".
	if strings.HasPrefix(line, "# ") {
		return st, Action{Kind: ActionSetTitle, Value: strings.TrimSpace(line[2:])}
	}

	// Scalar metadata fields apply regardless of the active section.
	switch {
	case strings.HasPrefix(line, "- **Model**:"):
		return st, Action{Kind: ActionSetModel, Value: fieldValue(line)}
	case strings.HasPrefix(line, "- **Prompt**:"):
		return st, Action{Kind: ActionSetPrompt, Value: strings.Trim(fieldValue(line), `"`)}
	case strings.HasPrefix(line, "- **Size**:"):
		return st, Action{Kind: ActionSetSize, Value: fieldValue(line)}
	case strings.HasPrefix(line, "- **Difficulty**:"):
		return st, Action{Kind: ActionSetDifficulty, Value: strings.ToLower(fieldValue(line))}
	}

	// Section headings reclassify state by keyword; no match clears it.
	if strings.HasPrefix(line, "## ") {
		st.Section = classifySection(line[3:])
		return st, Action{}
	}

	// Row headings set the current row without changing the section.
	if m := rowHeaderRe.FindStringSubmatch(line); m != nil {
		row, err := strconv.Atoi(m[1])
		if err == nil {
			st.Row = row
		}
		return st, Action{}
	}

	// Bullets under an active list-bearing section.
	if strings.HasPrefix(line, "- ") && st.Section != SectionNone {
		content := strings.TrimSpace(line[2:])
		switch st.Section {
		case SectionMaterials:
			return st, Action{Kind: ActionAppendMaterial, Value: content}
		case SectionNotes:
			return st, Action{Kind: ActionAppendNote, Value: content}
		case SectionTips:
			return st, Action{Kind: ActionAppendTip, Value: content}
		case SectionColors:
			// Only the structured "Color k: Name (#HEX)" shape is kept;
			// other color bullets are dropped from the structured list.
			if m := colorRe.FindStringSubmatch(content); m != nil {
				return st, Action{Kind: ActionAppendColor, Color: models.ColorEntry{Name: m[1], Hex: m[2]}}
			}
		}
		return st, Action{}
	}

	// Gauge accumulates any non-heading, non-empty line.
	if st.Section == SectionGauge && line != "" && !strings.HasPrefix(line, "#") {
		return st, Action{Kind: ActionAppendGauge, Value: line}
	}

	// Instruction lines count against the most recently seen row header;
	// lines before any row header are dropped.
	if st.Section == SectionInstructions && strings.HasPrefix(line, instructionMarker) {
		if st.Row > 0 {
			return st, Action{Kind: ActionAppendInstruction, Value: line, Row: st.Row}
		}
	}

	return st, Action{}
}

// fieldValue returns everything after the first colon, trimmed.
func fieldValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}

// classifySection maps a "## " heading to a section by case-insensitive
// keyword match.
func classifySection(heading string) Section {
	h := strings.ToLower(strings.TrimSpace(heading))
	switch {
	case strings.Contains(h, "material"):
		return SectionMaterials
	case strings.Contains(h, "gauge"):
		return SectionGauge
	case strings.Contains(h, "color"):
		return SectionColors
	case strings.Contains(h, "note"):
		return SectionNotes
	case strings.Contains(h, "instruction"), strings.Contains(h, "row"):
		return SectionInstructions
	case strings.Contains(h, "tip"):
		return SectionTips
	}
	return SectionNone
}

// Apply records one action on the pattern under construction.
func Apply(p *models.ParsedPattern, a Action) {
	switch a.Kind {
	case ActionSetTitle:
		p.Title = a.Value
	case ActionSetModel:
		p.Model = a.Value
	case ActionSetPrompt:
		p.Prompt = a.Value
	case ActionSetSize:
		p.Size = a.Value
	case ActionSetDifficulty:
		p.Difficulty = a.Value
	case ActionAppendMaterial:
		p.Materials = append(p.Materials, a.Value)
	case ActionAppendNote:
		p.PatternNotes = append(p.PatternNotes, a.Value)
	case ActionAppendTip:
		p.Tips = append(p.Tips, a.Value)
	case ActionAppendColor:
		p.ColorScheme = append(p.ColorScheme, a.Color)
	case ActionAppendGauge:
		if p.Gauge != "" {
			p.Gauge += " "
		}
		p.Gauge += a.Value
	case ActionAppendInstruction:
		p.Instructions = append(p.Instructions, models.RowInstruction{Row: a.Row, Instruction: a.Value})
	}
}

// Parse runs the state machine over a whole document.
func Parse(content string) *models.ParsedPattern {
	p := &models.ParsedPattern{
		Materials:    []string{},
		ColorScheme:  []models.ColorEntry{},
		PatternNotes: []string{},
		Instructions: []models.RowInstruction{},
		Tips:         []string{},
	}

	st := State{}
	for _, line := range strings.Split(content, "\n") {
		var action Action
		st, action = Transition(st, line)
		Apply(p, action)
	}
	return p
}

// TitleFromFilename derives a fallback title from a document's own name when
// no title line was found: underscores become spaces, words are capitalized.
func TitleFromFilename(stem string) string {
	words := strings.Fields(strings.ReplaceAll(stem, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
