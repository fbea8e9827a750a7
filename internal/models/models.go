package models

// ExtractionResult describes the outcome of extracting one PDF document.
// Partial failures never reduce TotalPages: it always reflects the page count
// reported by whichever backend opened the document.
type ExtractionResult struct {
	PDFPath         string            `json:"pdf_path"`
	TotalPages      int               `json:"total_pages"`
	TextExtracted   bool              `json:"text_extracted"`
	ImagesExtracted int               `json:"images_extracted"`
	OCRApplied      bool              `json:"ocr_applied"`
	TextFile        string            `json:"text_file"`
	ImagesDir       string            `json:"images_dir"`
	Metadata        map[string]string `json:"metadata"`
	Errors          []string          `json:"errors"`
}

// RowInstruction is one row of pattern instructions, tagged with its row number.
type RowInstruction struct {
	Row         int    `json:"row"`
	Instruction string `json:"instruction"`
}

// ColorEntry is a named color with its hex code.
type ColorEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ParsedPattern is the intermediate record produced by the pattern parser.
// Absent fields are empty strings or empty lists, never an error.
type ParsedPattern struct {
	Title        string           `json:"title"`
	Model        string           `json:"model"`
	Prompt       string           `json:"prompt"`
	Size         string           `json:"size"`
	Difficulty   string           `json:"difficulty"`
	Materials    []string         `json:"materials"`
	Gauge        string           `json:"gauge"`
	ColorScheme  []ColorEntry     `json:"color_scheme"`
	PatternNotes []string         `json:"pattern_notes"`
	Instructions []RowInstruction `json:"instructions"`
	Tips         []string         `json:"tips"`
}

// Difficulty pairs a difficulty level with a numeric score.
type Difficulty struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// Technique describes one technique used by a pattern.
type Technique struct {
	Name        string  `json:"name" yaml:"name"`
	Complexity  float64 `json:"complexity" yaml:"complexity"`
	Description string  `json:"description" yaml:"description"`
}

// Materials describes the yarn, needles and notions a pattern calls for.
type Materials struct {
	YarnWeight   string       `json:"yarn_weight"`
	FiberContent []string     `json:"fiber_content"`
	Yardage      int          `json:"yardage"`
	NeedleSize   string       `json:"needle_size"`
	NeedleSizeMM float64      `json:"needle_size_mm"`
	Notions      []string     `json:"notions"`
	Colors       []ColorEntry `json:"colors"`
}

// Gauge describes stitch and row density plus the raw gauge text.
type Gauge struct {
	StitchesPerInch float64 `json:"stitches_per_inch"`
	StitchesPer10CM float64 `json:"stitches_per_10cm"`
	RowsPerInch     float64 `json:"rows_per_inch"`
	RowsPer10CM     float64 `json:"rows_per_10cm"`
	SwatchSize      string  `json:"swatch_size"`
	PatternUsed     string  `json:"pattern_used"`
	RawGauge        string  `json:"raw_gauge"`
}

// Sizing describes the sizes a pattern is written for.
type Sizing struct {
	AvailableSizes []string `json:"available_sizes"`
	SizeRange      string   `json:"size_range"`
}

// Instructions is the canonical instruction block of a pattern.
type Instructions struct {
	Format            string           `json:"format"`
	Sections          []string         `json:"sections"`
	StitchCount       int              `json:"stitch_count"`
	RowCount          int              `json:"row_count"`
	AbbreviationsUsed []string         `json:"abbreviations_used"`
	Rows              []RowInstruction `json:"rows"`
	Notes             []string         `json:"notes"`
	Tips              []string         `json:"tips"`
}

// Images holds relative paths to a pattern's image assets. Absent assets
// serialize as empty strings, never as missing keys.
type Images struct {
	Preview  string   `json:"preview"`
	Chart    string   `json:"chart"`
	Swatches []string `json:"swatches"`
}

// Embeddings records which models embedded this pattern and where the vector
// files live. Empty at standardization time; populated by the embedding stage.
type Embeddings struct {
	TextModel       string `json:"text_model"`
	ImageModel      string `json:"image_model"`
	TextVectorPath  string `json:"text_vector_path"`
	ImageVectorPath string `json:"image_vector_path"`
}

// GenerationMetadata records provenance for generated patterns.
type GenerationMetadata struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// PatternMetadata is the canonical record every source is normalized into.
// Every optional field that cannot be derived from the source carries an
// explicit default, so downstream consumers never branch on field presence.
type PatternMetadata struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Category string `json:"category"`

	Difficulty Difficulty  `json:"difficulty"`
	Techniques []Technique `json:"techniques"`
	Materials  Materials   `json:"materials"`
	Gauge      Gauge       `json:"gauge"`
	Sizing     Sizing      `json:"sizing"`

	Instructions Instructions `json:"instructions"`
	Images       Images       `json:"images"`
	Embeddings   Embeddings   `json:"embeddings"`

	License      string   `json:"license"`
	Attribution  string   `json:"attribution"`
	DateAdded    string   `json:"date_added"`
	DateOriginal string   `json:"date_original"`
	Tags         []string `json:"tags"`

	Generation GenerationMetadata `json:"generation_metadata"`
	Notes      string             `json:"notes"`
}

// CatalogEntry is the per-pattern summary stored in the master catalog.
type CatalogEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Path       string `json:"path"`
}

// Catalog is the corpus-level index over all pattern directories. It is
// rebuilt from scratch on every aggregation run and fully replaces any prior
// catalog file.
type Catalog struct {
	Updated       string         `json:"updated"`
	TotalPatterns int            `json:"total_patterns"`
	Sources       map[string]int `json:"sources"`
	Patterns      []CatalogEntry `json:"patterns"`
}
