// Package validate checks canonical pattern records against the repository
// schema before they reach disk.
package validate

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"pattern-repository/internal/models"
)

//go:embed pattern.schema.json
var schemaJSON string

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("pattern.schema.json", strings.NewReader(schemaJSON)); err != nil {
		loadErr = err
		return
	}
	schema, loadErr = c.Compile("pattern.schema.json")
}

// Metadata validates one canonical record against the pattern schema.
func Metadata(meta models.PatternMetadata) error {
	once.Do(load)
	if loadErr != nil {
		return fmt.Errorf("failed to load pattern schema: %w", loadErr)
	}

	// Round-trip through JSON so validation sees exactly what gets written.
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("metadata failed schema validation: %w", err)
	}
	return nil
}
