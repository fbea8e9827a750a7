package models

import (
	"encoding/json"
	"testing"
)

// Downstream consumers never branch on field presence: every key of the
// canonical record must appear in the serialized form even when its value is
// empty.
func TestPatternMetadata_EmptyFieldsKeepTheirKeys(t *testing.T) {
	data, err := json.Marshal(PatternMetadata{})
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		object string
		keys   []string
	}{
		{"images", []string{"preview", "chart", "swatches"}},
		{"embeddings", []string{"text_model", "image_model", "text_vector_path", "image_vector_path"}},
	}
	for _, tc := range cases {
		raw, ok := record[tc.object]
		if !ok {
			t.Fatalf("%s absent from serialized record", tc.object)
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			t.Fatal(err)
		}
		for _, key := range tc.keys {
			if _, ok := nested[key]; !ok {
				t.Errorf("%s.%s absent from serialized record", tc.object, key)
			}
		}
	}
}

func TestExtractionResult_EmptyFieldsKeepTheirKeys(t *testing.T) {
	data, err := json.Marshal(ExtractionResult{})
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"pdf_path", "total_pages", "text_extracted", "images_extracted",
		"ocr_applied", "text_file", "images_dir", "metadata", "errors"} {
		if _, ok := record[key]; !ok {
			t.Errorf("%s absent from serialized result", key)
		}
	}
}
