package embedding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewOllamaEmbedder_HostOverride(t *testing.T) {
	e, err := NewOllamaEmbedder("http://embeddings.internal:11434", "nomic-embed-text")
	if err != nil {
		t.Fatalf("NewOllamaEmbedder: %v", err)
	}
	if e.Client == nil {
		t.Fatal("no client created")
	}

	if _, err := NewOllamaEmbedder("://not-a-url", "nomic-embed-text"); err == nil {
		t.Error("malformed host accepted")
	}

	// Empty host falls back to the environment configuration.
	if _, err := NewOllamaEmbedder("", "nomic-embed-text"); err != nil {
		t.Errorf("empty host rejected: %v", err)
	}
}

func TestWriteVector(t *testing.T) {
	dir := t.TempDir()

	relPath, err := WriteVector(dir, "nomic-embed-text:v1.5", []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("WriteVector: %v", err)
	}
	if relPath != filepath.Join("embeddings", "text_nomic-embed-text-v1.5.json") {
		t.Errorf("relPath = %q", relPath)
	}

	data, err := os.ReadFile(filepath.Join(dir, relPath))
	if err != nil {
		t.Fatal(err)
	}
	var vf vectorFile
	if err := json.Unmarshal(data, &vf); err != nil {
		t.Fatal(err)
	}
	if vf.Model != "nomic-embed-text:v1.5" || vf.Dimension != 3 || len(vf.Vector) != 3 {
		t.Errorf("vector file = %+v", vf)
	}
}
