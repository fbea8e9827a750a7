package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// Item is one pattern's text queued for embedding.
type Item struct {
	ID   string
	Text string
}

// Result pairs an item with its computed vector.
type Result struct {
	ID     string
	Vector []float64
}

// OllamaEmbedder generates embeddings using the Ollama API.
type OllamaEmbedder struct {
	Client        *api.Client
	Model         string
	MaxRetries    int
	Timeout       time.Duration
	MaxConcurrent int
}

// NewOllamaEmbedder creates a new Ollama embedder. An empty host falls back
// to the OLLAMA_HOST environment configuration.
func NewOllamaEmbedder(host string, model string) (*OllamaEmbedder, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ollama host: %w", err)
		}
		hostURL = u
	}
	client := api.NewClient(hostURL, http.DefaultClient)

	return &OllamaEmbedder{
		Client:        client,
		Model:         model,
		MaxRetries:    3,
		Timeout:       time.Second * 30,
		MaxConcurrent: 3,
	}, nil
}

// EmbedText generates an embedding for a text, retrying transient failures.
func (e *OllamaEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	var embedding []float64
	var err error

	for retries := 0; retries <= e.MaxRetries; retries++ {
		if retries > 0 {
			time.Sleep(time.Duration(retries) * time.Second)
		}

		embedding, err = e.createEmbedding(ctx, text)
		if err == nil {
			return embedding, nil
		}
	}

	return nil, fmt.Errorf("failed to create embedding after %d retries: %w", e.MaxRetries, err)
}

// createEmbedding is a helper function to create a single embedding.
func (e *OllamaEmbedder) createEmbedding(ctx context.Context, text string) ([]float64, error) {
	req := api.EmbeddingRequest{
		Model:   e.Model,
		Prompt:  text,
		Options: map[string]any{},
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embeddings(ctxWithTimeout, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	return resp.Embedding, nil
}

// EmbedBatch embeds items in parallel, bounded by MaxConcurrent, reporting
// progress after each completed item. Results preserve input order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, items []Item,
	progressFunc func(processed, total int)) ([]Result, error) {

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.MaxConcurrent)

	var mu sync.Mutex
	processed := 0
	total := len(items)
	results := make([]Result, total)

	errChan := make(chan error, total)

	for i := range items {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int) {
			defer func() {
				wg.Done()
				<-semaphore
			}()

			vector, err := e.EmbedText(ctx, items[i].Text)
			if err != nil {
				errChan <- fmt.Errorf("failed to embed pattern %s: %w", items[i].ID, err)
				return
			}

			mu.Lock()
			results[i] = Result{ID: items[i].ID, Vector: vector}
			processed++
			if progressFunc != nil {
				progressFunc(processed, total)
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	return results, nil
}

// vectorFile is the on-disk shape of one embedding vector.
type vectorFile struct {
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
	Vector    []float64 `json:"vector"`
}

// WriteVector saves a vector into a pattern's embeddings directory and
// returns the written file's path relative to the pattern directory.
func WriteVector(patternDir, model string, vector []float64) (string, error) {
	relPath := filepath.Join("embeddings", "text_"+sanitizeModelName(model)+".json")

	data, err := json.MarshalIndent(vectorFile{
		Model:     model,
		Dimension: len(vector),
		Vector:    vector,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode vector: %w", err)
	}

	path := filepath.Join(patternDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create embeddings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write vector: %w", err)
	}
	return relPath, nil
}

// sanitizeModelName makes a model name safe for use in a filename.
func sanitizeModelName(model string) string {
	out := []rune(model)
	for i, r := range out {
		switch r {
		case '/', ':', ' ':
			out[i] = '-'
		}
	}
	return string(out)
}
