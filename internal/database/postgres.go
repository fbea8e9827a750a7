package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pattern-repository/internal/models"
)

// DB represents the database connection
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection
func NewDB(connStr string) (*DB, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Initialize sets up the patterns table and its indices. The embedding
// dimension depends on the model and is fixed at table creation.
func (db *DB) Initialize(ctx context.Context, embeddingDim int) error {
	_, err := db.Pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS patterns (
            id UUID PRIMARY KEY,
            source TEXT NOT NULL,
            source_id TEXT NOT NULL,
            title TEXT NOT NULL,
            type TEXT NOT NULL,
            category TEXT,
            difficulty_level TEXT,
            difficulty_score DOUBLE PRECISION,
            instructions TEXT NOT NULL,
            embedding vector(%d) NOT NULL
        )
    `, embeddingDim))
	if err != nil {
		return fmt.Errorf("failed to create patterns table: %w", err)
	}

	// Create vector index
	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS patterns_embedding_idx ON patterns
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	// Create indices for better query performance
	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS patterns_source_idx ON patterns (source);
		CREATE INDEX IF NOT EXISTS patterns_difficulty_idx ON patterns (difficulty_level);
	`)
	if err != nil {
		return fmt.Errorf("failed to create additional indices: %w", err)
	}

	return nil
}

// UpsertPattern stores one pattern with its instruction text and embedding.
// Pattern identifiers are deterministic, so re-indexing the same source
// updates the existing row instead of duplicating it.
func (db *DB) UpsertPattern(ctx context.Context, meta *models.PatternMetadata, instructions string, embedding []float64) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO patterns (
            id, source, source_id, title, type, category,
            difficulty_level, difficulty_score, instructions, embedding
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            source = EXCLUDED.source,
            source_id = EXCLUDED.source_id,
            title = EXCLUDED.title,
            type = EXCLUDED.type,
            category = EXCLUDED.category,
            difficulty_level = EXCLUDED.difficulty_level,
            difficulty_score = EXCLUDED.difficulty_score,
            instructions = EXCLUDED.instructions,
            embedding = EXCLUDED.embedding
    `,
		meta.ID,
		meta.Source,
		meta.SourceID,
		meta.Title,
		meta.Type,
		meta.Category,
		meta.Difficulty.Level,
		meta.Difficulty.Score,
		instructions,
		embedding)

	return err
}

// GetSources returns the distinct source names present in the index.
func (db *DB) GetSources(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT DISTINCT source FROM patterns ORDER BY source
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// CountBySource returns how many patterns each source contributed.
func (db *DB) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT source, COUNT(*) FROM patterns GROUP BY source
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query source counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = count
	}
	return counts, rows.Err()
}
