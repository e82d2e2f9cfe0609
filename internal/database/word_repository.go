package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/englishboss/pkg/models"
)

// WordRepository handles database operations for vocabulary words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// Create inserts a new word and assigns its ID
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	if r.db.DriverName() == "postgres" {
		query := r.db.Rebind(`
			INSERT INTO words (level, en, fa, pos, synonyms, examples)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id
		`)
		err := r.db.QueryRowContext(ctx, query,
			word.Level, word.En, word.Fa, word.Pos, word.Synonyms, word.Examples,
		).Scan(&word.ID)
		if err != nil {
			return fmt.Errorf("failed to create word: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO words (level, en, fa, pos, synonyms, examples)
		VALUES (?, ?, ?, ?, ?, ?)
	`, word.Level, word.En, word.Fa, word.Pos, word.Synonyms, word.Examples)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	word.ID = id

	return nil
}

// GetByID returns a single word
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	query := r.db.Rebind(`
		SELECT id, COALESCE(level, '') AS level,
		       COALESCE(en, '') AS en, COALESCE(fa, '') AS fa,
		       COALESCE(pos, '') AS pos, COALESCE(synonyms, '') AS synonyms,
		       COALESCE(examples, '') AS examples
		FROM words WHERE id = ?
	`)
	if err := r.db.GetContext(ctx, &word, query, id); err != nil {
		return nil, fmt.Errorf("failed to get word %d: %w", id, err)
	}
	return &word, nil
}

// Count returns the total number of words in the deck
func (r *WordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}
