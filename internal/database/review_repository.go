package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/englishboss/pkg/models"
)

// ReviewRepository handles the per-user Leitner review state stored in
// user_words.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Ensure creates the review row for a (user, word) pair at box 1 if it does
// not exist yet. An existing row is never touched, so repeat imports keep
// the user's progress.
func (r *ReviewRepository) Ensure(ctx context.Context, userID, wordID int64, due time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO user_words (user_id, word_id, box, next_due)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, word_id) DO NOTHING
	`)
	_, err := r.db.ExecContext(ctx, query, userID, wordID, due.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to ensure review state: %w", err)
	}
	return nil
}

// DueItems returns up to limit words due for review, most overdue first.
// A null next_due means the word was never scheduled and sorts before any
// timestamp; ties break on word id so the order is deterministic.
func (r *ReviewRepository) DueItems(ctx context.Context, userID int64, limit int) ([]models.DueWord, error) {
	nowISO := time.Now().UTC().Format(time.RFC3339)
	query := r.db.Rebind(`
		SELECT uw.word_id, uw.box, uw.next_due,
		       COALESCE(w.level, '') AS level,
		       COALESCE(w.en, '') AS en,
		       COALESCE(w.fa, '') AS fa,
		       COALESCE(w.pos, '') AS pos,
		       COALESCE(w.synonyms, '') AS synonyms,
		       COALESCE(w.examples, '') AS examples
		FROM user_words uw
		JOIN words w ON w.id = uw.word_id
		WHERE uw.user_id = ? AND COALESCE(uw.next_due, '') <= ?
		ORDER BY COALESCE(uw.next_due, '') ASC, uw.word_id ASC
		LIMIT ?
	`)
	var due []models.DueWord
	if err := r.db.SelectContext(ctx, &due, query, userID, nowISO, limit); err != nil {
		return nil, fmt.Errorf("failed to get due words: %w", err)
	}
	return due, nil
}

// CountDue returns how many words are currently due for a user.
func (r *ReviewRepository) CountDue(ctx context.Context, userID int64) (int, error) {
	nowISO := time.Now().UTC().Format(time.RFC3339)
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM user_words
		WHERE user_id = ? AND COALESCE(next_due, '') <= ?
	`)
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, nowISO); err != nil {
		return 0, fmt.Errorf("failed to count due words: %w", err)
	}
	return count, nil
}

// CurrentBox returns the stored box for a (user, word) pair, defaulting to
// box 1 when no row exists.
func (r *ReviewRepository) CurrentBox(ctx context.Context, userID, wordID int64) (int, error) {
	query := r.db.Rebind("SELECT box FROM user_words WHERE user_id = ? AND word_id = ?")
	var box int
	err := r.db.GetContext(ctx, &box, query, userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current box: %w", err)
	}
	return box, nil
}

// RecordOutcome applies one graded review in a single atomic update: new
// box and due time, last_reviewed stamped to now, and exactly one of the
// success/failure counters incremented.
func (r *ReviewRepository) RecordOutcome(ctx context.Context, userID, wordID int64, newBox int, nextDue time.Time, success bool) error {
	succInc, failInc := 0, 1
	if success {
		succInc, failInc = 1, 0
	}
	query := r.db.Rebind(`
		UPDATE user_words SET
			box = ?,
			next_due = ?,
			last_reviewed = ?,
			successes = successes + ?,
			failures = failures + ?
		WHERE user_id = ? AND word_id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		newBox,
		nextDue.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		succInc,
		failInc,
		userID,
		wordID,
	)
	if err != nil {
		return fmt.Errorf("failed to record review outcome: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no review state for user %d word %d", userID, wordID)
	}

	return nil
}

// Get returns the full review state for a (user, word) pair.
func (r *ReviewRepository) Get(ctx context.Context, userID, wordID int64) (*models.ReviewState, error) {
	query := r.db.Rebind(`
		SELECT user_id, word_id, box, next_due, successes, failures, last_reviewed
		FROM user_words WHERE user_id = ? AND word_id = ?
	`)
	var state models.ReviewState
	if err := r.db.GetContext(ctx, &state, query, userID, wordID); err != nil {
		return nil, fmt.Errorf("failed to get review state: %w", err)
	}
	return &state, nil
}
