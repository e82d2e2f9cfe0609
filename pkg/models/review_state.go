package models

import "database/sql"

// ReviewState tracks one user's Leitner progress for one word.
// Primary key is (user_id, word_id). Timestamps are stored as RFC 3339
// text so sqlite and postgres behave identically.
type ReviewState struct {
	UserID       int64          `json:"user_id" db:"user_id"`
	WordID       int64          `json:"word_id" db:"word_id"`
	Box          int            `json:"box" db:"box"` // Leitner box, 1-5
	NextDue      sql.NullString `json:"next_due" db:"next_due"`
	Successes    int            `json:"successes" db:"successes"`
	Failures     int            `json:"failures" db:"failures"`
	LastReviewed sql.NullString `json:"last_reviewed" db:"last_reviewed"`
}

// DueWord is a ReviewState joined with its Word, as returned by the
// due-items query.
type DueWord struct {
	WordID   int64          `db:"word_id"`
	Box      int            `db:"box"`
	NextDue  sql.NullString `db:"next_due"`
	Level    string         `db:"level"`
	En       string         `db:"en"`
	Fa       string         `db:"fa"`
	Pos      string         `db:"pos"`
	Synonyms string         `db:"synonyms"`
	Examples string         `db:"examples"`
}

// Word reassembles the vocabulary entry carried by a due row.
func (d *DueWord) Word() Word {
	return Word{
		ID:       d.WordID,
		Level:    d.Level,
		En:       d.En,
		Fa:       d.Fa,
		Pos:      d.Pos,
		Synonyms: d.Synonyms,
		Examples: d.Examples,
	}
}
