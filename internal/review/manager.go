// Package review drives the spaced-repetition quiz loop: it serves due
// words one at a time, grades free-text answers, and records the Leitner
// transition for each review.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/example/englishboss/internal/grader"
	"github.com/example/englishboss/internal/leitner"
	"github.com/example/englishboss/pkg/models"
)

// Store is the persistence contract the manager needs.
type Store interface {
	Ensure(ctx context.Context, userID, wordID int64, due time.Time) error
	DueItems(ctx context.Context, userID int64, limit int) ([]models.DueWord, error)
	CurrentBox(ctx context.Context, userID, wordID int64) (int, error)
	RecordOutcome(ctx context.Context, userID, wordID int64, newBox int, nextDue time.Time, success bool) error
}

// Prompt is a question ready to be shown to the user.
type Prompt struct {
	WordID int64
	Text   string
}

// Feedback is the graded result of one answer.
type Feedback struct {
	Success bool
	Score   int
	NewBox  int
	Answer  string // de-duplicated accepted forms, shown on failure
}

// Manager owns the per-user quiz state machine: Idle when no quiz is
// pending, AwaitingAnswer when one is.
type Manager struct {
	store    Store
	sessions SessionStore
	now      func() time.Time
}

// NewManager creates a manager over the given review store and session
// backing.
func NewManager(store Store, sessions SessionStore) *Manager {
	return &Manager{
		store:    store,
		sessions: sessions,
		now:      time.Now,
	}
}

// PresentNextDue fetches the user's most overdue word and makes it the
// pending quiz, replacing any prior one. A nil Prompt with nil error means
// nothing is due right now.
func (m *Manager) PresentNextDue(ctx context.Context, userID int64) (*Prompt, error) {
	due, err := m.store.DueItems(ctx, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch due items: %w", err)
	}
	if len(due) == 0 {
		m.sessions.Delete(userID)
		return nil, nil
	}

	item := due[0]
	quiz := PendingQuiz{
		WordID:    item.WordID,
		Prompt:    fmt.Sprintf("معنی انگلیسیِ: %s", item.Fa),
		Accepted:  grader.AcceptedForms(item.En, item.Synonyms),
		Direction: DirectionFaToEn,
	}
	m.sessions.Put(userID, quiz)

	return &Prompt{WordID: item.WordID, Text: quiz.Prompt}, nil
}

// SubmitAnswer grades the user's text against the pending quiz and records
// the review. With no quiz pending it is a no-op and returns nil feedback.
// Steps run in a fixed order: grade, read box, compute transition, persist,
// then clear the quiz. If persisting fails the quiz stays pending so the
// user's retry grades the same item again.
func (m *Manager) SubmitAnswer(ctx context.Context, userID int64, text string) (*Feedback, error) {
	quiz, ok := m.sessions.Get(userID)
	if !ok {
		return nil, nil
	}

	score := grader.Score(text, quiz.Accepted)
	success := grader.Passes(score)

	box, err := m.store.CurrentBox(ctx, userID, quiz.WordID)
	if err != nil {
		return nil, fmt.Errorf("read current box: %w", err)
	}

	outcome := leitner.Schedule(box, success, m.now())
	if err := m.store.RecordOutcome(ctx, userID, quiz.WordID, outcome.NewBox, outcome.NextDue, success); err != nil {
		return nil, fmt.Errorf("record outcome: %w", err)
	}

	m.sessions.Delete(userID)

	return &Feedback{
		Success: success,
		Score:   score,
		NewBox:  outcome.NewBox,
		Answer:  grader.DisplayForms(quiz.Accepted),
	}, nil
}

// HasPending reports whether the user is awaiting an answer.
func (m *Manager) HasPending(userID int64) bool {
	_, ok := m.sessions.Get(userID)
	return ok
}
