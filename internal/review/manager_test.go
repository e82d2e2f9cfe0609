package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/example/englishboss/pkg/models"
)

// fakeStore is an in-memory Store for manager tests.
type fakeStore struct {
	words  map[int64]models.Word
	states map[int64]*models.ReviewState // keyed by word id, single test user
	now    time.Time

	failRecord bool
	recorded   int
}

func newFakeStore(now time.Time) *fakeStore {
	return &fakeStore{
		words:  make(map[int64]models.Word),
		states: make(map[int64]*models.ReviewState),
		now:    now,
	}
}

func (f *fakeStore) addWord(w models.Word, box int, due time.Time) {
	f.words[w.ID] = w
	f.states[w.ID] = &models.ReviewState{
		WordID:  w.ID,
		Box:     box,
		NextDue: nullString(due.Format(time.RFC3339)),
	}
}

func (f *fakeStore) Ensure(_ context.Context, _, wordID int64, due time.Time) error {
	if _, ok := f.states[wordID]; !ok {
		f.states[wordID] = &models.ReviewState{
			WordID:  wordID,
			Box:     1,
			NextDue: nullString(due.Format(time.RFC3339)),
		}
	}
	return nil
}

func (f *fakeStore) DueItems(_ context.Context, _ int64, limit int) ([]models.DueWord, error) {
	nowISO := f.now.Format(time.RFC3339)
	var due []models.DueWord
	for id, st := range f.states {
		if st.NextDue.Valid && st.NextDue.String > nowISO {
			continue
		}
		w := f.words[id]
		due = append(due, models.DueWord{
			WordID:   id,
			Box:      st.Box,
			NextDue:  st.NextDue,
			En:       w.En,
			Fa:       w.Fa,
			Synonyms: w.Synonyms,
		})
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		av, bv := "", ""
		if a.NextDue.Valid {
			av = a.NextDue.String
		}
		if b.NextDue.Valid {
			bv = b.NextDue.String
		}
		if av != bv {
			return av < bv
		}
		return a.WordID < b.WordID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeStore) CurrentBox(_ context.Context, _, wordID int64) (int, error) {
	if st, ok := f.states[wordID]; ok {
		return st.Box, nil
	}
	return 1, nil
}

func (f *fakeStore) RecordOutcome(_ context.Context, _, wordID int64, newBox int, nextDue time.Time, success bool) error {
	if f.failRecord {
		return errors.New("store unavailable")
	}
	st, ok := f.states[wordID]
	if !ok {
		return fmt.Errorf("no review state for word %d", wordID)
	}
	st.Box = newBox
	st.NextDue = nullString(nextDue.Format(time.RFC3339))
	if success {
		st.Successes++
	} else {
		st.Failures++
	}
	f.recorded++
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestPresentNextDue_NothingDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	m := NewManager(store, NewInMemorySessionStore())
	m.now = func() time.Time { return now }

	prompt, err := m.PresentNextDue(context.Background(), 7)
	if err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}
	if prompt != nil {
		t.Errorf("expected nil prompt with empty deck, got %+v", prompt)
	}
	if m.HasPending(7) {
		t.Error("no quiz should be pending when nothing is due")
	}
}

func TestPresentNextDue_BuildsQuizFromTopItem(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 1, En: "apple", Fa: "سیب", Synonyms: ""}, 1, now)
	sessions := NewInMemorySessionStore()
	m := NewManager(store, sessions)
	m.now = func() time.Time { return now }

	prompt, err := m.PresentNextDue(context.Background(), 7)
	if err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}
	if prompt == nil || prompt.WordID != 1 {
		t.Fatalf("prompt = %+v, want word 1", prompt)
	}

	quiz, ok := sessions.Get(7)
	if !ok {
		t.Fatal("expected a pending quiz")
	}
	if quiz.Direction != DirectionFaToEn {
		t.Errorf("direction = %q, want %q", quiz.Direction, DirectionFaToEn)
	}
	if len(quiz.Accepted) != 1 || quiz.Accepted[0] != "apple" {
		t.Errorf("accepted forms = %v, want [apple]", quiz.Accepted)
	}
}

func TestSubmitAnswer_CorrectPromotesAndAdvances(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 1, En: "apple", Fa: "سیب"}, 1, now)
	m := NewManager(store, NewInMemorySessionStore())
	m.now = func() time.Time { return now }

	if _, err := m.PresentNextDue(context.Background(), 7); err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}

	fb, err := m.SubmitAnswer(context.Background(), 7, "Apple")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if fb == nil || !fb.Success || fb.Score != 100 {
		t.Fatalf("feedback = %+v, want success with score 100", fb)
	}
	if fb.NewBox != 2 {
		t.Errorf("new box = %d, want 2", fb.NewBox)
	}

	st := store.states[1]
	if st.Box != 2 {
		t.Errorf("stored box = %d, want 2", st.Box)
	}
	wantDue := now.AddDate(0, 0, 1).Format(time.RFC3339)
	if !st.NextDue.Valid || st.NextDue.String != wantDue {
		t.Errorf("stored next_due = %v, want %s", st.NextDue, wantDue)
	}
	if st.Successes != 1 || st.Failures != 0 {
		t.Errorf("counters = %d/%d, want 1/0", st.Successes, st.Failures)
	}
	if m.HasPending(7) {
		t.Error("pending quiz should be cleared after grading")
	}

	// Deck had one word, now scheduled tomorrow: nothing further due.
	prompt, err := m.PresentNextDue(context.Background(), 7)
	if err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}
	if prompt != nil {
		t.Errorf("expected nothing due after promotion, got %+v", prompt)
	}
}

func TestSubmitAnswer_WrongResetsBoxFour(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 4, En: "mountain", Fa: "کوه"}, 4, now.AddDate(0, 0, -1))
	m := NewManager(store, NewInMemorySessionStore())
	m.now = func() time.Time { return now }

	if _, err := m.PresentNextDue(context.Background(), 7); err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}

	fb, err := m.SubmitAnswer(context.Background(), 7, "banana")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if fb.Success {
		t.Fatalf("expected failure, got %+v", fb)
	}
	if fb.NewBox != 1 {
		t.Errorf("new box = %d, want full reset to 1", fb.NewBox)
	}
	if fb.Answer != "mountain" {
		t.Errorf("answer display = %q, want %q", fb.Answer, "mountain")
	}

	st := store.states[4]
	if st.Box != 1 {
		t.Errorf("stored box = %d, want 1", st.Box)
	}
	// Box 1 interval is zero days: due again immediately.
	if !st.NextDue.Valid || st.NextDue.String != now.Format(time.RFC3339) {
		t.Errorf("stored next_due = %v, want %s", st.NextDue, now.Format(time.RFC3339))
	}
	if st.Failures != 1 || st.Successes != 0 {
		t.Errorf("counters = %d/%d, want 0 successes and 1 failure", st.Successes, st.Failures)
	}
}

func TestSubmitAnswer_NoPendingQuizIsNoOp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 1, En: "apple", Fa: "سیب"}, 1, now)
	m := NewManager(store, NewInMemorySessionStore())
	m.now = func() time.Time { return now }

	fb, err := m.SubmitAnswer(context.Background(), 7, "apple")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if fb != nil {
		t.Errorf("expected nil feedback with no pending quiz, got %+v", fb)
	}
	if store.recorded != 0 {
		t.Errorf("no outcome should be recorded, got %d", store.recorded)
	}
}

func TestSubmitAnswer_StoreFailureKeepsQuizPending(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 1, En: "apple", Fa: "سیب"}, 1, now)
	m := NewManager(store, NewInMemorySessionStore())
	m.now = func() time.Time { return now }

	if _, err := m.PresentNextDue(context.Background(), 7); err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}

	store.failRecord = true
	if _, err := m.SubmitAnswer(context.Background(), 7, "apple"); err == nil {
		t.Fatal("expected store error to propagate")
	}
	if !m.HasPending(7) {
		t.Error("quiz must stay pending after a persistence failure")
	}

	// The user retries once the store recovers.
	store.failRecord = false
	fb, err := m.SubmitAnswer(context.Background(), 7, "apple")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if fb == nil || !fb.Success {
		t.Errorf("retry feedback = %+v, want success", fb)
	}
}

func TestPresentNextDue_ReplacesPriorQuiz(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	store.addWord(models.Word{ID: 1, En: "apple", Fa: "سیب"}, 1, now.AddDate(0, 0, -2))
	store.addWord(models.Word{ID: 2, En: "water", Fa: "آب"}, 1, now.AddDate(0, 0, -1))
	sessions := NewInMemorySessionStore()
	m := NewManager(store, sessions)
	m.now = func() time.Time { return now }

	if _, err := m.PresentNextDue(context.Background(), 7); err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}
	first, _ := sessions.Get(7)

	// Re-prompt without answering: the same most-overdue word replaces
	// itself; only one quiz is ever pending.
	if _, err := m.PresentNextDue(context.Background(), 7); err != nil {
		t.Fatalf("PresentNextDue failed: %v", err)
	}
	second, ok := sessions.Get(7)
	if !ok {
		t.Fatal("expected a pending quiz")
	}
	if first.WordID != second.WordID {
		t.Errorf("re-prompt changed word from %d to %d unexpectedly", first.WordID, second.WordID)
	}
}
