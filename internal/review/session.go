package review

import "sync"

// Direction says which side of a card is shown and which is expected back.
type Direction string

const (
	// DirectionFaToEn shows the Persian term and expects the English one.
	// This is the only direction the current flow issues.
	DirectionFaToEn Direction = "fa2en"
	// DirectionEnToFa is the reverse; the data model supports it.
	DirectionEnToFa Direction = "en2fa"
)

// PendingQuiz is the one in-flight question a user may have: the word
// presented, the exact prompt text, and the normalized accepted answers.
// It lives only in memory; a restart drops in-flight quizzes and the
// unrecorded items simply come up again as due.
type PendingQuiz struct {
	WordID    int64
	Prompt    string
	Accepted  []string
	Direction Direction
}

// SessionStore holds at most one PendingQuiz per user. Implementations
// must be safe for concurrent use by handlers for different users.
type SessionStore interface {
	Get(userID int64) (PendingQuiz, bool)
	Put(userID int64, quiz PendingQuiz)
	Delete(userID int64)
}

// InMemorySessionStore is the process-local SessionStore backing.
type InMemorySessionStore struct {
	mu      sync.RWMutex
	pending map[int64]PendingQuiz
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{pending: make(map[int64]PendingQuiz)}
}

func (s *InMemorySessionStore) Get(userID int64) (PendingQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.pending[userID]
	return quiz, ok
}

// Put stores the quiz, replacing any prior pending quiz for the user.
func (s *InMemorySessionStore) Put(userID int64, quiz PendingQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = quiz
}

func (s *InMemorySessionStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}
