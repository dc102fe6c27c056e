package manager

import (
	"log/slog"
	"sync"
	"time"
)

// SessionRecord describes one finished play-through.
type SessionRecord struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Reason    string    `json:"reason"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Duration is the wall time the session lasted.
func (r SessionRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Store persists the high score and the session history.
type Store interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
	RecordSession(rec SessionRecord) error
	// RecentSessions returns up to n records, newest first.
	RecentSessions(n int) ([]SessionRecord, error)
	Close() error
}

// StateManager owns the high score on behalf of the game. Store failures are
// logged and otherwise ignored: a broken disk never ends a game.
type StateManager struct {
	store     Store
	highScore int
	logger    *slog.Logger
}

func NewStateManager(store Store, logger *slog.Logger) *StateManager {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	sm := &StateManager{
		store:  store,
		logger: logger,
	}

	high, err := store.LoadHighScore()
	if err != nil {
		logger.Warn("could not load high score, starting from 0", "err", err)
		high = 0
	}
	if high < 0 {
		high = 0
	}
	sm.highScore = high

	return sm
}

func (sm *StateManager) GetHighScore() int {
	return sm.highScore
}

// EndSession records a finished session and raises the high score if it was
// beaten. It reports whether a new record was set.
func (sm *StateManager) EndSession(rec SessionRecord) bool {
	newRecord := rec.Score > sm.highScore
	if newRecord {
		sm.highScore = rec.Score
		if err := sm.store.SaveHighScore(rec.Score); err != nil {
			sm.logger.Warn("could not save high score", "score", rec.Score, "err", err)
		}
		sm.logger.Info("new record", "score", rec.Score)
	}

	if err := sm.store.RecordSession(rec); err != nil {
		sm.logger.Warn("could not record session", "id", rec.ID, "err", err)
	}
	return newRecord
}

// History returns up to n recent sessions, newest first. Errors yield nil.
func (sm *StateManager) History(n int) []SessionRecord {
	recs, err := sm.store.RecentSessions(n)
	if err != nil {
		sm.logger.Warn("could not read session history", "err", err)
		return nil
	}
	return recs
}

// MemoryStore keeps everything in process. It is the fallback when no
// persistent store can be opened.
type MemoryStore struct {
	mutex     sync.RWMutex
	highScore int
	sessions  []SessionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make([]SessionRecord, 0)}
}

func (m *MemoryStore) LoadHighScore() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.highScore, nil
}

func (m *MemoryStore) SaveHighScore(score int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.highScore = score
	return nil
}

func (m *MemoryStore) RecordSession(rec SessionRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions = append(m.sessions, rec)
	return nil
}

func (m *MemoryStore) RecentSessions(n int) ([]SessionRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return NewestFirst(m.sessions, n), nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// NewestFirst returns the last n entries of recs in reverse order. n <= 0
// means all of them.
func NewestFirst(recs []SessionRecord, n int) []SessionRecord {
	if n <= 0 || n > len(recs) {
		n = len(recs)
	}
	out := make([]SessionRecord, 0, n)
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, recs[i])
	}
	return out
}
