// Package storage persists the high score and session history.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"classic-snake/game/manager"
)

const (
	StatsFileName = "gamestats.json"
	MaxHistory    = 200 // Sessions kept in the JSON file
)

// GameStats is the on-disk layout of the JSON store.
type GameStats struct {
	HighScore    int                     `json:"highScore"`
	ScoreHistory []manager.SessionRecord `json:"scoreHistory"`
}

// JSONStore keeps GameStats in a single file, rewritten on every change.
type JSONStore struct {
	path  string
	stats GameStats
	mutex sync.Mutex
}

// NewJSONStore opens (or prepares) dir/gamestats.json. A missing file is an
// empty history; an unreadable one is an error.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &JSONStore{
		path:  filepath.Join(dir, StatsFileName),
		stats: GameStats{ScoreHistory: make([]manager.SessionRecord, 0)},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) LoadHighScore() (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats.HighScore, nil
}

func (s *JSONStore) SaveHighScore(score int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.HighScore = score
	return s.save()
}

func (s *JSONStore) RecordSession(rec manager.SessionRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.ScoreHistory = append(s.stats.ScoreHistory, rec)
	if len(s.stats.ScoreHistory) > MaxHistory {
		s.stats.ScoreHistory = s.stats.ScoreHistory[len(s.stats.ScoreHistory)-MaxHistory:]
	}
	return s.save()
}

func (s *JSONStore) RecentSessions(n int) ([]manager.SessionRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return manager.NewestFirst(s.stats.ScoreHistory, n), nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var stats GameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("failed to parse stats file %s: %w", s.path, err)
	}
	if stats.ScoreHistory == nil {
		stats.ScoreHistory = make([]manager.SessionRecord, 0)
	}
	s.stats = stats
	return nil
}

// save writes through a temp file so a crash never leaves half a file.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace stats file: %w", err)
	}
	return nil
}
