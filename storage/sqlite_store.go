package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"classic-snake/game/manager"

	_ "modernc.org/sqlite"
)

// DBFileName is the name of the SQLite database file
const DBFileName = "snake.db"

// SQLiteStore keeps the high score and every session in SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens dir/snake.db, creating the schema if needed.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS high_score (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		score INTEGER NOT NULL,
		length INTEGER NOT NULL,
		reason TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_end_time ON sessions(end_time);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) LoadHighScore() (int, error) {
	var score int
	err := s.db.QueryRow("SELECT score FROM high_score WHERE id = 1").Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load high score: %w", err)
	}
	return score, nil
}

func (s *SQLiteStore) SaveHighScore(score int) error {
	_, err := s.db.Exec(
		"INSERT INTO high_score (id, score) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET score = excluded.score",
		score,
	)
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordSession(rec manager.SessionRecord) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO sessions (id, score, length, reason, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Score, rec.Length, rec.Reason, rec.StartTime.UnixNano(), rec.EndTime.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentSessions(n int) ([]manager.SessionRecord, error) {
	query := "SELECT id, score, length, reason, start_time, end_time FROM sessions ORDER BY end_time DESC, rowid DESC"
	args := []any{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var recs []manager.SessionRecord
	for rows.Next() {
		var rec manager.SessionRecord
		var start, end int64
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.Length, &rec.Reason, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		rec.StartTime = time.Unix(0, start)
		rec.EndTime = time.Unix(0, end)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
