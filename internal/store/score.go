package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Score represents one finished game session.
type Score struct {
	ID          string
	Score       int
	SnakeLength int
	Duration    time.Duration
	CreatedAt   time.Time
}

// ScoreRepository provides persistence for finished game sessions.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Create inserts a finished session.
func (r *ScoreRepository) Create(sc *Score) error {
	sc.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO scores (id, score, snake_length, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Score, sc.SnakeLength, sc.Duration.Milliseconds(), sc.CreatedAt,
	)
	return err
}

// Top returns up to limit sessions ordered by score descending,
// newest first among ties.
func (r *ScoreRepository) Top(limit int) ([]*Score, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, score, snake_length, duration_ms, created_at
		 FROM scores ORDER BY score DESC, created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*Score
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}

	return scores, rows.Err()
}

// Best returns the highest score, or ErrNotFound if no session has finished yet.
func (r *ScoreRepository) Best() (*Score, error) {
	row := r.db.QueryRow(
		`SELECT id, score, snake_length, duration_ms, created_at
		 FROM scores ORDER BY score DESC, created_at DESC LIMIT 1`,
	)

	sc, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (*Score, error) {
	var sc Score
	var durationMs int64
	if err := row.Scan(&sc.ID, &sc.Score, &sc.SnakeLength, &durationMs, &sc.CreatedAt); err != nil {
		return nil, err
	}
	sc.Duration = time.Duration(durationMs) * time.Millisecond
	return &sc, nil
}
