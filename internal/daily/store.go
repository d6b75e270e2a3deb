package daily

import (
	"context"
	"database/sql"
)

// DefaultLimit is the leaderboard size when the caller passes none.
const DefaultLimit = 20

// Result is one finished run.
type Result struct {
	SessionID string `json:"gameId"`
	Player    string `json:"player"`
	Mode      string `json:"mode"`
	Date      string `json:"date"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
	BestCombo int    `json:"bestCombo"`
	Perfects  int    `json:"perfects"`
}

// Store is the sqlite-backed score ledger.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether player has a recorded run for mode on date.
func (s *Store) AlreadyPlayed(ctx context.Context, player, mode, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE player=? AND mode=? AND date=?`,
		player, mode, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a run. A session is recorded at most once; later inserts
// for the same session are ignored. It reports whether a row was written.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (session_id, player, mode, date, score, level, best_combo, perfects)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Player, r.Mode, r.Date, r.Score, r.Level, r.BestCombo, r.Perfects,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Leaderboard returns the best runs of a mode, highest score first, earliest run
// first among equal scores. An empty date spans every day.
func (s *Store) Leaderboard(ctx context.Context, mode, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT session_id, player, mode, date, score, level, best_combo, perfects
        FROM results
        WHERE mode=? AND (?='' OR date=?)
        ORDER BY score DESC, created_at ASC, session_id ASC
        LIMIT ?`, mode, date, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.SessionID, &r.Player, &r.Mode, &r.Date, &r.Score, &r.Level, &r.BestCombo, &r.Perfects); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
