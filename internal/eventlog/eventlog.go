package eventlog

import (
	"context"
	"database/sql"
	"time"
)

// Event types appended by the attempt flow.
const (
	TypeAttemptStarted   = "AttemptStarted"
	TypeAttemptSubmitted = "AttemptSubmitted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: attemptID
	DataJSON  string
	CreatedAt int64
}

// Repo is an append-only log of attempt lifecycle events, useful for
// history views and offline sync.
type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, typ, key, dataJSON string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, dataJSON, time.Now().Unix())
	return err
}

// List returns events after offset, oldest first, up to limit.
func (r *Repo) List(ctx context.Context, afterOffset int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, typ, key, data, created_at FROM event_log
		 WHERE offset_id > $1 ORDER BY offset_id ASC LIMIT $2`, afterOffset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
