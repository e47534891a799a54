package db

import (
	"context"
	"database/sql"
	"time"
)

// EnsureUser upserts one login row. Used at boot to seed the admin account
// and by fixtures; the hash must already be bcrypt.
func EnsureUser(ctx context.Context, db *sql.DB, id, username, passwordHash, role string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (username) DO UPDATE SET password_hash=EXCLUDED.password_hash, role=EXCLUDED.role`,
		id, username, passwordHash, role, time.Now().Unix())
	return err
}
