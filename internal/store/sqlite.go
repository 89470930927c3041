package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"postgrid/internal/model"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when the CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			scheduled_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_sched ON posts(scheduled_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s Store) loadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT json FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &DB{Version: 1}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p model.Post
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode post row: %w", err)
		}
		out.Posts = append(out.Posts, p)
	}
	return out, rows.Err()
}

// saveSQLite writes the full state in one transaction. Replace-all keeps the
// write path simple; the posts table for a single workspace stays small.
func (s Store) saveSQLite(ctx context.Context, st *DB) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	for _, p := range st.Posts {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO posts(id, status, scheduled_at_unixms, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, string(p.Status), p.ScheduledAt.UTC().UnixMilli(), string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateScheduledTime persists a new scheduled time for one post. This is
// the asynchronous persistence call behind a reorder commit; callers apply
// the change optimistically first and roll back when this returns an error.
func (s Store) UpdateScheduledTime(ctx context.Context, id string, newTime time.Time) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM posts WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	var p model.Post
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return fmt.Errorf("decode post row: %w", err)
	}
	p.ScheduledAt = newTime
	p.UpdatedAt = time.Now().UTC()
	out, err := json.Marshal(p)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE posts SET scheduled_at_unixms = ?, json = ?, updated_at_unixms = ? WHERE id = ?`,
		newTime.UTC().UnixMilli(), string(out), time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
