// Package store persists the scheduled posts for a workspace in a local
// SQLite database and exposes the narrow update surface the reorder engine
// commits through.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"postgrid/internal/model"
	"postgrid/internal/reorder"
)

const sqliteFileName = "index.sqlite"

var ErrNotFound = errors.New("post not found")

// DB is the in-memory snapshot of a workspace: the authoritative post list
// the grid's ordered sequence is rebuilt from.
type DB struct {
	Version int
	Posts   []model.Post
}

type Store struct {
	Dir string
}

// ConfigDir returns the root postgrid config directory (~/.postgrid).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".postgrid"), nil
}

// WorkspaceDir resolves the storage directory for a named workspace.
func WorkspaceDir(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	if strings.ContainsAny(name, `/\`) {
		return "", errors.New("workspace name must not contain path separators")
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

// SQLitePath exposes the database file location so the TUI can poll its
// mod time for authoritative refreshes.
func (s Store) SQLitePath() string {
	return s.sqlitePath()
}

// Load reads the workspace posts, ordered by scheduled time.
func (s Store) Load(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	db, err := s.loadSQLite(ctx)
	if err != nil {
		return nil, err
	}
	reorder.SortPosts(db.Posts)
	return db, nil
}

// Save writes the full workspace state.
func (s Store) Save(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.saveSQLite(ctx, db)
}

func (db *DB) FindPost(id string) (*model.Post, bool) {
	for i := range db.Posts {
		if db.Posts[i].ID == id {
			return &db.Posts[i], true
		}
	}
	return nil, false
}

// NewPostID mints a fresh post identifier.
func NewPostID() string {
	return "post-" + uuid.NewString()
}
