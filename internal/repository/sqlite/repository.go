package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sdotee/desktop/internal/repository"
)

// DefaultDocument is the row the history ledger is stored under
const DefaultDocument = "history"

// Repository implements repository.DocumentRepository as one row of a SQLite
// table, for users who keep application state in a database file
type Repository struct {
	db   *sql.DB
	path string
	name string
}

// New opens (or creates) the database at databasePath and migrates it
func New(databasePath string) (*Repository, error) {
	return NewNamed(databasePath, DefaultDocument)
}

// NewNamed is New with an explicit document name
func NewNamed(databasePath, name string) (*Repository, error) {
	if databasePath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("document name cannot be empty")
	}

	if databasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(databasePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	repo := &Repository{
		db:   db,
		path: databasePath,
		name: name,
	}

	if err := repo.runMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Read returns the stored document
func (r *Repository) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE name = ?", r.name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return body, nil
}

// Write replaces the stored document
func (r *Repository) Write(ctx context.Context, doc []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		r.name, doc)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Location returns the database path and document name
func (r *Repository) Location() string {
	return r.path + "#" + r.name
}

// Close closes the repository connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ensure Repository implements the interface
var _ repository.DocumentRepository = (*Repository)(nil)
