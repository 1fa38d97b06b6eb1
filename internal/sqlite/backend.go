// Package sqlite keeps the catalog of templates saved in the local cache.
// The catalog records what was saved and when; the bundle bytes themselves
// live in .bowl files next to it.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DatabaseName is the catalog file created in the data directory.
const DatabaseName = "catalog.db"

// Catalog lifecycle and lookup errors.
var (
	ErrDetached        = errors.New("catalog is detached")
	ErrAlreadyAttached = errors.New("catalog is already attached")
	ErrNotFound        = errors.New("template not found in catalog")
	ErrInvalidEntry    = errors.New("invalid catalog entry")
)

// Backend stores catalog entries in a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB
}

// NewBackend creates a new catalog backend.
// The backend is not attached; call Attach to open the database.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) the catalog in dataDir.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(dataDir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseName))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	b.db = db
	b.dataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// generateUUID generates a new UUID v7 for entry IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
