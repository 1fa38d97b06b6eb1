package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry describes one template saved in the local cache.
type Entry struct {
	ID              string    // UUID v7, regenerated on every save.
	Name            string    // Template name, unique.
	TemplateVersion string    // Version from bowl.toml.
	FormatVersion   string    // Bundle format version.
	FileCount       int       // Number of files in the bundle.
	Size            int64     // Encoded bundle size in bytes.
	Path            string    // Location of the .bowl file.
	SavedAt         time.Time // Time of the last save.
}

const selectEntry = `SELECT entry_id, name, template_version, format_version, file_count, size, path, saved_at FROM templates`

// Put inserts or replaces the entry with the same name and returns it with
// a fresh ID. A zero SavedAt is set to the current time.
func (b *Backend) Put(e Entry) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return Entry{}, ErrDetached
	}
	if e.Name == "" {
		return Entry{}, fmt.Errorf("%w: name must not be empty", ErrInvalidEntry)
	}

	e.ID = generateUUID()
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now()
	}
	e.SavedAt = e.SavedAt.UTC().Truncate(time.Second)

	_, err := b.db.Exec(`INSERT INTO templates (entry_id, name, template_version, format_version, file_count, size, path, saved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    entry_id = excluded.entry_id,
    template_version = excluded.template_version,
    format_version = excluded.format_version,
    file_count = excluded.file_count,
    size = excluded.size,
    path = excluded.path,
    saved_at = excluded.saved_at`,
		e.ID, e.Name, e.TemplateVersion, e.FormatVersion, e.FileCount, e.Size, e.Path,
		e.SavedAt.Format(time.RFC3339))
	if err != nil {
		return Entry{}, fmt.Errorf("put %s: %w", e.Name, err)
	}
	return e, nil
}

// Get returns the entry for name or ErrNotFound.
func (b *Backend) Get(name string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return Entry{}, ErrDetached
	}

	row := b.db.QueryRow(selectEntry+` WHERE name = ?`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", name, err)
	}
	return e, nil
}

// List returns all entries ordered by name.
func (b *Backend) List() ([]Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}

	rows, err := b.db.Query(selectEntry + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the entry for name. Returns ErrNotFound if absent.
func (b *Backend) Delete(name string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return ErrDetached
	}

	res, err := b.db.Exec(`DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var savedAt string
	if err := s.Scan(&e.ID, &e.Name, &e.TemplateVersion, &e.FormatVersion, &e.FileCount, &e.Size, &e.Path, &savedAt); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	e.SavedAt = t
	return e, nil
}
