// Package cache stores encoded bundles in the per-user data directory so
// templates can be reused without a registry.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackjohn7/bowl/internal/config"
	"github.com/jackjohn7/bowl/internal/sqlite"
	"github.com/jackjohn7/bowl/pkg/bundle"
)

// Extension is appended to every cached bundle file name.
const Extension = ".bowl"

// DirName is the subdirectory of the data directory holding bundles.
const DirName = "templates"

// ErrNotFound is returned when no bundle is cached under a name.
var ErrNotFound = errors.New("template not found in local cache")

// Catalog records saved templates. *sqlite.Backend implements it.
type Catalog interface {
	Put(e sqlite.Entry) (sqlite.Entry, error)
	Delete(name string) error
}

// Store keeps bundles as <dir>/<name>.bowl.
type Store struct {
	dir     string
	catalog Catalog
}

// New returns a Store rooted at dir. catalog may be nil.
func New(dir string, catalog Catalog) *Store {
	return &Store{dir: dir, catalog: catalog}
}

// Open returns a Store for the templates directory inside dataDir.
func Open(dataDir string, catalog Catalog) *Store {
	return New(filepath.Join(dataDir, DirName), catalog)
}

// Dir returns the directory holding cached bundles.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a bundle named name is stored in.
func (s *Store) Path(name string) (string, error) {
	if err := config.ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+Extension), nil
}

// Save writes data under name, replacing any previous bundle atomically,
// and returns the file path.
func (s *Store) Save(name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Put encodes b, saves it under name and records it in the catalog. When
// the catalog rejects the entry the saved file is removed again.
func (s *Store) Put(name, templateVersion string, b *bundle.Bundle) (string, error) {
	data := b.Encode()
	path, err := s.Save(name, data)
	if err != nil {
		return "", err
	}
	if s.catalog != nil {
		_, err := s.catalog.Put(sqlite.Entry{
			Name:            name,
			TemplateVersion: templateVersion,
			FormatVersion:   b.Version,
			FileCount:       len(b.Files),
			Size:            int64(len(data)),
			Path:            path,
			SavedAt:         time.Now(),
		})
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return "", fmt.Errorf("record %s in catalog: %w (remove %s: %v)", name, err, path, rmErr)
			}
			return "", fmt.Errorf("record %s in catalog: %w", name, err)
		}
	}
	return path, nil
}

// Load returns the bytes stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Get loads and decodes the bundle stored under name.
func (s *Store) Get(name string) (*bundle.Bundle, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	b, err := bundle.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return b, nil
}

// Remove deletes the bundle stored under name and its catalog entry.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}
	if s.catalog != nil {
		if err := s.catalog.Delete(name); err != nil && !errors.Is(err, sqlite.ErrNotFound) {
			return fmt.Errorf("remove %s from catalog: %w", name, err)
		}
	}
	return nil
}

// List returns the names of all cached bundles in lexical order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}

// writeAtomic writes data to a temp file in the same directory and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bowl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
