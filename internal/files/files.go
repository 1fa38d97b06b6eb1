// Package files walks a template directory to produce bundle records and
// writes decoded records back to disk.
package files

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jackjohn7/bowl/pkg/bundle"
)

// Errors returned by Extract and Require.
var (
	ErrUnsafePath = errors.New("path escapes the destination directory")
	ErrFileExists = errors.New("file already exists")
	ErrMissing    = errors.New("required file not found")
)

// Entries returns every regular file beneath root, recursing into
// directories. Paths are relative to root and use forward slashes. Within a
// directory entries are listed in lexical order. Symbolic links are
// followed.
func Entries(root string) ([]string, error) {
	var out []string
	if err := walk(root, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(root, rel string, out *[]string) error {
	dir := filepath.Join(root, filepath.FromSlash(rel))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}
	for _, e := range entries {
		child := path.Join(rel, e.Name())
		full := filepath.Join(root, filepath.FromSlash(child))
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Errorf("read metadata for %s: %w", full, err)
		}
		if info.IsDir() {
			if err := walk(root, child, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, child)
	}
	return nil
}

// Filter removes the entries matched by ignore. An ignore pattern matches an
// entry that equals it, an entry beneath it when it names a directory, or an
// entry it matches as a path.Match glob. Patterns are relative to the
// template root; a leading "./" is ignored.
func Filter(entries, ignore []string) []string {
	patterns := make([]string, 0, len(ignore))
	for _, p := range ignore {
		if p = normalize(p); p != "" && p != "." {
			patterns = append(patterns, p)
		}
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !ignored(e, patterns) {
			out = append(out, e)
		}
	}
	return out
}

func ignored(entry string, patterns []string) bool {
	for _, p := range patterns {
		if entry == p || strings.HasPrefix(entry, p+"/") {
			return true
		}
		if ok, _ := path.Match(p, entry); ok {
			return true
		}
		// A glob such as "*.log" also matches the base name at any depth.
		if !strings.Contains(p, "/") {
			if ok, _ := path.Match(p, path.Base(entry)); ok {
				return true
			}
		}
	}
	return false
}

func normalize(p string) string {
	return path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
}

// Collect reads every file beneath root that is not ignored and returns the
// bundle records in traversal order.
func Collect(root string, ignore []string) ([]bundle.File, error) {
	entries, err := Entries(root)
	if err != nil {
		return nil, err
	}
	entries = Filter(entries, ignore)

	out := make([]bundle.File, 0, len(entries))
	for _, rel := range entries {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		out = append(out, bundle.File{Path: rel, Content: content})
	}
	return out, nil
}

// Require reports ErrMissing when rel does not name a regular file beneath
// root.
func Require(root, rel string) error {
	p := filepath.Join(root, filepath.FromSlash(normalize(rel)))
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissing, rel)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissing, rel)
	}
	return nil
}

// Extract writes the files of b beneath dir in bundle order, creating parent
// directories as needed. It refuses absolute paths and paths that leave dir.
// Existing files are replaced only when overwrite is set.
func Extract(dir string, b *bundle.Bundle, overwrite bool) error {
	for _, f := range b.Files {
		target, err := destination(dir, f.Path)
		if err != nil {
			return err
		}
		if !overwrite {
			if _, err := os.Lstat(target); err == nil {
				return fmt.Errorf("%w: %s", ErrFileExists, target)
			}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// destination maps a bundle path to a location under dir.
func destination(dir, p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}
