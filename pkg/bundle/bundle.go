package bundle

import (
	"fmt"
	"strings"
)

// Bundle is a packaged template: a format version and its files in
// traversal order. The order is kept by Encode and Decode.
type Bundle struct {
	Version string
	Files   []File
}

// New returns a Bundle at CurrentVersion that takes ownership of files.
func New(files []File) *Bundle {
	return &Bundle{
		Version: CurrentVersion,
		Files:   files,
	}
}

// File returns the file stored under path.
func (b *Bundle) File(path string) (File, bool) {
	for _, f := range b.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// Paths returns the file paths in bundle order.
func (b *Bundle) Paths() []string {
	paths := make([]string, len(b.Files))
	for i, f := range b.Files {
		paths[i] = f.Path
	}
	return paths
}

// Size returns the total unescaped content length of all files.
func (b *Bundle) Size() int64 {
	var n int64
	for _, f := range b.Files {
		n += int64(len(f.Content))
	}
	return n
}

// Validate reports whether the bundle can be encoded and decoded back
// unchanged: the version must have three non-empty segments free of marker
// bytes, and every path must be valid and unique.
func (b *Bundle) Validate() error {
	if err := validateVersion(b.Version); err != nil {
		return err
	}
	seen := make(map[string]bool, len(b.Files))
	for _, f := range b.Files {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Path] {
			return fmt.Errorf("%w: %q", ErrDuplicatePath, f.Path)
		}
		seen[f.Path] = true
	}
	return nil
}

func validateVersion(v string) error {
	segments := strings.Split(v, string(versionSeparator))
	if len(segments) != versionSegments {
		return fmt.Errorf("%w: %q must have %d dot-separated segments", ErrInvalidVersion, v, versionSegments)
	}
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidVersion, v)
		}
	}
	for i := 0; i < len(v); i++ {
		if IsSentinel(v[i]) {
			return fmt.Errorf("%w: %q contains a reserved byte", ErrInvalidVersion, v)
		}
	}
	return nil
}
