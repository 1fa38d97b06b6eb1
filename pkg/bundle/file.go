package bundle

import (
	"bytes"
	"fmt"
)

// File is one file stored in a bundle. Path is relative and uses forward
// slashes. Content holds the raw, unescaped bytes.
type File struct {
	Path    string
	Content []byte
}

// NewFile returns a File that owns a copy of content.
func NewFile(path string, content []byte) File {
	return File{Path: path, Content: bytes.Clone(content)}
}

// Validate checks that the path can be written into the wire format.
// Paths are stored without escaping, so a path containing a marker byte
// would corrupt the stream.
func (f File) Validate() error {
	if f.Path == "" {
		return ErrEmptyPath
	}
	for i := 0; i < len(f.Path); i++ {
		if IsSentinel(f.Path[i]) {
			return fmt.Errorf("%w: %q byte 0x%02X at offset %d", ErrPathSentinel, f.Path, f.Path[i], i)
		}
	}
	return nil
}

// Size returns the length of the unescaped content.
func (f File) Size() int {
	return len(f.Content)
}
