package bundle

import (
	"bufio"
	"io"
)

// Encode serializes the bundle. It never fails; inputs that Validate
// rejects still encode but may not decode to the same bundle.
func (b *Bundle) Encode() []byte {
	n := 2 + len(b.Version)
	for _, f := range b.Files {
		n += 2 + len(f.Path) + len(f.Content)
	}
	out := make([]byte, 0, n)
	out = append(out, BundleStart, FieldVersion)
	out = append(out, b.Version...)
	for _, f := range b.Files {
		out = append(out, FieldFile)
		out = append(out, f.Path...)
		out = append(out, FieldContent)
		out = append(out, EscapeContent(f.Content)...)
	}
	return out
}

// WriteTo streams the encoded bundle to w. It writes the same bytes as
// Encode without building the whole stream in memory.
func (b *Bundle) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	bw.WriteByte(BundleStart)
	bw.WriteByte(FieldVersion)
	bw.WriteString(b.Version)
	for _, f := range b.Files {
		bw.WriteByte(FieldFile)
		bw.WriteString(f.Path)
		bw.WriteByte(FieldContent)
		for _, c := range f.Content {
			if IsSentinel(c) {
				bw.WriteByte(Escape)
			}
			bw.WriteByte(c)
		}
	}
	// bufio.Writer keeps the first error and returns it from Flush.
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
