package bundle

import (
	"errors"
	"io"
)

// ErrDecoderClosed is returned when a Decoder is used after Close.
var ErrDecoderClosed = errors.New("bundle: decoder closed")

// state is the position of the decoder within the wire format.
type state int

const (
	stateStart   state = iota // nothing read
	stateHeader               // first header byte read
	stateVersion              // reading the version after BundleStart FieldVersion
	statePath                 // reading a file path after FieldFile
	stateContent              // reading escaped content after FieldContent
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateHeader:
		return "header"
	case stateVersion:
		return "version"
	case statePath:
		return "path"
	case stateContent:
		return "content"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Decoder rebuilds a Bundle from its wire format one byte at a time. It
// never looks back at consumed input, so a stream can be fed in chunks of
// any size through Write. Working memory is bounded by the largest single
// file.
//
// A Decoder also accepts legacy streams without a version header, which
// start with any non-Escape byte followed directly by FieldFile. Bundles
// decoded from such streams have an empty Version.
type Decoder struct {
	state  state
	offset int64
	err    error

	header byte // first byte of the stream
	seps   int  // version separators seen

	// escaped is set while the previous content byte was an unpaired
	// Escape, so the current byte is literal even if it is a marker.
	escaped bool

	version []byte
	path    []byte
	content []byte
	files   []File
}

// NewDecoder returns a Decoder positioned at the start of a stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a complete encoded bundle.
func Decode(data []byte) (*Bundle, error) {
	d := NewDecoder()
	if _, err := d.Write(data); err != nil {
		return nil, err
	}
	return d.Close()
}

// Read parses an encoded bundle from r until EOF.
func Read(r io.Reader) (*Bundle, error) {
	d := NewDecoder()
	if _, err := io.Copy(d, r); err != nil {
		return nil, err
	}
	return d.Close()
}

// Write feeds the next chunk of the stream. It returns the number of bytes
// accepted before the first malformed byte. Once Write fails every later
// call returns the same error.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.state == stateClosed {
		return 0, ErrDecoderClosed
	}
	for i, c := range p {
		if err := d.step(c); err != nil {
			d.err = err
			return i, err
		}
		d.offset++
	}
	return len(p), nil
}

// Close marks the end of the stream and returns the decoded bundle. The
// last file's content ends at end of stream. A stream that ends inside the
// header or a path is malformed.
func (d *Decoder) Close() (*Bundle, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.state == stateClosed {
		return nil, ErrDecoderClosed
	}
	prev := d.state
	d.state = stateClosed

	switch prev {
	case stateContent:
		d.finishFile()
	case stateVersion:
		if !d.versionComplete() {
			d.err = d.malformed(prev, "stream ends inside the version")
			return nil, d.err
		}
	case stateStart:
		d.err = d.malformed(prev, "empty stream")
		return nil, d.err
	case stateHeader:
		d.err = d.malformed(prev, "stream ends inside the header")
		return nil, d.err
	case statePath:
		d.err = d.malformed(prev, "stream ends inside a file path")
		return nil, d.err
	}

	b := &Bundle{
		Version: string(d.version),
		Files:   d.files,
	}
	d.files = nil
	return b, nil
}

// step applies one input byte to the current state.
func (d *Decoder) step(c byte) error {
	switch d.state {
	case stateStart:
		d.header = c
		d.state = stateHeader

	case stateHeader:
		switch {
		case d.header == BundleStart && c == FieldVersion:
			d.state = stateVersion
		case d.header != Escape && c == FieldFile:
			d.state = statePath
		default:
			return d.malformed(d.state, "missing bundle header")
		}

	case stateVersion:
		switch {
		case c == versionSeparator:
			d.version = append(d.version, c)
			d.seps++
		case c == FieldFile:
			if !d.versionComplete() {
				return d.malformed(d.state, "file field before a complete version")
			}
			d.state = statePath
		default:
			d.version = append(d.version, c)
		}

	case statePath:
		if c == FieldContent {
			if len(d.path) == 0 {
				return d.malformed(d.state, "empty file path")
			}
			d.escaped = false
			d.state = stateContent
			return nil
		}
		d.path = append(d.path, c)

	case stateContent:
		switch {
		case d.escaped:
			d.escaped = false
		case c == Escape:
			d.escaped = true
		case c == FieldFile:
			d.finishFile()
			d.state = statePath
			return nil
		}
		d.content = append(d.content, c)

	default:
		return ErrDecoderClosed
	}
	return nil
}

// versionComplete reports whether the version read so far has all of its
// segments and does not end on a separator.
func (d *Decoder) versionComplete() bool {
	n := len(d.version)
	return d.seps == versionSegments-1 && n > 0 && d.version[n-1] != versionSeparator
}

// finishFile appends the file being read and resets the buffers for the
// next one.
func (d *Decoder) finishFile() {
	d.files = append(d.files, File{
		Path:    string(d.path),
		Content: UnescapeContent(d.content),
	})
	d.path = d.path[:0]
	d.content = d.content[:0]
	d.escaped = false
}

func (d *Decoder) malformed(s state, reason string) error {
	return &MalformedError{
		Offset: d.offset,
		State:  s.String(),
		Reason: reason,
	}
}
