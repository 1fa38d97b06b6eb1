// Package bundle encodes project templates into the bowl wire format and
// decodes them back.
//
// A bundle is a single byte stream:
//
//	BundleStart FieldVersion <version>
//	  (FieldFile <path> FieldContent <escaped content>)*
//
// Structural markers are single bytes outside 7-bit ASCII. File content is
// passed through EscapeContent so that content bytes equal to a marker are
// prefixed with the Escape byte. Paths and the version are written raw and
// must not contain marker bytes; Validate reports such inputs.
//
// Encoding and decoding are pure in-memory transforms. Values in this
// package hold no shared state and may be used from multiple goroutines as
// long as each Bundle or Decoder is owned by one goroutine at a time.
package bundle
