package bundle

// Marker bytes of the wire format. Their values are part of the format
// contract and must not change without changing CurrentVersion.
const (
	Escape       byte = 0xFF
	BundleStart  byte = 0x9A
	FieldFile    byte = 0x9C
	FieldContent byte = 0x9E
	FieldVersion byte = 0xA0
)

// CurrentVersion is the format version written by New.
const CurrentVersion = "0.0.1"

// versionSeparator splits the three numeric segments of a version.
const versionSeparator = '.'

// versionSegments is the number of dot-separated segments the decoder
// expects in the header version.
const versionSegments = 3

// Sentinels returns the five reserved marker bytes, Escape first.
func Sentinels() []byte {
	return []byte{Escape, BundleStart, FieldFile, FieldContent, FieldVersion}
}

// IsSentinel reports whether c is one of the reserved marker bytes.
func IsSentinel(c byte) bool {
	switch c {
	case Escape, BundleStart, FieldFile, FieldContent, FieldVersion:
		return true
	default:
		return false
	}
}
