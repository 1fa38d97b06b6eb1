package bundle

// EscapeContent returns a copy of content in which every marker byte,
// including Escape itself, is preceded by Escape. All other bytes are
// copied unchanged.
func EscapeContent(content []byte) []byte {
	n := len(content)
	for _, c := range content {
		if IsSentinel(c) {
			n++
		}
	}
	out := make([]byte, 0, n)
	for _, c := range content {
		if IsSentinel(c) {
			out = append(out, Escape)
		}
		out = append(out, c)
	}
	return out
}

// UnescapeContent reverses EscapeContent. Each Escape byte is dropped and
// the byte after it is copied literally. A lone Escape at the very end of
// the input has nothing to escape and is copied as is.
//
// UnescapeContent never fails; it accepts input EscapeContent could not
// have produced.
func UnescapeContent(content []byte) []byte {
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == Escape && i+1 < len(content) {
			i++
		}
		out = append(out, content[i])
	}
	return out
}
