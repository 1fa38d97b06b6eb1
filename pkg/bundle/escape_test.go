package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeContent(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"empty", []byte{}, []byte{}},
		{"plain text", []byte("hello"), []byte("hello")},
		{"escape byte", []byte{'a', Escape, 'b'}, []byte{'a', Escape, Escape, 'b'}},
		{"bundle start", []byte{BundleStart}, []byte{Escape, BundleStart}},
		{"file field", []byte("x \x9c y"), []byte{'x', ' ', Escape, FieldFile, ' ', 'y'}},
		{"content field", []byte{FieldContent, 'z'}, []byte{Escape, FieldContent, 'z'}},
		{"version field", []byte{'v', FieldVersion}, []byte{'v', Escape, FieldVersion}},
		{
			"every marker",
			[]byte{Escape, BundleStart, FieldFile, FieldContent, FieldVersion},
			[]byte{Escape, Escape, Escape, BundleStart, Escape, FieldFile, Escape, FieldContent, Escape, FieldVersion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeContent(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, UnescapeContent(got), "unescape should invert escape")
		})
	}
}

func TestEscapeContent_DoesNotModifyInput(t *testing.T) {
	input := []byte{FieldFile, 'a'}
	_ = EscapeContent(input)
	assert.Equal(t, []byte{FieldFile, 'a'}, input)
}

func TestUnescapeContent(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"empty", nil, []byte{}},
		{"no escapes", []byte("abc"), []byte("abc")},
		{"escaped marker", []byte{Escape, FieldFile}, []byte{FieldFile}},
		{"escaped plain byte", []byte{Escape, 'q'}, []byte{'q'}},
		{"double escape", []byte{Escape, Escape}, []byte{Escape}},
		{"trailing lone escape", []byte{'a', Escape}, []byte{'a', Escape}},
		{"only lone escape", []byte{Escape}, []byte{Escape}},
		{"three escapes", []byte{Escape, Escape, Escape}, []byte{Escape, Escape}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnescapeContent(tt.input))
		})
	}
}

func TestSentinels(t *testing.T) {
	s := Sentinels()
	assert.Len(t, s, 5)
	assert.Equal(t, Escape, s[0])

	seen := make(map[byte]bool)
	for _, c := range s {
		assert.False(t, seen[c], "marker 0x%02X repeated", c)
		seen[c] = true
		assert.True(t, IsSentinel(c))
		assert.GreaterOrEqual(t, c, byte(0x80), "marker must be outside 7-bit ASCII")
	}

	for c := 0; c < 0x80; c++ {
		assert.False(t, IsSentinel(byte(c)))
	}
}
