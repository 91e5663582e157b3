package dexfmt

import "testing"

func TestEscapeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"two byte", []byte{0x68, 0xc3, 0xa9, 0x6c, 0x6c, 0x6f}, "h\\u00e9llo"},
		{"three byte", []byte{0xe4, 0xb8, 0xad}, "\\u4e2d"},
		{"four byte keeps low 16 bits", []byte{0xf0, 0x9f, 0x98, 0x80}, "\\uf600"},
		{"truncated sequence as single byte", []byte{0xc3}, "\\u00c3"},
		{"stray continuation", []byte{0x61, 0xa9}, "a\\u00a9"},
	}
	for _, tt := range tests {
		if got := EscapeUTF8(tt.in); got != tt.want {
			t.Errorf("%s: EscapeUTF8(% x) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc", "abc"},
		{"quote", "a\"b", "a\\\"b"},
		{"apostrophe", "a'b", "a\\'b"},
		{"tab", "a\tb", "a\\tb"},
		{"newline", "a\nb", "a\\nb"},
		{"crlf pair", "a\r\nb", "a\\r\\nb"},
		{"lone cr", "a\rb", "a\\rb"},
		{"backslash", "a\\b", "a\\\\b"},
		{"unicode passthrough", "h\\u00e9llo", "h\\u00e9llo"},
		{"bad unicode escapes backslash", "a\\uzzzz", "a\\\\uzzzz"},
	}
	for _, tt := range tests {
		if got := EscapeLiteral(tt.in); got != tt.want {
			t.Errorf("%s: EscapeLiteral(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
