package dexfmt

import (
	"errors"
	"testing"
)

func TestReadUleb128(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xb4, 0x07}, 948},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xffffffff},
	}
	for _, tt := range tests {
		c := NewCursor(tt.in)
		got, err := c.ReadUleb128()
		if err != nil {
			t.Errorf("ReadUleb128(% x): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadUleb128(% x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadUleb128_Malformed(t *testing.T) {
	// Continuation bit set on the fifth byte.
	c := NewCursor([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00})
	if _, err := c.ReadUleb128(); !errors.Is(err, ErrMalformedUleb) {
		t.Errorf("expected ErrMalformedUleb, got %v", err)
	}

	// Buffer ends mid-sequence.
	c = NewCursor([]byte{0x80})
	if _, err := c.ReadUleb128(); !errors.Is(err, ErrMalformedUleb) {
		t.Errorf("expected ErrMalformedUleb for truncated, got %v", err)
	}
}

func TestReadSleb128(t *testing.T) {
	tests := []struct {
		in   []byte
		want int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0x7f}, -1},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0x80, 0x7f}, -128},
	}
	for _, tt := range tests {
		c := NewCursor(tt.in)
		got, err := c.ReadSleb128()
		if err != nil {
			t.Errorf("ReadSleb128(% x): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadSleb128(% x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadFixedWidth(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	if v, _ := c.ReadUint16(); v != 0x0201 {
		t.Errorf("ReadUint16 = 0x%x, want 0x0201", v)
	}
	if v, _ := c.ReadUint32(); v != 0x06050403 {
		t.Errorf("ReadUint32 = 0x%x, want 0x06050403", v)
	}
	if _, err := c.ReadUint32(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReadCStrWithin(t *testing.T) {
	c := NewCursor([]byte{'a', 'b', 0x00, 'c'})
	got, err := c.ReadCStrWithin(10)
	if err != nil {
		t.Fatalf("ReadCStrWithin: %v", err)
	}
	if string(got) != "ab" {
		t.Errorf("ReadCStrWithin = %q, want ab", got)
	}
	if c.Position() != 3 {
		t.Errorf("position = %d, want 3 (NUL consumed)", c.Position())
	}

	// Limit reached before NUL inside the buffer: return what fits.
	c = NewCursor([]byte{'a', 'b', 'c', 'd'})
	got, err = c.ReadCStrWithin(2)
	if err != nil || string(got) != "ab" {
		t.Errorf("limit cap = %q, %v; want ab, nil", got, err)
	}

	// Buffer ends before NUL or limit.
	c = NewCursor([]byte{'a', 'b'})
	if _, err := c.ReadCStrWithin(10); !errors.Is(err, ErrUnterminatedString) {
		t.Errorf("expected ErrUnterminatedString, got %v", err)
	}
}

func TestSeekSubView(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})
	if err := c.Seek(2); err != nil {
		t.Fatalf("Seek(2): %v", err)
	}
	if v, _ := c.ReadUint8(); v != 3 {
		t.Errorf("after seek = %d, want 3", v)
	}
	if err := c.Seek(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Seek(5): expected ErrOutOfRange, got %v", err)
	}

	sub, err := c.SubView(1, 2)
	if err != nil {
		t.Fatalf("SubView: %v", err)
	}
	if sub.Len() != 2 {
		t.Errorf("SubView len = %d, want 2", sub.Len())
	}
	if _, err := c.SubView(3, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SubView(3,2): expected ErrOutOfRange, got %v", err)
	}
}
