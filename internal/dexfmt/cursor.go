// DEX data cursor.
// Implements the bounded little-endian and LEB128 reads used throughout the
// DEX container format.
package dexfmt

import (
	"encoding/binary"
	"errors"
)

var (
	ErrTruncated          = errors.New("dexfmt: read past end of data")
	ErrMalformedUleb      = errors.New("dexfmt: malformed uleb128")
	ErrUnterminatedString = errors.New("dexfmt: unterminated string")
	ErrOutOfRange         = errors.New("dexfmt: range outside buffer")
)

// Cursor reads a DEX byte buffer with an absolute position.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor over the given data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewCursorAt creates a cursor positioned at offset within data.
// The offset must later prove valid through reads; it is clamped to the end.
func NewCursorAt(data []byte, offset int) *Cursor {
	if offset > len(data) {
		offset = len(data)
	}
	return &Cursor{data: data, pos: offset}
}

// Position returns the current read position.
func (c *Cursor) Position() int { return c.pos }

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns bytes left to read.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek sets the absolute read position.
func (c *Cursor) Seek(abs int) error {
	if abs < 0 || abs > len(c.data) {
		return ErrOutOfRange
	}
	c.pos = abs
	return nil
}

// SubView returns a cursor over data[abs:abs+n].
func (c *Cursor) SubView(abs, n int) (*Cursor, error) {
	if abs < 0 || n < 0 || abs+n > len(c.data) {
		return nil, ErrOutOfRange
	}
	return &Cursor{data: c.data[abs : abs+n]}, nil
}

// ReadUint8 reads a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	if c.pos >= len(c.data) {
		return 0, ErrTruncated
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (c *Cursor) ReadUint64() (uint64, error) {
	if c.pos+8 > len(c.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// ReadBytes reads n bytes into a new slice.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadUleb128 reads an unsigned little-endian base-128 integer.
// DEX ULEB128 values occupy at most 5 bytes; a set continuation bit on the
// fifth byte is malformed.
func (c *Cursor) ReadUleb128() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < 5; i++ {
		b, err := c.ReadUint8()
		if err != nil {
			return 0, ErrMalformedUleb
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrMalformedUleb
}

// ReadSleb128 reads a signed little-endian base-128 integer, sign-extended
// from the final payload bit.
func (c *Cursor) ReadSleb128() (int32, error) {
	var result uint32
	var shift uint
	for i := 0; i < 5; i++ {
		b, err := c.ReadUint8()
		if err != nil {
			return 0, ErrMalformedUleb
		}
		result |= uint32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= ^uint32(0) << shift
			}
			return int32(result), nil
		}
	}
	return 0, ErrMalformedUleb
}

// ReadCStrWithin reads bytes up to a NUL terminator or the limit ceiling,
// whichever comes first. The terminator is consumed but not returned.
// Running off the end of the buffer before either is an error.
func (c *Cursor) ReadCStrWithin(limit int) ([]byte, error) {
	end := c.pos + limit
	capped := end <= len(c.data)
	if !capped {
		end = len(c.data)
	}
	for i := c.pos; i < end; i++ {
		if c.data[i] == 0 {
			out := make([]byte, i-c.pos)
			copy(out, c.data[c.pos:i])
			c.pos = i + 1
			return out, nil
		}
	}
	if capped {
		out := make([]byte, end-c.pos)
		copy(out, c.data[c.pos:end])
		c.pos = end
		return out, nil
	}
	return nil, ErrUnterminatedString
}
