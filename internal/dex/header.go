// Package dex decodes a DEX container into an immutable in-memory image.
package dex

import (
	"bytes"
	"errors"
	"fmt"

	"baksmali/internal/dexfmt"
)

var (
	ErrInvalidMagic   = errors.New("dex: invalid magic")
	ErrHeaderMismatch = errors.New("dex: header mismatch")
	ErrIndexOutOfPool = errors.New("dex: index outside pool")
)

// HeaderSize is the fixed size of the DEX header.
const HeaderSize = 0x70

// NoIndex is the sentinel for absent superclass / source-file indices.
const NoIndex = 0xffffffff

// magics lists the supported 8-byte version tags.
var magics = [][]byte{
	[]byte("dex\n035\x00"),
	[]byte("dex\n037\x00"),
	[]byte("dex\n038\x00"),
	[]byte("dex\n039\x00"),
}

// Header is the decoded DEX file header.
type Header struct {
	Magic     [8]byte
	Checksum  uint32
	Signature [20]byte
	FileSize  uint32
	HeaderSz  uint32
	EndianTag uint32
	LinkSize  uint32
	LinkOff   uint32
	MapOff    uint32

	StringIDsSize uint32
	StringIDsOff  uint32
	TypeIDsSize   uint32
	TypeIDsOff    uint32
	ProtoIDsSize  uint32
	ProtoIDsOff   uint32
	FieldIDsSize  uint32
	FieldIDsOff   uint32
	MethodIDsSize uint32
	MethodIDsOff  uint32
	ClassDefsSize uint32
	ClassDefsOff  uint32
	DataSize      uint32
	DataOff       uint32
}

// Version returns the three-digit format version from the magic.
func (h *Header) Version() string {
	return string(h.Magic[4:7])
}

func parseHeader(c *dexfmt.Cursor) (*Header, error) {
	magic, err := c.ReadBytes(8)
	if err != nil {
		return nil, fmt.Errorf("dex: header: %w", err)
	}
	ok := false
	for _, m := range magics {
		if bytes.Equal(magic, m) {
			ok = true
			break
		}
	}
	if !ok {
		return nil, ErrInvalidMagic
	}

	h := &Header{}
	copy(h.Magic[:], magic)

	if h.Checksum, err = c.ReadUint32(); err != nil {
		return nil, fmt.Errorf("dex: header: %w", err)
	}
	sig, err := c.ReadBytes(20)
	if err != nil {
		return nil, fmt.Errorf("dex: header: %w", err)
	}
	copy(h.Signature[:], sig)

	fields := []*uint32{
		&h.FileSize, &h.HeaderSz, &h.EndianTag, &h.LinkSize, &h.LinkOff, &h.MapOff,
		&h.StringIDsSize, &h.StringIDsOff,
		&h.TypeIDsSize, &h.TypeIDsOff,
		&h.ProtoIDsSize, &h.ProtoIDsOff,
		&h.FieldIDsSize, &h.FieldIDsOff,
		&h.MethodIDsSize, &h.MethodIDsOff,
		&h.ClassDefsSize, &h.ClassDefsOff,
		&h.DataSize, &h.DataOff,
	}
	for _, f := range fields {
		if *f, err = c.ReadUint32(); err != nil {
			return nil, fmt.Errorf("dex: header: %w", err)
		}
	}

	if h.FileSize != uint32(c.Len()) {
		return nil, fmt.Errorf("%w: file size %d != buffer %d", ErrHeaderMismatch, h.FileSize, c.Len())
	}
	if h.HeaderSz != HeaderSize {
		return nil, fmt.Errorf("%w: header size 0x%x", ErrHeaderMismatch, h.HeaderSz)
	}

	return h, nil
}
