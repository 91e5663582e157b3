// Encoded value reader, shared by static initialisers and annotations.
package dex

import (
	"fmt"
	"strings"

	"baksmali/internal/dexfmt"
)

// Encoded value type tags.
const (
	valueByte       = 0x00
	valueShort      = 0x02
	valueChar       = 0x03
	valueInt        = 0x04
	valueLong       = 0x06
	valueFloat      = 0x10
	valueDouble     = 0x11
	valueString     = 0x17
	valueType       = 0x18
	valueField      = 0x19
	valueMethod     = 0x1a
	valueEnum       = 0x1b
	valueArray      = 0x1c
	valueAnnotation = 0x1d
	valueNull       = 0x1e
	valueBoolean    = 0x1f
)

// readEncodedValue reads one encoded_value at the cursor and renders it as
// smali text. The high three bits of the leading byte give size-1 for the
// payload (or the literal boolean value).
func (d *decoder) readEncodedValue() (string, error) {
	b, err := d.c.ReadUint8()
	if err != nil {
		return "", err
	}
	arg := int(b >> 5)
	tag := b & 0x1f

	switch tag {
	case valueByte:
		v, err := d.readSigned(arg + 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%dt", int8(v)), nil

	case valueShort:
		v, err := d.readSigned(arg + 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%ds", int16(v)), nil

	case valueChar:
		v, err := d.readUnsigned(arg + 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d", uint16(v)), nil

	case valueInt:
		v, err := d.readSigned(arg + 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%x", uint32(int32(v))), nil

	case valueLong:
		v, err := d.readSigned(arg + 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%dL", v), nil

	case valueString:
		idx, err := d.readUnsigned(arg + 1)
		if err != nil {
			return "", err
		}
		if int(idx) >= len(d.pools.Strings) {
			return `""`, nil
		}
		return `"` + dexfmt.EscapeLiteral(d.pools.Strings[idx]) + `"`, nil

	case valueType:
		idx, err := d.readUnsigned(arg + 1)
		if err != nil {
			return "", err
		}
		if int(idx) >= len(d.pools.Types) {
			return fmt.Sprintf("UnknownType@%d", idx), nil
		}
		return d.pools.Types[idx], nil

	case valueEnum:
		idx, err := d.readUnsigned(arg + 1)
		if err != nil {
			return "", err
		}
		return ".enum " + d.pools.FieldRef(uint32(idx)), nil

	case valueArray:
		return d.readEncodedArray()

	case valueAnnotation:
		// Nested annotation: consume the structure, render an empty literal.
		if _, err := d.readEncodedAnnotation(); err != nil {
			return "", err
		}
		return `""`, nil

	case valueNull:
		return "null", nil

	case valueBoolean:
		if arg == 1 {
			return "true", nil
		}
		return "false", nil

	default:
		// FLOAT, DOUBLE, FIELD, METHOD and anything newer: skip the payload.
		if _, err := d.c.ReadBytes(arg + 1); err != nil {
			return "", err
		}
		return `""`, nil
	}
}

// readEncodedArray renders an encoded array with the fixed smali layout:
// values on their own 8-space indented lines, closing brace at 4 spaces.
func (d *decoder) readEncodedArray() (string, error) {
	size, err := d.c.ReadUleb128()
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "{}", nil
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i := uint32(0); i < size; i++ {
		v, err := d.readEncodedValue()
		if err != nil {
			return "", err
		}
		b.WriteString("        ")
		b.WriteString(v)
		if i < size-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("    }")
	return b.String(), nil
}

// readSigned reads n little-endian payload bytes sign-extended from the top
// payload bit.
func (d *decoder) readSigned(n int) (int64, error) {
	v, err := d.readUnsigned(n)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*n)
	return int64(v<<shift) >> shift, nil
}

func (d *decoder) readUnsigned(n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		b, err := d.c.ReadUint8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b) << (8 * i)
	}
	return v, nil
}
