// Per-instruction decode and smali operand rendering.
package dalvik

import (
	"fmt"
	"strings"

	"baksmali/internal/dexfmt"
)

// Resolver renders pool indices into smali reference text. Out-of-range
// indices resolve to the empty string.
type Resolver interface {
	String(i uint32) string
	Type(i uint32) string
	FieldRef(i uint32) string
	MethodRef(i uint32) string
}

// Instruction is one decoded Dalvik instruction.
type Instruction struct {
	Address uint32 // offset within the code buffer, in code units
	Opcode  uint8
	Width   int    // in code units
	Text    string // operand-resolved mnemonic line
}

// Decode walks a 16-bit code unit buffer and decodes every instruction.
// Addresses advance by instruction width so that the sequence covers the
// whole buffer; a truncated final instruction decodes from zeroed units.
func Decode(units []uint16, r Resolver) []Instruction {
	insts := make([]Instruction, 0, len(units))
	for off := 0; off < len(units); {
		op := uint8(units[off] & 0xff)
		info := Table[op]
		width := info.Width
		if width == 0 {
			width = 1
		}
		insts = append(insts, Instruction{
			Address: uint32(off),
			Opcode:  op,
			Width:   width,
			Text:    FormatInstruction(units[off:], uint32(off), r),
		})
		off += width
	}
	return insts
}

// FormatInstruction renders the instruction starting at u[0] (address in
// code units) as its full smali mnemonic line, resolving pool references
// through r. Units past the end of the buffer read as zero; malformed DEX
// can end mid-instruction and decoding must not read past the code buffer.
func FormatInstruction(u []uint16, address uint32, r Resolver) string {
	op := uint8(u[0] & 0xff)
	info := Table[op]
	if info.Name == "" {
		return fmt.Sprintf("unknown-%02x ; unknown opcode 0x%02x", op, op)
	}

	var b strings.Builder
	b.WriteString(info.Name)

	u1 := pick(u, 1)
	u2 := pick(u, 2)

	switch info.Format {
	case Fmt10x:
		// no operands

	case Fmt12x:
		fmt.Fprintf(&b, " v%d, v%d", u[0]>>8&0xf, u[0]>>12&0xf)

	case Fmt11n:
		lit := int32(u[0]>>12) & 0xf
		if lit&0x8 != 0 {
			lit |= ^int32(0xf)
		}
		fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xf, hex32(lit))

	case Fmt11x:
		fmt.Fprintf(&b, " v%d", u[0]>>8&0xff)

	case Fmt10t:
		off := int32(int8(u[0] >> 8))
		fmt.Fprintf(&b, " :cond_%x", address+uint32(off))

	case Fmt20t:
		off := int32(int16(u1))
		fmt.Fprintf(&b, " :cond_%x", address+uint32(off))

	case Fmt30t:
		off := int32(uint32(u1) | uint32(u2)<<16)
		fmt.Fprintf(&b, " :cond_%x", address+uint32(off))

	case Fmt22x:
		fmt.Fprintf(&b, " v%d, v%d", u[0]>>8&0xff, u1)

	case Fmt32x:
		fmt.Fprintf(&b, " v%d, v%d", u1, u2)

	case Fmt21t:
		off := int32(int16(u1))
		fmt.Fprintf(&b, " v%d, :cond_%x", u[0]>>8&0xff, address+uint32(off))

	case Fmt22t:
		off := int32(int16(u1))
		fmt.Fprintf(&b, " v%d, v%d, :cond_%x", u[0]>>8&0xf, u[0]>>12&0xf, address+uint32(off))

	case Fmt21s:
		if op == 0x16 { // const-wide/16
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex64(int64(int16(u1))))
		} else {
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex32(int32(int16(u1))))
		}

	case Fmt21h:
		if op == 0x19 { // const-wide/high16
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex64(int64(u1)<<48))
		} else {
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex32(int32(u1)<<16))
		}

	case Fmt21c:
		fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, ref(r, info.Ref, uint32(u1)))

	case Fmt31c:
		idx := uint32(u1) | uint32(u2)<<16
		fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, ref(r, info.Ref, idx))

	case Fmt23x:
		fmt.Fprintf(&b, " v%d, v%d, v%d", u[0]>>8&0xff, u1&0xff, u1>>8&0xff)

	case Fmt22b:
		fmt.Fprintf(&b, " v%d, v%d, %s", u[0]>>8&0xff, u1&0xff, hex32(int32(int8(u1>>8))))

	case Fmt22s:
		fmt.Fprintf(&b, " v%d, v%d, %s", u[0]>>8&0xf, u[0]>>12&0xf, hex32(int32(int16(u1))))

	case Fmt22c:
		fmt.Fprintf(&b, " v%d, v%d, %s", u[0]>>8&0xf, u[0]>>12&0xf, ref(r, info.Ref, uint32(u1)))

	case Fmt31i:
		lit := int32(uint32(u1) | uint32(u2)<<16)
		if op == 0x17 { // const-wide/32
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex64(int64(lit)))
		} else {
			fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex32(lit))
		}

	case Fmt31t:
		off := int32(uint32(u1) | uint32(u2)<<16)
		target := address + uint32(off)
		prefix := ":cond_"
		switch op {
		case OpFillArrayData:
			prefix = ":array_"
		case OpPackedSwitch:
			prefix = ":pswitch_data_"
		case OpSparseSwitch:
			prefix = ":sswitch_data_"
		}
		fmt.Fprintf(&b, " v%d, %s%x", u[0]>>8&0xff, prefix, target)

	case Fmt35c:
		count := int(u[0] >> 12 & 0xf)
		vG := int(u[0] >> 8 & 0xf)
		b.WriteString(" {")
		for i := 0; i < count; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			var reg int
			if i == 4 {
				reg = vG
			} else {
				reg = int(u2 >> (4 * i) & 0xf)
			}
			fmt.Fprintf(&b, "v%d", reg)
		}
		fmt.Fprintf(&b, "}, %s", ref(r, info.Ref, uint32(u1)))

	case Fmt3rc:
		count := int(u[0] >> 8 & 0xff)
		first := int(u2)
		b.WriteString(" {")
		for i := 0; i < count; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "v%d", first+i)
		}
		fmt.Fprintf(&b, "}, %s", ref(r, info.Ref, uint32(u1)))

	case Fmt51l:
		lit := uint64(u1) | uint64(u2)<<16 | uint64(pick(u, 3))<<32 | uint64(pick(u, 4))<<48
		fmt.Fprintf(&b, " v%d, %s", u[0]>>8&0xff, hex64(int64(lit)))
	}

	return b.String()
}

func ref(r Resolver, kind RefKind, idx uint32) string {
	if r == nil {
		return ""
	}
	switch kind {
	case RefString:
		return `"` + dexfmt.EscapeLiteral(r.String(idx)) + `"`
	case RefType:
		return r.Type(idx)
	case RefField:
		return r.FieldRef(idx)
	case RefMethod:
		return r.MethodRef(idx)
	}
	return ""
}

func pick(u []uint16, i int) uint16 {
	if i < len(u) {
		return u[i]
	}
	return 0
}

func hex32(v int32) string {
	return fmt.Sprintf("0x%x", uint32(v))
}

func hex64(v int64) string {
	return fmt.Sprintf("0x%x", uint64(v))
}
