// Debug info state machine.
package dex

import "baksmali/internal/dexfmt"

// Debug stream opcodes.
const (
	dbgEndSequence      = 0x00
	dbgAdvancePC        = 0x01
	dbgAdvanceLine      = 0x02
	dbgStartLocal       = 0x03
	dbgStartLocalExt    = 0x04
	dbgEndLocal         = 0x05
	dbgRestartLocal     = 0x06
	dbgSetPrologueEnd   = 0x07
	dbgSetEpilogueBegin = 0x08
	dbgSetFile          = 0x09
	dbgFirstSpecial     = 0x0a

	dbgLineBase  = -4
	dbgLineRange = 15
)

// DebugItemKind identifies a debug item variant.
type DebugItemKind int

const (
	DebugStartLocal DebugItemKind = iota
	DebugEndLocal
	DebugRestartLocal
	DebugLineNumber
	DebugPrologueEnd
	DebugEpilogueBegin
	DebugSetSourceFile
)

// SortOrder returns the merge key used when interleaving debug items with
// instructions; lower sorts earlier at the same address.
func (k DebugItemKind) SortOrder() int {
	switch k {
	case DebugPrologueEnd, DebugEpilogueBegin:
		return -4
	case DebugSetSourceFile:
		return -3
	case DebugLineNumber:
		return -2
	default: // locals
		return -1
	}
}

// DebugItem is one positioned debug event. Register is -1 for variants
// without one.
type DebugItem struct {
	Address  uint32 // in code units
	Kind     DebugItemKind
	Register int

	// Local info for Start/End/Restart items. For EndLocal this is the
	// shadow-table snapshot reported in the trailing comment.
	Name      string
	Type      string
	Signature string

	Line       uint32 // LineNumber
	SourceFile string // SetSourceFile
}

// localState mirrors one register of the debug shadow table.
type localState struct {
	name, typ, sig string
	kind           localKind
}

type localKind int

const (
	localNone localKind = iota
	localStart
	localEnd
	localRestart
)

// decodeDebugInfo runs the debug stream state machine for one method.
// The register shadow table starts seeded with `this` (non-static methods)
// and the declared parameters, placed at the end of the register window so
// that p0 maps to the first parameter; wide parameters take two registers.
func (d *decoder) decodeDebugInfo(off int, m *Method, code *Code) ([]DebugItem, error) {
	if err := d.c.Seek(off); err != nil {
		return nil, err
	}

	lineStart, err := d.c.ReadUleb128()
	if err != nil {
		return nil, err
	}
	paramsSize, err := d.c.ReadUleb128()
	if err != nil {
		return nil, err
	}

	// Parameter names are stored as index+1, 0 meaning unnamed.
	paramNames := make([]string, 0, paramsSize)
	for i := uint32(0); i < paramsSize; i++ {
		nameIdx, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}
		if nameIdx != 0 && int(nameIdx) <= len(d.pools.Strings) {
			paramNames = append(paramNames, d.pools.Strings[nameIdx-1])
		} else {
			paramNames = append(paramNames, "")
		}
	}

	locals := make([]localState, code.RegistersSize)

	seed := 0
	if m.AccessFlags&AccStatic == 0 {
		if seed < len(locals) {
			locals[seed] = localState{name: "this", typ: m.Class, kind: localStart}
		}
		seed++
	}
	for i, typ := range m.Params {
		st := localState{typ: typ, kind: localStart}
		if i < len(paramNames) {
			st.name = paramNames[i]
		}
		if seed < len(locals) {
			locals[seed] = st
		}
		seed++
	}

	// Shift the seeded entries to the top of the register window, walking
	// parameters last-to-first and giving wide types two slots.
	if seed < len(locals) {
		target := len(locals) - 1
		for src := seed - 1; src >= 0; src-- {
			cur := locals[src]
			if cur.typ == "J" || cur.typ == "D" {
				target--
				if target == src {
					break
				}
			}
			if target >= 0 && target < len(locals) {
				locals[target] = cur
			}
			locals[src] = localState{}
			target--
		}
	}

	var items []DebugItem
	address := uint32(0)
	line := int32(lineStart)

	resolveName := func(idx uint32) string {
		if idx != 0 && int(idx) <= len(d.pools.Strings) {
			return d.pools.Strings[idx-1]
		}
		return ""
	}
	resolveType := func(idx uint32) string {
		if idx != 0 && int(idx) <= len(d.pools.Types) {
			return d.pools.Types[idx-1]
		}
		return ""
	}

	for d.c.Remaining() > 0 {
		op, err := d.c.ReadUint8()
		if err != nil {
			return items, err
		}

		switch op {
		case dbgEndSequence:
			return items, nil

		case dbgAdvancePC:
			diff, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			address += diff

		case dbgAdvanceLine:
			diff, err := d.c.ReadSleb128()
			if err != nil {
				return items, err
			}
			line += diff

		case dbgStartLocal, dbgStartLocalExt:
			reg, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			nameIdx, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			typeIdx, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			var sig string
			if op == dbgStartLocalExt {
				sigIdx, err := d.c.ReadUleb128()
				if err != nil {
					return items, err
				}
				sig = resolveName(sigIdx)
			}
			name := resolveName(nameIdx)
			typ := resolveType(typeIdx)
			if int(reg) < len(locals) {
				locals[reg] = localState{name: name, typ: typ, sig: sig, kind: localStart}
			}
			items = append(items, DebugItem{
				Address: address, Kind: DebugStartLocal, Register: int(reg),
				Name: name, Type: typ, Signature: sig,
			})

		case dbgEndLocal:
			reg, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			item := DebugItem{Address: address, Kind: DebugEndLocal, Register: int(reg)}
			// The comment carries the prior shadow unless the register was
			// already ended.
			if int(reg) < len(locals) && locals[reg].kind != localEnd {
				prev := locals[reg]
				item.Name, item.Type, item.Signature = prev.name, prev.typ, prev.sig
				locals[reg] = localState{name: prev.name, typ: prev.typ, sig: prev.sig, kind: localEnd}
			}
			items = append(items, item)

		case dbgRestartLocal:
			reg, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			var prev localState
			if int(reg) < len(locals) {
				prev = locals[reg]
				locals[reg] = localState{name: prev.name, typ: prev.typ, sig: prev.sig, kind: localRestart}
			}
			items = append(items, DebugItem{
				Address: address, Kind: DebugRestartLocal, Register: int(reg),
				Name: prev.name, Type: prev.typ, Signature: prev.sig,
			})

		case dbgSetPrologueEnd:
			items = append(items, DebugItem{Address: address, Kind: DebugPrologueEnd, Register: -1})

		case dbgSetEpilogueBegin:
			items = append(items, DebugItem{Address: address, Kind: DebugEpilogueBegin, Register: -1})

		case dbgSetFile:
			nameIdx, err := d.c.ReadUleb128()
			if err != nil {
				return items, err
			}
			if nameIdx != 0 && int(nameIdx) <= len(d.pools.Strings) {
				items = append(items, DebugItem{
					Address: address, Kind: DebugSetSourceFile, Register: -1,
					SourceFile: d.pools.Strings[nameIdx-1],
				})
			}

		default:
			if op < dbgFirstSpecial {
				return items, nil
			}
			adjusted := int32(op - dbgFirstSpecial)
			line += adjusted%dbgLineRange + dbgLineBase
			address += uint32(adjusted / dbgLineRange)
			if line >= 0 && line < 65536 {
				items = append(items, DebugItem{
					Address: address, Kind: DebugLineNumber, Register: -1,
					Line: uint32(line),
				})
			}
		}
	}

	d.diags.Addf(uint32(off), dexfmt.DiagTruncated, "debug stream ended without END_SEQUENCE")
	return items, nil
}
