// Method body assembly: instructions and debug items merged into one
// stream ordered by (address, sort order, register).
package smali

import (
	"fmt"
	"sort"
	"strconv"

	"baksmali/internal/dex"
)

// Merge sort orders. Instructions sit at 100 with their spacer blank line
// at 101; debug items sort ahead of the instruction at the same address.
const (
	orderInstruction = 100
	orderBlank       = 101
)

type bodyItem struct {
	address uint32
	order   int
	reg     int // register for EndLocal tiebreak; -1 otherwise
	text    string
}

func methodBody(m *dex.Method, opts Options) []bodyItem {
	code := m.Code
	var items []bodyItem

	for i, inst := range code.Instructions {
		text := RemapRegisters(inst.Text, code.RegistersSize, code.InsSize)
		items = append(items, bodyItem{inst.Address, orderInstruction, -1, "    " + text})
		if i != len(code.Instructions)-1 {
			items = append(items, bodyItem{inst.Address, orderBlank, -1, ""})
		}
	}

	if opts.DebugInfo {
		for _, di := range code.DebugItems {
			items = append(items, debugBodyItem(di, code, opts))
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.address != b.address {
			return a.address < b.address
		}
		if a.order != b.order {
			return a.order < b.order
		}
		if a.order == -1 && a.reg != -1 && b.reg != -1 {
			return a.reg < b.reg
		}
		return false
	})

	return items
}

func debugBodyItem(di dex.DebugItem, code *dex.Code, opts Options) bodyItem {
	item := bodyItem{address: di.Address, order: di.Kind.SortOrder(), reg: -1}

	switch di.Kind {
	case dex.DebugStartLocal:
		item.text = "    .local " + formatRegister(di.Register, code)
		if info := localInfo(di.Name, di.Type, di.Signature); info != "" {
			item.text += ", " + info
		}

	case dex.DebugEndLocal:
		item.reg = di.Register
		item.text = "    .end local " + formatRegister(di.Register, code)
		if info := localInfo(di.Name, di.Type, di.Signature); info != "" {
			item.text += "    # " + info
		}

	case dex.DebugRestartLocal:
		item.text = "    .restart local " + formatRegister(di.Register, code)
		if info := localInfo(di.Name, di.Type, di.Signature); info != "" {
			item.text += ", " + info
		}

	case dex.DebugLineNumber:
		line := di.Line
		if opts.MaxLine > 0 && line > opts.MaxLine {
			line = line%1000 + 1
		}
		item.text = "    .line " + strconv.FormatUint(uint64(line), 10)

	case dex.DebugPrologueEnd:
		item.text = "    .prologue"

	case dex.DebugEpilogueBegin:
		item.text = "    .epilogue"

	case dex.DebugSetSourceFile:
		item.text = fmt.Sprintf("    .source \"%s\"", di.SourceFile)
	}

	return item
}

// localInfo renders `"name":Type` with null/V defaults and an optional
// trailing signature. Empty when the item carried no info at all.
func localInfo(name, typ, sig string) string {
	if name == "" && typ == "" && sig == "" {
		return ""
	}
	s := "null"
	if name != "" {
		s = `"` + name + `"`
	}
	s += ":"
	if typ != "" {
		s += typ
	} else {
		s += "V"
	}
	if sig != "" {
		s += `, "` + sig + `"`
	}
	return s
}

// formatRegister renders a register number, using pN for registers inside
// the incoming-argument window.
func formatRegister(reg int, code *dex.Code) string {
	paramStart := int(code.RegistersSize) - int(code.InsSize)
	if code.InsSize > 0 && reg >= paramStart && reg < int(code.RegistersSize) {
		return "p" + strconv.Itoa(reg-paramStart)
	}
	return "v" + strconv.Itoa(reg)
}

// RemapRegisters rewrites vN tokens inside rendered instruction text into
// pN for registers in the incoming-argument window. Replacement walks from
// higher register numbers to lower so v10 is never confused with v1, and a
// token must be bounded by non-identifier characters on both sides.
func RemapRegisters(text string, registersSize, insSize uint16) string {
	if insSize == 0 || registersSize == 0 {
		return text
	}
	paramStart := int(registersSize) - int(insSize)
	for reg := int(registersSize) - 1; reg >= paramStart && reg >= 0; reg-- {
		old := "v" + strconv.Itoa(reg)
		repl := "p" + strconv.Itoa(reg-paramStart)
		text = replaceToken(text, old, repl)
	}
	return text
}

func replaceToken(s, old, repl string) string {
	var out []byte
	for i := 0; i < len(s); {
		j := indexFrom(s, old, i)
		if j < 0 {
			out = append(out, s[i:]...)
			break
		}
		boundedLeft := j == 0 || !identChar(s[j-1])
		boundedRight := j+len(old) >= len(s) || !identChar(s[j+len(old)])
		out = append(out, s[i:j]...)
		if boundedLeft && boundedRight {
			out = append(out, repl...)
		} else {
			out = append(out, old...)
		}
		i = j + len(old)
	}
	return string(out)
}

func indexFrom(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func identChar(c byte) bool {
	return c == '_' ||
		c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z'
}
