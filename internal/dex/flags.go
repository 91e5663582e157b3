// Access flag bits and smali keyword rendering.
package dex

import "strings"

// Access flag bits, as stored in class defs, encoded fields and methods.
const (
	AccPublic               = 0x1
	AccPrivate              = 0x2
	AccProtected            = 0x4
	AccStatic               = 0x8
	AccFinal                = 0x10
	AccSynchronized         = 0x20
	AccVolatile             = 0x40 // fields
	AccBridge               = 0x40 // methods
	AccTransient            = 0x80 // fields
	AccVarargs              = 0x80 // methods
	AccNative               = 0x100
	AccInterface            = 0x200
	AccAbstract             = 0x400
	AccStrict               = 0x800
	AccSynthetic            = 0x1000
	AccAnnotation           = 0x2000
	AccEnum                 = 0x4000
	AccConstructor          = 0x10000
	AccDeclaredSynchronized = 0x20000
)

// FlagContext selects which keyword the shared 0x40/0x80 bits render as.
type FlagContext int

const (
	FlagClass FlagContext = iota
	FlagField
	FlagMethod
)

type flagWord struct {
	bit  uint32
	word string
}

// Canonical emission order. Interface comes before abstract; many DEX files
// carry both on the same class.
var flagOrder = []flagWord{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccVolatile, ""}, // vocabulary depends on context
	{AccTransient, ""},
	{AccNative, "native"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
	{AccConstructor, "constructor"},
	{AccDeclaredSynchronized, "declared-synchronized"},
}

// FormatAccessFlags renders the set flags in canonical order, each keyword
// followed by a single space so the declaration name can append directly.
func FormatAccessFlags(flags uint32, ctx FlagContext) string {
	var b strings.Builder
	for _, fw := range flagOrder {
		if flags&fw.bit == 0 {
			continue
		}
		word := fw.word
		switch fw.bit {
		case AccVolatile: // == AccBridge
			if ctx == FlagMethod {
				word = "bridge"
			} else {
				word = "volatile"
			}
		case AccTransient: // == AccVarargs
			if ctx == FlagMethod {
				word = "varargs"
			} else {
				word = "transient"
			}
		}
		b.WriteString(word)
		b.WriteByte(' ')
	}
	return b.String()
}
