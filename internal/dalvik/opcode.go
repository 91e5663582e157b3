// Package dalvik decodes Dalvik bytecode into smali instruction text.
package dalvik

// Format identifies an operand layout. Names follow the DEX instruction
// format codes: digit = width in code units, register/literal shape after.
type Format int

const (
	Fmt10x Format = iota // no operands
	Fmt12x               // vA, vB (nibbles)
	Fmt11n               // vA, #+B (nibbles)
	Fmt11x               // vAA
	Fmt10t               // +AA
	Fmt20t               // +AAAA
	Fmt22x               // vAA, vBBBB
	Fmt21t               // vAA, +BBBB
	Fmt21s               // vAA, #+BBBB
	Fmt21h               // vAA, #+BBBB0000(00000000)
	Fmt21c               // vAA, ref@BBBB
	Fmt23x               // vAA, vBB, vCC
	Fmt22b               // vAA, vBB, #+CC
	Fmt22t               // vA, vB, +CCCC
	Fmt22s               // vA, vB, #+CCCC
	Fmt22c               // vA, vB, ref@CCCC
	Fmt30t               // +AAAAAAAA
	Fmt32x               // vAAAA, vBBBB
	Fmt31i               // vAA, #+BBBBBBBB
	Fmt31t               // vAA, +BBBBBBBB
	Fmt31c               // vAA, ref@BBBBBBBB
	Fmt35c               // {vC..vG}, ref@BBBB
	Fmt3rc               // {vCCCC..vNNNN}, ref@BBBB
	Fmt51l               // vAA, #+BBBBBBBBBBBBBBBB
)

// RefKind says which pool a c-format index resolves through.
type RefKind int

const (
	RefNone RefKind = iota
	RefString
	RefType
	RefField
	RefMethod
)

// OpInfo describes one opcode: mnemonic, width in 16-bit code units, operand
// layout, and pool kind for reference operands.
type OpInfo struct {
	Name   string
	Width  int
	Format Format
	Ref    RefKind
}

// Opcodes with special operand handling: the three data-payload
// instructions get their own label prefixes (every other branch target
// uses :cond_), plus const-string.
const (
	OpFillArrayData = 0x26
	OpPackedSwitch  = 0x2b
	OpSparseSwitch  = 0x2c
	OpConstString   = 0x1a
)

// Table maps every assigned Dalvik opcode byte to its decode info.
// Unassigned opcodes keep a zero entry and decode as unknown-<hex>.
var Table = [256]OpInfo{
	0x00: {"nop", 1, Fmt10x, RefNone},
	0x01: {"move", 1, Fmt12x, RefNone},
	0x02: {"move/from16", 2, Fmt22x, RefNone},
	0x03: {"move/16", 3, Fmt32x, RefNone},
	0x04: {"move-wide", 1, Fmt12x, RefNone},
	0x05: {"move-wide/from16", 2, Fmt22x, RefNone},
	0x06: {"move-wide/16", 3, Fmt32x, RefNone},
	0x07: {"move-object", 1, Fmt12x, RefNone},
	0x08: {"move-object/from16", 2, Fmt22x, RefNone},
	0x09: {"move-object/16", 3, Fmt32x, RefNone},
	0x0a: {"move-result", 1, Fmt11x, RefNone},
	0x0b: {"move-result-wide", 1, Fmt11x, RefNone},
	0x0c: {"move-result-object", 1, Fmt11x, RefNone},
	0x0d: {"move-exception", 1, Fmt11x, RefNone},
	0x0e: {"return-void", 1, Fmt10x, RefNone},
	0x0f: {"return", 1, Fmt11x, RefNone},
	0x10: {"return-wide", 1, Fmt11x, RefNone},
	0x11: {"return-object", 1, Fmt11x, RefNone},
	0x12: {"const/4", 1, Fmt11n, RefNone},
	0x13: {"const/16", 2, Fmt21s, RefNone},
	0x14: {"const", 3, Fmt31i, RefNone},
	0x15: {"const/high16", 2, Fmt21h, RefNone},
	0x16: {"const-wide/16", 2, Fmt21s, RefNone},
	0x17: {"const-wide/32", 3, Fmt31i, RefNone},
	0x18: {"const-wide", 5, Fmt51l, RefNone},
	0x19: {"const-wide/high16", 2, Fmt21h, RefNone},
	0x1a: {"const-string", 2, Fmt21c, RefString},
	0x1b: {"const-string/jumbo", 3, Fmt31c, RefString},
	0x1c: {"const-class", 2, Fmt21c, RefType},
	0x1d: {"monitor-enter", 1, Fmt11x, RefNone},
	0x1e: {"monitor-exit", 1, Fmt11x, RefNone},
	0x1f: {"check-cast", 2, Fmt21c, RefType},
	0x20: {"instance-of", 2, Fmt22c, RefType},
	0x21: {"array-length", 1, Fmt12x, RefNone},
	0x22: {"new-instance", 2, Fmt21c, RefType},
	0x23: {"new-array", 2, Fmt22c, RefType},
	0x24: {"filled-new-array", 3, Fmt35c, RefType},
	0x25: {"filled-new-array/range", 3, Fmt3rc, RefType},
	0x26: {"fill-array-data", 3, Fmt31t, RefNone},
	0x27: {"throw", 1, Fmt11x, RefNone},
	0x28: {"goto", 1, Fmt10t, RefNone},
	0x29: {"goto/16", 2, Fmt20t, RefNone},
	0x2a: {"goto/32", 3, Fmt30t, RefNone},
	0x2b: {"packed-switch", 3, Fmt31t, RefNone},
	0x2c: {"sparse-switch", 3, Fmt31t, RefNone},
	0x2d: {"cmpl-float", 2, Fmt23x, RefNone},
	0x2e: {"cmpg-float", 2, Fmt23x, RefNone},
	0x2f: {"cmpl-double", 2, Fmt23x, RefNone},
	0x30: {"cmpg-double", 2, Fmt23x, RefNone},
	0x31: {"cmp-long", 2, Fmt23x, RefNone},
	0x32: {"if-eq", 2, Fmt22t, RefNone},
	0x33: {"if-ne", 2, Fmt22t, RefNone},
	0x34: {"if-lt", 2, Fmt22t, RefNone},
	0x35: {"if-ge", 2, Fmt22t, RefNone},
	0x36: {"if-gt", 2, Fmt22t, RefNone},
	0x37: {"if-le", 2, Fmt22t, RefNone},
	0x38: {"if-eqz", 2, Fmt21t, RefNone},
	0x39: {"if-nez", 2, Fmt21t, RefNone},
	0x3a: {"if-ltz", 2, Fmt21t, RefNone},
	0x3b: {"if-gez", 2, Fmt21t, RefNone},
	0x3c: {"if-gtz", 2, Fmt21t, RefNone},
	0x3d: {"if-lez", 2, Fmt21t, RefNone},
	0x44: {"aget", 2, Fmt23x, RefNone},
	0x45: {"aget-wide", 2, Fmt23x, RefNone},
	0x46: {"aget-object", 2, Fmt23x, RefNone},
	0x47: {"aget-boolean", 2, Fmt23x, RefNone},
	0x48: {"aget-byte", 2, Fmt23x, RefNone},
	0x49: {"aget-char", 2, Fmt23x, RefNone},
	0x4a: {"aget-short", 2, Fmt23x, RefNone},
	0x4b: {"aput", 2, Fmt23x, RefNone},
	0x4c: {"aput-wide", 2, Fmt23x, RefNone},
	0x4d: {"aput-object", 2, Fmt23x, RefNone},
	0x4e: {"aput-boolean", 2, Fmt23x, RefNone},
	0x4f: {"aput-byte", 2, Fmt23x, RefNone},
	0x50: {"aput-char", 2, Fmt23x, RefNone},
	0x51: {"aput-short", 2, Fmt23x, RefNone},
	0x52: {"iget", 2, Fmt22c, RefField},
	0x53: {"iget-wide", 2, Fmt22c, RefField},
	0x54: {"iget-object", 2, Fmt22c, RefField},
	0x55: {"iget-boolean", 2, Fmt22c, RefField},
	0x56: {"iget-byte", 2, Fmt22c, RefField},
	0x57: {"iget-char", 2, Fmt22c, RefField},
	0x58: {"iget-short", 2, Fmt22c, RefField},
	0x59: {"iput", 2, Fmt22c, RefField},
	0x5a: {"iput-wide", 2, Fmt22c, RefField},
	0x5b: {"iput-object", 2, Fmt22c, RefField},
	0x5c: {"iput-boolean", 2, Fmt22c, RefField},
	0x5d: {"iput-byte", 2, Fmt22c, RefField},
	0x5e: {"iput-char", 2, Fmt22c, RefField},
	0x5f: {"iput-short", 2, Fmt22c, RefField},
	0x60: {"sget", 2, Fmt21c, RefField},
	0x61: {"sget-wide", 2, Fmt21c, RefField},
	0x62: {"sget-object", 2, Fmt21c, RefField},
	0x63: {"sget-boolean", 2, Fmt21c, RefField},
	0x64: {"sget-byte", 2, Fmt21c, RefField},
	0x65: {"sget-char", 2, Fmt21c, RefField},
	0x66: {"sget-short", 2, Fmt21c, RefField},
	0x67: {"sput", 2, Fmt21c, RefField},
	0x68: {"sput-wide", 2, Fmt21c, RefField},
	0x69: {"sput-object", 2, Fmt21c, RefField},
	0x6a: {"sput-boolean", 2, Fmt21c, RefField},
	0x6b: {"sput-byte", 2, Fmt21c, RefField},
	0x6c: {"sput-char", 2, Fmt21c, RefField},
	0x6d: {"sput-short", 2, Fmt21c, RefField},
	0x6e: {"invoke-virtual", 3, Fmt35c, RefMethod},
	0x6f: {"invoke-super", 3, Fmt35c, RefMethod},
	0x70: {"invoke-direct", 3, Fmt35c, RefMethod},
	0x71: {"invoke-static", 3, Fmt35c, RefMethod},
	0x72: {"invoke-interface", 3, Fmt35c, RefMethod},
	0x74: {"invoke-virtual/range", 3, Fmt3rc, RefMethod},
	0x75: {"invoke-super/range", 3, Fmt3rc, RefMethod},
	0x76: {"invoke-direct/range", 3, Fmt3rc, RefMethod},
	0x77: {"invoke-static/range", 3, Fmt3rc, RefMethod},
	0x78: {"invoke-interface/range", 3, Fmt3rc, RefMethod},
	0x7b: {"neg-int", 1, Fmt12x, RefNone},
	0x7c: {"not-int", 1, Fmt12x, RefNone},
	0x7d: {"neg-long", 1, Fmt12x, RefNone},
	0x7e: {"not-long", 1, Fmt12x, RefNone},
	0x7f: {"neg-float", 1, Fmt12x, RefNone},
	0x80: {"neg-double", 1, Fmt12x, RefNone},
	0x81: {"int-to-long", 1, Fmt12x, RefNone},
	0x82: {"int-to-float", 1, Fmt12x, RefNone},
	0x83: {"int-to-double", 1, Fmt12x, RefNone},
	0x84: {"long-to-int", 1, Fmt12x, RefNone},
	0x85: {"long-to-float", 1, Fmt12x, RefNone},
	0x86: {"long-to-double", 1, Fmt12x, RefNone},
	0x87: {"float-to-int", 1, Fmt12x, RefNone},
	0x88: {"float-to-long", 1, Fmt12x, RefNone},
	0x89: {"float-to-double", 1, Fmt12x, RefNone},
	0x8a: {"double-to-int", 1, Fmt12x, RefNone},
	0x8b: {"double-to-long", 1, Fmt12x, RefNone},
	0x8c: {"double-to-float", 1, Fmt12x, RefNone},
	0x8d: {"int-to-byte", 1, Fmt12x, RefNone},
	0x8e: {"int-to-char", 1, Fmt12x, RefNone},
	0x8f: {"int-to-short", 1, Fmt12x, RefNone},
	0x90: {"add-int", 2, Fmt23x, RefNone},
	0x91: {"sub-int", 2, Fmt23x, RefNone},
	0x92: {"mul-int", 2, Fmt23x, RefNone},
	0x93: {"div-int", 2, Fmt23x, RefNone},
	0x94: {"rem-int", 2, Fmt23x, RefNone},
	0x95: {"and-int", 2, Fmt23x, RefNone},
	0x96: {"or-int", 2, Fmt23x, RefNone},
	0x97: {"xor-int", 2, Fmt23x, RefNone},
	0x98: {"shl-int", 2, Fmt23x, RefNone},
	0x99: {"shr-int", 2, Fmt23x, RefNone},
	0x9a: {"ushr-int", 2, Fmt23x, RefNone},
	0x9b: {"add-long", 2, Fmt23x, RefNone},
	0x9c: {"sub-long", 2, Fmt23x, RefNone},
	0x9d: {"mul-long", 2, Fmt23x, RefNone},
	0x9e: {"div-long", 2, Fmt23x, RefNone},
	0x9f: {"rem-long", 2, Fmt23x, RefNone},
	0xa0: {"and-long", 2, Fmt23x, RefNone},
	0xa1: {"or-long", 2, Fmt23x, RefNone},
	0xa2: {"xor-long", 2, Fmt23x, RefNone},
	0xa3: {"shl-long", 2, Fmt23x, RefNone},
	0xa4: {"shr-long", 2, Fmt23x, RefNone},
	0xa5: {"ushr-long", 2, Fmt23x, RefNone},
	0xa6: {"add-float", 2, Fmt23x, RefNone},
	0xa7: {"sub-float", 2, Fmt23x, RefNone},
	0xa8: {"mul-float", 2, Fmt23x, RefNone},
	0xa9: {"div-float", 2, Fmt23x, RefNone},
	0xaa: {"rem-float", 2, Fmt23x, RefNone},
	0xab: {"add-double", 2, Fmt23x, RefNone},
	0xac: {"sub-double", 2, Fmt23x, RefNone},
	0xad: {"mul-double", 2, Fmt23x, RefNone},
	0xae: {"div-double", 2, Fmt23x, RefNone},
	0xaf: {"rem-double", 2, Fmt23x, RefNone},
	0xb0: {"add-int/2addr", 1, Fmt12x, RefNone},
	0xb1: {"sub-int/2addr", 1, Fmt12x, RefNone},
	0xb2: {"mul-int/2addr", 1, Fmt12x, RefNone},
	0xb3: {"div-int/2addr", 1, Fmt12x, RefNone},
	0xb4: {"rem-int/2addr", 1, Fmt12x, RefNone},
	0xb5: {"and-int/2addr", 1, Fmt12x, RefNone},
	0xb6: {"or-int/2addr", 1, Fmt12x, RefNone},
	0xb7: {"xor-int/2addr", 1, Fmt12x, RefNone},
	0xb8: {"shl-int/2addr", 1, Fmt12x, RefNone},
	0xb9: {"shr-int/2addr", 1, Fmt12x, RefNone},
	0xba: {"ushr-int/2addr", 1, Fmt12x, RefNone},
	0xbb: {"add-long/2addr", 1, Fmt12x, RefNone},
	0xbc: {"sub-long/2addr", 1, Fmt12x, RefNone},
	0xbd: {"mul-long/2addr", 1, Fmt12x, RefNone},
	0xbe: {"div-long/2addr", 1, Fmt12x, RefNone},
	0xbf: {"rem-long/2addr", 1, Fmt12x, RefNone},
	0xc0: {"and-long/2addr", 1, Fmt12x, RefNone},
	0xc1: {"or-long/2addr", 1, Fmt12x, RefNone},
	0xc2: {"xor-long/2addr", 1, Fmt12x, RefNone},
	0xc3: {"shl-long/2addr", 1, Fmt12x, RefNone},
	0xc4: {"shr-long/2addr", 1, Fmt12x, RefNone},
	0xc5: {"ushr-long/2addr", 1, Fmt12x, RefNone},
	0xc6: {"add-float/2addr", 1, Fmt12x, RefNone},
	0xc7: {"sub-float/2addr", 1, Fmt12x, RefNone},
	0xc8: {"mul-float/2addr", 1, Fmt12x, RefNone},
	0xc9: {"div-float/2addr", 1, Fmt12x, RefNone},
	0xca: {"rem-float/2addr", 1, Fmt12x, RefNone},
	0xcb: {"add-double/2addr", 1, Fmt12x, RefNone},
	0xcc: {"sub-double/2addr", 1, Fmt12x, RefNone},
	0xcd: {"mul-double/2addr", 1, Fmt12x, RefNone},
	0xce: {"div-double/2addr", 1, Fmt12x, RefNone},
	0xcf: {"rem-double/2addr", 1, Fmt12x, RefNone},
	0xd0: {"add-int/lit16", 2, Fmt22s, RefNone},
	0xd1: {"rsub-int", 2, Fmt22s, RefNone},
	0xd2: {"mul-int/lit16", 2, Fmt22s, RefNone},
	0xd3: {"div-int/lit16", 2, Fmt22s, RefNone},
	0xd4: {"rem-int/lit16", 2, Fmt22s, RefNone},
	0xd5: {"and-int/lit16", 2, Fmt22s, RefNone},
	0xd6: {"or-int/lit16", 2, Fmt22s, RefNone},
	0xd7: {"xor-int/lit16", 2, Fmt22s, RefNone},
	0xd8: {"add-int/lit8", 2, Fmt22b, RefNone},
	0xd9: {"rsub-int/lit8", 2, Fmt22b, RefNone},
	0xda: {"mul-int/lit8", 2, Fmt22b, RefNone},
	0xdb: {"div-int/lit8", 2, Fmt22b, RefNone},
	0xdc: {"rem-int/lit8", 2, Fmt22b, RefNone},
	0xdd: {"and-int/lit8", 2, Fmt22b, RefNone},
	0xde: {"or-int/lit8", 2, Fmt22b, RefNone},
	0xdf: {"xor-int/lit8", 2, Fmt22b, RefNone},
	0xe0: {"shl-int/lit8", 2, Fmt22b, RefNone},
	0xe1: {"shr-int/lit8", 2, Fmt22b, RefNone},
	0xe2: {"ushr-int/lit8", 2, Fmt22b, RefNone},
}
