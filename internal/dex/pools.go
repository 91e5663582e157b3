// Id pool decoding and reference rendering.
package dex

import (
	"fmt"
	"strings"

	"baksmali/internal/dexfmt"
)

// Proto is one decoded proto_id entry with its parameter list resolved.
type Proto struct {
	Shorty string
	Return string
	Params []string
}

// Signature renders the proto as "(params)return".
func (p Proto) Signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, t := range p.Params {
		b.WriteString(t)
	}
	b.WriteByte(')')
	b.WriteString(p.Return)
	return b.String()
}

// FieldID is one raw field_id entry.
type FieldID struct {
	Class uint16
	Type  uint16
	Name  uint32
}

// MethodID is one raw method_id entry.
type MethodID struct {
	Class uint16
	Proto uint16
	Name  uint32
}

// ClassDef is one raw class_def entry.
type ClassDef struct {
	ClassIdx        uint32
	AccessFlags     uint32
	SuperclassIdx   uint32
	InterfacesOff   uint32
	SourceFileIdx   uint32
	AnnotationsOff  uint32
	ClassDataOff    uint32
	StaticValuesOff uint32
}

// Pools holds the decoded id sections. All strings are owned copies in the
// ASCII-plus-\uXXXX form; nothing references the raw buffer.
type Pools struct {
	Strings []string
	Types   []string
	Protos  []Proto
	Fields  []FieldID
	Methods []MethodID
}

// String returns the i-th pool string, or "" when out of range. Rendering
// tolerates partially damaged files; lookups never fail here.
func (p *Pools) String(i uint32) string {
	if int(i) >= len(p.Strings) {
		return ""
	}
	return p.Strings[i]
}

// Type returns the i-th type descriptor, or "".
func (p *Pools) Type(i uint32) string {
	if int(i) >= len(p.Types) {
		return ""
	}
	return p.Types[i]
}

// ProtoSig returns the i-th proto signature "(params)return", or "".
func (p *Pools) ProtoSig(i uint32) string {
	if int(i) >= len(p.Protos) {
		return ""
	}
	return p.Protos[i].Signature()
}

// FieldRef renders the i-th field_id as "Cls->name:Type".
func (p *Pools) FieldRef(i uint32) string {
	if int(i) >= len(p.Fields) {
		return ""
	}
	f := p.Fields[i]
	return p.Type(uint32(f.Class)) + "->" + p.String(f.Name) + ":" + p.Type(uint32(f.Type))
}

// MethodRef renders the i-th method_id as "Cls->name(params)ret".
func (p *Pools) MethodRef(i uint32) string {
	if int(i) >= len(p.Methods) {
		return ""
	}
	m := p.Methods[i]
	return p.Type(uint32(m.Class)) + "->" + p.String(m.Name) + p.ProtoSig(uint32(m.Proto))
}

func parseStringIDs(c *dexfmt.Cursor, h *Header) ([]string, error) {
	if h.StringIDsSize == 0 {
		return nil, nil
	}
	strs := make([]string, 0, h.StringIDsSize)
	for i := uint32(0); i < h.StringIDsSize; i++ {
		if err := c.Seek(int(h.StringIDsOff) + int(i)*4); err != nil {
			return nil, fmt.Errorf("dex: string_ids[%d]: %w", i, err)
		}
		dataOff, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("dex: string_ids[%d]: %w", i, err)
		}
		if int(dataOff) >= c.Len() {
			return nil, fmt.Errorf("dex: string_ids[%d]: data offset 0x%x: %w", i, dataOff, dexfmt.ErrOutOfRange)
		}
		if err := c.Seek(int(dataOff)); err != nil {
			return nil, fmt.Errorf("dex: string_ids[%d]: %w", i, err)
		}
		// utf16 length prefix; the byte length comes from the NUL scan.
		if _, err := c.ReadUleb128(); err != nil {
			return nil, fmt.Errorf("dex: string_ids[%d]: %w", i, err)
		}
		raw, err := c.ReadCStrWithin(c.Remaining())
		if err != nil {
			return nil, fmt.Errorf("dex: string_ids[%d]: %w", i, err)
		}
		strs = append(strs, dexfmt.EscapeUTF8(raw))
	}
	return strs, nil
}

func parseTypeIDs(c *dexfmt.Cursor, h *Header, strs []string) ([]string, error) {
	if h.TypeIDsSize == 0 {
		return nil, nil
	}
	if err := c.Seek(int(h.TypeIDsOff)); err != nil {
		return nil, fmt.Errorf("dex: type_ids: %w", err)
	}
	types := make([]string, 0, h.TypeIDsSize)
	for i := uint32(0); i < h.TypeIDsSize; i++ {
		idx, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("dex: type_ids[%d]: %w", i, err)
		}
		if int(idx) >= len(strs) {
			return nil, fmt.Errorf("dex: type_ids[%d]: descriptor %d: %w", i, idx, ErrIndexOutOfPool)
		}
		types = append(types, strs[idx])
	}
	return types, nil
}

func parseProtoIDs(c *dexfmt.Cursor, h *Header, strs, types []string) ([]Proto, error) {
	if h.ProtoIDsSize == 0 {
		return nil, nil
	}
	protos := make([]Proto, 0, h.ProtoIDsSize)
	for i := uint32(0); i < h.ProtoIDsSize; i++ {
		if err := c.Seek(int(h.ProtoIDsOff) + int(i)*12); err != nil {
			return nil, fmt.Errorf("dex: proto_ids[%d]: %w", i, err)
		}
		shortyIdx, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("dex: proto_ids[%d]: %w", i, err)
		}
		returnIdx, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("dex: proto_ids[%d]: %w", i, err)
		}
		paramsOff, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("dex: proto_ids[%d]: %w", i, err)
		}

		var p Proto
		if int(shortyIdx) < len(strs) {
			p.Shorty = strs[shortyIdx]
		}
		if int(returnIdx) < len(types) {
			p.Return = types[returnIdx]
		}
		if paramsOff != 0 {
			params, err := parseTypeList(c, int(paramsOff), types)
			if err != nil {
				return nil, fmt.Errorf("dex: proto_ids[%d]: %w", i, err)
			}
			p.Params = params
		}
		protos = append(protos, p)
	}
	return protos, nil
}

// parseTypeList reads a type_list (u32 count, then u16 type indices).
// Out-of-range entries are skipped the way rendering lookups degrade.
func parseTypeList(c *dexfmt.Cursor, off int, types []string) ([]string, error) {
	if err := c.Seek(off); err != nil {
		return nil, err
	}
	count, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, count)
	for j := uint32(0); j < count; j++ {
		idx, err := c.ReadUint16()
		if err != nil {
			return nil, err
		}
		if int(idx) < len(types) {
			out = append(out, types[idx])
		}
	}
	return out, nil
}

func parseFieldIDs(c *dexfmt.Cursor, h *Header, strs []string) ([]FieldID, error) {
	if h.FieldIDsSize == 0 {
		return nil, nil
	}
	if err := c.Seek(int(h.FieldIDsOff)); err != nil {
		return nil, fmt.Errorf("dex: field_ids: %w", err)
	}
	fields := make([]FieldID, 0, h.FieldIDsSize)
	for i := uint32(0); i < h.FieldIDsSize; i++ {
		var f FieldID
		var err error
		if f.Class, err = c.ReadUint16(); err != nil {
			return nil, fmt.Errorf("dex: field_ids[%d]: %w", i, err)
		}
		if f.Type, err = c.ReadUint16(); err != nil {
			return nil, fmt.Errorf("dex: field_ids[%d]: %w", i, err)
		}
		if f.Name, err = c.ReadUint32(); err != nil {
			return nil, fmt.Errorf("dex: field_ids[%d]: %w", i, err)
		}
		if int(f.Name) >= len(strs) {
			return nil, fmt.Errorf("dex: field_ids[%d]: name %d: %w", i, f.Name, ErrIndexOutOfPool)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseMethodIDs(c *dexfmt.Cursor, h *Header, strs []string) ([]MethodID, error) {
	if h.MethodIDsSize == 0 {
		return nil, nil
	}
	if err := c.Seek(int(h.MethodIDsOff)); err != nil {
		return nil, fmt.Errorf("dex: method_ids: %w", err)
	}
	methods := make([]MethodID, 0, h.MethodIDsSize)
	for i := uint32(0); i < h.MethodIDsSize; i++ {
		var m MethodID
		var err error
		if m.Class, err = c.ReadUint16(); err != nil {
			return nil, fmt.Errorf("dex: method_ids[%d]: %w", i, err)
		}
		if m.Proto, err = c.ReadUint16(); err != nil {
			return nil, fmt.Errorf("dex: method_ids[%d]: %w", i, err)
		}
		if m.Name, err = c.ReadUint32(); err != nil {
			return nil, fmt.Errorf("dex: method_ids[%d]: %w", i, err)
		}
		if int(m.Name) >= len(strs) {
			return nil, fmt.Errorf("dex: method_ids[%d]: name %d: %w", i, m.Name, ErrIndexOutOfPool)
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func parseClassDefs(c *dexfmt.Cursor, h *Header) ([]ClassDef, error) {
	if h.ClassDefsSize == 0 {
		return nil, nil
	}
	if err := c.Seek(int(h.ClassDefsOff)); err != nil {
		return nil, fmt.Errorf("dex: class_defs: %w", err)
	}
	defs := make([]ClassDef, 0, h.ClassDefsSize)
	for i := uint32(0); i < h.ClassDefsSize; i++ {
		var d ClassDef
		fields := []*uint32{
			&d.ClassIdx, &d.AccessFlags, &d.SuperclassIdx, &d.InterfacesOff,
			&d.SourceFileIdx, &d.AnnotationsOff, &d.ClassDataOff, &d.StaticValuesOff,
		}
		for _, f := range fields {
			v, err := c.ReadUint32()
			if err != nil {
				return nil, fmt.Errorf("dex: class_defs[%d]: %w", i, err)
			}
			*f = v
		}
		defs = append(defs, d)
	}
	return defs, nil
}
