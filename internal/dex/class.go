// Class model and class_data decoding.
package dex

import (
	"fmt"

	"baksmali/internal/dalvik"
	"baksmali/internal/dexfmt"
)

// Class is one fully decoded class definition.
type Class struct {
	Name        string // type descriptor, Lpkg/Name;
	Super       string // empty when absent
	SourceFile  string // empty when absent
	AccessFlags uint32
	Interfaces  []string

	StaticFields   []*Field
	InstanceFields []*Field
	DirectMethods  []*Method
	VirtualMethods []*Method

	Annotations []Annotation
}

// Field is one static or instance field of a class.
type Field struct {
	Index        uint32 // field_ids index
	AccessFlags  uint32
	Name         string
	Type         string
	InitialValue string // rendered encoded value; empty when none
	Annotations  []Annotation
}

// Method is one direct or virtual method of a class.
type Method struct {
	Index       uint32 // method_ids index
	AccessFlags uint32
	Name        string
	Signature   string // "(params)return"
	Class       string // owning class descriptor
	Params      []string
	Code        *Code
	Annotations []Annotation
}

// Code is a decoded code_item. Tries and handlers are skipped.
type Code struct {
	RegistersSize uint16
	InsSize       uint16
	OutsSize      uint16
	TriesSize     uint16
	DebugInfoOff  uint32
	InsnsSize     uint32

	Units        []uint16
	Instructions []dalvik.Instruction
	DebugItems   []DebugItem
}

// ClassError wraps a per-class decode failure so callers can log and move on.
type ClassError struct {
	Name string
	Err  error
}

func (e *ClassError) Error() string {
	return fmt.Sprintf("dex: class %s: %v", e.Name, e.Err)
}

func (e *ClassError) Unwrap() error { return e.Err }

type decoder struct {
	c     *dexfmt.Cursor
	h     *Header
	pools *Pools
	diags *dexfmt.Diags
}

func (d *decoder) decodeClass(def ClassDef) (*Class, error) {
	if int(def.ClassIdx) >= len(d.pools.Types) {
		return nil, fmt.Errorf("class_idx %d: %w", def.ClassIdx, ErrIndexOutOfPool)
	}

	cls := &Class{
		Name:        d.pools.Types[def.ClassIdx],
		AccessFlags: def.AccessFlags,
	}
	if def.SuperclassIdx != NoIndex {
		cls.Super = d.pools.Type(def.SuperclassIdx)
	}
	if def.SourceFileIdx != NoIndex {
		cls.SourceFile = d.pools.String(def.SourceFileIdx)
	}

	if def.InterfacesOff != 0 {
		ifaces, err := parseTypeList(d.c, int(def.InterfacesOff), d.pools.Types)
		if err != nil {
			d.diags.Addf(def.InterfacesOff, dexfmt.DiagInvalid, "class %s: interfaces: %v", cls.Name, err)
		} else {
			cls.Interfaces = ifaces
		}
	}

	if def.ClassDataOff != 0 {
		if err := d.decodeClassData(int(def.ClassDataOff), cls); err != nil {
			return nil, fmt.Errorf("class_data: %w", err)
		}
	}

	// Static initialiser values pair index-wise with the static field list.
	if def.StaticValuesOff != 0 {
		if err := d.decodeStaticValues(int(def.StaticValuesOff), cls); err != nil {
			d.diags.Addf(def.StaticValuesOff, dexfmt.DiagInvalid, "class %s: static values: %v", cls.Name, err)
		}
	}

	if def.AnnotationsOff != 0 {
		if err := d.decodeAnnotationsDirectory(int(def.AnnotationsOff), cls); err != nil {
			d.diags.Addf(def.AnnotationsOff, dexfmt.DiagInvalid, "class %s: annotations: %v", cls.Name, err)
		}
	}

	return cls, nil
}

func (d *decoder) decodeClassData(off int, cls *Class) error {
	if err := d.c.Seek(off); err != nil {
		return err
	}

	var counts [4]uint32
	for i := range counts {
		n, err := d.c.ReadUleb128()
		if err != nil {
			return err
		}
		counts[i] = n
	}

	var err error
	if cls.StaticFields, err = d.decodeEncodedFields(counts[0]); err != nil {
		return err
	}
	if cls.InstanceFields, err = d.decodeEncodedFields(counts[1]); err != nil {
		return err
	}
	if cls.DirectMethods, err = d.decodeEncodedMethods(counts[2]); err != nil {
		return err
	}
	if cls.VirtualMethods, err = d.decodeEncodedMethods(counts[3]); err != nil {
		return err
	}
	return nil
}

// decodeEncodedFields reads count encoded_field entries. Indices are stored
// as ULEB128 differences from the previous entry.
func (d *decoder) decodeEncodedFields(count uint32) ([]*Field, error) {
	fields := make([]*Field, 0, count)
	var idx uint32
	for i := uint32(0); i < count; i++ {
		diff, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}
		idx += diff
		flags, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}

		f := &Field{Index: idx, AccessFlags: flags}
		if int(idx) < len(d.pools.Fields) {
			id := d.pools.Fields[idx]
			f.Name = d.pools.String(id.Name)
			f.Type = d.pools.Type(uint32(id.Type))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (d *decoder) decodeEncodedMethods(count uint32) ([]*Method, error) {
	methods := make([]*Method, 0, count)
	var idx uint32
	for i := uint32(0); i < count; i++ {
		diff, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}
		idx += diff
		flags, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}
		codeOff, err := d.c.ReadUleb128()
		if err != nil {
			return nil, err
		}

		m := &Method{Index: idx, AccessFlags: flags, Signature: "()V"}
		if int(idx) < len(d.pools.Methods) {
			id := d.pools.Methods[idx]
			m.Name = d.pools.String(id.Name)
			m.Class = d.pools.Type(uint32(id.Class))
			if int(id.Proto) < len(d.pools.Protos) {
				p := d.pools.Protos[id.Proto]
				m.Signature = p.Signature()
				m.Params = p.Params
			}
		}

		if codeOff != 0 && int(codeOff) < d.c.Len() {
			// The class data walk resumes after the code item parse.
			resume := d.c.Position()
			code, err := d.decodeCode(int(codeOff), m)
			if err != nil {
				d.diags.Addf(codeOff, dexfmt.DiagInvalid, "method %s%s: code: %v", m.Name, m.Signature, err)
			} else {
				m.Code = code
			}
			if err := d.c.Seek(resume); err != nil {
				return nil, err
			}
		}

		methods = append(methods, m)
	}
	return methods, nil
}

// decodeCode parses a code_item: 16-byte fixed header, insns_size code
// units, then tries/handlers which are ignored.
func (d *decoder) decodeCode(off int, m *Method) (*Code, error) {
	if err := d.c.Seek(off); err != nil {
		return nil, err
	}

	code := &Code{}
	var err error
	if code.RegistersSize, err = d.c.ReadUint16(); err != nil {
		return nil, err
	}
	if code.InsSize, err = d.c.ReadUint16(); err != nil {
		return nil, err
	}
	if code.OutsSize, err = d.c.ReadUint16(); err != nil {
		return nil, err
	}
	if code.TriesSize, err = d.c.ReadUint16(); err != nil {
		return nil, err
	}
	if code.DebugInfoOff, err = d.c.ReadUint32(); err != nil {
		return nil, err
	}
	if code.InsnsSize, err = d.c.ReadUint32(); err != nil {
		return nil, err
	}

	code.Units = make([]uint16, 0, code.InsnsSize)
	for i := uint32(0); i < code.InsnsSize; i++ {
		u, err := d.c.ReadUint16()
		if err != nil {
			return nil, err
		}
		code.Units = append(code.Units, u)
	}

	code.Instructions = dalvik.Decode(code.Units, d.pools)

	if code.DebugInfoOff != 0 {
		items, err := d.decodeDebugInfo(int(code.DebugInfoOff), m, code)
		if err != nil {
			d.diags.Addf(code.DebugInfoOff, dexfmt.DiagInvalid, "method %s%s: debug info: %v", m.Name, m.Signature, err)
		} else {
			code.DebugItems = items
		}
	}

	return code, nil
}

func (d *decoder) decodeStaticValues(off int, cls *Class) error {
	if err := d.c.Seek(off); err != nil {
		return err
	}
	size, err := d.c.ReadUleb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < size && int(i) < len(cls.StaticFields); i++ {
		v, err := d.readEncodedValue()
		if err != nil {
			return err
		}
		if cls.StaticFields[i].AccessFlags&AccStatic != 0 {
			cls.StaticFields[i].InitialValue = v
		}
	}
	return nil
}
