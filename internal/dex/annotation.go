// Annotation directory, set and item decoding.
package dex

// Annotation visibility values.
const (
	VisibilityBuild   = 0x00
	VisibilityRuntime = 0x01
	VisibilitySystem  = 0x02
)

// Annotation is one decoded annotation with rendered element values.
type Annotation struct {
	Type       string
	Visibility uint8
	Elements   []AnnotationElement
}

// AnnotationElement is a (name, rendered value) pair.
type AnnotationElement struct {
	Name  string
	Value string
}

// VisibilityString returns the smali keyword for the visibility byte.
func (a Annotation) VisibilityString() string {
	switch a.Visibility {
	case VisibilityBuild:
		return "build"
	case VisibilitySystem:
		return "system"
	default:
		return "runtime"
	}
}

// decodeAnnotationsDirectory walks an annotations_directory_item and
// attaches annotation sets to the class and its fields and methods by pool
// index. Entries whose owner was not decoded are dropped.
func (d *decoder) decodeAnnotationsDirectory(off int, cls *Class) error {
	if err := d.c.Seek(off); err != nil {
		return err
	}

	classOff, err := d.c.ReadUint32()
	if err != nil {
		return err
	}
	fieldsSize, err := d.c.ReadUint32()
	if err != nil {
		return err
	}
	methodsSize, err := d.c.ReadUint32()
	if err != nil {
		return err
	}
	paramsSize, err := d.c.ReadUint32()
	if err != nil {
		return err
	}

	type entry struct{ idx, off uint32 }
	readEntries := func(n uint32) ([]entry, error) {
		out := make([]entry, 0, n)
		for i := uint32(0); i < n; i++ {
			idx, err := d.c.ReadUint32()
			if err != nil {
				return nil, err
			}
			o, err := d.c.ReadUint32()
			if err != nil {
				return nil, err
			}
			out = append(out, entry{idx, o})
		}
		return out, nil
	}

	fieldEntries, err := readEntries(fieldsSize)
	if err != nil {
		return err
	}
	methodEntries, err := readEntries(methodsSize)
	if err != nil {
		return err
	}
	paramEntries, err := readEntries(paramsSize)
	if err != nil {
		return err
	}

	if classOff != 0 {
		anns, err := d.decodeAnnotationSet(int(classOff))
		if err != nil {
			return err
		}
		cls.Annotations = anns
	}

	for _, e := range fieldEntries {
		f := findField(cls, e.idx)
		if f == nil {
			continue
		}
		anns, err := d.decodeAnnotationSet(int(e.off))
		if err != nil {
			return err
		}
		f.Annotations = anns
	}

	for _, e := range methodEntries {
		m := findMethod(cls, e.idx)
		if m == nil {
			continue
		}
		anns, err := d.decodeAnnotationSet(int(e.off))
		if err != nil {
			return err
		}
		m.Annotations = anns
	}

	// Parameter annotation sets are decoded but not rendered; a reference to
	// a method missing from the decoded lists is dropped silently.
	for _, e := range paramEntries {
		m := findMethod(cls, e.idx)
		if m == nil {
			continue
		}
		if _, err := d.decodeAnnotationSetRefList(int(e.off)); err != nil {
			return err
		}
	}

	return nil
}

func findField(cls *Class, idx uint32) *Field {
	for _, f := range cls.StaticFields {
		if f.Index == idx {
			return f
		}
	}
	for _, f := range cls.InstanceFields {
		if f.Index == idx {
			return f
		}
	}
	return nil
}

func findMethod(cls *Class, idx uint32) *Method {
	for _, m := range cls.DirectMethods {
		if m.Index == idx {
			return m
		}
	}
	for _, m := range cls.VirtualMethods {
		if m.Index == idx {
			return m
		}
	}
	return nil
}

// decodeAnnotationSet reads an annotation_set_item: a count followed by
// offsets to annotation items.
func (d *decoder) decodeAnnotationSet(off int) ([]Annotation, error) {
	if err := d.c.Seek(off); err != nil {
		return nil, err
	}
	size, err := d.c.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets := make([]uint32, 0, size)
	for i := uint32(0); i < size; i++ {
		o, err := d.c.ReadUint32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}

	anns := make([]Annotation, 0, size)
	for _, o := range offsets {
		if err := d.c.Seek(int(o)); err != nil {
			return nil, err
		}
		vis, err := d.c.ReadUint8()
		if err != nil {
			return nil, err
		}
		ann, err := d.readEncodedAnnotation()
		if err != nil {
			return nil, err
		}
		ann.Visibility = vis
		anns = append(anns, ann)
	}
	return anns, nil
}

func (d *decoder) decodeAnnotationSetRefList(off int) ([][]Annotation, error) {
	if err := d.c.Seek(off); err != nil {
		return nil, err
	}
	size, err := d.c.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets := make([]uint32, 0, size)
	for i := uint32(0); i < size; i++ {
		o, err := d.c.ReadUint32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}

	sets := make([][]Annotation, 0, size)
	for _, o := range offsets {
		if o == 0 {
			sets = append(sets, nil)
			continue
		}
		anns, err := d.decodeAnnotationSet(int(o))
		if err != nil {
			return nil, err
		}
		sets = append(sets, anns)
	}
	return sets, nil
}

// readEncodedAnnotation reads an encoded_annotation at the cursor:
// type index, element count, then (name index, encoded value) pairs.
func (d *decoder) readEncodedAnnotation() (Annotation, error) {
	var ann Annotation

	typeIdx, err := d.c.ReadUleb128()
	if err != nil {
		return ann, err
	}
	ann.Type = d.pools.Type(typeIdx)

	size, err := d.c.ReadUleb128()
	if err != nil {
		return ann, err
	}
	for i := uint32(0); i < size; i++ {
		nameIdx, err := d.c.ReadUleb128()
		if err != nil {
			return ann, err
		}
		value, err := d.readEncodedValue()
		if err != nil {
			return ann, err
		}
		ann.Elements = append(ann.Elements, AnnotationElement{
			Name:  d.pools.String(nameIdx),
			Value: value,
		})
	}

	return ann, nil
}
