// Package smali renders decoded DEX classes as smali text.
package smali

import (
	"fmt"
	"strings"

	"baksmali/internal/dex"
)

// Options controls emission.
type Options struct {
	// DebugInfo interleaves debug items (.line, .local, ...) with the
	// bytecode when present.
	DebugInfo bool
	// MaxLine clamps pathological line numbers: values above it emit
	// line%1000+1 instead. 0 disables the clamp.
	MaxLine uint32
}

// DefaultOptions matches the established disassembler output.
func DefaultOptions() Options {
	return Options{DebugInfo: true, MaxLine: 10000}
}

// Result is one rendered class: a '/'-separated relative path and the
// smali text for it.
type Result struct {
	Path string
	Text string
}

// WriteImage renders every class of an image, resolving filename
// collisions with a fresh PathMapper. Callers that want per-class
// parallelism use WriteClass and share a PathMapper instead.
func WriteImage(img *dex.Image, opts Options) []Result {
	mapper := NewPathMapper()
	results := make([]Result, 0, len(img.Classes))
	for _, cls := range img.Classes {
		results = append(results, Result{
			Path: mapper.Path(cls.Name),
			Text: WriteClass(cls, opts),
		})
	}
	return results
}

// WriteClass renders one class as a complete smali file. Emission is
// deterministic and read-only over the class model.
func WriteClass(cls *dex.Class, opts Options) string {
	var b strings.Builder

	b.WriteString(".class ")
	b.WriteString(dex.FormatAccessFlags(cls.AccessFlags, dex.FlagClass))
	b.WriteString(cls.Name)
	b.WriteByte('\n')

	if cls.Super != "" {
		b.WriteString(".super ")
		b.WriteString(cls.Super)
		b.WriteByte('\n')
	}
	if cls.SourceFile != "" {
		fmt.Fprintf(&b, ".source \"%s\"\n", cls.SourceFile)
	}

	if len(cls.Interfaces) > 0 {
		b.WriteString("\n\n# interfaces\n")
		for _, iface := range cls.Interfaces {
			b.WriteString(".implements ")
			b.WriteString(iface)
			b.WriteByte('\n')
		}
	}

	if len(cls.Annotations) > 0 {
		b.WriteString("\n\n# annotations\n")
		for _, ann := range cls.Annotations {
			writeAnnotation(&b, ann, "")
		}
	}

	if len(cls.StaticFields) > 0 {
		b.WriteString("\n\n# static fields\n")
		for _, f := range cls.StaticFields {
			writeField(&b, f)
		}
	}
	if len(cls.InstanceFields) > 0 {
		b.WriteString("\n\n# instance fields\n")
		for _, f := range cls.InstanceFields {
			writeField(&b, f)
		}
	}
	if len(cls.DirectMethods) > 0 {
		b.WriteString("\n\n# direct methods\n")
		for _, m := range cls.DirectMethods {
			writeMethod(&b, m, opts)
		}
	}
	if len(cls.VirtualMethods) > 0 {
		b.WriteString("\n\n# virtual methods\n")
		for _, m := range cls.VirtualMethods {
			writeMethod(&b, m, opts)
		}
	}

	return b.String()
}

// writeAnnotation emits one annotation block at the given indent; element
// lines go one level deeper.
func writeAnnotation(b *strings.Builder, ann dex.Annotation, indent string) {
	fmt.Fprintf(b, "%s.annotation %s %s\n", indent, ann.VisibilityString(), ann.Type)
	for _, el := range ann.Elements {
		fmt.Fprintf(b, "%s    %s = %s\n", indent, el.Name, el.Value)
	}
	fmt.Fprintf(b, "%s.end annotation\n", indent)
}

func writeField(b *strings.Builder, f *dex.Field) {
	b.WriteString(".field ")
	b.WriteString(dex.FormatAccessFlags(f.AccessFlags, dex.FlagField))
	b.WriteString(f.Name)
	b.WriteByte(':')
	b.WriteString(f.Type)
	if f.InitialValue != "" {
		b.WriteString(" = ")
		b.WriteString(f.InitialValue)
	}
	b.WriteByte('\n')

	for _, ann := range f.Annotations {
		writeAnnotation(b, ann, "    ")
	}
	b.WriteByte('\n')
}

func writeMethod(b *strings.Builder, m *dex.Method, opts Options) {
	b.WriteString(".method ")
	b.WriteString(dex.FormatAccessFlags(m.AccessFlags, dex.FlagMethod))
	b.WriteString(m.Name)
	b.WriteString(m.Signature)
	b.WriteByte('\n')

	for _, ann := range m.Annotations {
		writeAnnotation(b, ann, "    ")
	}

	if m.Code != nil {
		writeMethodBody(b, m, opts)
	}

	b.WriteString(".end method\n\n")
}

func writeMethodBody(b *strings.Builder, m *dex.Method, opts Options) {
	code := m.Code
	fmt.Fprintf(b, "    .registers %d\n", code.RegistersSize)
	b.WriteByte('\n')

	for _, item := range methodBody(m, opts) {
		b.WriteString(item.text)
		b.WriteByte('\n')
	}
}
