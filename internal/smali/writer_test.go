package smali

import (
	"strings"
	"testing"

	"baksmali/internal/dalvik"
	"baksmali/internal/dex"
)

func TestWriteEmptyClass(t *testing.T) {
	cls := &dex.Class{
		Name:        "Lempty/C;",
		Super:       "Ljava/lang/Object;",
		AccessFlags: dex.AccPublic,
	}
	got := WriteClass(cls, DefaultOptions())

	wantPrefix := ".class public Lempty/C;\n.super Ljava/lang/Object;\n"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("output prefix = %q, want %q", got[:min(len(got), len(wantPrefix))], wantPrefix)
	}
	for _, section := range []string{"# static fields", "# instance fields", "# direct methods", "# virtual methods"} {
		if strings.Contains(got, section) {
			t.Errorf("empty class output contains %q", section)
		}
	}
}

func TestWriteClassHeaderOrder(t *testing.T) {
	cls := &dex.Class{
		Name:        "Lfoo/I;",
		Super:       "Ljava/lang/Object;",
		SourceFile:  "I.java",
		AccessFlags: dex.AccPublic | dex.AccInterface | dex.AccAbstract,
		Interfaces:  []string{"Ljava/lang/Runnable;"},
	}
	got := WriteClass(cls, DefaultOptions())

	want := ".class public interface abstract Lfoo/I;\n" +
		".super Ljava/lang/Object;\n" +
		".source \"I.java\"\n" +
		"\n\n# interfaces\n" +
		".implements Ljava/lang/Runnable;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteFieldWithInitialValue(t *testing.T) {
	cls := &dex.Class{
		Name:        "La/B;",
		Super:       "Ljava/lang/Object;",
		AccessFlags: dex.AccPublic,
		StaticFields: []*dex.Field{{
			AccessFlags:  dex.AccPublic | dex.AccStatic | dex.AccFinal,
			Name:         "MAX",
			Type:         "I",
			InitialValue: "0x10",
		}},
		InstanceFields: []*dex.Field{{
			AccessFlags: dex.AccPrivate,
			Name:        "count",
			Type:        "J",
		}},
	}
	got := WriteClass(cls, DefaultOptions())

	if !strings.Contains(got, "\n\n# static fields\n.field public static final MAX:I = 0x10\n") {
		t.Errorf("static field block missing:\n%s", got)
	}
	if !strings.Contains(got, "\n\n# instance fields\n.field private count:J\n") {
		t.Errorf("instance field block missing:\n%s", got)
	}
}

func TestWriteAnnotations(t *testing.T) {
	cls := &dex.Class{
		Name:        "La/B;",
		Super:       "Ljava/lang/Object;",
		AccessFlags: dex.AccPublic,
		Annotations: []dex.Annotation{{
			Type:       "Ldalvik/annotation/MemberClasses;",
			Visibility: dex.VisibilitySystem,
			Elements:   []dex.AnnotationElement{{Name: "value", Value: "{\n        La/B$1;\n    }"}},
		}},
	}
	got := WriteClass(cls, DefaultOptions())

	want := "\n\n# annotations\n" +
		".annotation system Ldalvik/annotation/MemberClasses;\n" +
		"    value = {\n        La/B$1;\n    }\n" +
		".end annotation\n"
	if !strings.Contains(got, want) {
		t.Errorf("annotation block missing from:\n%s", got)
	}
}

func TestWriteMethodBodyParameterRegisters(t *testing.T) {
	// (I)V on a non-static class: registers=3 ins=2, move v0, v2 -> p1.
	code := &dex.Code{
		RegistersSize: 3,
		InsSize:       2,
		Instructions: []dalvik.Instruction{
			{Address: 0, Width: 1, Text: "move v0, v2"},
			{Address: 1, Width: 1, Text: "return-void"},
		},
	}
	cls := &dex.Class{
		Name:        "La/B;",
		Super:       "Ljava/lang/Object;",
		AccessFlags: dex.AccPublic,
		VirtualMethods: []*dex.Method{{
			AccessFlags: dex.AccPublic,
			Name:        "set",
			Signature:   "(I)V",
			Code:        code,
		}},
	}
	got := WriteClass(cls, DefaultOptions())

	want := "\n\n# virtual methods\n" +
		".method public set(I)V\n" +
		"    .registers 3\n" +
		"\n" +
		"    move v0, p1\n" +
		"\n" +
		"    return-void\n" +
		".end method\n\n"
	if !strings.Contains(got, want) {
		t.Errorf("method body mismatch, got:\n%s", got)
	}
}

func TestMethodBodyMergeOrder(t *testing.T) {
	code := &dex.Code{
		RegistersSize: 1,
		Instructions: []dalvik.Instruction{
			{Address: 0, Width: 3, Text: "const-string v0, \"a\""},
			{Address: 3, Width: 1, Text: "return-void"},
		},
		DebugItems: []dex.DebugItem{
			{Address: 3, Kind: dex.DebugLineNumber, Register: -1, Line: 12},
			{Address: 0, Kind: dex.DebugPrologueEnd, Register: -1},
			{Address: 0, Kind: dex.DebugLineNumber, Register: -1, Line: 10},
		},
	}
	m := &dex.Method{Name: "f", Signature: "()V", Code: code}

	items := methodBody(m, DefaultOptions())
	var texts []string
	for _, it := range items {
		texts = append(texts, it.text)
	}
	want := []string{
		"    .prologue",
		"    .line 10",
		"    const-string v0, \"a\"",
		"",
		"    .line 12",
		"    return-void",
	}
	if len(texts) != len(want) {
		t.Fatalf("got %d items %q, want %d", len(texts), texts, len(want))
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestMethodBodyEndLocalTiebreak(t *testing.T) {
	code := &dex.Code{
		RegistersSize: 4,
		Instructions: []dalvik.Instruction{
			{Address: 0, Width: 1, Text: "return-void"},
		},
		DebugItems: []dex.DebugItem{
			{Address: 0, Kind: dex.DebugEndLocal, Register: 2},
			{Address: 0, Kind: dex.DebugEndLocal, Register: 0},
		},
	}
	m := &dex.Method{Name: "f", Signature: "()V", Code: code}

	items := methodBody(m, DefaultOptions())
	if items[0].text != "    .end local v0" || items[1].text != "    .end local v2" {
		t.Errorf("end locals not in ascending register order: %q, %q", items[0].text, items[1].text)
	}
}

func TestLineNumberClamp(t *testing.T) {
	di := dex.DebugItem{Kind: dex.DebugLineNumber, Register: -1, Line: 123456}
	code := &dex.Code{RegistersSize: 1}
	item := debugBodyItem(di, code, DefaultOptions())
	if item.text != "    .line 457" {
		t.Errorf("clamped line = %q, want .line 457", item.text)
	}

	item = debugBodyItem(di, code, Options{DebugInfo: true})
	if item.text != "    .line 123456" {
		t.Errorf("unclamped line = %q", item.text)
	}
}

func TestEndLocalComment(t *testing.T) {
	code := &dex.Code{RegistersSize: 2}
	withShadow := debugBodyItem(dex.DebugItem{
		Kind: dex.DebugEndLocal, Register: 1, Name: "x", Type: "I",
	}, code, DefaultOptions())
	if withShadow.text != "    .end local v1    # \"x\":I" {
		t.Errorf("end local with shadow = %q", withShadow.text)
	}

	bare := debugBodyItem(dex.DebugItem{Kind: dex.DebugEndLocal, Register: 1}, code, DefaultOptions())
	if bare.text != "    .end local v1" {
		t.Errorf("bare end local = %q", bare.text)
	}

	unnamed := debugBodyItem(dex.DebugItem{
		Kind: dex.DebugStartLocal, Register: 0, Type: "I",
	}, code, DefaultOptions())
	if unnamed.text != "    .local v0, null:I" {
		t.Errorf("unnamed local = %q", unnamed.text)
	}
}

func TestWriteImage(t *testing.T) {
	img := &dex.Image{Classes: []*dex.Class{
		{Name: "La/B;", Super: "Ljava/lang/Object;", AccessFlags: dex.AccPublic},
		{Name: "La/b;", Super: "Ljava/lang/Object;", AccessFlags: dex.AccPublic},
	}}
	results := WriteImage(img, DefaultOptions())

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Path != "a/B.smali" || results[1].Path != "a/b.1.smali" {
		t.Errorf("paths = %q, %q", results[0].Path, results[1].Path)
	}
	if !strings.HasPrefix(results[1].Text, ".class public La/b;\n") {
		t.Errorf("second class text = %q", results[1].Text)
	}
}

func TestRemapRegisters(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		regs, ins uint16
		want      string
	}{
		{"simple", "move v0, v2", 3, 2, "move v0, p1"},
		{"no params", "move v0, v2", 3, 0, "move v0, v2"},
		{"v10 vs v1", "move/from16 v1, v10", 11, 2, "move/from16 v1, p1"},
		{"label untouched", "if-eqz v1, :cond_18", 2, 1, "if-eqz p0, :cond_18"},
		{"inside braces", "invoke-virtual {v1, v2}, La;->m(I)V", 3, 2, "invoke-virtual {p0, p1}, La;->m(I)V"},
	}
	for _, tt := range tests {
		if got := RemapRegisters(tt.in, tt.regs, tt.ins); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
