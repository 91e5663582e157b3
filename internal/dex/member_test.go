package dex

import "testing"

func TestSynthesizeMemberClasses(t *testing.T) {
	classes := []*Class{
		{Name: "Lpkg/A;"},
		{Name: "Lpkg/A$Inner;"},
		{Name: "Lpkg/A$2;"},
		{Name: "Lpkg/A$1;"},
		{Name: "Lpkg/B;"},
	}
	synthesizeMemberClasses(classes)

	outer := classes[0]
	if len(outer.Annotations) != 1 {
		t.Fatalf("Lpkg/A; has %d annotations, want 1", len(outer.Annotations))
	}
	ann := outer.Annotations[0]
	if ann.Type != "Ldalvik/annotation/MemberClasses;" {
		t.Errorf("annotation type = %q", ann.Type)
	}
	if len(ann.Elements) != 1 || ann.Elements[0].Name != "value" {
		t.Fatalf("elements = %+v", ann.Elements)
	}
	want := "{\n        Lpkg/A$1;,\n        Lpkg/A$2;,\n        Lpkg/A$Inner;\n    }"
	if ann.Elements[0].Value != want {
		t.Errorf("value = %q, want %q", ann.Elements[0].Value, want)
	}

	if len(classes[4].Annotations) != 0 {
		t.Errorf("Lpkg/B; should have no member classes")
	}
	// Inner classes do not list themselves.
	for _, inner := range classes[1:4] {
		if len(inner.Annotations) != 0 {
			t.Errorf("%s should have no member classes annotation", inner.Name)
		}
	}
}

func TestMemberSuffixOrdering(t *testing.T) {
	// Numeric ascending, then alphabetic, then mixed.
	tests := []struct {
		a, b string
		want bool
	}{
		{"La/X$2;", "La/X$10;", true},
		{"La/X$10;", "La/X$2;", false},
		{"La/X$9;", "La/X$Inner;", true},
		{"La/X$Inner;", "La/X$9;", false},
		{"La/X$Alpha;", "La/X$Beta;", true},
		{"La/X$Zeta;", "La/X$A1;", true},
		{"La/X$A1;", "La/X$Zeta;", false},
	}
	for _, tt := range tests {
		if got := memberLess(tt.a, tt.b); got != tt.want {
			t.Errorf("memberLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
