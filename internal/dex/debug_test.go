package dex

import (
	"testing"

	"baksmali/internal/dexfmt"
)

func runDebug(t *testing.T, stream []byte, m *Method, code *Code) []DebugItem {
	t.Helper()
	d := &decoder{
		c:     dexfmt.NewCursor(stream),
		pools: &Pools{Strings: []string{"x", "LocalSig"}, Types: []string{"I", "Ljava/lang/String;"}},
		diags: &dexfmt.Diags{},
	}
	items, err := d.decodeDebugInfo(0, m, code)
	if err != nil {
		t.Fatalf("decodeDebugInfo: %v", err)
	}
	return items
}

func TestDebugSpecialOpcodes(t *testing.T) {
	// line_start=5, no parameters, then:
	//   0x07  prologue end
	//   0x0a  special: line += -4, addr += 0  -> line 1
	//   0x1f  special: adjusted 21, line += 21%15-4 = 2, addr += 1 -> line 3 @ 1
	//   0x00  end
	stream := []byte{0x05, 0x00, 0x07, 0x0a, 0x1f, 0x00}
	m := &Method{AccessFlags: AccStatic}
	code := &Code{RegistersSize: 1}

	items := runDebug(t, stream, m, code)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}

	if items[0].Kind != DebugPrologueEnd || items[0].Address != 0 {
		t.Errorf("item 0 = %+v, want prologue end @0", items[0])
	}
	if items[1].Kind != DebugLineNumber || items[1].Line != 1 || items[1].Address != 0 {
		t.Errorf("item 1 = %+v, want line 1 @0", items[1])
	}
	if items[2].Kind != DebugLineNumber || items[2].Line != 3 || items[2].Address != 1 {
		t.Errorf("item 2 = %+v, want line 3 @1", items[2])
	}
}

func TestDebugAdvanceOpcodes(t *testing.T) {
	// line_start=1, then ADVANCE_PC 0x10, ADVANCE_LINE +9, special 0x0e
	// (adjusted 4: line += 0, addr += 0) -> line 10 @ 0x10.
	stream := []byte{0x01, 0x00, 0x01, 0x10, 0x02, 0x09, 0x0e, 0x00}
	m := &Method{AccessFlags: AccStatic}
	code := &Code{RegistersSize: 1}

	items := runDebug(t, stream, m, code)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Kind != DebugLineNumber || items[0].Line != 10 || items[0].Address != 0x10 {
		t.Errorf("item = %+v, want line 10 @0x10", items[0])
	}
}

func TestDebugStartEndLocal(t *testing.T) {
	// START_LOCAL v0 name=strings[0] type=types[0], then END_LOCAL v0 twice.
	// The first end carries the shadow, the second is bare.
	stream := []byte{
		0x01, 0x00, // line_start=1, params=0
		0x03, 0x00, 0x01, 0x01, // START_LOCAL reg0 name+1=1 type+1=1
		0x05, 0x00, // END_LOCAL reg0
		0x05, 0x00, // END_LOCAL reg0 again
		0x00,
	}
	m := &Method{AccessFlags: AccStatic}
	code := &Code{RegistersSize: 2}

	items := runDebug(t, stream, m, code)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	if items[0].Kind != DebugStartLocal || items[0].Name != "x" || items[0].Type != "I" {
		t.Errorf("start = %+v, want local x:I", items[0])
	}
	if items[1].Kind != DebugEndLocal || items[1].Name != "x" || items[1].Type != "I" {
		t.Errorf("first end = %+v, want shadow x:I", items[1])
	}
	if items[2].Kind != DebugEndLocal || items[2].Name != "" || items[2].Type != "" {
		t.Errorf("second end = %+v, want no shadow", items[2])
	}
}

func TestDebugRestartLocal(t *testing.T) {
	stream := []byte{
		0x01, 0x00,
		0x03, 0x01, 0x01, 0x02, // START_LOCAL reg1 name "x" type "Ljava/lang/String;"
		0x05, 0x01, // END_LOCAL reg1
		0x06, 0x01, // RESTART_LOCAL reg1
		0x00,
	}
	m := &Method{AccessFlags: AccStatic}
	code := &Code{RegistersSize: 2}

	items := runDebug(t, stream, m, code)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	restart := items[2]
	if restart.Kind != DebugRestartLocal || restart.Name != "x" || restart.Type != "Ljava/lang/String;" {
		t.Errorf("restart = %+v, want last-known x:Ljava/lang/String;", restart)
	}
}

func TestDebugParameterSeeding(t *testing.T) {
	// Non-static (I J)V with registers_size=5: window is v1..v4 with
	// this@v1, I@v2, J@v3..v4. Ending v2 must report the parameter shadow.
	stream := []byte{
		0x01, 0x02, // line_start=1, params=2
		0x01, 0x00, // names: "x", unnamed
		0x05, 0x02, // END_LOCAL reg2
		0x05, 0x01, // END_LOCAL reg1 (this)
		0x00,
	}
	m := &Method{
		AccessFlags: 0,
		Class:       "Lfoo/Bar;",
		Params:      []string{"I", "J"},
	}
	code := &Code{RegistersSize: 5, InsSize: 4}

	items := runDebug(t, stream, m, code)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Name != "x" || items[0].Type != "I" {
		t.Errorf("end v2 = %+v, want parameter x:I", items[0])
	}
	if items[1].Name != "this" || items[1].Type != "Lfoo/Bar;" {
		t.Errorf("end v1 = %+v, want this:Lfoo/Bar;", items[1])
	}
}

func TestDebugSetFile(t *testing.T) {
	stream := []byte{0x01, 0x00, 0x09, 0x02, 0x00}
	m := &Method{AccessFlags: AccStatic}
	code := &Code{RegistersSize: 1}

	items := runDebug(t, stream, m, code)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Kind != DebugSetSourceFile || items[0].SourceFile != "LocalSig" {
		t.Errorf("item = %+v, want set source file LocalSig", items[0])
	}
}
