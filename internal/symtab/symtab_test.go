package symtab

import "testing"

func TestDefineAssignsDenseIndicesPerKind(t *testing.T) {
	tab := New()
	tab.StartClass()
	a := tab.Define("x", "int", Field)
	b := tab.Define("y", "int", Field)
	c := tab.Define("count", "int", Static)

	if a.Index != 0 || b.Index != 1 {
		t.Errorf("field indices = %d, %d, want 0, 1", a.Index, b.Index)
	}
	if c.Index != 0 {
		t.Errorf("static index = %d, want 0", c.Index)
	}
	if tab.VarCount(Field) != 2 {
		t.Errorf("VarCount(Field) = %d, want 2", tab.VarCount(Field))
	}
	if tab.VarCount(Static) != 1 {
		t.Errorf("VarCount(Static) = %d, want 1", tab.VarCount(Static))
	}
}

func TestStartSubroutineResetsArgumentAndLocalCounters(t *testing.T) {
	tab := New()
	tab.StartClass()
	tab.Define("f", "int", Field)

	tab.StartSubroutine()
	tab.Define("this", "Foo", Argument)
	tab.Define("n", "int", Argument)
	tab.Define("tmp", "int", Local)

	if tab.VarCount(Argument) != 2 {
		t.Fatalf("VarCount(Argument) = %d, want 2", tab.VarCount(Argument))
	}
	if tab.VarCount(Local) != 1 {
		t.Fatalf("VarCount(Local) = %d, want 1", tab.VarCount(Local))
	}

	tab.StartSubroutine()
	if tab.VarCount(Argument) != 0 || tab.VarCount(Local) != 0 {
		t.Fatalf("expected subroutine scope to reset, got argument=%d local=%d",
			tab.VarCount(Argument), tab.VarCount(Local))
	}
	// Class scope survives the reset.
	if tab.VarCount(Field) != 1 {
		t.Fatalf("VarCount(Field) = %d, want 1 (class scope should persist)", tab.VarCount(Field))
	}
	if tab.KindOf("f") != Field {
		t.Fatalf("KindOf(f) = %v, want Field", tab.KindOf("f"))
	}
}

func TestSubroutineScopeShadowsClassScope(t *testing.T) {
	tab := New()
	tab.StartClass()
	tab.Define("x", "int", Field)

	tab.StartSubroutine()
	tab.Define("x", "boolean", Local)

	if kind := tab.KindOf("x"); kind != Local {
		t.Fatalf("KindOf(x) = %v, want Local (subroutine scope should shadow class scope)", kind)
	}
	if typ := tab.TypeOf("x"); typ != "boolean" {
		t.Fatalf("TypeOf(x) = %q, want %q", typ, "boolean")
	}
}

func TestKindOfUndefinedIsNone(t *testing.T) {
	tab := New()
	tab.StartClass()
	if kind := tab.KindOf("nope"); kind != None {
		t.Fatalf("KindOf(nope) = %v, want None", kind)
	}
	if tab.VarCount(None) != 0 {
		t.Fatalf("VarCount(None) = %d, want 0", tab.VarCount(None))
	}
}

func TestStartClassDiscardsPriorClassScope(t *testing.T) {
	tab := New()
	tab.StartClass()
	tab.Define("s", "int", Static)

	tab.StartClass()
	if kind := tab.KindOf("s"); kind != None {
		t.Fatalf("KindOf(s) after StartClass = %v, want None", kind)
	}
}

func TestDefinePanicsOnNoneKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Define(kind=None) to panic")
		}
	}()
	tab := New()
	tab.StartClass()
	tab.Define("x", "int", None)
}

func TestIndexOfAndTypeOfMatchDefine(t *testing.T) {
	tab := New()
	tab.StartClass()
	tab.StartSubroutine()
	tab.Define("a", "int", Argument)
	tab.Define("b", "Array", Argument)

	if idx := tab.IndexOf("b"); idx != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", idx)
	}
	if typ := tab.TypeOf("b"); typ != "Array" {
		t.Errorf("TypeOf(b) = %q, want %q", typ, "Array")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Static:   "static",
		Field:    "field",
		Argument: "argument",
		Local:    "local",
		None:     "none",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
