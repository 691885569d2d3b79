package vmwriter

import (
	"errors"
	"strings"
	"testing"
)

func TestEachOperationEmitsExactlyOneLine(t *testing.T) {
	var buf strings.Builder
	w := New(&buf)

	w.Push(Constant, 5)
	w.Pop(Local, 2)
	w.Arith(Add)
	w.Label("LOOP0")
	w.Goto("LOOP0")
	w.IfGoto("END0")
	w.Call("Math.multiply", 2)
	w.Function("Main.run", 3)
	w.Return()

	if err := w.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"push constant 5",
		"pop local 2",
		"add",
		"label LOOP0",
		"goto LOOP0",
		"if-goto END0",
		"call Math.multiply 2",
		"function Main.run 3",
		"return",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSegmentStrings(t *testing.T) {
	cases := map[Segment]string{
		Constant: "constant",
		Argument: "argument",
		Local:    "local",
		Static:   "static",
		This:     "this",
		That:     "that",
		Pointer:  "pointer",
		Temp:     "temp",
	}
	for seg, want := range cases {
		if got := seg.String(); got != want {
			t.Errorf("Segment(%d).String() = %q, want %q", seg, got, want)
		}
	}
}

func TestArithOpStrings(t *testing.T) {
	cases := map[ArithOp]string{
		Add: "add", Sub: "sub", Neg: "neg", Eq: "eq", Gt: "gt",
		Lt: "lt", And: "and", Or: "or", Not: "not",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("ArithOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestErrStickyAfterFirstFailure(t *testing.T) {
	w := New(failingWriter{})
	w.Push(Constant, 1)
	if w.Err() == nil {
		t.Fatal("expected an error after writing to a failing sink")
	}

	// Subsequent calls must not panic and must leave the original error in
	// place instead of overwriting it.
	firstErr := w.Err()
	w.Pop(Local, 0)
	w.Return()
	if w.Err() != firstErr {
		t.Fatalf("Err() changed after first failure: got %v, want %v", w.Err(), firstErr)
	}
}
