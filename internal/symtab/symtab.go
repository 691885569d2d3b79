// Package symtab implements the two-level, scope-aware identifier table:
// a persistent class scope and a subroutine scope that is discarded and
// recreated on every subroutine entry. It is grounded on the class/function
// scope split of the original Jack compiler's symbol table, reshaped around
// explicit per-kind counters so that index assignment doesn't require
// rescanning the scope on every Define.
package symtab

import "fmt"

// Kind is the closed set of identifier kinds. None is the sentinel result
// of a failed lookup; it is never a valid argument to Define.
type Kind int

const (
	None Kind = iota
	Static
	Field
	Argument
	Local
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Local:
		return "local"
	default:
		return "none"
	}
}

// Entry is everything known about a defined identifier.
type Entry struct {
	Type  string
	Kind  Kind
	Index uint16
}

type scope struct {
	entries map[string]Entry
	counts  [Local + 1]uint16
}

func newScope() scope {
	return scope{entries: make(map[string]Entry)}
}

// Table is the compiler's two-level symbol table: one scope per class,
// kept for the whole class; one scope per subroutine, replaced in full on
// every subroutine entry.
type Table struct {
	class      scope
	subroutine scope
}

// New returns an empty table, ready for class-scope definitions.
func New() *Table {
	return &Table{class: newScope(), subroutine: newScope()}
}

// StartClass discards any existing class scope, preparing the table for a
// new class translation.
func (t *Table) StartClass() {
	t.class = newScope()
}

// StartSubroutine discards the subroutine scope and resets its per-kind
// counters to zero.
func (t *Table) StartSubroutine() {
	t.subroutine = newScope()
}

// Define inserts name into the scope implied by kind (Static/Field go to
// class scope, Argument/Local to subroutine scope), assigning it the next
// dense index for that kind. It panics if kind is None: the caller is
// always expected to pass a real kind, by construction of the grammar.
func (t *Table) Define(name, varType string, kind Kind) Entry {
	if kind == None {
		panic("symtab: cannot define a symbol with kind None")
	}

	s := t.scopeFor(kind)
	index := s.counts[kind]
	s.counts[kind]++
	entry := Entry{Type: varType, Kind: kind, Index: index}
	s.entries[name] = entry
	return entry
}

func (t *Table) scopeFor(kind Kind) *scope {
	switch kind {
	case Static, Field:
		return &t.class
	case Argument, Local:
		return &t.subroutine
	default:
		panic(fmt.Sprintf("symtab: no scope for kind %v", kind))
	}
}

// VarCount returns the number of identifiers defined so far with the given
// kind. VarCount(None) is 0.
func (t *Table) VarCount(kind Kind) uint16 {
	if kind == None {
		return 0
	}
	return t.scopeFor(kind).counts[kind]
}

// lookup resolves name with subroutine-then-class precedence, reporting
// whether it was found at all.
func (t *Table) lookup(name string) (Entry, bool) {
	if e, ok := t.subroutine.entries[name]; ok {
		return e, true
	}
	if e, ok := t.class.entries[name]; ok {
		return e, true
	}
	return Entry{}, false
}

// KindOf resolves name's kind, or None if it is not defined in either
// scope.
func (t *Table) KindOf(name string) Kind {
	if e, ok := t.lookup(name); ok {
		return e.Kind
	}
	return None
}

// TypeOf returns name's declared type. Only call this when KindOf(name) !=
// None; behavior is undefined (and will panic) otherwise, per contract.
func (t *Table) TypeOf(name string) string {
	e, ok := t.lookup(name)
	if !ok {
		panic(fmt.Sprintf("symtab: TypeOf called on undefined symbol %q", name))
	}
	return e.Type
}

// IndexOf returns name's assigned index. Only call this when KindOf(name)
// != None; behavior is undefined (and will panic) otherwise, per contract.
func (t *Table) IndexOf(name string) uint16 {
	e, ok := t.lookup(name)
	if !ok {
		panic(fmt.Sprintf("symtab: IndexOf called on undefined symbol %q", name))
	}
	return e.Index
}
