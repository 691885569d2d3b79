// Package translator implements the recursive-descent grammar recognizer
// fused with code generation: it drives symtab definitions and vmwriter
// emissions as it consumes tokens from a lexer, with no intermediate parse
// tree. It is grounded on the original Jack compiler's single-pass
// parser/generator, reshaped around explicit error returns at the API
// boundary (internally it still fails fast via panic/recover, in the
// teacher's own style, since the grammar assumes well-formed input and
// there is no error recovery to speak of).
package translator

import (
	"fmt"

	"github.com/libklein/jack2vm/internal/diagnostics"
	"github.com/libklein/jack2vm/internal/lexer"
	"github.com/libklein/jack2vm/internal/symtab"
	"github.com/libklein/jack2vm/internal/token"
	"github.com/libklein/jack2vm/internal/vmwriter"
)

type subroutineKind int

const (
	scFunction subroutineKind = iota
	scConstructor
	scMethod
)

func parseSubroutineKind(lexeme string) subroutineKind {
	switch lexeme {
	case "constructor":
		return scConstructor
	case "method":
		return scMethod
	default:
		return scFunction
	}
}

// Translator holds everything needed to translate a single class file: the
// token cursor, the symbol table scoped to that class, the VM instruction
// sink, and the label-generation counters that reset per subroutine.
type Translator struct {
	lex     *lexer.Lexer
	symbols *symtab.Table
	writer  *vmwriter.Writer

	file   string
	source string

	className string

	ifCounter    uint64
	whileCounter uint64
}

// New builds a Translator over lex, emitting to writer. file and source are
// used only for diagnostic rendering on structural failure.
func New(lex *lexer.Lexer, writer *vmwriter.Writer, file, source string) *Translator {
	return &Translator{
		lex:     lex,
		symbols: symtab.New(),
		writer:  writer,
		file:    file,
		source:  source,
	}
}

// Translate compiles the single class held by the lexer, emitting VM
// instructions through the writer. It recovers internal structural panics
// into a returned error; I/O failures from the writer are surfaced the
// same way.
func (t *Translator) Translate() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()

	t.compileClass()

	if werr := t.writer.Err(); werr != nil {
		return werr
	}
	return nil
}

func (t *Translator) cur() token.Token { return t.lex.Token() }

func tokenText(tok token.Token) string {
	switch tok.Kind {
	case token.Invalid:
		return "<end of input>"
	case token.StringConst:
		return fmt.Sprintf("%q", tok.Lexeme)
	default:
		return tok.Lexeme
	}
}

func (t *Translator) fail(format string, args ...any) {
	panic(diagnostics.NewStructuralError(t.file, t.source, t.cur().Pos, format, args...))
}

// advance moves the lexer forward by one token, failing structurally if
// input is exhausted (the grammar never legitimately needs to advance past
// the last token of a well-formed file).
func (t *Translator) advance() {
	if !t.lex.Advance() {
		if err := t.lex.Err(); err != nil {
			panic(err)
		}
		t.fail("unexpected end of input")
	}
}

// expect verifies that the current token matches each lexeme in turn,
// advancing past each one. It fails structurally on the first mismatch.
func (t *Translator) expect(lexemes ...string) {
	for _, lx := range lexemes {
		if !t.cur().Is(lx) {
			t.fail("expected %q, got %s", lx, tokenText(t.cur()))
		}
		t.advance()
	}
}

func (t *Translator) expectType() string {
	tok := t.cur()
	if tok.IsAnyOf("int", "char", "boolean") {
		t.advance()
		return tok.Lexeme
	}
	if tok.Kind == token.Identifier {
		t.advance()
		return tok.Lexeme
	}
	t.fail("expected type, got %s", tokenText(tok))
	return ""
}

func (t *Translator) expectIdentifier() string {
	tok := t.cur()
	if tok.Kind != token.Identifier {
		t.fail("expected identifier, got %s", tokenText(tok))
	}
	t.advance()
	return tok.Lexeme
}

// variableAccess resolves an already-defined identifier to the VM segment
// and index that store it. Callers must already know name is defined.
func (t *Translator) variableAccess(name string) (vmwriter.Segment, uint16) {
	kind := t.symbols.KindOf(name)
	idx := t.symbols.IndexOf(name)
	switch kind {
	case symtab.Static:
		return vmwriter.Static, idx
	case symtab.Field:
		return vmwriter.This, idx
	case symtab.Argument:
		return vmwriter.Argument, idx
	case symtab.Local:
		return vmwriter.Local, idx
	default:
		t.fail("internal: unresolved symbol %q", name)
		panic("unreachable")
	}
}

// --- class ---

func (t *Translator) compileClass() {
	t.expect("class")
	t.symbols.StartClass()

	t.className = t.expectIdentifier()

	t.expect("{")
	for t.cur().IsAnyOf("static", "field") {
		t.compileClassVarDec()
	}
	for t.cur().IsAnyOf("constructor", "function", "method") {
		t.compileSubroutineDec()
	}
	// The closing brace is the last token of the file, so it is checked
	// but not advanced past.
	if !t.cur().Is("}") {
		t.fail("expected %q, got %s", "}", tokenText(t.cur()))
	}
}

func (t *Translator) compileClassVarDec() {
	kind := symtab.Field
	if t.cur().Is("static") {
		kind = symtab.Static
	}
	t.advance() // consume "static" or "field"
	t.compileVarSequence(kind)
}

// compileVarSequence parses "type name (, name)* ;" and defines each name
// in the scope implied by kind, returning how many were defined.
func (t *Translator) compileVarSequence(kind symtab.Kind) uint16 {
	varType := t.expectType()

	var count uint16
	for {
		name := t.expectIdentifier()
		t.symbols.Define(name, varType, kind)
		count++
		if t.cur().Is(",") {
			t.advance()
			continue
		}
		break
	}
	t.expect(";")
	return count
}

// --- subroutines ---

func (t *Translator) compileSubroutineDec() {
	kind := parseSubroutineKind(t.cur().Lexeme)

	t.symbols.StartSubroutine()
	t.ifCounter = 0
	t.whileCounter = 0

	t.advance() // consume constructor/function/method

	if t.cur().Is("void") {
		t.advance()
	} else {
		t.expectType()
	}

	name := t.expectIdentifier()

	t.expect("(")

	if kind == scMethod {
		t.symbols.Define("this", t.className, symtab.Argument)
	}

	if !t.cur().Is(")") {
		t.compileParameterList()
	}
	t.expect(")")

	t.compileSubroutineBody(name, kind)
}

func (t *Translator) compileParameterList() {
	for {
		varType := t.expectType()
		name := t.expectIdentifier()
		t.symbols.Define(name, varType, symtab.Argument)
		if t.cur().Is(",") {
			t.advance()
			continue
		}
		break
	}
}

func (t *Translator) compileSubroutineBody(name string, kind subroutineKind) {
	t.expect("{")

	var nLocals uint16
	for t.cur().Is("var") {
		t.advance()
		nLocals += t.compileVarSequence(symtab.Local)
	}

	t.writer.Function(t.className+"."+name, nLocals)

	switch kind {
	case scConstructor:
		nFields := t.symbols.VarCount(symtab.Field)
		t.writer.Push(vmwriter.Constant, nFields)
		t.writer.Call("Memory.alloc", 1)
		t.writer.Pop(vmwriter.Pointer, 0)
	case scMethod:
		t.writer.Push(vmwriter.Argument, 0)
		t.writer.Pop(vmwriter.Pointer, 0)
	}

	lastWasReturn := t.compileStatements()
	if !lastWasReturn {
		// The top-level statement list didn't end in a return (either it
		// had none, or it ended in a branch/loop/call whose own returns
		// are nested inside it) — emit the default void epilogue. Any
		// return already emitted inside a nested branch exits before
		// control ever reaches this, so it is dead but harmless code.
		t.writer.Push(vmwriter.Constant, 0)
		t.writer.Return()
	}

	t.expect("}")
}

// --- statements ---

// compileStatements compiles the (let|if|while|do|return)* sequence up to
// the next "}" and reports whether the last statement compiled was itself
// a return statement.
func (t *Translator) compileStatements() (lastWasReturn bool) {
	for !t.cur().Is("}") {
		switch {
		case t.cur().Is("let"):
			t.compileLet()
			lastWasReturn = false
		case t.cur().Is("if"):
			t.compileIf()
			lastWasReturn = false
		case t.cur().Is("while"):
			t.compileWhile()
			lastWasReturn = false
		case t.cur().Is("do"):
			t.compileDo()
			lastWasReturn = false
		case t.cur().Is("return"):
			t.compileReturn()
			lastWasReturn = true
		default:
			t.fail("unexpected token %s in statement", tokenText(t.cur()))
		}
	}
	return lastWasReturn
}

func (t *Translator) compileLet() {
	t.expect("let")
	name := t.expectIdentifier()

	if t.cur().Is("[") {
		t.advance()
		t.compileArrayAddress(name)
		t.expect("]")

		t.expect("=")
		t.compileExpression()
		t.expect(";")

		t.writer.Pop(vmwriter.Temp, 0)
		t.writer.Pop(vmwriter.Pointer, 1)
		t.writer.Push(vmwriter.Temp, 0)
		t.writer.Pop(vmwriter.That, 0)
		return
	}

	t.expect("=")
	t.compileExpression()
	t.expect(";")

	seg, idx := t.variableAccess(name)
	t.writer.Pop(seg, idx)
}

func (t *Translator) compileIf() {
	t.expect("if")

	suffix := t.ifCounter
	t.ifCounter++
	falseLabel := fmt.Sprintf("IF_FALSE%d", suffix)
	endLabel := fmt.Sprintf("END_IF%d", suffix)

	t.expect("(")
	t.compileExpression()
	t.expect(")")

	t.writer.Arith(vmwriter.Not)
	t.writer.IfGoto(falseLabel)

	t.expect("{")
	t.compileStatements()
	t.expect("}")

	hasElse := t.cur().Is("else")
	if hasElse {
		t.writer.Goto(endLabel)
	}
	t.writer.Label(falseLabel)

	if hasElse {
		t.advance() // consume "else"
		t.expect("{")
		t.compileStatements()
		t.expect("}")
		t.writer.Label(endLabel)
	}
}

func (t *Translator) compileWhile() {
	t.expect("while")

	suffix := t.whileCounter
	t.whileCounter++
	beginLabel := fmt.Sprintf("WHILE%d", suffix)
	endLabel := fmt.Sprintf("END_WHILE%d", suffix)

	t.writer.Label(beginLabel)

	t.expect("(")
	t.compileExpression()
	t.expect(")")

	t.writer.Arith(vmwriter.Not)
	t.writer.IfGoto(endLabel)

	t.expect("{")
	t.compileStatements()
	t.expect("}")

	t.writer.Goto(beginLabel)
	t.writer.Label(endLabel)
}

func (t *Translator) compileDo() {
	t.expect("do")
	name := t.expectIdentifier()
	t.compileSubroutineCall(name)
	t.writer.Pop(vmwriter.Temp, 0)
	t.expect(";")
}

func (t *Translator) compileReturn() {
	t.expect("return")
	if t.cur().Is(";") {
		t.writer.Push(vmwriter.Constant, 0)
	} else {
		t.compileExpression()
	}
	t.writer.Return()
	t.expect(";")
}

// --- expressions ---

func isBinaryOp(tok token.Token) bool {
	return tok.IsAnyOf("+", "-", "*", "/", "&", "|", "<", ">", "=")
}

func isUnaryOp(tok token.Token) bool {
	return tok.IsAnyOf("-", "~")
}

func (t *Translator) emitBinaryOp(tok token.Token) {
	switch tok.Lexeme {
	case "+":
		t.writer.Arith(vmwriter.Add)
	case "-":
		t.writer.Arith(vmwriter.Sub)
	case "=":
		t.writer.Arith(vmwriter.Eq)
	case "<":
		t.writer.Arith(vmwriter.Lt)
	case ">":
		t.writer.Arith(vmwriter.Gt)
	case "&":
		t.writer.Arith(vmwriter.And)
	case "|":
		t.writer.Arith(vmwriter.Or)
	case "*":
		t.writer.Call("Math.multiply", 2)
	case "/":
		t.writer.Call("Math.divide", 2)
	}
}

// compileExpression applies operators strictly left-to-right with no
// precedence: "1+2*3" compiles as "(1+2)*3". This reproduces the source
// language's historical behavior and is not a bug to fix.
func (t *Translator) compileExpression() {
	t.compileTerm()
	for isBinaryOp(t.cur()) {
		op := t.cur()
		t.advance()
		t.compileTerm()
		t.emitBinaryOp(op)
	}
}

// compileExpressionList compiles a comma-separated, possibly empty list of
// expressions and returns how many were present.
func (t *Translator) compileExpressionList() uint16 {
	if t.cur().Is(")") {
		return 0
	}
	var count uint16
	for {
		t.compileExpression()
		count++
		if t.cur().Is(",") {
			t.advance()
			continue
		}
		break
	}
	return count
}

// compileArrayAddress pushes the base address of name and the freshly
// compiled index expression, then adds them, leaving the element address
// on top of the stack. Shared by array reads and array-element lets.
func (t *Translator) compileArrayAddress(name string) {
	seg, idx := t.variableAccess(name)
	t.writer.Push(seg, idx)
	t.compileExpression()
	t.writer.Arith(vmwriter.Add)
}

func (t *Translator) compileStringConstant(s string) {
	t.writer.Push(vmwriter.Constant, uint16(len(s)))
	t.writer.Call("String.new", 1)
	for _, r := range s {
		t.writer.Push(vmwriter.Constant, uint16(r))
		t.writer.Call("String.appendChar", 2)
	}
}

func (t *Translator) compileTerm() {
	tok := t.cur()
	switch {
	case tok.Kind == token.IntConst:
		t.writer.Push(vmwriter.Constant, tok.IntVal())
		t.advance()
	case tok.Kind == token.StringConst:
		t.compileStringConstant(tok.StringValue())
		t.advance()
	case tok.Kind == token.Keyword:
		t.compileKeywordConstant(tok)
		t.advance()
	case tok.Is("("):
		t.advance()
		t.compileExpression()
		t.expect(")")
	case isUnaryOp(tok):
		t.advance()
		t.compileTerm()
		if tok.Lexeme == "-" {
			t.writer.Arith(vmwriter.Neg)
		} else {
			t.writer.Arith(vmwriter.Not)
		}
	case tok.Kind == token.Identifier:
		t.compileIdentifierTerm()
	default:
		t.fail("unexpected token %s in expression", tokenText(tok))
	}
}

func (t *Translator) compileKeywordConstant(tok token.Token) {
	switch tok.Lexeme {
	case "true":
		t.writer.Push(vmwriter.Constant, 0)
		t.writer.Arith(vmwriter.Not)
	case "false", "null":
		t.writer.Push(vmwriter.Constant, 0)
	case "this":
		t.writer.Push(vmwriter.Pointer, 0)
	default:
		t.fail("unexpected keyword %q in expression", tok.Lexeme)
	}
}

// compileIdentifierTerm disambiguates a variable reference, an array
// element read, and a subroutine call by the token that immediately
// follows the leading identifier.
func (t *Translator) compileIdentifierTerm() {
	name := t.expectIdentifier()

	switch {
	case t.cur().Is("["):
		t.advance()
		t.compileArrayAddress(name)
		t.expect("]")
		t.writer.Pop(vmwriter.Pointer, 1)
		t.writer.Push(vmwriter.That, 0)
	case t.cur().IsAnyOf("(", "."):
		t.compileSubroutineCall(name)
	default:
		seg, idx := t.variableAccess(name)
		t.writer.Push(seg, idx)
	}
}

// compileSubroutineCall compiles the arguments and call instruction for a
// subroutine invocation whose leading identifier (name) has already been
// consumed.
func (t *Translator) compileSubroutineCall(name string) {
	switch {
	case t.cur().Is("."):
		t.advance()
		member := t.expectIdentifier()

		if kind := t.symbols.KindOf(name); kind != symtab.None {
			seg, idx := t.variableAccess(name)
			t.writer.Push(seg, idx)

			t.expect("(")
			nArgs := t.compileExpressionList()
			t.expect(")")

			t.writer.Call(t.symbols.TypeOf(name)+"."+member, nArgs+1)
			return
		}

		t.expect("(")
		nArgs := t.compileExpressionList()
		t.expect(")")
		t.writer.Call(name+"."+member, nArgs)

	case t.cur().Is("("):
		t.writer.Push(vmwriter.Pointer, 0)
		t.advance()
		nArgs := t.compileExpressionList()
		t.expect(")")
		t.writer.Call(t.className+"."+name, nArgs+1)

	default:
		t.fail("expected \"(\" or \".\", got %s", tokenText(t.cur()))
	}
}
