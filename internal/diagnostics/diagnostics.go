// Package diagnostics formats structural translation failures with source
// context: a file:line:column header, the offending source line, and a
// caret pointing at the failing column. It is grounded on the
// file/line/caret compiler-error formatting used elsewhere in this
// tradition; unlike that model it carries no color support, since this
// tool's only diagnostic consumer is a plain stderr stream.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/libklein/jack2vm/internal/token"
)

// StructuralError reports that the token stream did not conform to the
// grammar at some point. It is fatal for the file being translated; there
// is no recovery.
type StructuralError struct {
	File    string
	Source  string
	Pos     token.Position
	Message string
}

// NewStructuralError builds a StructuralError naming what was expected and
// what was actually found.
func NewStructuralError(file, source string, pos token.Position, format string, args ...any) *StructuralError {
	return &StructuralError{
		File:    file,
		Source:  source,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return e.Format()
}

// Format renders the error with a file:line:col header, the offending
// source line, and a caret under the failing column.
func (e *StructuralError) Format() string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&sb, "%d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(gutter)+e.Pos.Column-1))
		sb.WriteString("^")
	}

	return sb.String()
}

func (e *StructuralError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
