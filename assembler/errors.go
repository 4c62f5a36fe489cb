// errors.go - AssemblerSyntax/AssemblerSemantic error taxonomy (spec.md §7)
//
// Grounded on the donor's fmt.Errorf/%w convention (errors.go in the root
// package follows the same shape); each kind is its
// own type carrying the 0-based source line index it was raised against,
// as SPEC_FULL.md's ambient-stack section specifies for this package.

package assembler

import "fmt"

// SyntaxError reports a malformed token, unknown mnemonic, wrong operand
// count/shape, or an illegal macro name.
type SyntaxError struct {
	Line   int
	Detail string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: syntax error: %s", e.Line+1, e.Detail)
}

// SemanticError reports a duplicate EQU/label, an unresolved reference, an
// orphan ENDIF/ENDM, an unclosed IF/MACRO, or a missing/misplaced END.
type SemanticError struct {
	Line   int
	Detail string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line+1, e.Detail)
}

func syntaxf(line int, format string, args ...any) error {
	return &SyntaxError{Line: line, Detail: fmt.Sprintf(format, args...)}
}

func semanticf(line int, format string, args ...any) error {
	return &SemanticError{Line: line, Detail: fmt.Sprintf(format, args...)}
}
