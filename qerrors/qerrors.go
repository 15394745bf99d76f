// Package qerrors defines the two error kinds spec.md §7 exposes to a
// caller of this compiler: ParseError (malformed source) and
// CompileError (well-formed source that violates a semantic rule).
package qerrors

import "fmt"

// ParseError is returned by parser.Parse on the first syntactic
// violation. It carries both the source coordinate and a short
// human-readable context window, per spec.md §4.1's contract.
type ParseError struct {
	Line, Column int
	Context      string
	Expected     []string // the set of token kinds that would have been valid here
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Context)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s (expected one of %v)", e.Line, e.Column, e.Context, e.Expected)
}

// Kind enumerates the semantic-rule violations spec.md §7 names. Every
// CompileError carries one.
type Kind string

// The semantic-rule kinds spec.md §7 requires.
const (
	Redeclaration         Kind = "Redeclaration"
	ReservedName          Kind = "ReservedName"
	NotInScope            Kind = "NotInScope"
	UseBeforeDefine       Kind = "UseBeforeDefine"
	ArityMismatch         Kind = "ArityMismatch"
	DuplicateFunction     Kind = "DuplicateFunction"
	NotTopLevel           Kind = "NotTopLevel"
	ReturnOutsideFunction Kind = "ReturnOutsideFunction"
	UnsupportedSize       Kind = "UnsupportedSize"
	UnknownOperator       Kind = "UnknownOperator"
)

// CompileError is a CompilerError: well-formed source which violates
// one of the Kind rules above. Name identifies the offending
// identifier or construct, as spec.md §7 requires every message to do.
type CompileError struct {
	Kind Kind
	Name string
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Name, e.Msg)
}

// New builds a CompileError of the given kind naming the offending
// identifier/construct, with a human-readable message.
func New(kind Kind, name, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Name: name, Msg: fmt.Sprintf(format, args...)}
}
