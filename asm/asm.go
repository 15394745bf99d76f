// Package asm is the line-oriented assembly text format the code
// generator emits into and spec.md §6's Run dispatcher consumes.
//
// It replaces the teacher's instructions package - which modeled a
// fixed RPN opcode set (Push, Plus, Minus, ...) - because Quill's
// target isn't a stack machine with opcodes: it's a single piecewise
// "Run" expression keyed on a line-pointer register, where every
// "instruction" is itself an arbitrary register-assignment expression
// (spec.md §6). There is no fixed opcode enum to hold; the unit of
// emission is a line of text, a label, or a standalone expression
// (codegen's register initial values). This directive shape is lifted directly
// from original_source/desmos_compiler/assembler.py's three line
// kinds ("line", "label", "expr").
package asm

import (
	"fmt"
	"strings"
)

// Directive kinds a Program is built from.
const (
	KindLine  = "line"
	KindLabel = "label"
	KindExpr  = "expr"
)

// The built-in register/mnemonic names every generated line may
// reference, matching assembler.py's RUN/IN/OUT/DONE/LINE constants
// and its NEXTLINE/GOTO macros.
const (
	Line     = "LINE"
	In       = "IN"
	Out      = "OUT"
	Done     = "DONE"
	NextLine = "NEXTLINE"
	Goto     = "GOTO"
)

// Stack-machine registers threaded through every emitted call/return
// (spec.md §6), grounded on globals.py's STACK/STACK_BASE_PTRS/
// RETURN_VAL/RETURN_LINES.
const (
	Stack         = "STACK"
	StackBasePtrs = "STACK_BASE_PTRS"
	ReturnVal     = "RETURN_VAL"
	ReturnLines   = "RETURN_LINES"
)

// Names of the three list-manipulator helpers: replace-last,
// extend-by-appending-zero, and drop-last. Emitted lines call
// EXTEND_ZERO (scope.Declare) and DROP_LAST (codegen's return
// sequence) by name; no emitted line references REPLACE_LAST. codegen
// emits no definition for any of the three, and the frame-pointer and
// return-address pushes at a call site use JOIN inline instead.
const (
	ExtendZero  = "EXTEND_ZERO"
	DropLast    = "DROP_LAST"
	ReplaceLast = "REPLACE_LAST"
)

// Directive is one unit of emitted assembly: a numbered line of
// register-assignment text, a label binding the next line number to a
// name, or a standalone expression outside the Run dispatch.
type Directive struct {
	Kind string
	Text string // the label name for KindLabel, the payload otherwise
}

// Program is an ordered sequence of directives, built up by codegen
// and rendered to the line-oriented text format spec.md §6 describes.
type Program struct {
	directives []Directive
}

// New returns an empty Program.
func New() *Program {
	return &Program{}
}

// Emit appends a "line" directive: one simultaneous-assignment step
// of the Run dispatcher.
func (p *Program) Emit(format string, args ...any) {
	p.directives = append(p.directives, Directive{Kind: KindLine, Text: fmt.Sprintf(format, args...)})
}

// Label binds name to the line number the next Emit call will occupy.
func (p *Program) Label(name string) {
	p.directives = append(p.directives, Directive{Kind: KindLabel, Text: name})
}

// Expr appends a standalone expression outside the Run dispatch (used
// for one-off setup expressions a packager may need alongside Run).
func (p *Program) Expr(format string, args ...any) {
	p.directives = append(p.directives, Directive{Kind: KindExpr, Text: fmt.Sprintf(format, args...)})
}

// Len reports how many emitted lines precede the next Emit call - the
// line number a Label placed right now would resolve to.
func (p *Program) Len() int {
	n := 0
	for _, d := range p.directives {
		if d.Kind == KindLine {
			n++
		}
	}
	return n
}

// Append concatenates other's directives onto p, preserving order.
// codegen uses this to splice a function's body in after the program
// epilogue (spec.md §4.3: functions are emitted after the main
// program, regardless of source order).
func (p *Program) Append(other *Program) {
	p.directives = append(p.directives, other.directives...)
}

// String renders the program in the directive text format:
// "line <expr>", "label <name>", "expr <expr>", one per line - the
// same three-keyword shape assembler.py's assemble() parses back out
// with `^(\w+) ?(.*)$`.
func (p *Program) String() string {
	var b strings.Builder
	for _, d := range p.directives {
		fmt.Fprintf(&b, "%s %s\n", d.Kind, d.Text)
	}
	return b.String()
}

// Labels resolves every label to the 0-based line index it names,
// mirroring assemble()'s `labels[name] = str(len(lines))` bookkeeping.
// Codegen doesn't need this at emission time (GOTO targets are
// resolved symbolically, by name, at the text level per NEXTLINE/GOTO
// macro-expansion) but test code uses it to check spec.md §8's
// "every GOTO has a matching label" property.
func (p *Program) Labels() map[string]int {
	labels := make(map[string]int)
	line := 0
	for _, d := range p.directives {
		switch d.Kind {
		case KindLine:
			line++
		case KindLabel:
			labels[d.Text] = line
		}
	}
	return labels
}

// Gotos returns every label name referenced by a "GOTO <name>" macro
// across all emitted lines, for the same structural check.
func (p *Program) Gotos() []string {
	var targets []string
	for _, d := range p.directives {
		if d.Kind != KindLine {
			continue
		}
		idx := 0
		for {
			at := strings.Index(d.Text[idx:], Goto+" ")
			if at < 0 {
				break
			}
			start := idx + at + len(Goto) + 1
			end := start
			for end < len(d.Text) && (isWordChar(d.Text[end])) {
				end++
			}
			targets = append(targets, d.Text[start:end])
			idx = end
		}
	}
	return targets
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
