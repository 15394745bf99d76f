// Package ast defines the syntax tree the parser builds and the code
// generator walks. Nodes are value-like: built once by the parser and
// never mutated afterwards, which is what makes the pretty-print
// round-trip and structural-equality properties in spec.md §8 hold.
//
// The node set is closed - Expr and Stmt are sealed interfaces with an
// unexported marker method, so the codegen package can switch over
// them exhaustively instead of relying on runtime type assertions
// scattered through the codebase (spec.md §9, "dynamic dispatch on
// node variants").
package ast

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Type names a declared type. "num" is the only concrete type today;
// the type system is a placeholder for future expansion (spec.md §3),
// so every declaration still carries one.
type Type string

// WidthTable maps a Type to how many stack cells a value of that type
// occupies, over any integer width representation. Parameterizing
// over constraints.Integer rather than hard-coding int means a future
// variant with, say, a packed sub-word width type can reuse the same
// table shape without an API change (spec.md §3: the type system is
// explicitly a placeholder for future expansion).
type WidthTable[W constraints.Integer] map[Type]W

// SizeOf maps a Type to how many stack cells a value of that type
// occupies. Only single-cell types are supported by the generator
// today (spec.md's UnsupportedSize error), but the table itself has no
// such restriction built in.
var SizeOf = WidthTable[int]{
	"num": 1,
}

// Expr is any node which can be evaluated to a value.
type Expr interface {
	exprNode()
	String() string
}

// Stmt is any node which can be executed.
type Stmt interface {
	stmtNode()
	String() string
}

// Operator is a binary operator token, classified by spec.md §3 into
// arithmetic, comparison, and (via token.Type) precedence tier.
type Operator string

// The binary operators the grammar in spec.md §4.1 supports.
const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "*"
	Div Operator = "/"
	Mod Operator = "%"

	Eq Operator = "=="
	Ne Operator = "!="
	Lt Operator = "<"
	Gt Operator = ">"
	Le Operator = "<="
	Ge Operator = ">="
)

// IsComparison reports whether op is one of the six comparison
// operators, which the generator renders as a 0/1-valued piecewise
// (spec.md §4.3) rather than an arithmetic expression.
func (op Operator) IsComparison() bool {
	switch op {
	case Eq, Ne, Lt, Gt, Le, Ge:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Literal is a pre-formatted numeric token the backend embeds verbatim.
type Literal struct {
	Text string
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return l.Text }

// Variable is a named reference. The parser rejects declarations of
// names beginning with '$' and of IN, OUT and DONE; codegen binds no
// '$' name to a register, so reading one fails with NotInScope.
type Variable struct {
	Name string
}

func (*Variable) exprNode()        {}
func (v *Variable) String() string { return v.Name }

// BinaryOperation applies Op to Left and Right.
type BinaryOperation struct {
	Left  Expr
	Right Expr
	Op    Operator
}

func (*BinaryOperation) exprNode() {}
func (b *BinaryOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, string(b.Op), b.Right)
}

// FunctionCall invokes Callee with Args, in left-to-right evaluation
// order.
type FunctionCall struct {
	Callee string
	Args   []Expr
}

func (*FunctionCall) exprNode() {}
func (f *FunctionCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s( %s )", f.Callee, strings.Join(parts, ", "))
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Group sequences zero or more statements. The parser wraps every
// compiled unit - the whole program, and every block `{ ... }` - in a
// Group.
type Group struct {
	Stmts []Stmt
}

func (*Group) stmtNode() {}
func (g *Group) String() string {
	parts := make([]string, len(g.Stmts))
	for i, s := range g.Stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// Param is one function parameter: its name and declared type.
type Param struct {
	Name string
	Type Type
}

func (p Param) String() string { return fmt.Sprintf("%s %s", p.Type, p.Name) }

// Declaration introduces Var as a new variable of Type in the current
// scope, zero-initialized.
type Declaration struct {
	Var  string
	Type Type
}

func (*Declaration) stmtNode() {}
func (d *Declaration) String() string {
	return fmt.Sprintf("%s %s;", d.Type, d.Var)
}

// Assignment stores the value of Expr into the already-declared Var.
type Assignment struct {
	Var  string
	Expr Expr
}

func (*Assignment) stmtNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %s;", a.Var, a.Expr)
}

// If runs Then when Cond is non-zero, otherwise Else (which may be nil).
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when there is no else-branch
}

func (*If) stmtNode() {}
func (i *If) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "if ( %s ){\n%s\n}", i.Cond, indent(i.Then.String()))
	if i.Else != nil {
		fmt.Fprintf(&b, " else {\n%s\n}", indent(i.Else.String()))
	}
	return b.String()
}

// While repeats Body for as long as Cond evaluates non-zero.
type While struct {
	Cond Expr
	Body Stmt
}

func (*While) stmtNode() {}
func (w *While) String() string {
	return fmt.Sprintf("while ( %s ){\n%s\n}", w.Cond, indent(w.Body.String()))
}

// FunctionDefinition declares a named function. It must appear at the
// top level (spec.md's NotTopLevel rule) and is emitted once, after the
// main program, regardless of where in source order it was declared.
type FunctionDefinition struct {
	Name   string
	Return Type
	Params []Param
	Body   Stmt
}

func (*FunctionDefinition) stmtNode() {}
func (f *FunctionDefinition) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s %s ( %s ){\n%s\n}", f.Return, f.Name, strings.Join(params, ", "), indent(f.Body.String()))
}

// FunctionReturn exits the enclosing function, handing Expr's value
// back to the caller.
type FunctionReturn struct {
	Expr Expr
}

func (*FunctionReturn) stmtNode() {}
func (r *FunctionReturn) String() string {
	return fmt.Sprintf("return %s;", r.Expr)
}

// FunctionCallStatement evaluates Call for its side effects and
// discards the result.
type FunctionCallStatement struct {
	Call *FunctionCall
}

func (*FunctionCallStatement) stmtNode() {}
func (c *FunctionCallStatement) String() string {
	return fmt.Sprintf("%s;", c.Call)
}

// indent prefixes every line of s with one level of indentation,
// matching the scheme original_source/desmos_compiler/syntax_tree.py
// uses for its own __repr__ methods.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
