// Package codegen walks an ast.Stmt tree and lowers it to an
// asm.Program, implementing the rules spec.md §4.3 tabulates.
//
// It replaces the teacher's compiler/generator.go, which emitted a
// fixed snippet of AMD64 per RPN opcode. There is no opcode table
// here: every statement and expression kind lowers to its own
// sequence of register-assignment lines, built from values threaded
// through a scope.Registry rather than popped off a literal runtime
// stack. The lowering itself - what each node kind emits, the
// prologue/epilogue shape, and function bodies being emitted after
// the main program - is grounded directly on
// original_source/desmos_compiler/compiler/compiler.py's Compiler
// class, translated from its Python match-statement dispatch into an
// exhaustive Go type switch over the ast package's sealed node types.
package codegen

import (
	"fmt"

	"github.com/quill-lang/quillc/asm"
	"github.com/quill-lang/quillc/ast"
	"github.com/quill-lang/quillc/qerrors"
	"github.com/quill-lang/quillc/scope"
)

type funcInfo struct {
	label string
	def   *ast.FunctionDefinition
}

// Generator holds the lowering pass's mutable state: the label
// counter, the function table, and the current "compiling function"
// flag spec.md §4.3 calls out as owned by the generator.
type Generator struct {
	prog     *asm.Program
	scopes   *scope.Registry
	funcs    map[string]*funcInfo
	order    []string // insertion order, so output is deterministic

	labelSeq int

	inFunction     bool
	funcRootHandle scope.Handle
}

// New returns a Generator ready to lower a single program.
func New() *Generator {
	return &Generator{prog: asm.New(), funcs: map[string]*funcInfo{}}
}

// Generate lowers root to a complete Program: registers, IN/OUT
// plumbing, the user program, and - appended last, so they can never
// execute until called - every function body (spec.md §4.3's
// "Program prologue/epilogue").
func Generate(root ast.Stmt) (*asm.Program, error) {
	g := New()
	return g.Generate(root)
}

// Generate is the method form, useful for tests that want to inspect
// the Generator's scope registry after lowering.
func (g *Generator) Generate(root ast.Stmt) (*asm.Program, error) {
	g.scopes = scope.New("1")

	g.prog.Expr("%s = []", asm.Stack)
	g.prog.Expr("%s = [-1]", asm.StackBasePtrs)
	g.prog.Expr("%s = 0", asm.ReturnVal)
	g.prog.Expr("%s = []", asm.ReturnLines)

	prelude := &ast.Group{Stmts: []ast.Stmt{
		&ast.Declaration{Var: "IN", Type: "num"},
		&ast.Assignment{Var: "IN", Expr: &ast.Literal{Text: "IN"}},
		&ast.Declaration{Var: "OUT", Type: "num"},
	}}
	if err := g.compileStatement(prelude); err != nil {
		return nil, err
	}

	if err := g.compileStatement(root); err != nil {
		return nil, err
	}

	outExpr, outType, err := g.scopes.Read("OUT")
	if err != nil {
		return nil, err
	}
	if ast.SizeOf[outType] != 1 {
		return nil, qerrors.New(qerrors.UnsupportedSize, "OUT", "only single-cell types are supported")
	}
	g.prog.Emit("%s -> %s, %s -> 0", asm.Out, outExpr, asm.Done)

	if err := g.compileFunctions(); err != nil {
		return nil, err
	}

	return g.prog, nil
}

func (g *Generator) compileStatement(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.Group:
		for _, inner := range st.Stmts {
			if err := g.compileStatement(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.Declaration:
		frag, err := g.scopes.Declare(st.Var, st.Type)
		if err != nil {
			return err
		}
		g.prog.Emit("%s", frag)
		return nil

	case *ast.Assignment:
		if err := g.evalExpr(st.Expr); err != nil {
			return err
		}
		frag, err := g.scopes.Write(st.Var, asm.ReturnVal)
		if err != nil {
			return err
		}
		g.prog.Emit("%s", frag)
		return nil

	case *ast.If:
		return g.compileIf(st)

	case *ast.While:
		return g.compileWhile(st)

	case *ast.FunctionDefinition:
		return g.compileFunctionDefinition(st)

	case *ast.FunctionReturn:
		return g.compileReturn(st)

	case *ast.FunctionCallStatement:
		return g.evalExpr(st.Call)

	default:
		return fmt.Errorf("codegen: unhandled statement type %T", s)
	}
}

func (g *Generator) compileIf(n *ast.If) error {
	label := g.nextLabel()

	if err := g.evalExpr(n.Cond); err != nil {
		return err
	}
	g.prog.Emit("{%s = 1: %s, GOTO else%d}", asm.ReturnVal, asm.NextLine, label)

	g.scopes.Push()
	if err := g.compileStatement(n.Then); err != nil {
		return err
	}
	popFrag, err := g.scopes.Pop()
	if err != nil {
		return err
	}
	g.prog.Emit("%s", popFrag)
	g.prog.Emit("GOTO endif%d", label)

	g.prog.Label(fmt.Sprintf("else%d", label))
	if n.Else != nil {
		g.scopes.Push()
		if err := g.compileStatement(n.Else); err != nil {
			return err
		}
		popFrag, err := g.scopes.Pop()
		if err != nil {
			return err
		}
		g.prog.Emit("%s", popFrag)
	}
	g.prog.Label(fmt.Sprintf("endif%d", label))
	return nil
}

func (g *Generator) compileWhile(n *ast.While) error {
	label := g.nextLabel()

	g.prog.Label(fmt.Sprintf("begwhile%d", label))
	if err := g.evalExpr(n.Cond); err != nil {
		return err
	}
	g.prog.Emit("{%s = 1: %s, GOTO endwhile%d}", asm.ReturnVal, asm.NextLine, label)

	g.scopes.Push()
	if err := g.compileStatement(n.Body); err != nil {
		return err
	}
	popFrag, err := g.scopes.Pop()
	if err != nil {
		return err
	}
	g.prog.Emit("%s", popFrag)
	g.prog.Emit("GOTO begwhile%d", label)
	g.prog.Label(fmt.Sprintf("endwhile%d", label))
	return nil
}

func (g *Generator) compileFunctionDefinition(f *ast.FunctionDefinition) error {
	if !g.scopes.AtGlobalRoot() {
		return qerrors.New(qerrors.NotTopLevel, f.Name, "functions may only be defined at the top level")
	}
	if _, exists := g.funcs[f.Name]; exists {
		return qerrors.New(qerrors.DuplicateFunction, f.Name, "function is already defined")
	}
	label := fmt.Sprintf("func%d", g.nextLabel())
	g.funcs[f.Name] = &funcInfo{label: label, def: f}
	g.order = append(g.order, f.Name)
	// No assembly is emitted inline; the body is emitted after the
	// main program by compileFunctions (spec.md §4.3).
	return nil
}

// compileReturn unwinds every open scope between the return site and
// the function's own root - not just the innermost one - so an early
// return from inside a loop or conditional leaves the simulated stack
// exactly as FunctionReturn's epilogue expects (spec.md §9, "Scopes
// inside conditionals and loops").
func (g *Generator) compileReturn(n *ast.FunctionReturn) error {
	if !g.inFunction {
		return qerrors.New(qerrors.ReturnOutsideFunction, "return", "return statements may only appear inside a function body")
	}

	if err := g.evalExpr(n.Expr); err != nil {
		return err
	}

	frags, err := g.scopes.PopChainTo(g.funcRootHandle)
	if err != nil {
		return err
	}
	for _, frag := range frags {
		g.prog.Emit("%s", frag)
	}

	g.prog.Emit("%s -> %s(%s), %s", asm.StackBasePtrs, asm.DropLast, asm.StackBasePtrs, asm.NextLine)
	g.prog.Emit("%s -> %s[LENGTH(%s)], %s -> %s(%s)", asm.Line, asm.ReturnLines, asm.ReturnLines, asm.ReturnLines, asm.DropLast, asm.ReturnLines)
	return nil
}

// evalExpr lowers an expression, leaving its value in RETURN_VAL.
func (g *Generator) evalExpr(e ast.Expr) error {
	switch ex := e.(type) {
	case *ast.Literal:
		g.prog.Emit("%s -> %s, %s", asm.ReturnVal, ex.Text, asm.NextLine)
		return nil

	case *ast.Variable:
		expr, _, err := g.scopes.Read(ex.Name)
		if err != nil {
			return err
		}
		g.prog.Emit("%s -> %s, %s", asm.ReturnVal, expr, asm.NextLine)
		return nil

	case *ast.BinaryOperation:
		return g.evalBinary(ex)

	case *ast.FunctionCall:
		return g.evalCall(ex)

	default:
		return fmt.Errorf("codegen: unhandled expression type %T", e)
	}
}

// evalBinary evaluates both operands left-to-right into a fresh
// temporary scope, then folds them through the operator-specific
// expression (spec.md §4.3's BinaryOperation row).
func (g *Generator) evalBinary(b *ast.BinaryOperation) error {
	g.scopes.Push()

	args := &ast.Group{Stmts: []ast.Stmt{
		&ast.Declaration{Var: "#arg1", Type: "num"},
		&ast.Assignment{Var: "#arg1", Expr: b.Left},
		&ast.Declaration{Var: "#arg2", Type: "num"},
		&ast.Assignment{Var: "#arg2", Expr: b.Right},
	}}
	if err := g.compileStatement(args); err != nil {
		return err
	}

	arg1, _, err := g.scopes.Read("#arg1")
	if err != nil {
		return err
	}
	arg2, _, err := g.scopes.Read("#arg2")
	if err != nil {
		return err
	}

	result, err := binaryOpExpr(arg1, arg2, b.Op)
	if err != nil {
		return err
	}
	g.prog.Emit("%s -> %s, %s", asm.ReturnVal, result, asm.NextLine)

	popFrag, err := g.scopes.Pop()
	if err != nil {
		return err
	}
	g.prog.Emit("%s", popFrag)
	return nil
}

// binaryOpExpr renders op applied to two already-evaluated scalar
// expressions. Division renders as a fraction; modulo as a named
// function; arithmetic wraps its operands in parens; every comparison
// renders as a two-arm piecewise yielding 0 or 1, since the substrate
// has no boolean type (spec.md §4.3).
func binaryOpExpr(arg1, arg2 string, op ast.Operator) (string, error) {
	switch op {
	case ast.Div:
		return fmt.Sprintf("(%s / %s)", arg1, arg2), nil
	case ast.Mod:
		return fmt.Sprintf("MOD(%s, %s)", arg1, arg2), nil
	case ast.Add, ast.Sub, ast.Mul:
		return fmt.Sprintf("(%s %s %s)", arg1, string(op), arg2), nil
	}
	if op.IsComparison() {
		return fmt.Sprintf("{%s %s %s: 1, 0}", arg1, string(op), arg2), nil
	}
	return "", qerrors.New(qerrors.UnknownOperator, string(op), "unrecognized binary operator")
}

// evalCall checks arity, evaluates each argument left-to-right into a
// fresh scope whose cells are left on the simulated stack for the
// callee, pushes a frame pointer and a return address, and jumps to
// the callee's label (spec.md §4.3's FunctionCall row).
func (g *Generator) evalCall(c *ast.FunctionCall) error {
	fn, ok := g.funcs[c.Callee]
	if !ok {
		return qerrors.New(qerrors.NotInScope, c.Callee, "no such function")
	}
	if len(c.Args) != len(fn.def.Params) {
		return qerrors.New(qerrors.ArityMismatch, c.Callee, "expected %d argument(s), got %d", len(fn.def.Params), len(c.Args))
	}

	g.scopes.Push()
	for i, arg := range c.Args {
		name := fmt.Sprintf("#arg%d", i)
		typ := fn.def.Params[i].Type
		if err := g.compileStatement(&ast.Declaration{Var: name, Type: typ}); err != nil {
			return err
		}
		if err := g.compileStatement(&ast.Assignment{Var: name, Expr: arg}); err != nil {
			return err
		}
	}
	argBase := g.scopes.Base()
	// The argument cells stay on the simulated stack; the callee's own
	// function-root scope re-declares them under the same base, so this
	// scope is handed off rather than popped here.
	g.scopes.Discard()

	g.prog.Emit("%s -> %s(%s, %s), %s", asm.StackBasePtrs, "JOIN", asm.StackBasePtrs, argBase, asm.NextLine)
	g.prog.Emit("%s -> %s(%s, %s + 1), GOTO %s", asm.ReturnLines, "JOIN", asm.ReturnLines, asm.Line, fn.label)
	return nil
}

// compileFunctions emits every recorded function body, in the order
// its FunctionDefinition was first seen, after the main program has
// already assigned OUT and set DONE - so a function can never execute
// unless something explicitly calls it (spec.md §4.3's epilogue
// constraint).
func (g *Generator) compileFunctions() error {
	for _, name := range g.order {
		fn := g.funcs[name]
		g.prog.Label(fn.label)

		g.funcRootHandle = g.scopes.PushRoot(fmt.Sprintf("%s[LENGTH(%s)]", asm.StackBasePtrs, asm.StackBasePtrs))
		for _, p := range fn.def.Params {
			// Bookkeeping only: the parameter cells are already on the
			// simulated stack, pushed by the caller's evalCall, so the
			// declaration is marked assigned immediately rather than
			// waiting for a Write that will never come.
			if _, err := g.scopes.Declare(p.Name, p.Type); err != nil {
				return err
			}
			if err := g.scopes.MarkAssigned(p.Name); err != nil {
				return err
			}
		}

		g.inFunction = true
		body := withImplicitReturn(fn.def.Body)
		if err := g.compileStatement(body); err != nil {
			return err
		}
		g.inFunction = false

		// The body always exits through FunctionReturn's own
		// PopChainTo-driven truncation, so the root scope's cells are
		// already torn down on the target side; Discard just stops this
		// Registry from tracking the handle, the same bookkeeping evalCall
		// does for a call-site argument scope it hands off to the callee.
		g.scopes.Discard()
	}
	return nil
}

func (g *Generator) nextLabel() int {
	n := g.labelSeq
	g.labelSeq++
	return n
}

// withImplicitReturn appends `return 0;` to body when it doesn't
// already end in a FunctionReturn (spec.md §9's open-question
// decision: functions with no explicit return get one synthesized).
func withImplicitReturn(body ast.Stmt) ast.Stmt {
	g, ok := body.(*ast.Group)
	if !ok {
		return &ast.Group{Stmts: []ast.Stmt{body, &ast.FunctionReturn{Expr: &ast.Literal{Text: "0"}}}}
	}
	if len(g.Stmts) > 0 {
		if _, isReturn := g.Stmts[len(g.Stmts)-1].(*ast.FunctionReturn); isReturn {
			return g
		}
	}
	stmts := make([]ast.Stmt, len(g.Stmts), len(g.Stmts)+1)
	copy(stmts, g.Stmts)
	stmts = append(stmts, &ast.FunctionReturn{Expr: &ast.Literal{Text: "0"}})
	return &ast.Group{Stmts: stmts}
}
