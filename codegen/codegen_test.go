package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quill-lang/quillc/ast"
	"github.com/quill-lang/quillc/parser"
	"github.com/quill-lang/quillc/qerrors"
)

func mustParse(t *testing.T, src string) ast.Stmt {
	t.Helper()
	tree, err := parser.Parse(src)
	assert.NoError(t, err, src)
	return tree
}

func TestArithmeticProgramCompiles(t *testing.T) {
	tree := mustParse(t, `num x = 1 + 2 * 3; OUT = x;`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	assert.Contains(t, prog.String(), "RETURN_VAL")
}

func TestIfElseEmitsMatchingLabels(t *testing.T) {
	tree := mustParse(t, `num x = 0; if (x < 1) { x = 0; } else { x = 1; } OUT = x;`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	checkEveryGotoHasLabel(t, prog)
}

func TestWhileLoopEmitsMatchingLabels(t *testing.T) {
	tree := mustParse(t, `num x = 5; while (x) { x = x - 1; } OUT = x;`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	checkEveryGotoHasLabel(t, prog)
}

func TestFunctionCallAndReturn(t *testing.T) {
	tree := mustParse(t, `
		num max (num a, num b) {
			if (a > b) { return a; }
			return b;
		}
		OUT = max(3, 7);
	`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	text := prog.String()
	assert.Contains(t, text, "func0")
	checkEveryGotoHasLabel(t, prog)
}

// TestImplicitReturnSynthesis checks the spec.md §9 decision: a
// function with no explicit return gets `return 0;` appended.
func TestImplicitReturnSynthesis(t *testing.T) {
	tree := mustParse(t, `
		num noop (num a) {
			num unused;
		}
		OUT = noop(1);
	`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	assert.Contains(t, prog.String(), "LINE -> RETURN_LINES[LENGTH(RETURN_LINES)]")
}

func TestDuplicateFunctionFails(t *testing.T) {
	tree := mustParse(t, `
		num f (num a) { return a; }
		num f (num a) { return a; }
		OUT = f(1);
	`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.DuplicateFunction, ce.Kind)
}

func TestArityMismatchFails(t *testing.T) {
	tree := mustParse(t, `
		num f (num a) { return a; }
		OUT = f(1, 2);
	`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.ArityMismatch, ce.Kind)
}

func TestReturnOutsideFunctionFails(t *testing.T) {
	tree := mustParse(t, `return 1;`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.ReturnOutsideFunction, ce.Kind)
}

func TestNotTopLevelFails(t *testing.T) {
	tree := mustParse(t, `
		num x = 1;
		if (x) {
			num f (num a) { return a; }
		}
	`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.NotTopLevel, ce.Kind)
}

func TestRedeclarationFails(t *testing.T) {
	tree := mustParse(t, `num x; num x;`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.Redeclaration, ce.Kind)
}

func TestUndeclaredReadFails(t *testing.T) {
	tree := mustParse(t, `OUT = nope;`)
	_, err := Generate(tree)
	assert.Error(t, err)
	var ce *qerrors.CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, qerrors.NotInScope, ce.Kind)
}

// checkEveryGotoHasLabel is the spec.md §8 structural property: every
// GOTO target in the rendered program resolves to a defined label.
func checkEveryGotoHasLabel(t *testing.T, prog interface {
	String() string
	Labels() map[string]int
	Gotos() []string
}) {
	t.Helper()
	labels := prog.Labels()
	for _, target := range prog.Gotos() {
		_, ok := labels[target]
		assert.True(t, ok, "GOTO target %q (program:\n%s) has no matching label", target, prog.String())
	}
}

func TestGcdProgramStructurallyValid(t *testing.T) {
	tree := mustParse(t, `
		num gcd (num a, num b) {
			if (b == 0) { return a; }
			return gcd(b, a % b);
		}
		OUT = gcd(48, 18);
	`)
	prog, err := Generate(tree)
	assert.NoError(t, err)
	checkEveryGotoHasLabel(t, prog)
	assert.True(t, strings.Contains(prog.String(), "MOD("))
}
