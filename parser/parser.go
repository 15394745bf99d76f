// Package parser turns a token.Token stream into an ast.Stmt tree.
//
// The grammar (spec.md §4.1) is a small, unambiguous, hand-written
// recursive-descent/precedence-climbing parser - comparison binds
// loosest, then additive, then multiplicative, with parens and calls
// as atoms. The Python original this spec was distilled from used an
// Earley parser over a grammar file because its grammar had "slight
// ambiguities"; this restricted grammar has none, so - matching the
// teacher's hand-rolled lexer rather than a generated one - Quill's
// parser is written by hand like the rest of this package tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quillc/ast"
	"github.com/quill-lang/quillc/lexer"
	"github.com/quill-lang/quillc/qerrors"
	"github.com/quill-lang/quillc/token"
)

// Parser holds our object-state.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	source []string // source split by line, for ParseError's context window
}

// New creates a Parser over the given source text.
func New(source string) *Parser {
	p := &Parser{l: lexer.New(source), source: strings.Split(source, "\n")}
	p.advance()
	p.advance()
	return p
}

// Parse lexes and parses source, returning the root Group statement or
// the first error encountered: a ParseError, or a ReservedName
// CompileError for a declaration of a reserved name. This is the package's public
// contract: parse(source_text) -> Statement (spec.md §4.1).
func Parse(source string) (ast.Stmt, error) {
	p := New(source)
	return p.ParseProgram()
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// ParseProgram parses every top-level statement up to EOF.
func (p *Parser) ParseProgram() (ast.Stmt, error) {
	var stmts []ast.Stmt

	for p.cur.Type != token.EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}

	return &ast.Group{Stmts: stmts}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.NUM:
		return p.parseTypedStatement()
	case token.IDENT:
		return p.parseIdentStatement()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return nil, p.errorf(nil, "unexpected %s while looking for a statement", describe(p.cur))
	}
}

// parseTypedStatement parses any statement that begins with a type
// keyword: a bare declaration, a declare-assign, or a function
// definition.
func (p *Parser) parseTypedStatement() (ast.Stmt, error) {
	typ := ast.Type(p.cur.Literal)
	p.advance() // consume the type keyword

	if p.cur.Type != token.IDENT {
		return nil, p.errorf([]string{string(token.IDENT)}, "expected an identifier after type %q, found %s", typ, describe(p.cur))
	}
	name := p.cur.Literal
	p.advance() // consume the identifier

	if isReservedName(name) {
		return nil, qerrors.New(qerrors.ReservedName, name, "reserved for built-in registers or internal temporaries")
	}

	switch p.cur.Type {
	case token.LPAREN:
		return p.parseFunctionDefinition(typ, name)
	case token.ASSIGN:
		p.advance() // consume '='
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		// Declare-assign sugar (spec.md §9): lowered at parse time to
		// declaration then assignment, so `e` is always evaluated
		// after `v` has already been declared.
		return &ast.Group{Stmts: []ast.Stmt{
			&ast.Declaration{Var: name, Type: typ},
			&ast.Assignment{Var: name, Expr: expr},
		}}, nil
	case token.SEMICOLON:
		p.advance() // consume ';'
		return &ast.Declaration{Var: name, Type: typ}, nil
	default:
		return nil, p.errorf([]string{"(", "=", ";"}, "expected '(', '=' or ';' after %q, found %s", name, describe(p.cur))
	}
}

func (p *Parser) parseFunctionDefinition(ret ast.Type, name string) (ast.Stmt, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []ast.Param
	for p.cur.Type != token.RPAREN {
		if len(params) > 0 {
			if err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		if p.cur.Type != token.NUM {
			return nil, p.errorf([]string{string(token.NUM)}, "expected a parameter type, found %s", describe(p.cur))
		}
		ptype := ast.Type(p.cur.Literal)
		p.advance()
		if p.cur.Type != token.IDENT {
			return nil, p.errorf([]string{string(token.IDENT)}, "expected a parameter name, found %s", describe(p.cur))
		}
		if isReservedName(p.cur.Literal) {
			return nil, qerrors.New(qerrors.ReservedName, p.cur.Literal, "reserved for built-in registers or internal temporaries")
		}
		params = append(params, ast.Param{Name: p.cur.Literal, Type: ptype})
		p.advance()
	}
	p.advance() // consume ')'

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDefinition{Name: name, Return: ret, Params: params, Body: body}, nil
}

// parseIdentStatement parses an assignment or a standalone function
// call, the two statement forms that begin with a bare identifier.
func (p *Parser) parseIdentStatement() (ast.Stmt, error) {
	name := p.cur.Literal
	p.advance() // consume the identifier

	switch p.cur.Type {
	case token.ASSIGN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Assignment{Var: name, Expr: expr}, nil

	case token.LPAREN:
		call, err := p.parseCallArgs(name)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.FunctionCallStatement{Call: call}, nil

	default:
		return nil, p.errorf([]string{"=", "("}, "expected '=' or '(' after %q, found %s", name, describe(p.cur))
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.advance() // consume 'if'
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := &ast.If{Cond: cond, Then: then}

	if p.cur.Type == token.ELSE {
		p.advance()
		if p.cur.Type == token.IF {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.Else = elseIf
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Else = elseBlock
		}
	}

	return node, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.advance() // consume 'while'
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	p.advance() // consume 'return'
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.FunctionReturn{Expr: expr}, nil
}

func (p *Parser) parseBlock() (ast.Stmt, error) {
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, p.errorf([]string{"}"}, "unexpected end of input inside a block")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // consume '}'
	return &ast.Group{Stmts: stmts}, nil
}

// ---------------------------------------------------------------------------
// Expressions - comparison < additive < multiplicative < atom.
// ---------------------------------------------------------------------------

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseComparison()
}

// parseComparison applies at most one comparison operator: the
// grammar doesn't chain comparisons (`a < b < c` isn't valid, matching
// the Python original's grammar).
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if token.IsComparison(p.cur.Type) {
		op := ast.Operator(p.cur.Literal)
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperation{Left: left, Right: right, Op: op}, nil
	}

	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for token.IsAdditive(p.cur.Type) {
		op := ast.Operator(p.cur.Literal)
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Right: right, Op: op}
	}

	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for token.IsMultiplicative(p.cur.Type) {
		op := ast.Operator(p.cur.Literal)
		p.advance()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Right: right, Op: op}
	}

	return left, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.cur.Type {
	case token.NUMBER:
		lit := &ast.Literal{Text: p.cur.Literal}
		p.advance()
		return lit, nil

	case token.IDENT:
		name := p.cur.Literal
		p.advance()
		if p.cur.Type == token.LPAREN {
			return p.parseCallArgs(name)
		}
		return &ast.Variable{Name: name}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errorf([]string{"IDENT", "NUMBER", "("}, "expected an expression, found %s", describe(p.cur))
	}
}

// parseCallArgs parses the "(args...)" suffix of a call once the
// callee name and the opening paren's presence are both known.
func (p *Parser) parseCallArgs(callee string) (*ast.FunctionCall, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.Expr
	for p.cur.Type != token.RPAREN {
		if len(args) > 0 {
			if err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.advance() // consume ')'

	return &ast.FunctionCall{Callee: callee, Args: args}, nil
}

// ReservedSigils lists the leading-character sigils a user declaration
// may not start with, in addition to the exact built-in register
// names (IN/OUT/DONE, never configurable). Defaults to '#' (codegen's
// internal temporaries) and '$' (register-style references, spec.md
// §6). A caller may override this - spec.md §6 calls the exact policy
// "a per-variant concern" - via SetReservedSigils; quillc's root
// command does this from an optional quillc.yaml.
var ReservedSigils = []rune{'#', '$'}

// SetReservedSigils replaces the active sigil policy. Passing nil
// restores no sigil restriction at all (IN/OUT/DONE are still
// reserved unconditionally).
func SetReservedSigils(sigils []rune) {
	ReservedSigils = sigils
}

// isReservedName reports whether name is off-limits for a user
// declaration: the exact built-in register names, or any configured
// sigil prefix reserved for codegen's internal temporaries and
// register-style identifiers (spec.md §6, §9).
func isReservedName(name string) bool {
	switch name {
	case "IN", "OUT", "DONE":
		return true
	}
	if len(name) == 0 {
		return false
	}
	for _, sigil := range ReservedSigils {
		if rune(name[0]) == sigil {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Error helpers
// ---------------------------------------------------------------------------

func (p *Parser) expect(t token.Type) error {
	if p.cur.Type != t {
		return p.errorf([]string{string(t)}, "expected %s, found %s", t, describe(p.cur))
	}
	p.advance()
	return nil
}

// errorf builds a qerrors.ParseError at the current token's
// coordinate, with a source-line context window.
func (p *Parser) errorf(expected []string, format string, args ...any) error {
	line := ""
	if p.cur.Line >= 1 && p.cur.Line <= len(p.source) {
		line = p.source[p.cur.Line-1]
	}
	return &qerrors.ParseError{
		Line:     p.cur.Line,
		Column:   p.cur.Column,
		Context:  fmt.Sprintf("%s\n  %s", fmt.Sprintf(format, args...), line),
		Expected: expected,
	}
}

func describe(t token.Token) string {
	if t.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}
