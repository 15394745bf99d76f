package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quill-lang/quillc/token"
)

// TestParseNumbers is a trivial test of the parsing of numbers.
func TestParseNumbers(t *testing.T) {
	input := `3 43.5 0.03`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NUMBER, "3"},
		{token.NUMBER, "43.5"},
		{token.NUMBER, "0.03"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

// TestParseOperators is a trivial test of the parsing of operators.
func TestParseOperators(t *testing.T) {
	input := `+ - * / % == != < > <= >= =`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.ASTERISK, "*"},
		{token.SLASH, "/"},
		{token.PERCENT, "%"},
		{token.EQ, "=="},
		{token.NEQ, "!="},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.LE, "<="},
		{token.GE, ">="},
		{token.ASSIGN, "="},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

// TestPunctuationAndKeywords exercises every punctuation mark and
// keyword the grammar in spec.md §4.1 requires, packed without any
// separating whitespace to make sure NextToken doesn't over-consume
// a neighbouring token (see the lexer.go doc comment).
func TestPunctuationAndKeywords(t *testing.T) {
	input := `num x;if(x<1){return x;}else{while(x){x=x-1;}}foo(x,1);`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NUM, "num"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LT, "<"},
		{token.NUMBER, "1"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.MINUS, "-"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.IDENT, "foo"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.NUMBER, "1"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

// TestSigilsAndTemporaries checks the '$' built-in-register sigil and
// the '#' prefix the code generator uses for synthesized temporaries.
func TestSigilsAndTemporaries(t *testing.T) {
	input := `$reg #arg1`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "$reg"},
		{token.IDENT, "#arg1"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

// TestLineColumn checks that multi-line input is tracked correctly,
// which qerrors.ParseError relies on for its source coordinate.
func TestLineColumn(t *testing.T) {
	input := "num x;\nx = 1;"

	l := New(input)

	tok := l.NextToken() // num
	assert.Equal(t, 1, tok.Line)
	assert.Equal(t, 1, tok.Column)

	l.NextToken() // x
	l.NextToken() // ;

	tok = l.NextToken() // x on line 2
	assert.Equal(t, 2, tok.Line)
	assert.Equal(t, 1, tok.Column)
}

// TestBogusInput checks that an unsupported character lexes as ILLEGAL
// rather than panicking or being silently dropped.
func TestBogusInput(t *testing.T) {
	l := New(`@`)
	tok := l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type)
	assert.Equal(t, "@", tok.Literal)
}
