// Package lexer turns Quill source text into a stream of token.Token
// values, tracking the line/column coordinate of each one so that
// qerrors.ParseError can report a precise source location.
package lexer

import (
	"github.com/josharian/intern"

	"github.com/quill-lang/quillc/token"
)

// Lexer holds our object-state.
type Lexer struct {
	position     int    // current character position
	readPosition int    // next character position
	ch           rune   // current character
	characters   []rune // rune slice of input string

	line   int // 1-based line of l.ch
	column int // 1-based column of l.ch
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input), line: 1}
	l.readChar()
	return l
}

// read one forward character, tracking line/column as we go.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peek character
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.characters) {
		return rune(0)
	}
	return l.characters[l.readPosition]
}

// NextToken reads and returns the next token, skipping whitespace.
//
// Single/double-character punctuation and operators consume their
// final character inline and fall through to the trailing readChar
// below, the same idiom the teacher uses to swallow a leading '-' onto
// a negative-number literal. Multi-character literals (numbers,
// identifiers) return directly instead, because - unlike the space-
// separated RPN tokens the teacher lexes - Quill source packs tokens
// together ("x=1;") with no guaranteed trailing whitespace to absorb
// an extra advance.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, column := l.line, l.column

	var tok token.Token

	switch {
	case l.ch == rune(0):
		tok.Type = token.EOF

	case isDigit(l.ch):
		tok = l.readDecimal()
		tok.Line, tok.Column = line, column
		return tok

	case isIdentStart(l.ch):
		lit := intern.String(l.readIdentifier())
		tok = token.Token{Type: token.LookupIdentifier(lit), Literal: lit}
		tok.Line, tok.Column = line, column
		return tok

	case l.ch == rune('='):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: "=="}
		} else {
			tok = newToken(token.ASSIGN, l.ch)
		}
	case l.ch == rune('!'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.NEQ, Literal: "!="}
		} else {
			tok = token.Token{Type: token.ILLEGAL, Literal: "!"}
		}
	case l.ch == rune('<'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<="}
		} else {
			tok = newToken(token.LT, l.ch)
		}
	case l.ch == rune('>'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">="}
		} else {
			tok = newToken(token.GT, l.ch)
		}
	case l.ch == rune('+'):
		tok = newToken(token.PLUS, l.ch)
	case l.ch == rune('-'):
		tok = newToken(token.MINUS, l.ch)
	case l.ch == rune('*'):
		tok = newToken(token.ASTERISK, l.ch)
	case l.ch == rune('/'):
		tok = newToken(token.SLASH, l.ch)
	case l.ch == rune('%'):
		tok = newToken(token.PERCENT, l.ch)
	case l.ch == rune('('):
		tok = newToken(token.LPAREN, l.ch)
	case l.ch == rune(')'):
		tok = newToken(token.RPAREN, l.ch)
	case l.ch == rune('{'):
		tok = newToken(token.LBRACE, l.ch)
	case l.ch == rune('}'):
		tok = newToken(token.RBRACE, l.ch)
	case l.ch == rune(','):
		tok = newToken(token.COMMA, l.ch)
	case l.ch == rune(';'):
		tok = newToken(token.SEMICOLON, l.ch)
	default:
		tok = token.Token{Type: token.ILLEGAL, Literal: string(l.ch)}
	}

	tok.Line, tok.Column = line, column
	l.readChar()
	return tok
}

// return new token
func newToken(tokenType token.Type, ch rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}

// skip white space
func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readChar()
	}
}

// readNumber handles reading a string of digits 0-9.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return string(l.characters[start:l.position])
}

// read a decimal / floating point number.
func (l *Lexer) readDecimal() token.Token {
	integer := l.readNumber()

	if l.ch == rune('.') && isDigit(l.peekChar()) {
		l.readChar()
		fraction := l.readNumber()
		return token.Token{Type: token.NUMBER, Literal: integer + "." + fraction}
	}
	return token.Token{Type: token.NUMBER, Literal: integer}
}

// readIdentifier reads an identifier or keyword, allowing a leading
// '$' sigil (reserved for register-style names, spec.md §6) or '#' (the
// internal temporaries the code generator mints for call-site
// arguments, e.g. "#arg0", "#arg1" - see codegen.go's evalCall and
// evalBinary).
func (l *Lexer) readIdentifier() string {
	start := l.position
	if l.ch == rune('$') || l.ch == rune('#') {
		l.readChar()
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return string(l.characters[start:l.position])
}

// is white space
func isWhitespace(ch rune) bool {
	return ch == rune(' ') || ch == rune('\t') || ch == rune('\n') || ch == rune('\r')
}

// is Digit
func isDigit(ch rune) bool {
	return rune('0') <= ch && ch <= rune('9')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || ch == '#' ||
		('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
