// Package parser turns goof3 source text into an ast.Program.
package parser

import (
	"fmt"
	"strings"
)

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"  // x, point, whole_number
	INT    TokenType = "INT"    // 12345
	FLOAT  TokenType = "FLOAT"  // 1.5
	STRING TokenType = "STRING" // "abc"

	// Operators
	ASSIGN   TokenType = ":="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	EQ       TokenType = "="
	NOT_EQ   TokenType = "<>"
	LT       TokenType = "<"
	GT       TokenType = ">"
	LE       TokenType = "<="
	GE       TokenType = ">="
	AND      TokenType = "&"
	OR       TokenType = "|"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	VAR      TokenType = "VAR"
	CONST    TokenType = "CONST"
	TYPE     TokenType = "TYPE"
	FUNCTION TokenType = "FUNCTION"
	METHOD   TokenType = "METHOD"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELIF     TokenType = "ELIF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	DO       TokenType = "DO"
	FOR      TokenType = "FOR"
	TO       TokenType = "TO"
	BY       TokenType = "BY"
	RETURN   TokenType = "RETURN"
	THROW    TokenType = "THROW"
	BREAK    TokenType = "BREAK"
	ARRAY    TokenType = "ARRAY"
	OF       TokenType = "OF"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NIL      TokenType = "NIL"
)

var keywords = map[string]TokenType{
	"var":      VAR,
	"const":    CONST,
	"type":     TYPE,
	"function": FUNCTION,
	"method":   METHOD,
	"if":       IF,
	"then":     THEN,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"do":       DO,
	"for":      FOR,
	"to":       TO,
	"by":       BY,
	"return":   RETURN,
	"throw":    THROW,
	"break":    BREAK,
	"array":    ARRAY,
	"of":       OF,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
}

// Position is a 1-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical token. For STRING tokens Literal holds the decoded
// contents; for ILLEGAL tokens it holds a description of the problem.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Lexer scans goof3 source one token at a time.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() byte {
	c := l.input[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// skipWhitespace skips blanks and comments. It returns a non-empty message
// when a block comment is not terminated.
func (l *Lexer) skipWhitespace() string {
	for l.pos < len(l.input) {
		c := l.peekByte(0)
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			for l.pos < len(l.input) && l.peekByte(0) != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByte(1) == '*':
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.input) {
					return "unterminated comment"
				}
				if l.peekByte(0) == '*' && l.peekByte(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return ""
		}
	}
	return ""
}

// NextToken scans and returns the next token. At the end of input it keeps
// returning EOF.
func (l *Lexer) NextToken() Token {
	if msg := l.skipWhitespace(); msg != "" {
		return Token{Type: ILLEGAL, Literal: msg, Pos: Position{l.line, l.col}}
	}
	pos := Position{l.line, l.col}
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Pos: pos}
	}

	c := l.peekByte(0)
	switch {
	case isLetter(c):
		word := l.readWhile(func(c byte) bool { return isLetter(c) || isDigit(c) })
		if kw, ok := keywords[word]; ok {
			return Token{Type: kw, Literal: word, Pos: pos}
		}
		return Token{Type: IDENT, Literal: word, Pos: pos}
	case isDigit(c):
		return l.readNumber(pos)
	case c == '"':
		return l.readString(pos)
	}

	two := string(c) + string(l.peekByte(1))
	switch two {
	case ":=", "<>", "<=", ">=":
		l.advance()
		l.advance()
		return Token{Type: TokenType(two), Literal: two, Pos: pos}
	case "&&":
		l.advance()
		l.advance()
		return Token{Type: AND, Literal: two, Pos: pos}
	case "||":
		l.advance()
		l.advance()
		return Token{Type: OR, Literal: two, Pos: pos}
	}

	l.advance()
	switch c {
	case '+', '-', '*', '/', '=', '<', '>', '&', '|', ',', ';', ':', '.', '(', ')', '{', '}', '[', ']':
		return Token{Type: TokenType(string(c)), Literal: string(c), Pos: pos}
	}
	return Token{Type: ILLEGAL, Literal: fmt.Sprintf("unexpected character %q", c), Pos: pos}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.input) && pred(l.peekByte(0)) {
		l.advance()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a decimal literal. Leading zeros are dropped from the
// integer part so that 010 means ten.
func (l *Lexer) readNumber(pos Position) Token {
	text := strings.TrimLeft(l.readWhile(isDigit), "0")
	if text == "" {
		text = "0"
	}
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		l.advance()
		text += "." + l.readWhile(isDigit)
		return Token{Type: FLOAT, Literal: text, Pos: pos}
	}
	return Token{Type: INT, Literal: text, Pos: pos}
}

func (l *Lexer) readString(pos Position) Token {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{Type: ILLEGAL, Literal: "unterminated string", Pos: pos}
		}
		c := l.advance()
		switch c {
		case '"':
			return Token{Type: STRING, Literal: sb.String(), Pos: pos}
		case '\\':
			if l.pos >= len(l.input) {
				return Token{Type: ILLEGAL, Literal: "unterminated string", Pos: pos}
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(esc)
			default:
				return Token{Type: ILLEGAL, Literal: fmt.Sprintf("invalid escape sequence \\%c", esc), Pos: pos}
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
