// Package sexy reads the s-expressions used as expectations in goof3's
// markdown test suites, matches them against rendered trees, and extracts
// test cases from markdown documents.
package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
	NodeArray
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	case NodeArray:
		return "array"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is one datum: an atom, a (list) or an [array].
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList, NodeArray
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	case NodeEllipsis:
		return "..."
	case NodeList:
		return "(" + joinItems(n.Items) + ")"
	case NodeArray:
		return "[" + joinItems(n.Items) + "]"
	default:
		return fmt.Sprintf("<%s>", n.Type)
	}
}

func joinItems(items []*Node) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewArray(items ...*Node) *Node {
	return &Node{Type: NodeArray, Items: items}
}

// IsAtom reports whether n has no children.
func (n *Node) IsAtom() bool {
	return n.Type != NodeList && n.Type != NodeArray
}

// Head returns the leading symbol of a list, or "" if there is none.
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

type parser struct {
	lexer *lexer
	cur   token
}

// Parse parses input holding exactly one datum.
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.next()

	result, err := p.parseDatum()
	if p.lexer.err != nil {
		// Lexer errors come first; they usually explain the parser error.
		return nil, p.lexer.err
	}
	if err != nil {
		return nil, err
	}
	if p.cur.Type != tokenEOF {
		return nil, fmt.Errorf("%d: expected end of input, got %s", p.cur.Offset, p.cur.Type)
	}
	return result, nil
}

func (p *parser) next() {
	p.cur = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.cur
	switch tok.Type {
	case tokenSymbol:
		p.next()
		return NewSymbol(tok.Value), nil
	case tokenString:
		p.next()
		return NewString(tok.Value), nil
	case tokenInteger:
		p.next()
		return NewInteger(tok.Value), nil
	case tokenEllipsis:
		p.next()
		return NewEllipsis(), nil
	case tokenLParen:
		items, err := p.parseItems(tokenRParen)
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil
	case tokenLBracket:
		items, err := p.parseItems(tokenRBracket)
		if err != nil {
			return nil, err
		}
		return NewArray(items...), nil
	default:
		return nil, fmt.Errorf("%d: unexpected %s", tok.Offset, tok.Type)
	}
}

// parseItems parses data up to the closing token. The opening token is
// the current token.
func (p *parser) parseItems(closing tokenType) ([]*Node, error) {
	p.next()
	var items []*Node
	for p.cur.Type != closing && p.cur.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if p.cur.Type != closing {
		return nil, fmt.Errorf("%d: expected %s, got %s", p.cur.Offset, closing, p.cur.Type)
	}
	p.next()
	return items, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "'...'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

type token struct {
	Type   tokenType
	Value  string
	Offset int
}

type lexer struct {
	input string
	pos   int
	err   error
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// skipSpace skips whitespace and ; line comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case unicode.IsSpace(rune(c)):
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) fail(offset int, format string, args ...any) token {
	if l.err == nil {
		l.err = fmt.Errorf("%d: %s", offset, fmt.Sprintf(format, args...))
	}
	l.pos = len(l.input)
	return token{Type: tokenEOF, Offset: offset}
}

var punctuation = map[byte]tokenType{
	'(': tokenLParen,
	')': tokenRParen,
	'[': tokenLBracket,
	']': tokenRBracket,
}

func (l *lexer) nextToken() token {
	l.skipSpace()
	start := l.pos
	c := l.peek(0)

	if tt, ok := punctuation[c]; ok {
		l.pos++
		return token{Type: tt, Value: string(c), Offset: start}
	}

	switch {
	case l.pos >= len(l.input):
		return token{Type: tokenEOF, Offset: start}
	case c == '"':
		return l.readString()
	case c == '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			l.pos += 3
			return token{Type: tokenEllipsis, Value: "...", Offset: start}
		}
		return l.fail(start, "unexpected character '.'")
	case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
		return token{Type: tokenInteger, Value: l.input[start:l.pos], Offset: start}
	case isSymbolChar(c):
		for isSymbolChar(l.peek(0)) {
			l.pos++
		}
		return token{Type: tokenSymbol, Value: l.input[start:l.pos], Offset: start}
	default:
		return l.fail(start, "unexpected character '%c'", c)
	}
}

func (l *lexer) readString() token {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.fail(start, "unterminated string")
		}
		c := l.input[l.pos]
		l.pos++
		switch c {
		case '"':
			return token{Type: tokenString, Value: sb.String(), Offset: start}
		case '\\':
			esc := l.peek(0)
			l.pos++
			switch esc {
			case '"', '\\':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return l.fail(l.pos-2, "invalid escape sequence '\\%c'", esc)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isSymbolChar accepts operator characters so that bare operators such as
// + or <= read as symbols.
func isSymbolChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}
	return strings.IndexByte("_-+*/<>=&|!?", c) >= 0
}
