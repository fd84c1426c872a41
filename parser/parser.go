package parser

import (
	"fmt"
	"strings"

	"github.com/strager/goof3/ast"
)

// bailout unwinds the parser to the nearest statement boundary after an
// error has been recorded.
type bailout struct{}

// Parser is a recursive descent parser with precedence climbing for
// binary operators.
type Parser struct {
	lexer  *Lexer
	cur    Token
	peek   Token
	index  int // number of tokens consumed so far
	Errors ErrorList
}

func NewParser(input []byte) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	p.next()
	return p
}

// ParseProgram parses a complete source file. The program is returned even
// when there are errors, with the broken statements left out.
func ParseProgram(input []byte) (*ast.Program, error) {
	p := NewParser(input)
	prog := p.ParseProgram()
	return prog, p.Errors.Err()
}

// ParseExpression parses input holding exactly one expression.
func ParseExpression(input []byte) (ast.Node, error) {
	p := NewParser(input)
	var expr ast.Node
	func() {
		defer p.recoverBailout()
		expr = p.parseExpression()
		if p.cur.Type == SEMICOLON {
			p.next()
		}
		if p.cur.Type != EOF {
			p.unexpected("end of input")
		}
	}()
	return expr, p.Errors.Err()
}

func (p *Parser) ParseProgram() *ast.Program {
	return &ast.Program{Body: p.parseStatements(EOF)}
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
	p.index++
}

func (p *Parser) fail(pos Position, format string, args ...any) {
	p.Errors.Add(pos, format, args...)
	panic(bailout{})
}

func (p *Parser) unexpected(expected string) {
	if p.cur.Type == ILLEGAL {
		p.fail(p.cur.Pos, "%s", p.cur.Literal)
	}
	p.fail(p.cur.Pos, "expected %s, got %s", expected, describe(p.cur))
}

// expect consumes the current token, which must be of type tt.
func (p *Parser) expect(tt TokenType) Token {
	if p.cur.Type != tt {
		p.unexpected(describeType(tt))
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) recoverBailout() {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
	}
}

// synchronize skips to the start of the next statement.
func (p *Parser) synchronize() {
	moved := false
	for p.cur.Type != EOF {
		switch {
		case p.cur.Type == SEMICOLON:
			p.next()
			return
		case p.cur.Type == RBRACE:
			return
		case moved && isStatementKeyword(p.cur.Type):
			return
		}
		p.next()
		moved = true
	}
}

func (p *Parser) parseStatements(end TokenType) []ast.Node {
	stmts := []ast.Node{}
	for p.cur.Type != end && p.cur.Type != EOF {
		if p.cur.Type == SEMICOLON {
			p.next()
			continue
		}
		start := p.index
		if stmt := p.parseStatementOrSync(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.index == start {
			p.next()
		}
	}
	return stmts
}

func (p *Parser) parseStatementOrSync() (stmt ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt = nil
			p.synchronize()
		}
	}()
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Node {
	switch p.cur.Type {
	case VAR:
		return p.parseVarDecl()
	case CONST:
		return p.parseConstDecl()
	case TYPE:
		p.next()
		name := p.expect(IDENT).Literal
		p.expect(EQ)
		return &ast.TypeDeclaration{Name: name, TypeExpr: p.parseTypeExpr()}
	case FUNCTION:
		return p.parseFunc()
	case METHOD:
		return p.parseMethod()
	case IF:
		return p.parseIf()
	case WHILE:
		p.next()
		test := p.parseExpression()
		p.expect(DO)
		return &ast.WhileStatement{Test: test, Body: p.parseBranch()}
	case FOR:
		return p.parseFor()
	case RETURN:
		p.next()
		ret := &ast.ReturnStatement{}
		if canStartExpression(p.cur.Type) {
			ret.Value = p.parseExpression()
		}
		return ret
	case THROW:
		p.next()
		return &ast.ThrowStatement{Value: p.parseExpression()}
	case BREAK:
		p.next()
		return &ast.BreakStatement{}
	default:
		return p.parseSimpleStatement()
	}
}

// parseVarDecl parses
//
//	var x : T
//	var x : T := e
//	var a : array of T [n] := e
func (p *Parser) parseVarDecl() ast.Node {
	p.expect(VAR)
	name := p.expect(IDENT).Literal
	p.expect(COLON)
	typ := p.parseTypeExpr()
	decl := &ast.VariableDeclaration{Name: name, TypeExpr: typ}

	if p.cur.Type == LBRACKET {
		p.next()
		size := p.parseExpression()
		p.expect(RBRACKET)
		p.expect(ASSIGN)
		elem := typ
		if arr, ok := typ.(*ast.ArrayType); ok {
			elem = arr.Elem
		}
		decl.Init = &ast.ArrayExpression{
			ElemType: elem,
			Size:     size,
			Elements: []ast.Node{p.parseExpression()},
		}
		return decl
	}

	if p.cur.Type == ASSIGN {
		p.next()
		decl.Init = p.parseExpression()
	}
	return decl
}

func (p *Parser) parseConstDecl() ast.Node {
	p.expect(CONST)
	name := p.expect(IDENT).Literal
	p.expect(COLON)
	typ := p.parseTypeExpr()
	p.expect(ASSIGN)
	return &ast.VariableDeclaration{
		Name:     name,
		TypeExpr: typ,
		Init:     p.parseExpression(),
		ReadOnly: true,
	}
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.cur.Type {
	case IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.PrimitiveType{Name: name}
	case ARRAY:
		p.next()
		p.expect(OF)
		return &ast.ArrayType{Elem: p.parseTypeExpr()}
	case LBRACE:
		p.next()
		rec := &ast.RecordType{}
		for p.cur.Type != RBRACE {
			if len(rec.Fields) > 0 {
				p.expect(COMMA)
			}
			name := p.expect(IDENT).Literal
			p.expect(COLON)
			rec.Fields = append(rec.Fields, &ast.Field{Name: name, TypeExpr: p.parseTypeExpr()})
		}
		p.next()
		return rec
	}
	p.unexpected("a type")
	return nil
}

func (p *Parser) parseParams() []*ast.Parameter {
	p.expect(LPAREN)
	var params []*ast.Parameter
	for p.cur.Type != RPAREN {
		if len(params) > 0 {
			p.expect(COMMA)
		}
		name := p.expect(IDENT).Literal
		p.expect(COLON)
		params = append(params, &ast.Parameter{Name: name, TypeExpr: p.parseTypeExpr()})
	}
	p.next()
	return params
}

func (p *Parser) parseResult() ast.TypeExpr {
	if p.cur.Type != COLON {
		return nil
	}
	p.next()
	return p.parseTypeExpr()
}

func (p *Parser) parseFunc() ast.Node {
	p.expect(FUNCTION)
	fn := &ast.Func{Name: p.expect(IDENT).Literal}
	fn.Params = p.parseParams()
	fn.Result = p.parseResult()
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseMethod() ast.Node {
	p.expect(METHOD)
	m := &ast.Method{Name: p.expect(IDENT).Literal}
	m.Params = p.parseParams()
	m.Result = p.parseResult()
	p.expect(EQ)
	m.Body = p.parseExpression()
	return m
}

func (p *Parser) parseBlock() []ast.Node {
	p.expect(LBRACE)
	stmts := p.parseStatements(RBRACE)
	p.expect(RBRACE)
	return stmts
}

// parseBranch parses a block or a single statement.
func (p *Parser) parseBranch() []ast.Node {
	if p.cur.Type == LBRACE {
		return p.parseBlock()
	}
	return []ast.Node{p.parseStatement()}
}

func (p *Parser) parseIf() ast.Node {
	p.expect(IF)
	gif := &ast.GifStatement{}
	for {
		gif.Tests = append(gif.Tests, p.parseExpression())
		p.expect(THEN)
		gif.Consequents = append(gif.Consequents, p.parseBranch())
		if p.cur.Type != ELIF {
			break
		}
		p.next()
	}
	if p.cur.Type == ELSE {
		p.next()
		gif.Alternate = p.parseBranch()
	}
	return gif
}

func (p *Parser) parseFor() ast.Node {
	p.expect(FOR)
	name := p.expect(IDENT).Literal
	p.expect(ASSIGN)
	start := p.parseExpression()
	p.expect(TO)
	loop := &ast.ForStatement{
		Iterator: &ast.VariableDeclaration{
			Name:     name,
			TypeExpr: &ast.PrimitiveType{Name: ast.KindWholeNumber},
			Init:     start,
			ReadOnly: true,
		},
		Bound: p.parseExpression(),
	}
	if p.cur.Type == BY {
		p.next()
		loop.Step = p.parseExpression()
	}
	p.expect(DO)
	loop.Body = p.parseBranch()
	return loop
}

func (p *Parser) parseSimpleStatement() ast.Node {
	pos := p.cur.Pos
	expr := p.parseExpression()
	if p.cur.Type != ASSIGN {
		return expr
	}
	switch expr.(type) {
	case *ast.IdExp, *ast.MemberExpression:
	default:
		p.fail(pos, "cannot assign to %s", ast.ToSExpr(expr))
	}
	p.next()
	return &ast.AssignmentStatement{Target: expr, Value: p.parseExpression()}
}

// precedence returns the binding power of a binary operator, or 0.
func precedence(tt TokenType) int {
	switch tt {
	case OR:
		return 1
	case AND:
		return 2
	case EQ, NOT_EQ, LT, GT, LE, GE:
		return 3
	case PLUS, MINUS:
		return 4
	case ASTERISK, SLASH:
		return 5
	default:
		return 0
	}
}

func (p *Parser) parseExpression() ast.Node {
	return p.parseExpressionWithPrecedence(1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrec int) ast.Node {
	left := p.parseUnary()
	for {
		prec := precedence(p.cur.Type)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.cur.Literal
		p.next()
		right := p.parseExpressionWithPrecedence(prec + 1) // left-associative
		left = &ast.BinaryExpression{Op: op, Left: left, Right: right}
	}
}

// parseUnary rewrites -e as 0 - e.
func (p *Parser) parseUnary() ast.Node {
	if p.cur.Type != MINUS {
		return p.parsePostfix()
	}
	p.next()
	return &ast.BinaryExpression{
		Op:    "-",
		Left:  &ast.Literal{Kind: ast.KindWholeNumber, Value: "0"},
		Right: p.parseUnary(),
	}
}

func (p *Parser) parsePostfix() ast.Node {
	left := p.parsePrimary()
	for {
		switch p.cur.Type {
		case LBRACKET:
			p.next()
			index := p.parseExpression()
			p.expect(RBRACKET)
			left = &ast.MemberExpression{Object: left, Property: index, Computed: true}
		case DOT:
			p.next()
			name := p.expect(IDENT).Literal
			left = &ast.MemberExpression{Object: left, Property: &ast.IdExp{Name: name}}
		case LPAREN:
			callee, ok := left.(*ast.IdExp)
			if !ok {
				p.fail(p.cur.Pos, "only named functions can be called")
			}
			left = &ast.CallExpression{Callee: callee, Args: p.parseArgs()}
		default:
			return left
		}
	}
}

func (p *Parser) parseArgs() []ast.Node {
	p.expect(LPAREN)
	args := []ast.Node{}
	for p.cur.Type != RPAREN {
		if len(args) > 0 {
			p.expect(COMMA)
		}
		args = append(args, p.parseExpression())
	}
	p.next()
	return args
}

func (p *Parser) parsePrimary() ast.Node {
	tok := p.cur
	switch tok.Type {
	case INT:
		p.next()
		return &ast.Literal{Kind: ast.KindWholeNumber, Value: tok.Literal}
	case FLOAT:
		p.next()
		return &ast.Literal{Kind: ast.KindNotWholeNumber, Value: tok.Literal}
	case STRING:
		p.next()
		return &ast.Literal{Kind: ast.KindArrayOfChars, Value: tok.Literal}
	case TRUE, FALSE:
		p.next()
		return &ast.Literal{Kind: ast.KindTrueOrFalse, Value: tok.Literal}
	case NIL:
		p.next()
		return &ast.Literal{Kind: ast.KindNothing, Value: tok.Literal}
	case IDENT:
		p.next()
		if p.cur.Type == LBRACE {
			return p.parseObject(tok.Literal)
		}
		return &ast.IdExp{Name: tok.Literal}
	case ARRAY:
		return p.parseArrayExpression()
	case LPAREN:
		p.next()
		expr := p.parseExpression()
		p.expect(RPAREN)
		return expr
	}
	p.unexpected("an expression")
	return nil
}

// parseObject parses the field list of a record literal after its type name.
func (p *Parser) parseObject(typeName string) ast.Node {
	p.expect(LBRACE)
	obj := &ast.ObjectExp{TypeName: typeName}
	for p.cur.Type != RBRACE {
		if len(obj.Fields) > 0 {
			p.expect(COMMA)
		}
		name := p.expect(IDENT).Literal
		p.expect(ASSIGN)
		obj.Fields = append(obj.Fields, &ast.Field{Name: name, Value: p.parseExpression()})
	}
	p.next()
	return obj
}

// parseArrayExpression parses
//
//	array of T [size] of value
func (p *Parser) parseArrayExpression() ast.Node {
	p.expect(ARRAY)
	p.expect(OF)
	elem := p.parseTypeExpr()
	p.expect(LBRACKET)
	size := p.parseExpression()
	p.expect(RBRACKET)
	p.expect(OF)
	return &ast.ArrayExpression{
		ElemType: elem,
		Size:     size,
		Elements: []ast.Node{p.parseExpression()},
	}
}

func canStartExpression(tt TokenType) bool {
	switch tt {
	case IDENT, INT, FLOAT, STRING, TRUE, FALSE, NIL, LPAREN, MINUS, ARRAY:
		return true
	default:
		return false
	}
}

func isStatementKeyword(tt TokenType) bool {
	switch tt {
	case VAR, CONST, TYPE, FUNCTION, METHOD, IF, WHILE, FOR, RETURN, THROW, BREAK:
		return true
	default:
		return false
	}
}

func describeType(tt TokenType) string {
	switch tt {
	case IDENT:
		return "identifier"
	case EOF:
		return "end of input"
	}
	if word := strings.ToLower(string(tt)); keywords[word] == tt {
		return "'" + word + "'"
	}
	return "'" + string(tt) + "'"
}

func describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of input"
	case IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case INT, FLOAT:
		return "number " + tok.Literal
	case STRING:
		return "string"
	default:
		return "'" + tok.Literal + "'"
	}
}
