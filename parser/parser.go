// Package parser implements a recursive-descent, Pratt-style parser
// for EBS source text, producing an ast.Program.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/source"
	"github.com/ebscore/ebs/token"
	"github.com/ebscore/ebs/typereg"
)

// Operator precedence levels, high binds tighter (spec §4.2 "Expression
// grammar").
const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	COMPARE
	SUM
	PRODUCT
	EXPONENT
	PREFIX
	INDEX
)

var precedences = map[token.Type]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.EQ:       COMPARE,
	token.NEQ:      COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.CARET:    EXPONENT,
	token.LPAREN:   INDEX,
	token.LBRACKET: INDEX,
	token.DOT:      INDEX,
}

var comparisonOps = map[token.Type]bool{
	token.LT: true, token.GT: true, token.LTE: true, token.GTE: true,
	token.EQ: true, token.NEQ: true,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into an *ast.Program. It owns the Type
// Registry for the parse: typedef statements register aliases as they
// are encountered so later declarations can name them (spec §4.3).
type Parser struct {
	l     *lexer.Lexer
	src   *source.Buffer
	Types *typereg.Registry

	errors []string

	curToken     token.Token
	peekToken    token.Token
	peekPeekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	blocks map[string]*ast.BlockStatement
}

// New creates a Parser over l. src, if non-nil, is used to slice raw
// JSON/SQL literal text verbatim; callers that only need syntax trees
// (e.g. tests) may omit it.
func New(l *lexer.Lexer, src *source.Buffer) *Parser {
	p := &Parser{
		l:      l,
		src:    src,
		Types:  typereg.New(),
		blocks: make(map[string]*ast.BlockStatement),
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.LONG, p.parseLongLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.DOUBLE, p.parseDoubleLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.DATE, p.parseDateLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.PLUS, p.parseUnaryExpression)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.TYPEOF, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseJsonLiteral)
	p.registerPrefix(token.HASH, p.parseBuiltinRefExpression)
	p.registerPrefix(token.QUEUE, p.parseQueueLiteral)
	p.registerPrefix(token.ARRAY, p.parseArrayAllocExpression)
	p.registerPrefix(token.BYTE, p.parseCastExpression)
	p.registerPrefix(token.INTEGER, p.parseCastExpression)
	p.registerPrefix(token.LONG_T, p.parseCastExpression)
	p.registerPrefix(token.FLOAT_T, p.parseCastExpression)
	p.registerPrefix(token.DOUBLE_T, p.parseCastExpression)
	p.registerPrefix(token.STRING_T, p.parseCastExpression)
	p.registerPrefix(token.DATE_T, p.parseCastExpression)
	p.registerPrefix(token.BOOLEAN, p.parseCastExpression)
	p.registerPrefix(token.JSON_T, p.parseCastExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	for tt := range precedences {
		switch tt {
		case token.LPAREN, token.LBRACKET, token.DOT:
			// handled structurally in parsePostfix, not as a generic infix
		default:
			p.registerInfix(tt, p.parseBinaryOrChainedExpression)
		}
	}

	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt token.Type, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt token.Type, fn infixParseFn)   { p.infixParseFns[tt] = fn }

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) errorf(line int, format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekError(t token.Type) {
	p.errorf(p.peekToken.Line, "expected next token to be %s, got %s (%q)", t, p.peekToken.Type, p.peekToken.Literal)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.peekPeekToken
	for {
		p.peekPeekToken = p.l.NextToken()
		if p.peekPeekToken.Type != token.COMMENT {
			break
		}
	}
}

func (p *Parser) curTokenIs(t token.Type) bool      { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool     { return p.peekToken.Type == t }
func (p *Parser) peekPeekTokenIs(t token.Type) bool { return p.peekPeekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram consumes the whole token stream and returns the
// resulting statement list plus the block table collected along the
// way (spec §4.2 contract).
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Blocks: p.blocks}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
			if b, ok := stmt.(*ast.BlockStatement); ok && b.Name != "" {
				p.blocks[b.Name] = b
			}
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR, token.CONST:
		return p.parseVarDecl()
	case token.TYPEDEF:
		return p.parseTypedefDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.FOREACH:
		return p.parseForEach()
	case token.BREAK:
		return &ast.Break{Tok: p.curToken}
	case token.CONTINUE:
		return &ast.Continue{Tok: p.curToken}
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	case token.IMPORT:
		return p.parseImport()
	case token.CONNECT:
		return p.parseConnect()
	case token.USE:
		return p.parseUseConnection()
	case token.CLOSE:
		return p.parseCloseStatement()
	case token.CURSOR:
		return p.parseCursorDecl()
	case token.OPEN:
		return p.parseOpenCursor()
	case token.SCREEN:
		return p.parseScreen()
	case token.SHOW:
		return p.parseShowScreen()
	case token.HIDE:
		return p.parseHideScreen()
	case token.SUBMIT:
		return p.parseSubmitScreen()
	case token.CALL:
		return p.parseCallStatement()
	case token.TRY:
		return p.parseTry()
	case token.RAISE:
		return p.parseRaise()
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseBlockOrCallStatement()
		}
		return p.parseAssignOrExpressionStatement()
	default:
		return p.parseAssignOrExpressionStatement()
	}
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

func (p *Parser) parseVarDecl() ast.Statement {
	n := &ast.VarDecl{Tok: p.curToken, Const: p.curTokenIs(token.CONST)}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n.Name = p.curToken.Literal

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		n.Type = p.parseTypeSpec()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		n.Initializer = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()
	return n
}

func (p *Parser) parseTypedefDecl() ast.Statement {
	n := &ast.TypedefDecl{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n.Name = p.curToken.Literal
	if !p.expectPeek(token.TYPEOF) {
		return nil
	}
	p.nextToken()
	n.Type = p.parseTypeSpec()
	p.Types.Define(n.Name, n.Type)
	p.expectSemicolon()
	return n
}

// parseTypeSpec parses the type grammar (spec §4.2 "Type grammar").
// Precondition: curToken is the first token of the type.
func (p *Parser) parseTypeSpec() *ast.TypeSpec {
	tok := p.curToken
	switch p.curToken.Type {
	case token.BYTE, token.INTEGER, token.LONG_T, token.FLOAT_T, token.DOUBLE_T,
		token.STRING_T, token.DATE_T, token.BOOLEAN, token.JSON_T, token.VOID:
		return &ast.TypeSpec{Tok: tok, Name: p.curToken.Type.String()}
	case token.RECORD:
		return p.parseRecordTypeSpec(tok)
	case token.BITMAP:
		return p.parseBitPackTypeSpec(tok, true)
	case token.INTMAP:
		return p.parseBitPackTypeSpec(tok, false)
	case token.ARRAY:
		return p.parseArrayTypeSpec(tok)
	case token.QUEUE:
		return p.parseQueueTypeSpec(tok)
	case token.SORTED:
		if !p.expectPeek(token.MAP) {
			return nil
		}
		return &ast.TypeSpec{Tok: tok, IsMap: true, Sorted: true}
	case token.MAP:
		return &ast.TypeSpec{Tok: tok, IsMap: true}
	case token.IDENT:
		return &ast.TypeSpec{Tok: tok, Name: p.curToken.Literal, Alias: true}
	default:
		p.errorf(tok.Line, "unexpected token %s in type position", p.curToken.Type)
		return &ast.TypeSpec{Tok: tok, Name: "void"}
	}
}

func (p *Parser) parseRecordTypeSpec(tok token.Token) *ast.TypeSpec {
	n := &ast.TypeSpec{Tok: tok, IsRecord: true}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		field := ast.FieldSpec{Name: p.curToken.Literal}
		if !p.expectPeek(token.COLON) {
			return n
		}
		p.nextToken()
		field.Type = p.parseTypeSpec()
		n.Fields = append(n.Fields, field)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(token.RBRACE)
	return n
}

func (p *Parser) parseBitPackTypeSpec(tok token.Token, bitmap bool) *ast.TypeSpec {
	n := &ast.TypeSpec{Tok: tok, IsBitmap: bitmap, IsIntmap: !bitmap}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		bf := ast.BitFieldSpec{Name: p.curToken.Literal}
		if !p.expectPeek(token.COLON) {
			return n
		}
		if !p.expectPeek(token.INT) {
			return n
		}
		start, _ := strconv.Atoi(p.curToken.Literal)
		bf.StartBit, bf.EndBit = start, start
		if p.peekTokenIs(token.MINUS) {
			p.nextToken()
			if !p.expectPeek(token.INT) {
				return n
			}
			bf.EndBit, _ = strconv.Atoi(p.curToken.Literal)
		}
		if p.overlapsExistingBitField(n.BitFields, bf) {
			p.errorf(tok.Line, "bit field %q overlaps an existing field", bf.Name)
		}
		n.BitFields = append(n.BitFields, bf)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(token.RBRACE)
	return n
}

func (p *Parser) overlapsExistingBitField(existing []ast.BitFieldSpec, bf ast.BitFieldSpec) bool {
	for _, e := range existing {
		if bf.StartBit <= e.EndBit && e.StartBit <= bf.EndBit {
			return true
		}
	}
	return false
}

func (p *Parser) parseArrayTypeSpec(tok token.Token) *ast.TypeSpec {
	n := &ast.TypeSpec{Tok: tok, IsArray: true}
	if !p.expectPeek(token.DOT) {
		return n
	}
	p.nextToken()
	n.ElemType = p.parseTypeSpec()
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		if p.curTokenIs(token.ASTERISK) {
			n.ArraySize = nil
		} else {
			n.ArraySize = p.parseExpression(LOWEST)
		}
		p.expectPeek(token.RBRACKET)
	}
	return n
}

func (p *Parser) parseQueueTypeSpec(tok token.Token) *ast.TypeSpec {
	n := &ast.TypeSpec{Tok: tok, IsQueue: true}
	if !p.expectPeek(token.DOT) {
		return n
	}
	p.nextToken()
	n.ElemType = p.parseTypeSpec()
	return n
}

func (p *Parser) expectSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}
