package parser

import (
	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/token"
)

func (p *Parser) parseIf() ast.Statement {
	n := &ast.If{Tok: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return n
	}
	p.nextToken()
	n.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	if !p.expectPeek(token.THEN) {
		return n
	}
	p.nextToken()
	n.Consequence = p.parseStatement()
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		n.Alternative = p.parseStatement()
	}
	return n
}

func (p *Parser) parseWhile() ast.Statement {
	n := &ast.While{Tok: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return n
	}
	p.nextToken()
	n.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockBody()
	return n
}

func (p *Parser) parseDoWhile() ast.Statement {
	n := &ast.DoWhile{Tok: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockBody()
	if !p.expectPeek(token.WHILE) {
		return n
	}
	if !p.expectPeek(token.LPAREN) {
		return n
	}
	p.nextToken()
	n.Condition = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.expectSemicolon()
	return n
}

func (p *Parser) parseFor() ast.Statement {
	n := &ast.For{Tok: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return n
	}
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		n.Init = p.parseStatement()
	}
	if !p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		n.Condition = p.parseExpression(LOWEST)
		p.nextToken()
	}
	p.nextToken()
	if !p.curTokenIs(token.RPAREN) {
		n.Post = p.parseStatement()
	}
	if !p.curTokenIs(token.RPAREN) {
		p.nextToken()
	}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockBody()
	return n
}

func (p *Parser) parseForEach() ast.Statement {
	n := &ast.ForEach{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.VarName = p.curToken.Literal
	if !p.expectPeek(token.IN) {
		return n
	}
	p.nextToken()
	n.Collection = p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockBody()
	return n
}

// parseBlockBody consumes statements up to and including the matching
// '}'. Precondition: curToken is '{'.
func (p *Parser) parseBlockBody() *ast.BlockStatement {
	tok := p.curToken
	body := &ast.BlockStatement{Tok: tok, Anonymous: true}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			body.Body = append(body.Body, stmt)
		}
		p.nextToken()
	}
	return body
}

// parseStatementList is like parseBlockBody but returns a flat slice
// used inside try/exceptions clauses.
func (p *Parser) parseStatementList() []ast.Statement {
	var stmts []ast.Statement
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseReturn() ast.Statement {
	n := &ast.Return{Tok: p.curToken}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		n.Value = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()
	return n
}

func (p *Parser) parsePrint() ast.Statement {
	n := &ast.Print{Tok: p.curToken, Stream: "info"}
	p.nextToken()
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		n.Stream = p.curToken.Literal
		p.nextToken()
		p.nextToken()
	}
	n.Value = p.parseExpression(LOWEST)
	p.expectSemicolon()
	return n
}

func (p *Parser) parseImport() ast.Statement {
	n := &ast.Import{Tok: p.curToken}
	if !p.expectPeek(token.STRING) {
		return n
	}
	n.Path = p.curToken.Literal
	p.expectSemicolon()
	return n
}

func (p *Parser) parseConnect() ast.Statement {
	n := &ast.Connect{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return n
	}
	p.nextToken()
	n.Spec = p.parseExpression(LOWEST)
	p.expectSemicolon()
	return n
}

func (p *Parser) parseUseConnection() ast.Statement {
	n := &ast.UseConnection{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockBody()
	return n
}

// parseCloseStatement disambiguates `close connection X;`, `close
// cursor X;` and `close screen X;`.
func (p *Parser) parseCloseStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	switch p.curToken.Type {
	case token.CURSOR:
		p.nextToken()
		n := &ast.CloseCursor{Tok: tok, Name: p.curToken.Literal}
		p.expectSemicolon()
		return n
	case token.SCREEN:
		p.nextToken()
		n := &ast.CloseScreen{Tok: tok, Name: p.curToken.Literal}
		p.expectSemicolon()
		return n
	default:
		// `close connection X;` or bare `close X;` (connection implied)
		if p.curTokenIs(token.IDENT) && p.curToken.Literal == "connection" {
			p.nextToken()
		}
		n := &ast.CloseConnection{Tok: tok, Name: p.curToken.Literal}
		p.expectSemicolon()
		return n
	}
}

func (p *Parser) parseCursorDecl() ast.Statement {
	n := &ast.CursorDecl{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return n
	}
	p.nextToken()
	n.Query = p.parseSqlSelectLiteral()
	p.expectSemicolon()
	return n
}

func (p *Parser) parseOpenCursor() ast.Statement {
	n := &ast.OpenCursor{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Args = p.parseArgumentList()
	}
	p.expectSemicolon()
	return n
}

func (p *Parser) parseScreen() ast.Statement {
	n := &ast.Screen{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return n
	}
	p.nextToken()
	n.Spec = p.parseExpression(LOWEST)
	p.expectSemicolon()
	return n
}

func (p *Parser) parseShowScreen() ast.Statement {
	n := &ast.ShowScreen{Tok: p.curToken}
	if !p.expectPeek(token.SCREEN) {
		return n
	}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		for _, a := range p.parseArgumentList() {
			n.Args = append(n.Args, a.Value)
		}
	}
	p.expectSemicolon()
	return n
}

func (p *Parser) parseHideScreen() ast.Statement {
	n := &ast.HideScreen{Tok: p.curToken}
	if !p.expectPeek(token.SCREEN) {
		return n
	}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	p.expectSemicolon()
	return n
}

func (p *Parser) parseSubmitScreen() ast.Statement {
	n := &ast.SubmitScreen{Tok: p.curToken}
	if !p.expectPeek(token.SCREEN) {
		return n
	}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	p.expectSemicolon()
	return n
}

func (p *Parser) parseCallStatement() ast.Statement {
	n := &ast.CallStatement{Tok: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Name = p.curToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Args = p.parseArgumentList()
	}
	p.expectSemicolon()
	return n
}

// parseBlockOrCallStatement distinguishes a named block declaration
// (`name(params) { ... }` or `name(params): type { ... }`) from a bare
// call used as a statement (`name(args);`); both start IDENT LPAREN.
func (p *Parser) parseBlockOrCallStatement() ast.Statement {
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken() // consume IDENT, curToken now LPAREN

	if p.looksLikeParamList() {
		return p.parseBlockDeclFrom(tok, name)
	}

	args := p.parseArgumentList()
	n := &ast.CallStatement{Tok: tok, Name: name, Args: args}
	p.expectSemicolon()
	return n
}

// looksLikeParamList distinguishes a parameter list (`name: type, ...`)
// from a call's argument list (bare expressions or `name = value`),
// using the parser's three-token lookahead. Precondition: curToken is
// the '(' that opens the list.
func (p *Parser) looksLikeParamList() bool {
	if p.peekTokenIs(token.RPAREN) {
		// Empty parens: a block head is followed by ':', 'exceptions' or
		// '{'; a call statement is followed by ';'.
		switch p.peekPeekToken.Type {
		case token.COLON, token.EXCEPTIONS, token.LBRACE:
			return true
		default:
			return false
		}
	}
	return p.peekTokenIs(token.IDENT) && p.peekPeekTokenIs(token.COLON)
}

func (p *Parser) parseBlockDeclFrom(tok token.Token, name string) ast.Statement {
	n := &ast.BlockStatement{Tok: tok, Name: name}
	n.Params = p.parseParameterList()
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		n.ReturnType = p.parseTypeSpec()
	}
	if p.peekTokenIs(token.EXCEPTIONS) {
		p.nextToken()
	}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseStatementList()
	if p.peekTokenIs(token.EXCEPTIONS) {
		p.nextToken()
		if p.expectPeek(token.LBRACE) {
			n.Handlers = p.parseExceptionHandlers()
		}
	}
	return n
}

func (p *Parser) parseTry() ast.Statement {
	n := &ast.Try{Tok: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.TryBlock = p.parseStatementList()
	if !p.expectPeek(token.EXCEPTIONS) {
		return n
	}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Handlers = p.parseExceptionHandlers()
	return n
}

func (p *Parser) parseExceptionHandlers() []ast.ExceptionHandler {
	var handlers []ast.ExceptionHandler
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.WHEN) {
			p.nextToken()
			continue
		}
		h := ast.ExceptionHandler{}
		if !p.expectPeek(token.IDENT) {
			return handlers
		}
		h.Kind = p.curToken.Literal
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if p.peekTokenIs(token.IDENT) {
				p.nextToken()
				h.Var = p.curToken.Literal
			}
			p.expectPeek(token.RPAREN)
		}
		if !p.expectPeek(token.LBRACE) {
			return handlers
		}
		h.Body = p.parseStatementList()
		handlers = append(handlers, h)
		p.nextToken()
	}
	return handlers
}

func (p *Parser) parseRaise() ast.Statement {
	n := &ast.Raise{Tok: p.curToken}
	if !p.expectPeek(token.EXCEPTION) {
		return n
	}
	if !p.expectPeek(token.IDENT) {
		return n
	}
	n.Kind = p.curToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		for _, a := range p.parseArgumentList() {
			n.Args = append(n.Args, a.Value)
		}
	}
	p.expectSemicolon()
	return n
}

// parseAssignOrExpressionStatement handles `lvalue = expr;`,
// `lvalue++;`/`lvalue--;`, `lvalue += expr;` and similar compound
// assignments, falling back to a bare call-statement wrapper for a
// standalone expression statement.
func (p *Parser) parseAssignOrExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)

	switch p.peekToken.Type {
	case token.ASSIGN:
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(LOWEST)
		p.expectSemicolon()
		return &ast.Assign{Tok: tok, Target: expr, Value: val}
	case token.PLUSEQ, token.MINUSEQ, token.MULEQ, token.DIVEQ:
		op := p.peekToken
		p.nextToken()
		p.nextToken()
		rhs := p.parseExpression(LOWEST)
		p.expectSemicolon()
		return &ast.Assign{Tok: tok, Target: expr, Value: &ast.Binary{
			Tok: op, Op: compoundBaseOp(op.Type), Left: expr, Right: rhs,
		}}
	case token.INC, token.DEC:
		op := p.peekToken
		p.nextToken()
		p.expectSemicolon()
		delta := &ast.Literal{Tok: op, Kind: "int", IntVal: 1}
		baseOp := "+"
		if op.Type == token.DEC {
			baseOp = "-"
		}
		return &ast.Assign{Tok: tok, Target: expr, Value: &ast.Binary{
			Tok: op, Op: baseOp, Left: expr, Right: delta,
		}}
	default:
		p.expectSemicolon()
		if call, ok := expr.(*ast.CallExpr); ok {
			return &ast.CallStatement{Tok: tok, Name: call.Name, Args: call.Args}
		}
		return &ast.CallStatement{Tok: tok, Name: expr.String()}
	}
}

func compoundBaseOp(tt token.Type) string {
	switch tt {
	case token.PLUSEQ:
		return "+"
	case token.MINUSEQ:
		return "-"
	case token.MULEQ:
		return "*"
	case token.DIVEQ:
		return "/"
	}
	return "+"
}
