package parser

import (
	"strconv"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/token"
)

// parseExpression implements the Pratt precedence climb (spec §4.2
// "Expression grammar").
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Line, "no prefix parse function for %s found", p.curToken.Type)
		return nil
	}
	left := prefix()
	left = p.parsePostfix(left)

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parsePostfix consumes any chain of '.', '[...]' and '(...)' that
// immediately follows a primary expression (property access, indexing,
// and calls bind tighter than any operator, spec §4.2).
func (p *Parser) parsePostfix(left ast.Expression) ast.Expression {
	for {
		switch p.peekToken.Type {
		case token.DOT:
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return left
			}
			field := p.curToken.Literal
			if v, ok := left.(*ast.Variable); ok && (field == "hasNext" || field == "next") && p.peekTokenIs(token.LPAREN) {
				tok := p.curToken
				p.nextToken()
				p.expectPeek(token.RPAREN)
				if field == "hasNext" {
					left = &ast.CursorHasNext{Tok: tok, CursorName: v.Name}
				} else {
					left = &ast.CursorNext{Tok: tok, CursorName: v.Name}
				}
				continue
			}
			left = &ast.Property{Tok: p.curToken, Target: left, Field: field}
		case token.LBRACKET:
			p.nextToken()
			tok := p.curToken
			p.nextToken()
			indices := []ast.Expression{p.parseExpression(LOWEST)}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				indices = append(indices, p.parseExpression(LOWEST))
			}
			if !p.expectPeek(token.RBRACKET) {
				return left
			}
			left = &ast.Index{Tok: tok, Target: left, Indices: indices}
		default:
			return left
		}
	}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken.Line, "invalid integer literal %q", p.curToken.Literal)
	}
	return &ast.Literal{Tok: p.curToken, Kind: "int", IntVal: v}
}

func (p *Parser) parseLongLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken.Line, "invalid long literal %q", p.curToken.Literal)
	}
	return &ast.Literal{Tok: p.curToken, Kind: "long", IntVal: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken.Line, "invalid float literal %q", p.curToken.Literal)
	}
	return &ast.Literal{Tok: p.curToken, Kind: "float", FloatVal: v}
}

func (p *Parser) parseDoubleLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken.Line, "invalid double literal %q", p.curToken.Literal)
	}
	return &ast.Literal{Tok: p.curToken, Kind: "double", FloatVal: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.Literal{Tok: p.curToken, Kind: "string", StringVal: p.curToken.Literal}
}

func (p *Parser) parseDateLiteral() ast.Expression {
	return &ast.Literal{Tok: p.curToken, Kind: "date", StringVal: p.curToken.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.Literal{Tok: p.curToken, Kind: "bool", BoolVal: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Literal{Tok: p.curToken, Kind: "null"}
}

// parseIdentifierOrCall handles a bare variable reference, a record
// literal (`TypeAlias { ... }`), and a call expression
// (`name(args)`), all of which begin with IDENT.
func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.curToken
	name := p.curToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if name == "length" || name == "size" {
			if p.peekTokenIs(token.RPAREN) {
				p.nextToken()
				return &ast.LengthExpr{Tok: tok}
			}
			p.nextToken()
			target := p.parseExpression(LOWEST)
			p.expectPeek(token.RPAREN)
			return &ast.LengthExpr{Tok: tok, Target: target}
		}
		args := p.parseArgumentList()
		return &ast.CallExpr{Tok: tok, Name: name, Args: args}
	}

	if p.peekTokenIs(token.LBRACE) && isTypeAliasName(name) {
		p.nextToken()
		raw := p.sliceBalancedBraces()
		return &ast.JsonLiteral{Tok: tok, Raw: raw, TypeName: name}
	}

	return &ast.Variable{Tok: tok, Name: name}
}

// isTypeAliasName applies the spec's convention that record literal
// aliases are capitalized identifiers, distinguishing `Point { x: 1 }`
// from a bare variable immediately followed by an unrelated `{` (which
// cannot occur in an expression context in EBS).
func isTypeAliasName(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := tok.Literal
	if tok.Type == token.TYPEOF {
		op = "typeof"
	}
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.Unary{Tok: tok, Op: op, Right: right}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return exp
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	n := &ast.ArrayLiteral{Tok: tok}
	n.Elements = p.parseExpressionListUntil(token.RBRACKET)
	return n
}

func (p *Parser) parseExpressionListUntil(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

// parseJsonLiteral captures a brace-matched raw slice beginning at the
// current '{' for later evaluation by the JSON reader (spec §4.2
// "JSON and SQL literals").
func (p *Parser) parseJsonLiteral() ast.Expression {
	tok := p.curToken
	raw := p.sliceBalancedBraces()
	return &ast.JsonLiteral{Tok: tok, Raw: raw}
}

// sliceBalancedBraces scans forward from the current '{' token,
// tracking nesting depth over the token stream, and returns the exact
// source text spanned. Precondition: curToken is '{'. Postcondition:
// curToken is the matching '}'.
func (p *Parser) sliceBalancedBraces() string {
	start := p.curToken.Start
	depth := 1
	end := p.curToken.End
	for depth > 0 {
		p.nextToken()
		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken.Line, "unterminated JSON literal")
			break
		}
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
		end = p.curToken.End
	}
	if p.src != nil {
		return p.src.Slice(start, end)
	}
	return ""
}

// parseSqlSelectLiteral captures raw SELECT text up to (and including)
// its terminating ';'.
func (p *Parser) parseSqlSelectLiteral() *ast.SqlSelect {
	tok := p.curToken
	start := p.curToken.Start
	end := p.curToken.End
	for !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		end = p.curToken.End
	}
	raw := ""
	if p.src != nil {
		raw = p.src.Slice(start, end)
	}
	return &ast.SqlSelect{Tok: tok, Raw: raw}
}

func (p *Parser) parseBuiltinRefExpression() ast.Expression {
	tok := p.curToken
	if !p.peekTokenIs(token.IDENT) && !p.peekToken.Type.IsKeyword() {
		p.peekError(token.IDENT)
		return &ast.Variable{Tok: tok, Name: ""}
	}
	p.nextToken()
	name := p.curToken.Literal
	var left ast.Expression = &ast.Variable{Tok: tok, Name: name}
	for p.peekTokenIs(token.DOT) && (p.peekPeekTokenIs(token.IDENT) || p.peekPeekToken.Type.IsKeyword()) {
		p.nextToken()
		p.nextToken()
		name += "." + p.curToken.Literal
		left = &ast.Property{Tok: p.curToken, Target: left, Field: p.curToken.Literal}
	}
	if !p.peekTokenIs(token.LPAREN) {
		return left
	}
	p.nextToken()
	args := p.parseArgumentList()
	return &ast.CallExpr{Tok: tok, Name: name, Args: args}
}

func (p *Parser) parseQueueLiteral() ast.Expression {
	tok := p.curToken
	n := &ast.QueueLiteral{Tok: tok}
	if !p.expectPeek(token.DOT) {
		return n
	}
	p.nextToken()
	n.ElemType = p.parseTypeSpec()
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Elements = p.parseExpressionListUntilBrace()
	return n
}

func (p *Parser) parseExpressionListUntilBrace() []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RBRACE)
	return list
}

// parseArrayAllocExpression handles `array.T[dims] { init }` used as
// an expression (spec §3.2 "ArrayAlloc").
func (p *Parser) parseArrayAllocExpression() ast.Expression {
	tok := p.curToken
	n := &ast.ArrayAlloc{Tok: tok}
	if !p.expectPeek(token.DOT) {
		return n
	}
	p.nextToken()
	n.ElemType = p.parseTypeSpec()
	for p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		n.Dims = append(n.Dims, p.parseExpression(LOWEST))
		p.expectPeek(token.RBRACKET)
	}
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		n.Initializer = p.parseJsonLiteral()
	}
	return n
}

// parseCastExpression handles `type(expr)` including cast-via-alias
// (spec §4.5.2 "Cast"); invoked when curToken is a primitive type
// keyword immediately followed by '('.
func (p *Parser) parseCastExpression() ast.Expression {
	spec := p.parseTypeSpec()
	if !p.expectPeek(token.LPAREN) {
		return &ast.Cast{Type: spec}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return &ast.Cast{Tok: spec.Tok, Type: spec, Value: val}
}

// parseBinaryOrChainedExpression parses one infix operator application
// and, for comparison operators, looks ahead to desugar a run of
// chained comparisons into a single ChainedComparison node (spec §4.2
// "Chained comparisons").
func (p *Parser) parseBinaryOrChainedExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	precedence := p.curPrecedence()

	if tok.Type == token.CARET {
		// right-associative: a ^ b ^ c == a ^ (b ^ c)
		p.nextToken()
		right := p.parseExpression(precedence - 1)
		return &ast.Binary{Tok: tok, Op: op, Left: left, Right: right}
	}

	if !comparisonOps[tok.Type] {
		p.nextToken()
		right := p.parseExpression(precedence)
		return &ast.Binary{Tok: tok, Op: op, Left: left, Right: right}
	}

	operands := []ast.Expression{left}
	ops := []string{op}
	p.nextToken()
	operands = append(operands, p.parseExpression(precedence))

	for comparisonOps[p.peekToken.Type] {
		p.nextToken()
		ops = append(ops, p.curToken.Literal)
		p.nextToken()
		operands = append(operands, p.parseExpression(precedence))
	}

	if len(operands) == 2 {
		return &ast.Binary{Tok: tok, Op: ops[0], Left: operands[0], Right: operands[1]}
	}
	return &ast.ChainedComparison{Tok: tok, Operands: operands, Ops: ops}
}

// ---------------------------------------------------------------------------
// Argument / parameter lists
// ---------------------------------------------------------------------------

// parseArgumentList parses a call's actual arguments. Precondition:
// curToken is '('. Each actual is either a bare expression (positional)
// or `name = expr` (named) — spec §4.2.1 forbids mixing the two within
// one call, which is enforced at bind time, not here.
func (p *Parser) parseArgumentList() []ast.Argument {
	var args []ast.Argument
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseOneArgument())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseOneArgument())
	}
	p.expectPeek(token.RPAREN)
	return args
}

func (p *Parser) parseOneArgument() ast.Argument {
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
		name := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		return ast.Argument{Name: name, Value: p.parseExpression(LOWEST)}
	}
	return ast.Argument{Value: p.parseExpression(LOWEST)}
}

// parseParameterList parses a block's formal parameters:
// `name: type [= default]`, comma separated. Precondition: curToken is
// '('.
func (p *Parser) parseParameterList() []ast.Parameter {
	var params []ast.Parameter
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseOneParameter())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseOneParameter())
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseOneParameter() ast.Parameter {
	param := ast.Parameter{Name: p.curToken.Literal, Mandatory: true}
	if !p.expectPeek(token.COLON) {
		return param
	}
	p.nextToken()
	param.Type = p.parseTypeSpec()
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(LOWEST)
		param.Mandatory = false
	}
	return param
}
