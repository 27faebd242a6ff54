// Package parser implements a recursive-descent parser over the lexer's
// token stream, producing the AST defined in internal/ast.
//
// Design: predictive parsing, no backtracking, fails fast on the first
// syntactic or restriction error with the offending span.
package parser

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/ast"
	"github.com/zyth-lang/zythc/internal/lexer"
)

// Parser consumes a pre-lexed token stream.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse lexes and parses source in one step.
func Parse(source string) (*ast.Module, error) {
	toks, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return New(toks).ParseModule()
}

// New constructs a Parser over an already-lexed token stream.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) curSpan() ast.Span { return p.cur().Span }

func (p *Parser) check(t lexer.Type) bool { return p.cur().Type == t }

func (p *Parser) match(types ...lexer.Type) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) consume(t lexer.Type, msg string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf(UnexpectedToken, msg)
}

func (p *Parser) skipNewlines() {
	for p.match(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: p.curSpan()}
}

// ParseModule parses a full source file.
func (p *Parser) ParseModule() (*ast.Module, error) {
	start := p.curSpan()
	p.skipNewlines()

	var body []ast.Stmt
	for !p.check(lexer.EOF) {
		for p.match(lexer.DEDENT) {
			p.advance()
		}
		if p.check(lexer.EOF) {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}

	return ast.NewModule(start, body), nil
}

func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(lexer.COLON, "expected ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.NEWLINE, "expected newline after ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.INDENT, "expected an indented block"); err != nil {
		return nil, err
	}

	var body []ast.Stmt
	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}
	if _, err := p.consume(lexer.DEDENT, "expected dedent at end of block"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(lexer.ASYNC):
		return p.functionDef(true)
	case p.check(lexer.DEF):
		return p.functionDef(false)
	case p.check(lexer.CLASS):
		return p.classDef()
	case p.check(lexer.IF):
		return p.ifStmt()
	case p.check(lexer.WHILE):
		return p.whileStmt()
	case p.check(lexer.FOR):
		return p.forStmt()
	case p.check(lexer.RETURN):
		return p.returnStmt()
	case p.check(lexer.IMPORT):
		return p.importStmt()
	case p.check(lexer.FROM):
		return p.importFromStmt()
	case p.check(lexer.PASS):
		p.advance()
		p.consumeStmtEnd()
		return nil, nil
	default:
		return p.simpleStmt()
	}
}

func (p *Parser) consumeStmtEnd() {
	if p.match(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) functionDef(isAsync bool) (ast.Stmt, error) {
	start := p.curSpan()
	if isAsync {
		p.advance() // ASYNC
	}
	if _, err := p.consume(lexer.DEF, "expected 'def'"); err != nil {
		return nil, err
	}
	nameTok, err := p.consume(lexer.NAME, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []ast.Param
	for !p.check(lexer.RPAREN) {
		pNameTok, err := p.consume(lexer.NAME, "expected parameter name")
		if err != nil {
			return nil, err
		}
		hint := ""
		if p.match(lexer.COLON) {
			p.advance()
			hintTok, err := p.consume(lexer.NAME, "expected type name")
			if err != nil {
				return nil, err
			}
			hint = hintTok.Lexeme
		}
		params = append(params, ast.Param{Name: pNameTok.Lexeme, Hint: hint})
		if !p.match(lexer.COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.consume(lexer.RPAREN, "expected ')'"); err != nil {
		return nil, err
	}

	retHint := ""
	if p.match(lexer.ARROW) {
		p.advance()
		hintTok, err := p.consume(lexer.NAME, "expected return type name")
		if err != nil {
			return nil, err
		}
		retHint = hintTok.Lexeme
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDef(start, nameTok.Lexeme, params, body, isAsync, retHint), nil
}

func (p *Parser) classDef() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // CLASS
	nameTok, err := p.consume(lexer.NAME, "expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.COLON, "expected ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.NEWLINE, "expected newline after ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.INDENT, "expected an indented class body"); err != nil {
		return nil, err
	}

	var body []ast.Stmt
	for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
		memberStart := p.curSpan()
		switch {
		case p.check(lexer.ASYNC):
			stmt, err := p.functionDef(true)
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		case p.check(lexer.DEF):
			stmt, err := p.functionDef(false)
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		case p.check(lexer.STRING):
			// Bare docstring: consumed and dropped.
			p.advance()
			p.consumeStmtEnd()
		default:
			return nil, &Error{Kind: UnsupportedClassMember, Msg: "class bodies may only contain methods and docstrings", Span: memberStart}
		}
		p.skipNewlines()
	}
	if _, err := p.consume(lexer.DEDENT, "expected dedent at end of class body"); err != nil {
		return nil, err
	}
	return ast.NewClassDef(start, nameTok.Lexeme, body), nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // IF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var els []ast.Stmt
	if p.check(lexer.ELIF) {
		elifStmt, err := p.ifStmtAsElif()
		if err != nil {
			return nil, err
		}
		els = []ast.Stmt{elifStmt}
	} else if p.check(lexer.ELSE) {
		p.advance()
		els, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(start, cond, then, els), nil
}

// ifStmtAsElif parses `elif cond: ...` (possibly chained) as a nested If,
// mirroring how `if/elif/else` desugars into nested `if/else`.
func (p *Parser) ifStmtAsElif() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // ELIF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	var els []ast.Stmt
	if p.check(lexer.ELIF) {
		elifStmt, err := p.ifStmtAsElif()
		if err != nil {
			return nil, err
		}
		els = []ast.Stmt{elifStmt}
	} else if p.check(lexer.ELSE) {
		p.advance()
		els, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(start, cond, then, els), nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // WHILE
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(start, cond, body), nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // FOR

	var names []string
	nameTok, err := p.consume(lexer.NAME, "expected loop variable name")
	if err != nil {
		return nil, err
	}
	names = append(names, nameTok.Lexeme)
	for p.match(lexer.COMMA) {
		p.advance()
		nameTok, err := p.consume(lexer.NAME, "expected loop variable name")
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Lexeme)
	}

	if _, err := p.consume(lexer.IN, "expected 'in'"); err != nil {
		return nil, err
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(start, ast.ForTarget{Names: names}, iterable, body), nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // RETURN
	var value ast.Expr
	if !p.check(lexer.NEWLINE) && !p.check(lexer.EOF) && !p.check(lexer.DEDENT) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	p.consumeStmtEnd()
	return ast.NewReturn(start, value), nil
}

func (p *Parser) importStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // IMPORT
	moduleTok, err := p.consume(lexer.NAME, "expected module name")
	if err != nil {
		return nil, err
	}
	alias := ""
	if p.match(lexer.AS) {
		p.advance()
		aliasTok, err := p.consume(lexer.NAME, "expected alias name")
		if err != nil {
			return nil, err
		}
		alias = aliasTok.Lexeme
	}
	p.consumeStmtEnd()
	return ast.NewImport(start, moduleTok.Lexeme, alias), nil
}

func (p *Parser) importFromStmt() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // FROM
	moduleTok, err := p.consume(lexer.NAME, "expected module name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.IMPORT, "expected 'import'"); err != nil {
		return nil, err
	}

	var names, aliases []string
	for {
		nameTok, err := p.consume(lexer.NAME, "expected imported name")
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Lexeme)
		alias := ""
		if p.match(lexer.AS) {
			p.advance()
			aliasTok, err := p.consume(lexer.NAME, "expected alias name")
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Lexeme
		}
		aliases = append(aliases, alias)
		if !p.match(lexer.COMMA) {
			break
		}
		p.advance()
	}
	p.consumeStmtEnd()
	return ast.NewImportFrom(start, moduleTok.Lexeme, names, aliases), nil
}

// simpleStmt parses an assignment or a bare expression statement.
func (p *Parser) simpleStmt() (ast.Stmt, error) {
	start := p.curSpan()
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.COMMA) {
		// Bare comma list, e.g. the `a, b` target of `a, b = f()`.
		elts := []ast.Expr{first}
		for p.match(lexer.COMMA) {
			p.advance()
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
		}
		first = ast.NewTuple(start, elts)
	}

	if !p.check(lexer.ASSIGN) {
		p.consumeStmtEnd()
		// Bare docstring-shaped string constants are dropped.
		if _, ok := first.(*ast.Constant); ok {
			return nil, nil
		}
		return ast.NewExprStmt(start, first), nil
	}

	targets := []ast.AssignTarget{}
	t, err := exprToTarget(first)
	if err != nil {
		return nil, err
	}
	targets = append(targets, t)

	var value ast.Expr
	for p.match(lexer.ASSIGN) {
		p.advance()
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.check(lexer.ASSIGN) {
			// Chained assignment: rhs is itself a target.
			t, err := exprToTarget(rhs)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
			continue
		}
		value = rhs
	}
	p.consumeStmtEnd()
	return ast.NewAssign(start, targets, value), nil
}

func exprToTarget(e ast.Expr) (ast.AssignTarget, error) {
	switch v := e.(type) {
	case *ast.Name:
		return ast.AssignTarget{Names: []string{v.Id}}, nil
	case *ast.Attribute:
		base, ok := v.Value.(*ast.Name)
		if !ok {
			return ast.AssignTarget{}, &Error{Kind: UnsupportedTarget, Msg: "only `name.attr` attribute targets are supported", Span: v.Span()}
		}
		return ast.AssignTarget{Names: []string{base.Id, v.Attr}, Attr: true}, nil
	case *ast.Tuple:
		var names []string
		for _, elt := range v.Elts {
			n, ok := elt.(*ast.Name)
			if !ok {
				return ast.AssignTarget{}, &Error{Kind: UnsupportedTarget, Msg: "tuple assignment targets must all be plain names", Span: elt.Span()}
			}
			names = append(names, n.Id)
		}
		return ast.AssignTarget{Names: names}, nil
	default:
		return ast.AssignTarget{}, &Error{Kind: UnsupportedTarget, Msg: "unsupported assignment target", Span: e.Span()}
	}
}

// --- Expressions: precedence-climbing per SPEC_FULL.md §4.2 ---

func (p *Parser) expression() (ast.Expr, error) { return p.conditional() }

func (p *Parser) conditional() (ast.Expr, error) {
	body, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.IF) {
		start := body.Span()
		p.advance()
		cond, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.ELSE, "expected 'else' in conditional expression"); err != nil {
			return nil, err
		}
		els, err := p.conditional()
		if err != nil {
			return nil, err
		}
		return ast.NewCondExpr(start, body, cond, els), nil
	}
	return body, nil
}

func (p *Parser) orExpr() (ast.Expr, error) {
	return p.binaryLevel(p.andExpr, map[lexer.Type]ast.Operator{lexer.OR: ast.Or})
}

func (p *Parser) andExpr() (ast.Expr, error) {
	return p.binaryLevel(p.notExpr, map[lexer.Type]ast.Operator{lexer.AND: ast.And})
}

func (p *Parser) notExpr() (ast.Expr, error) {
	if p.check(lexer.NOT) {
		start := p.curSpan()
		p.advance()
		x, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(start, ast.Not, x), nil
	}
	return p.comparison()
}

func (p *Parser) comparison() (ast.Expr, error) {
	left, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	ops := map[lexer.Type]ast.Operator{
		lexer.LT: ast.Lt, lexer.LE: ast.Le, lexer.GT: ast.Gt, lexer.GE: ast.Ge,
		lexer.EQ: ast.Eq, lexer.NE: ast.Ne, lexer.IN: ast.In, lexer.IS: ast.Is,
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		start := p.curSpan()
		p.advance()
		right, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(start, left, op, right)
	}
}

func (p *Parser) bitOr() (ast.Expr, error) {
	return p.binaryLevel(p.bitXor, map[lexer.Type]ast.Operator{lexer.PIPE: ast.BitOr})
}

func (p *Parser) bitXor() (ast.Expr, error) {
	return p.binaryLevel(p.bitAnd, map[lexer.Type]ast.Operator{lexer.CARET: ast.BitXor})
}

func (p *Parser) bitAnd() (ast.Expr, error) {
	return p.binaryLevel(p.shift, map[lexer.Type]ast.Operator{lexer.AMP: ast.BitAnd})
}

func (p *Parser) shift() (ast.Expr, error) {
	return p.binaryLevel(p.additive, map[lexer.Type]ast.Operator{lexer.SHL: ast.Shl, lexer.SHR: ast.Shr})
}

func (p *Parser) additive() (ast.Expr, error) {
	return p.binaryLevel(p.multiplicative, map[lexer.Type]ast.Operator{lexer.PLUS: ast.Add, lexer.MINUS: ast.Sub})
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	return p.binaryLevel(p.unary, map[lexer.Type]ast.Operator{
		lexer.STAR: ast.Mul, lexer.SLASH: ast.Div, lexer.DSLASH: ast.FloorDiv, lexer.PERCENT: ast.Mod,
	})
}

// binaryLevel implements one left-associative precedence level.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops map[lexer.Type]ast.Operator) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		start := p.curSpan()
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(start, left, op, right)
	}
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.check(lexer.PLUS) || p.check(lexer.MINUS) || p.check(lexer.TILDE) {
		start := p.curSpan()
		op := ast.Sub
		if p.check(lexer.PLUS) {
			op = ast.Add
		} else if p.check(lexer.TILDE) {
			op = ast.BitXor
		}
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(start, op, x), nil
	}
	return p.power()
}

func (p *Parser) power() (ast.Expr, error) {
	left, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.DSTAR) {
		start := p.curSpan()
		p.advance()
		right, err := p.unary() // right-associative
		if err != nil {
			return nil, err
		}
		return ast.NewBinOp(start, left, ast.Pow, right), nil
	}
	return left, nil
}

func (p *Parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.DOT):
			start := p.curSpan()
			p.advance()
			nameTok, err := p.consume(lexer.NAME, "expected attribute name")
			if err != nil {
				return nil, err
			}
			expr = ast.NewAttribute(start, expr, nameTok.Lexeme)
		case p.check(lexer.LBRACKET):
			start := p.curSpan()
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.RBRACKET, "expected ']'"); err != nil {
				return nil, err
			}
			expr = ast.NewSubscript(start, expr, idx)
		case p.check(lexer.LPAREN):
			start := p.curSpan()
			p.advance()
			var args []ast.Expr
			for !p.check(lexer.RPAREN) {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(lexer.COMMA) {
					break
				}
				p.advance()
			}
			if _, err := p.consume(lexer.RPAREN, "expected ')'"); err != nil {
				return nil, err
			}
			expr = ast.NewCall(start, expr, args)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	start := p.curSpan()
	switch {
	case p.check(lexer.INT):
		v := p.cur().IVal
		p.advance()
		return ast.NewConstInt(start, v), nil
	case p.check(lexer.FLOAT):
		v := p.cur().FVal
		p.advance()
		return ast.NewConstFloat(start, v), nil
	case p.check(lexer.STRING):
		v := p.cur().Lexeme
		p.advance()
		return ast.NewConstString(start, v), nil
	case p.check(lexer.TRUE):
		p.advance()
		return ast.NewConstBool(start, true), nil
	case p.check(lexer.FALSE):
		p.advance()
		return ast.NewConstBool(start, false), nil
	case p.check(lexer.NONE):
		p.advance()
		return ast.NewConstNone(start), nil
	case p.check(lexer.NAME):
		name := p.cur().Lexeme
		p.advance()
		return ast.NewName(start, name), nil
	case p.check(lexer.LPAREN):
		p.advance()
		if p.check(lexer.RPAREN) {
			p.advance()
			return ast.NewTuple(start, nil), nil
		}
		first, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.check(lexer.COMMA) {
			elts := []ast.Expr{first}
			for p.match(lexer.COMMA) {
				p.advance()
				if p.check(lexer.RPAREN) {
					break
				}
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elts = append(elts, e)
			}
			if _, err := p.consume(lexer.RPAREN, "expected ')'"); err != nil {
				return nil, err
			}
			return ast.NewTuple(start, elts), nil
		}
		if _, err := p.consume(lexer.RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return first, nil
	case p.check(lexer.LBRACKET):
		p.advance()
		var elts []ast.Expr
		for !p.check(lexer.RBRACKET) {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
			if !p.match(lexer.COMMA) {
				break
			}
			p.advance()
		}
		if _, err := p.consume(lexer.RBRACKET, "expected ']'"); err != nil {
			return nil, err
		}
		return ast.NewList(start, elts), nil
	case p.check(lexer.LBRACE):
		p.advance()
		var entries []ast.DictEntry
		for !p.check(lexer.RBRACE) {
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.COLON, "expected ':' in dict literal"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: key, Value: val})
			if !p.match(lexer.COMMA) {
				break
			}
			p.advance()
		}
		if _, err := p.consume(lexer.RBRACE, "expected '}'"); err != nil {
			return nil, err
		}
		return ast.NewDict(start, entries), nil
	}
	return nil, &Error{Kind: ExpectedExpression, Msg: fmt.Sprintf("expected expression, found %q", p.cur().Lexeme), Span: start}
}
