// Package parser implements the recursive-descent grammar that turns a
// token stream into an *ast.Program. Each production below mirrors the
// grammar's naming: block, scope, var_decl, func_decl_tail/param_list,
// return_stmt, expr_stmt, type/simple_type. Expression precedence
// (expr/assign/addsub/muldiv/func_call/atom/number) lives in expr.go.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ferrite-lang/ferritec/internal/ast"
	"github.com/ferrite-lang/ferritec/internal/token"
)

// Parser consumes a fixed token slice with one-token lookahead, accumulating
// syntax errors rather than stopping at the first one encountered.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []error
}

// New returns a Parser over tokens, which must end with an EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) accept(kind token.Kind) bool {
	if p.current().Kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", p.current().Pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) expectedErr(what string) {
	p.errorf("Expected %s, but got %q", what, p.current().Text)
}

// GetErrors returns every syntax error accumulated during Parse.
func (p *Parser) GetErrors() []error { return p.errors }

// Parse runs the grammar's top production, `block`, and reports whether
// parsing completed without error.
func (p *Parser) Parse() (*ast.Program, bool) {
	var statements []ast.Statement

	for p.current().Kind != token.EOF {
		before := p.pos
		stmt, ok := p.scope()
		if !ok {
			break
		}
		statements = append(statements, stmt)
		if p.pos == before {
			// scope() accepted without consuming — avoid looping forever.
			break
		}
	}

	if len(p.errors) > 0 {
		return nil, false
	}
	return ast.NewProgram(statements), true
}

// scope := '{' var_decl* '}'  |  var_decl
func (p *Parser) scope() (ast.Statement, bool) {
	if startTok := p.current(); p.accept(token.LBrace) {
		var statements []ast.Statement
		for p.current().Kind != token.RBrace && p.current().Kind != token.EOF {
			stmt, ok := p.varDecl()
			if !ok {
				return nil, false
			}
			statements = append(statements, stmt)
		}

		if !p.accept(token.RBrace) {
			p.expectedErr("'}'")
			return nil, false
		}
		return ast.NewScope(startTok, ast.NewBlock(startTok, statements)), true
	}

	return p.varDecl()
}

// var_decl := type identifier ( '[' number ']' )* ( '=' expr ';' | ';' | '(' func_decl_tail )
//           | 'unsafe' '{' var_decl* '}'
//           | return_stmt
//
// The bracket suffix has no literal grammar production, same as typeExpr's
// '*'/'&' suffixes on simple_type: it extends the declarator so an
// ast.Array can be built from source text at all, rather than only from a
// hand-built AST. A function declarator (the '(' branch below) never takes
// one.
func (p *Parser) varDecl() (ast.Statement, bool) {
	startTok := p.current()

	if p.current().Kind == token.KwUnsafe {
		return p.unsafeStmt()
	}

	typ, ok := p.typeExpr()
	if !ok {
		return p.returnStmt()
	}

	if !p.accept(token.Identifier) {
		p.expectedErr("identifier")
		return nil, false
	}
	name := p.previous().Text

	typ, ok = p.arraySuffix(typ)
	if !ok {
		return nil, false
	}

	switch {
	case p.accept(token.Assign):
		expr, ok := p.expr()
		if !ok {
			p.expectedErr("expression")
			return nil, false
		}
		if !p.accept(token.Semicolon) {
			p.expectedErr("';'")
			return nil, false
		}
		return ast.NewVariableDeclaration(startTok, name, typ, expr), true

	case p.accept(token.Semicolon):
		return ast.NewVariableDeclaration(startTok, name, typ, nil), true

	case p.accept(token.LParen):
		return p.funcDeclTail(startTok, typ, name)

	default:
		p.expectedErr("'=', ';', or '('")
		return nil, false
	}
}

// arraySuffix parses zero or more '[' number ']' length suffixes following
// a declarator's identifier, wrapping elem outermost-first: `a[2][3]`
// declares a 2-element array of 3-element arrays of elem, matching
// ArrayInitList.LowerInto's nested column-major addressing.
func (p *Parser) arraySuffix(elem ast.Type) (ast.Type, bool) {
	if p.current().Kind != token.LBracket {
		return elem, true
	}

	var lengths []int
	for p.accept(token.LBracket) {
		if !p.accept(token.DecInteger) {
			p.expectedErr("array length")
			return nil, false
		}
		tok := p.previous()
		n, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil || n < 0 {
			p.errorf("invalid array length %q", tok.Text)
			return nil, false
		}
		lengths = append(lengths, int(n))

		if !p.accept(token.RBracket) {
			p.expectedErr("']'")
			return nil, false
		}
	}

	typ := elem
	for i := len(lengths) - 1; i >= 0; i-- {
		typ = &ast.Array{Element: typ, Length: lengths[i]}
	}
	return typ, true
}

// func_decl_tail := param_list ')' scope
func (p *Parser) funcDeclTail(startTok token.Token, resultType ast.Type, name string) (ast.Statement, bool) {
	params, ok := p.paramList()
	if !ok {
		return nil, false
	}
	if !p.accept(token.RParen) {
		p.expectedErr("')'")
		return nil, false
	}

	body, ok := p.scope()
	if !ok {
		return nil, false
	}
	return ast.NewFunctionDeclaration(startTok, name, params, resultType, blockOf(startTok, body)), true
}

// param_list := ( type identifier? (',' type identifier?)* )?
// A bare `void` with nothing following it (i.e. immediately ')') denotes
// zero parameters and is not itself added to the list.
func (p *Parser) paramList() ([]ast.Param, bool) {
	if p.current().Kind == token.RParen {
		return nil, true
	}

	var params []ast.Param
	for {
		typ, ok := p.typeExpr()
		if !ok {
			p.expectedErr("parameter type")
			return nil, false
		}

		if simple, ok := typ.(*ast.SimpleType); ok && simple.Identifier == "void" {
			if len(params) == 0 && p.current().Kind == token.RParen {
				return nil, true
			}
			p.expectedErr("')' after 'void'")
			return nil, false
		}

		name := ""
		if p.accept(token.Identifier) {
			name = p.previous().Text
		}
		params = append(params, ast.Param{Name: name, Decl: typ})

		if !p.accept(token.Comma) {
			return params, true
		}
	}
}

func blockOf(startTok token.Token, stmt ast.Statement) *ast.Block {
	if b, ok := stmt.(*ast.Block); ok {
		return b
	}
	if sc, ok := stmt.(*ast.Scope); ok {
		return sc.Body
	}
	return ast.NewBlock(startTok, []ast.Statement{stmt})
}

func (p *Parser) unsafeStmt() (ast.Statement, bool) {
	startTok := p.current()
	p.accept(token.KwUnsafe)
	if !p.accept(token.LBrace) {
		p.expectedErr("'{' after 'unsafe'")
		return nil, false
	}
	var statements []ast.Statement
	for p.current().Kind != token.RBrace && p.current().Kind != token.EOF {
		stmt, ok := p.varDecl()
		if !ok {
			return nil, false
		}
		statements = append(statements, stmt)
	}
	if !p.accept(token.RBrace) {
		p.expectedErr("'}'")
		return nil, false
	}
	return ast.NewUnsafeStatement(startTok, ast.NewBlock(startTok, statements)), true
}

// return_stmt := 'return' expr? ';'  |  expr_stmt
func (p *Parser) returnStmt() (ast.Statement, bool) {
	if startTok := p.current(); p.accept(token.KwReturn) {
		if p.accept(token.Semicolon) {
			return ast.NewReturnStatement(startTok, nil), true
		}

		expr, ok := p.expr()
		if !ok {
			p.expectedErr("expression")
			return nil, false
		}
		if !p.accept(token.Semicolon) {
			p.expectedErr("';'")
			return nil, false
		}
		return ast.NewReturnStatement(startTok, expr), true
	}

	return p.exprStmt()
}

// expr_stmt := expr ';'
func (p *Parser) exprStmt() (ast.Statement, bool) {
	startTok := p.current()

	expr, ok := p.expr()
	if !ok {
		return nil, false
	}
	if !p.accept(token.Semicolon) {
		p.expectedErr("';'")
		return nil, false
	}
	return ast.NewExpressionStatement(startTok, expr), true
}
