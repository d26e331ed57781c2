package parser

import (
	"strconv"

	"github.com/ferrite-lang/ferritec/internal/ast"
	"github.com/ferrite-lang/ferritec/internal/token"
)

// expr := assign
func (p *Parser) expr() (ast.Expression, bool) {
	return p.assign()
}

// assign := addsub ( '=' assign )?
// Right-associative via right-recursion: once an '=' is seen, the entire
// remainder is parsed as another assign, so `a = b = c` groups as
// `a = (b = c)`.
func (p *Parser) assign() (ast.Expression, bool) {
	lhs, ok := p.addsub()
	if !ok {
		return nil, false
	}

	if opTok := p.current(); p.accept(token.Assign) {
		rhs, ok := p.assign()
		if !ok {
			p.expectedErr("expression")
			return nil, false
		}
		return ast.NewBinaryOperation(opTok, token.Assign, lhs, rhs), true
	}
	return lhs, true
}

// addsub := muldiv ( ('+'|'-') muldiv )*
func (p *Parser) addsub() (ast.Expression, bool) {
	lhs, ok := p.muldiv()
	if !ok {
		return nil, false
	}

	for {
		opTok := p.current()
		var op token.Kind
		switch opTok.Kind {
		case token.Plus:
			op = token.Plus
		case token.Minus:
			op = token.Minus
		default:
			return lhs, true
		}
		p.pos++

		rhs, ok := p.muldiv()
		if !ok {
			p.expectedErr("expression")
			return nil, false
		}
		lhs = ast.NewBinaryOperation(opTok, op, lhs, rhs)
	}
}

// muldiv := func_call ( ('*'|'/') number )*
// The right operand of * and / is restricted to a bare number literal, not
// a general func_call — preserved from the original grammar rather than
// generalized, per the Design Notes on preserved quirks.
func (p *Parser) muldiv() (ast.Expression, bool) {
	lhs, ok := p.funcCall()
	if !ok {
		return nil, false
	}

	for {
		opTok := p.current()
		var op token.Kind
		switch opTok.Kind {
		case token.Star:
			op = token.Star
		case token.Slash:
			op = token.Slash
		default:
			return lhs, true
		}
		p.pos++

		rhs, ok := p.number()
		if !ok {
			p.expectedErr("number")
			return nil, false
		}
		lhs = ast.NewBinaryOperation(opTok, op, lhs, rhs)
	}
}

// func_call := atom ( '(' ( expr (',' expr)* )? ')' )?
func (p *Parser) funcCall() (ast.Expression, bool) {
	startTok := p.current()

	callee, ok := p.atom()
	if !ok {
		return nil, false
	}

	if !p.accept(token.LParen) {
		return callee, true
	}

	var args []ast.Expression
	if p.current().Kind != token.RParen {
		for {
			arg, ok := p.expr()
			if !ok {
				p.expectedErr("expression")
				return nil, false
			}
			args = append(args, arg)
			if !p.accept(token.Comma) {
				break
			}
		}
	}

	if !p.accept(token.RParen) {
		p.expectedErr("')'")
		return nil, false
	}
	return ast.NewFunctionCall(startTok, callee, args), true
}

// atom := number | identifier | character | string | '&' atom | '*' atom
//       | '+' atom | '-' atom | 'unsafe' atom | '(' expr ')' | arrayInitList
// The prefix operators (reference, dereference, unary plus/minus), the
// unsafe-expression wrapper, a parenthesized sub-expression, and an array
// initializer list all enter the grammar here.
func (p *Parser) atom() (ast.Expression, bool) {
	switch startTok := p.current(); startTok.Kind {
	case token.Amp:
		p.pos++
		operand, ok := p.atom()
		if !ok {
			return nil, false
		}
		return ast.NewUnaryOperation(startTok, token.Amp, operand), true

	case token.Star:
		p.pos++
		operand, ok := p.atom()
		if !ok {
			return nil, false
		}
		return ast.NewUnaryOperation(startTok, token.Star, operand), true

	case token.Plus:
		p.pos++
		operand, ok := p.atom()
		if !ok {
			return nil, false
		}
		return ast.NewUnaryOperation(startTok, token.Plus, operand), true

	case token.Minus:
		p.pos++
		operand, ok := p.atom()
		if !ok {
			return nil, false
		}
		return ast.NewUnaryOperation(startTok, token.Minus, operand), true

	case token.KwUnsafe:
		p.pos++
		inner, ok := p.atom()
		if !ok {
			return nil, false
		}
		return ast.NewUnsafeExpression(startTok, inner), true

	case token.LParen:
		p.pos++
		inner, ok := p.expr()
		if !ok {
			return nil, false
		}
		if !p.accept(token.RParen) {
			p.expectedErr("')'")
			return nil, false
		}
		return inner, true

	case token.LBrace:
		return p.arrayInitList()

	case token.CharLiteral:
		p.pos++
		return ast.NewCharacterLiteral(startTok, charValue(startTok.Text)), true

	case token.StringLiteral:
		p.pos++
		return ast.NewStringLiteral(startTok, startTok.Text), true

	case token.Identifier:
		return p.identifier()

	case token.DecInteger:
		return p.number()

	default:
		p.expectedErr("expression")
		return nil, false
	}
}

// arrayInitList := '{' ( expr (',' expr)* )? '}'
func (p *Parser) arrayInitList() (ast.Expression, bool) {
	startTok := p.current()
	p.accept(token.LBrace)

	var elements []ast.Expression
	if p.current().Kind != token.RBrace {
		for {
			el, ok := p.expr()
			if !ok {
				p.expectedErr("expression")
				return nil, false
			}
			elements = append(elements, el)
			if !p.accept(token.Comma) {
				break
			}
		}
	}

	if !p.accept(token.RBrace) {
		p.expectedErr("'}'")
		return nil, false
	}
	return ast.NewArrayInitList(startTok, elements), true
}

func (p *Parser) identifier() (ast.Expression, bool) {
	if !p.accept(token.Identifier) {
		p.expectedErr("identifier")
		return nil, false
	}
	tok := p.previous()
	return ast.NewIdentifier(tok, tok.Text), true
}

// number := DEC_INTEGER
func (p *Parser) number() (ast.Expression, bool) {
	if !p.accept(token.DecInteger) {
		p.expectedErr("number")
		return nil, false
	}
	tok := p.previous()
	v, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		p.errorf("invalid integer literal %q", tok.Text)
		return nil, false
	}
	return ast.NewIntegerLiteral(tok, int32(v)), true
}

func charValue(text string) byte {
	if len(text) == 0 {
		return 0
	}
	return text[0]
}

// type := simple_type ( '*' | '&' )*
// The pointer/reference suffixes are not part of simple_type itself; they
// wrap whatever simple_type produced, left to right.
func (p *Parser) typeExpr() (ast.Type, bool) {
	base, ok := p.simpleType()
	if !ok {
		return nil, false
	}

	typ := base
	for {
		switch {
		case p.accept(token.Star):
			typ = &ast.Pointer{Pointee: typ}
		case p.accept(token.Amp):
			typ = &ast.LValueReference{Referent: typ}
		default:
			return typ, true
		}
	}
}

// simple_type := ('unsigned'|'signed')? ('char'|'short'|'int'|'long'|'void')?
// At least one of the signedness keyword or the base-type keyword must be
// present; a bare `unsigned`/`signed` with no following base type defaults
// to `int`, matching arithmetic-type conventions the rest of the language
// assumes.
func (p *Parser) simpleType() (ast.Type, bool) {
	startTok := p.current()

	unsigned := false
	signed := false
	switch startTok.Kind {
	case token.KwUnsigned:
		unsigned = true
		p.pos++
	case token.KwSigned:
		signed = true
		p.pos++
	}

	identifier := ""
	switch p.current().Kind {
	case token.KwChar:
		identifier = "char"
		p.pos++
	case token.KwShort:
		identifier = "short"
		p.pos++
	case token.KwInt:
		identifier = "int"
		p.pos++
	case token.KwLong:
		identifier = "long"
		p.pos++
	case token.KwVoid:
		identifier = "void"
		p.pos++
	default:
		if !unsigned && !signed {
			return nil, false
		}
		identifier = "int"
	}

	_ = signed // signed is the default; recorded only to consume the keyword
	return &ast.SimpleType{Identifier: identifier, IsUnsigned: unsigned}, true
}
