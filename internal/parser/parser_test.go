package parser

import (
	"strings"
	"testing"

	"github.com/ferrite-lang/ferritec/internal/ast"
	"github.com/ferrite-lang/ferritec/internal/token"
)

func tk(k token.Kind, text string) token.Token { return token.Token{Kind: k, Text: text} }

func eof() token.Token { return tk(token.EOF, "") }

// int main ( ) { return 0 ; }
func TestParseEmptyMainFunction(t *testing.T) {
	toks := []token.Token{
		tk(token.KwInt, "int"), tk(token.Identifier, "main"),
		tk(token.LParen, "("), tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		tk(token.KwReturn, "return"), tk(token.DecInteger, "0"), tk(token.Semicolon, ";"),
		tk(token.RBrace, "}"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	if len(program.Declarations) != 1 {
		t.Fatalf("expected 1 top-level declaration, got %d", len(program.Declarations))
	}
	fn, ok := program.Declarations[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", program.Declarations[0])
	}
	if fn.Name != "main" {
		t.Fatalf("Name = %q, want main", fn.Name)
	}
}

// void f ( void ) { }  — a bare `void` parameter means zero parameters.
func TestParseVoidParamListIsEmpty(t *testing.T) {
	toks := []token.Token{
		tk(token.KwVoid, "void"), tk(token.Identifier, "f"),
		tk(token.LParen, "("), tk(token.KwVoid, "void"), tk(token.RParen, ")"),
		tk(token.LBrace, "{"), tk(token.RBrace, "}"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	fn := program.Declarations[0].(*ast.FunctionDeclaration)
	if len(fn.Params) != 0 {
		t.Fatalf("expected 0 params, got %d", len(fn.Params))
	}
}

// int f ( int a , int b ) { return a ; }
func TestParseMultiParamFunction(t *testing.T) {
	toks := []token.Token{
		tk(token.KwInt, "int"), tk(token.Identifier, "f"),
		tk(token.LParen, "("),
		tk(token.KwInt, "int"), tk(token.Identifier, "a"), tk(token.Comma, ","),
		tk(token.KwInt, "int"), tk(token.Identifier, "b"),
		tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		tk(token.KwReturn, "return"), tk(token.Identifier, "a"), tk(token.Semicolon, ";"),
		tk(token.RBrace, "}"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	fn := program.Declarations[0].(*ast.FunctionDeclaration)
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("Params = %+v, want a, b", fn.Params)
	}
}

// a trailing comma in a call's argument list is a syntax error.
func TestParseCallTrailingCommaIsSyntaxError(t *testing.T) {
	toks := []token.Token{
		tk(token.Identifier, "f"), tk(token.LParen, "("),
		tk(token.Identifier, "a"), tk(token.Comma, ","),
		tk(token.RParen, ")"), tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	if _, ok := p.Parse(); ok {
		t.Fatalf("Parse() succeeded on trailing comma, want error")
	}
}

// f ( ) ;  — call parens are optional on the grammar's func_call production,
// but an explicit empty pair still parses as a zero-argument call.
func TestParseCallWithNoArguments(t *testing.T) {
	toks := []token.Token{
		tk(token.Identifier, "f"), tk(token.LParen, "("), tk(token.RParen, ")"), tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	stmt, ok := program.Declarations[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", program.Declarations[0])
	}
	if _, ok := stmt.Expr.(*ast.FunctionCall); !ok {
		t.Fatalf("expected *ast.FunctionCall, got %T", stmt.Expr)
	}
}

// x ;  — func_call's parens are optional: a bare identifier is itself a
// complete func_call production, not a call.
func TestParseBareIdentifierIsNotACall(t *testing.T) {
	toks := []token.Token{tk(token.Identifier, "x"), tk(token.Semicolon, ";"), eof()}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	stmt := program.Declarations[0].(*ast.ExpressionStatement)
	if _, ok := stmt.Expr.(*ast.Identifier); !ok {
		t.Fatalf("expected *ast.Identifier, got %T", stmt.Expr)
	}
}

// a = b = c ;  — assign is right-associative.
func TestParseAssignIsRightAssociative(t *testing.T) {
	toks := []token.Token{
		tk(token.Identifier, "a"), tk(token.Assign, "="),
		tk(token.Identifier, "b"), tk(token.Assign, "="),
		tk(token.Identifier, "c"), tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	stmt := program.Declarations[0].(*ast.ExpressionStatement)
	outer := stmt.Expr.(*ast.BinaryOperation)
	if _, ok := outer.LHS.(*ast.Identifier); !ok {
		t.Fatalf("outer.LHS = %T, want *ast.Identifier", outer.LHS)
	}
	inner, ok := outer.RHS.(*ast.BinaryOperation)
	if !ok {
		t.Fatalf("outer.RHS = %T, want nested *ast.BinaryOperation", outer.RHS)
	}
	if inner.Op != token.Assign {
		t.Fatalf("inner.Op = %v, want Assign", inner.Op)
	}
}

// x = 2 * f ( 3 ) ;  — muldiv's right operand is restricted to a bare number, so
// `2 * f(3)` is a syntax error even though func_call is otherwise legal.
func TestParseMuldivRightOperandMustBeNumber(t *testing.T) {
	toks := []token.Token{
		tk(token.Identifier, "x"), tk(token.Assign, "="),
		tk(token.DecInteger, "2"), tk(token.Star, "*"), tk(token.Identifier, "f"),
		tk(token.LParen, "("), tk(token.DecInteger, "3"), tk(token.RParen, ")"),
		tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	if _, ok := p.Parse(); ok {
		t.Fatalf("Parse() succeeded with a func_call as muldiv's right operand, want error")
	}
}

// unsafe { int* p; }
func TestParseUnsafeStatement(t *testing.T) {
	toks := []token.Token{
		tk(token.KwUnsafe, "unsafe"), tk(token.LBrace, "{"),
		tk(token.KwInt, "int"), tk(token.Star, "*"), tk(token.Identifier, "p"), tk(token.Semicolon, ";"),
		tk(token.RBrace, "}"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	if _, ok := program.Declarations[0].(*ast.UnsafeStatement); !ok {
		t.Fatalf("expected *ast.UnsafeStatement, got %T", program.Declarations[0])
	}
}

// int a [ 3 ] = { 1 , 2 , 3 } ;
func TestParseArrayDeclarationWithInitializer(t *testing.T) {
	toks := []token.Token{
		tk(token.KwInt, "int"), tk(token.Identifier, "a"),
		tk(token.LBracket, "["), tk(token.DecInteger, "3"), tk(token.RBracket, "]"),
		tk(token.Assign, "="),
		tk(token.LBrace, "{"),
		tk(token.DecInteger, "1"), tk(token.Comma, ","),
		tk(token.DecInteger, "2"), tk(token.Comma, ","),
		tk(token.DecInteger, "3"),
		tk(token.RBrace, "}"),
		tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	decl, ok := program.Declarations[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", program.Declarations[0])
	}
	arr, ok := decl.Decl.(*ast.Array)
	if !ok {
		t.Fatalf("Decl = %T, want *ast.Array", decl.Decl)
	}
	if arr.Length != 3 {
		t.Fatalf("Length = %d, want 3", arr.Length)
	}
	list, ok := decl.Init.(*ast.ArrayInitList)
	if !ok {
		t.Fatalf("Init = %T, want *ast.ArrayInitList", decl.Init)
	}
	if len(list.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(list.Elements))
	}
}

// int a [ 2 ] [ 3 ] ;  — a bracket suffix nests outermost-first: 2 arrays of 3.
func TestParseNestedArrayDeclaration(t *testing.T) {
	toks := []token.Token{
		tk(token.KwInt, "int"), tk(token.Identifier, "a"),
		tk(token.LBracket, "["), tk(token.DecInteger, "2"), tk(token.RBracket, "]"),
		tk(token.LBracket, "["), tk(token.DecInteger, "3"), tk(token.RBracket, "]"),
		tk(token.Semicolon, ";"),
		eof(),
	}
	p := New(toks)
	program, ok := p.Parse()
	if !ok {
		t.Fatalf("Parse() failed: %v", p.GetErrors())
	}
	decl := program.Declarations[0].(*ast.VariableDeclaration)
	outer, ok := decl.Decl.(*ast.Array)
	if !ok || outer.Length != 2 {
		t.Fatalf("Decl = %+v, want outer *ast.Array of length 2", decl.Decl)
	}
	inner, ok := outer.Element.(*ast.Array)
	if !ok || inner.Length != 3 {
		t.Fatalf("outer.Element = %+v, want inner *ast.Array of length 3", outer.Element)
	}
}

// An unclosed block reports an exact "Expected '}'" diagnostic.
func TestParseMissingClosingBraceReportsExpectedError(t *testing.T) {
	toks := []token.Token{
		tk(token.KwInt, "int"), tk(token.Identifier, "main"),
		tk(token.LParen, "("), tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		eof(),
	}
	p := New(toks)
	if _, ok := p.Parse(); ok {
		t.Fatalf("Parse() succeeded on unclosed block, want error")
	}
	errs := p.GetErrors()
	if len(errs) == 0 || !strings.Contains(errs[0].Error(), `Expected '}'`) {
		t.Fatalf("errors = %v, want one mentioning Expected '}'", errs)
	}
}
