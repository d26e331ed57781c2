package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ferrite-lang/ferritec/internal/ir"
	"github.com/ferrite-lang/ferritec/internal/token"
)

// Expression is the AST representation of a value-producing construct. It
// is polymorphic over the capability set spec.md §3 names: render,
// preprocess, lower, compile-time evaluate, is-lvalue, and is-safe.
type Expression interface {
	Token() token.Token
	Render(depth int) string
	Preprocess(ctx LoweringContext) error
	Lower(ctx LoweringContext) (ir.Value, error)
	Evaluate() (EvalValue, bool)
	IsLvalue() bool
	IsSafe() bool
	Type() Type
	SetType(Type)
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

// exprBase carries the fields every Expression variant needs: the leading
// token and the expression's type. Literals get their type at construction;
// lowering does not set it, so it stays nil for every other variant unless
// a caller sets it with SetType.
type exprBase struct {
	tok token.Token
	typ Type
}

func (e *exprBase) Token() token.Token { return e.tok }
func (e *exprBase) Type() Type         { return e.typ }
func (e *exprBase) SetType(t Type)     { e.typ = t }
func (e *exprBase) IsLvalue() bool     { return false }
func (e *exprBase) IsSafe() bool       { return true }
func (e *exprBase) Evaluate() (EvalValue, bool) { return EvalValue{}, false }

// ===== Literals =====

// IntegerLiteral is a 32-bit signed integer constant.
type IntegerLiteral struct {
	exprBase
	Value int32
}

func NewIntegerLiteral(tok token.Token, value int32) *IntegerLiteral {
	return &IntegerLiteral{exprBase: exprBase{tok: tok, typ: &SimpleType{Identifier: "int"}}, Value: value}
}

func (n *IntegerLiteral) Render(depth int) string {
	return fmt.Sprintf("%sInteger32(%d)", indent(depth), n.Value)
}
func (n *IntegerLiteral) Preprocess(ctx LoweringContext) error { return nil }
func (n *IntegerLiteral) Lower(ctx LoweringContext) (ir.Value, error) {
	return ir.ConstInt(int64(n.Value), ir.I32), nil
}
func (n *IntegerLiteral) Evaluate() (EvalValue, bool) {
	return EvalValue{Kind: EvalInt, Int: int64(n.Value)}, true
}

// CharacterLiteral is an 8-bit signed character constant.
type CharacterLiteral struct {
	exprBase
	Value byte
}

func NewCharacterLiteral(tok token.Token, value byte) *CharacterLiteral {
	return &CharacterLiteral{exprBase: exprBase{tok: tok, typ: &SimpleType{Identifier: "char"}}, Value: value}
}

func (n *CharacterLiteral) Render(depth int) string {
	return fmt.Sprintf("%sCharacter(%q)", indent(depth), n.Value)
}
func (n *CharacterLiteral) Preprocess(ctx LoweringContext) error { return nil }
func (n *CharacterLiteral) Lower(ctx LoweringContext) (ir.Value, error) {
	return ir.ConstInt(int64(n.Value), ir.I8), nil
}
func (n *CharacterLiteral) Evaluate() (EvalValue, bool) {
	return EvalValue{Kind: EvalInt, Int: int64(n.Value)}, true
}

// StringLiteral lowers to a global byte-array constant and yields its
// address.
type StringLiteral struct {
	exprBase
	Value string
}

func NewStringLiteral(tok token.Token, value string) *StringLiteral {
	return &StringLiteral{
		exprBase: exprBase{tok: tok, typ: &Pointer{Pointee: &SimpleType{Identifier: "char"}}},
		Value:    value,
	}
}

func (n *StringLiteral) Render(depth int) string {
	return fmt.Sprintf("%sString(%s)", indent(depth), strconv.Quote(n.Value))
}
func (n *StringLiteral) Preprocess(ctx LoweringContext) error { return nil }
func (n *StringLiteral) Lower(ctx LoweringContext) (ir.Value, error) {
	return ctx.Builder().CreateGlobalString(n.Value), nil
}

// ===== Identifier =====

// Identifier names a bound symbol; it is always an lvalue.
type Identifier struct {
	exprBase
	Name string
}

func NewIdentifier(tok token.Token, name string) *Identifier {
	return &Identifier{exprBase: exprBase{tok: tok}, Name: name}
}

func (n *Identifier) Render(depth int) string {
	return fmt.Sprintf("%sIdentifier(%q)", indent(depth), n.Name)
}
func (n *Identifier) Preprocess(ctx LoweringContext) error { return nil }
func (n *Identifier) IsLvalue() bool                       { return true }

func (n *Identifier) Lower(ctx LoweringContext) (ir.Value, error) {
	addr, ok := ctx.Lookup(n.Name)
	if !ok {
		return ir.Value{}, fmt.Errorf("Unbound symbol %q", n.Name)
	}
	if addr.Type != nil && addr.Type.Kind == ir.KindFunction {
		return addr, nil
	}
	elem := addr.Type
	if elem != nil && elem.Kind == ir.KindPointer {
		elem = elem.Elem
	}
	return ctx.Builder().CreateLoad(addr, elem), nil
}
