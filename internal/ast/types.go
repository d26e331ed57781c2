package ast

import (
	"fmt"

	"github.com/ferrite-lang/ferritec/internal/ir"
)

// Type is the AST representation of a source-language type. It is
// polymorphic over the capability set spec.md §3 names: render,
// lower-to-backend-type, and is-safe.
type Type interface {
	Render() string
	Lower() *ir.Type
	IsSafe() bool
}

// SimpleType is a primitive type: an identifier from the fixed set below,
// optionally unsigned. Not every identifier is reachable from the grammar —
// byte, half, single, and double are never produced by the parser as a
// declared source type.
type SimpleType struct {
	Identifier string // "char","byte","short","int","long","half","single","double","void"
	IsUnsigned bool
}

func (s *SimpleType) Render() string {
	if s.IsUnsigned {
		return "unsigned " + s.Identifier
	}
	return s.Identifier
}

func (s *SimpleType) IsSafe() bool { return true }

func (s *SimpleType) Lower() *ir.Type {
	switch s.Identifier {
	case "char":
		if s.IsUnsigned {
			return ir.U8
		}
		return ir.I8
	case "byte":
		return ir.U8
	case "short":
		if s.IsUnsigned {
			return ir.U16
		}
		return ir.I16
	case "int":
		if s.IsUnsigned {
			return ir.U32
		}
		return ir.I32
	case "long":
		if s.IsUnsigned {
			return ir.U64
		}
		return ir.I64
	case "half":
		return ir.F16
	case "single":
		return ir.F32
	case "double":
		return ir.F64
	case "void":
		return ir.Void
	default:
		return nil
	}
}

// Equal compares two SimpleType values by identifier and signedness. The
// promotion table does not use it; it works on lowered ir.Type values.
func (s *SimpleType) Equal(o *SimpleType) bool {
	return s.Identifier == o.Identifier && s.IsUnsigned == o.IsUnsigned
}

// Pointer is an unsafe pointer-to-pointee type.
type Pointer struct {
	Pointee Type
}

func (p *Pointer) Render() string  { return p.Pointee.Render() + "*" }
func (p *Pointer) IsSafe() bool    { return false }
func (p *Pointer) Lower() *ir.Type { return ir.PointerTo(p.Pointee.Lower()) }

// LValueReference is a safe reference-to-referent type.
type LValueReference struct {
	Referent Type
}

func (r *LValueReference) Render() string  { return r.Referent.Render() + "&" }
func (r *LValueReference) IsSafe() bool    { return r.Referent.IsSafe() }
func (r *LValueReference) Lower() *ir.Type { return ir.PointerTo(r.Referent.Lower()) }

// Array is a fixed-length array-of-element type.
type Array struct {
	Element Type
	Length  int
}

func (a *Array) Render() string  { return fmt.Sprintf("%s[%d]", a.Element.Render(), a.Length) }
func (a *Array) IsSafe() bool    { return a.Element.IsSafe() }
func (a *Array) Lower() *ir.Type { return ir.ArrayOf(a.Element.Lower(), a.Length) }

// IsSafeType reports whether t is safe, i.e. contains no Pointer anywhere
// in its structure.
func IsSafeType(t Type) bool {
	return t.IsSafe()
}
