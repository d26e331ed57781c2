package ast

import (
	"fmt"

	"github.com/ferrite-lang/ferritec/internal/ir"
	"github.com/ferrite-lang/ferritec/internal/token"
)

// BinaryOperation is a two-operand operator node. The parser produces it
// for +, -, *, / and assignment; Lower handles exactly those and rejects any
// other Op. Op holds the token kind driving both Render and Lower;
// assignment is handled as a distinct case in Lower rather than through the
// arithmetic table.
type BinaryOperation struct {
	exprBase
	Op       token.Kind
	LHS, RHS Expression
}

func NewBinaryOperation(tok token.Token, op token.Kind, lhs, rhs Expression) *BinaryOperation {
	return &BinaryOperation{exprBase: exprBase{tok: tok}, Op: op, LHS: lhs, RHS: rhs}
}

func (n *BinaryOperation) Render(depth int) string {
	return fmt.Sprintf("%sBinaryOperation(%s)\n%s\n%s", indent(depth), n.Op, n.LHS.Render(depth+1), n.RHS.Render(depth+1))
}

func (n *BinaryOperation) IsSafe() bool { return n.LHS.IsSafe() && n.RHS.IsSafe() }

func (n *BinaryOperation) Preprocess(ctx LoweringContext) error {
	if err := n.LHS.Preprocess(ctx); err != nil {
		return err
	}
	return n.RHS.Preprocess(ctx)
}

// Evaluate folds constant arithmetic operands. Comparison, logical, and
// assignment operators are never constant-foldable and report false, as
// the original implementation's evaluate only covers +, -, *, /.
func (n *BinaryOperation) Evaluate() (EvalValue, bool) {
	lv, ok := n.LHS.Evaluate()
	if !ok {
		return EvalValue{}, false
	}
	rv, ok := n.RHS.Evaluate()
	if !ok {
		return EvalValue{}, false
	}
	switch n.Op {
	case token.Plus:
		return evalAdd(lv, rv)
	case token.Minus:
		return evalSub(lv, rv)
	case token.Star:
		return evalMul(lv, rv)
	case token.Slash:
		return evalDiv(lv, rv)
	default:
		return EvalValue{}, false
	}
}

func (n *BinaryOperation) Lower(ctx LoweringContext) (ir.Value, error) {
	if n.Op == token.Assign {
		return n.lowerAssign(ctx)
	}

	lhs, err := n.LHS.Lower(ctx)
	if err != nil {
		return ir.Value{}, err
	}
	rhs, err := n.RHS.Lower(ctx)
	if err != nil {
		return ir.Value{}, err
	}

	resultType, err := promoteArithmetic(lhs.Type, rhs.Type)
	if err != nil {
		return ir.Value{}, fmt.Errorf("%s: %v", n.tok, err)
	}

	switch n.Op {
	case token.Plus:
		return ctx.Builder().CreateBinOp(ir.OpAdd, lhs, rhs, resultType), nil
	case token.Minus:
		return ctx.Builder().CreateBinOp(ir.OpSub, lhs, rhs, resultType), nil
	case token.Star:
		return ctx.Builder().CreateBinOp(ir.OpMul, lhs, rhs, resultType), nil
	case token.Slash:
		// Division is always signed, regardless of either operand's
		// declared signedness.
		return ctx.Builder().CreateBinOp(ir.OpSDiv, lhs, rhs, resultType), nil
	default:
		return ir.Value{}, fmt.Errorf("%s: operator %s not supported", n.tok, n.Op)
	}
}

// lowerAssign lowers the lhs as an ordinary expression and recovers the
// address to store into from the result: if the lhs lowered to a load, its
// LoadAddr is the address that load read from (an identifier's own slot, or
// — for a dereference lhs like *p — the pointer value p itself); otherwise
// the lowered value must already be an address.
func (n *BinaryOperation) lowerAssign(ctx LoweringContext) (ir.Value, error) {
	if !n.LHS.IsLvalue() {
		return ir.Value{}, fmt.Errorf("%s: left-hand side of assignment is not an lvalue", n.tok)
	}
	lhs, err := n.LHS.Lower(ctx)
	if err != nil {
		return ir.Value{}, err
	}
	addr := lhs
	switch {
	case lhs.LoadAddr != nil:
		addr = *lhs.LoadAddr
	case lhs.IsAddr:
	default:
		return ir.Value{}, fmt.Errorf("%s: unsupported assignment target", n.tok)
	}
	val, err := n.RHS.Lower(ctx)
	if err != nil {
		return ir.Value{}, err
	}
	ctx.Builder().CreateStore(val, addr)
	return val, nil
}

// UnaryOperation covers the four prefix operators the lowerer knows: unary
// plus/minus (folded into a multiply by 1 or -1, matching the original
// implementation's code_gen rather than a dedicated negate instruction),
// dereference (Star), and address-of (Amp).
type UnaryOperation struct {
	exprBase
	Op      token.Kind
	Operand Expression
}

func NewUnaryOperation(tok token.Token, op token.Kind, operand Expression) *UnaryOperation {
	return &UnaryOperation{exprBase: exprBase{tok: tok}, Op: op, Operand: operand}
}

func (n *UnaryOperation) Render(depth int) string {
	return fmt.Sprintf("%sUnaryOperation(%s)\n%s", indent(depth), n.Op, n.Operand.Render(depth+1))
}

func (n *UnaryOperation) IsSafe() bool {
	return n.Op != token.Star && n.Op != token.Amp && n.Operand.IsSafe()
}

// IsLvalue holds only for dereference: *p names the storage p points at,
// while +x, -x, and &x all produce values with no storage of their own.
func (n *UnaryOperation) IsLvalue() bool { return n.Op == token.Star }

func (n *UnaryOperation) Preprocess(ctx LoweringContext) error { return n.Operand.Preprocess(ctx) }

// Evaluate covers only + and -, mirroring any_add(0, rhs)/any_sub(0, rhs) —
// dereference and address-of have no compile-time value.
func (n *UnaryOperation) Evaluate() (EvalValue, bool) {
	v, ok := n.Operand.Evaluate()
	if !ok {
		return EvalValue{}, false
	}
	zero := EvalValue{Kind: v.Kind}
	switch n.Op {
	case token.Plus:
		return evalAdd(zero, v)
	case token.Minus:
		return evalSub(zero, v)
	default:
		return EvalValue{}, false
	}
}

func (n *UnaryOperation) Lower(ctx LoweringContext) (ir.Value, error) {
	switch n.Op {
	case token.Plus:
		v, err := n.Operand.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		one := ir.ConstInt(1, v.Type)
		return ctx.Builder().CreateBinOp(ir.OpMul, one, v, v.Type), nil

	case token.Minus:
		v, err := n.Operand.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		negOne := ir.ConstInt(-1, v.Type)
		return ctx.Builder().CreateBinOp(ir.OpMul, negOne, v, v.Type), nil

	case token.Star:
		v, err := n.Operand.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		var elem *ir.Type
		if v.Type != nil && v.Type.Kind == ir.KindPointer {
			elem = v.Type.Elem
		}
		return ctx.Builder().CreateLoad(v, elem), nil

	case token.Amp:
		ident, ok := n.Operand.(*Identifier)
		if !ok || !n.Operand.IsLvalue() {
			return ir.Value{}, fmt.Errorf("%s: Expected lvalue for operand of reference operator", n.tok)
		}
		addr, ok := ctx.Lookup(ident.Name)
		if !ok {
			return ir.Value{}, fmt.Errorf("Unbound symbol %q", ident.Name)
		}
		// addr is already the variable's storage address, i.e. Pointer(x.type) —
		// identical to what a load-then-take-pointer-operand would recover.
		return addr, nil

	default:
		return ir.Value{}, fmt.Errorf("%s: unary operator %s not supported", n.tok, n.Op)
	}
}

// FunctionCall invokes Callee, which must resolve to a function symbol,
// with Args.
type FunctionCall struct {
	exprBase
	Callee Expression
	Args   []Expression
}

func NewFunctionCall(tok token.Token, callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{exprBase: exprBase{tok: tok}, Callee: callee, Args: args}
}

func (n *FunctionCall) Render(depth int) string {
	s := fmt.Sprintf("%sFunctionCall\n%s", indent(depth), n.Callee.Render(depth+1))
	for _, a := range n.Args {
		s += "\n" + a.Render(depth+1)
	}
	return s
}

func (n *FunctionCall) IsSafe() bool {
	if !n.Callee.IsSafe() {
		return false
	}
	for _, a := range n.Args {
		if !a.IsSafe() {
			return false
		}
	}
	return true
}

func (n *FunctionCall) Preprocess(ctx LoweringContext) error {
	if err := n.Callee.Preprocess(ctx); err != nil {
		return err
	}
	for _, a := range n.Args {
		if err := a.Preprocess(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (n *FunctionCall) Lower(ctx LoweringContext) (ir.Value, error) {
	var (
		calleeName string
		calleeType *ir.Type
		indirect   *ir.Value
	)

	if ident, ok := n.Callee.(*Identifier); ok {
		callee, ok := ctx.Lookup(ident.Name)
		if !ok {
			return ir.Value{}, fmt.Errorf("Unbound symbol %q", ident.Name)
		}
		if callee.Kind != ir.ValFunc {
			return ir.Value{}, fmt.Errorf("%s: Expected callable function expression", n.tok)
		}
		calleeName, calleeType = ident.Name, callee.Type
	} else {
		// The callee is lowered as an ordinary expression (which would issue
		// a load) yet is then expected to dynamically be a function handle.
		// This disagreement makes the path effectively unreachable from the
		// current grammar; preserved rather than resolved.
		v, err := n.Callee.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		if v.Kind != ir.ValFunc {
			return ir.Value{}, fmt.Errorf("%s: Expected callable function expression", n.tok)
		}
		indirect, calleeType = &v, v.Type
	}

	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		args[i] = v
	}

	var result *ir.Type
	if calleeType != nil {
		result = calleeType.Result
	}
	return ctx.Builder().CreateCall(calleeName, indirect, args, result), nil
}

// ArrayInitList lowers column-major: for each element, the two-index
// element address [0, elementIndex] is computed against the destination
// array address and the element value is stored there, recursing into
// nested ArrayInitList elements for multidimensional arrays.
type ArrayInitList struct {
	exprBase
	Elements []Expression
}

func NewArrayInitList(tok token.Token, elements []Expression) *ArrayInitList {
	return &ArrayInitList{exprBase: exprBase{tok: tok}, Elements: elements}
}

func (n *ArrayInitList) Render(depth int) string {
	s := fmt.Sprintf("%sArrayInitList", indent(depth))
	for _, e := range n.Elements {
		s += "\n" + e.Render(depth+1)
	}
	return s
}

func (n *ArrayInitList) IsSafe() bool {
	for _, e := range n.Elements {
		if !e.IsSafe() {
			return false
		}
	}
	return true
}

func (n *ArrayInitList) Preprocess(ctx LoweringContext) error {
	for _, e := range n.Elements {
		if err := e.Preprocess(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Lower is only meaningful as the initializer of a VariableDeclaration,
// which calls LowerInto directly; a bare ArrayInitList has no standalone
// value and returns an error if reached any other way.
func (n *ArrayInitList) Lower(ctx LoweringContext) (ir.Value, error) {
	return ir.Value{}, fmt.Errorf("%s: Expected expression", n.tok)
}

// LowerInto stores each element (recursively, for nested initializers)
// into dest, an address of array type, per the two-index addressing scheme.
func (n *ArrayInitList) LowerInto(ctx LoweringContext, dest ir.Value, elem *ir.Type) error {
	for i, e := range n.Elements {
		idx := ir.ConstInt(int64(i), ir.I32)
		addr := ctx.Builder().CreateElementAddr(dest, idx, elem)
		if nested, ok := e.(*ArrayInitList); ok {
			if elem.Kind != ir.KindArray {
				return fmt.Errorf("%s: nested initializer for non-array element", e.Token())
			}
			if err := nested.LowerInto(ctx, addr, elem.Elem); err != nil {
				return err
			}
			continue
		}
		v, err := e.Lower(ctx)
		if err != nil {
			return err
		}
		ctx.Builder().CreateStore(v, addr)
	}
	return nil
}

// UnsafeExpression permits pointer-valued evaluation of Inner within an
// expression position, toggling the unsafe context flag for its extent.
type UnsafeExpression struct {
	exprBase
	Inner Expression
}

func NewUnsafeExpression(tok token.Token, inner Expression) *UnsafeExpression {
	return &UnsafeExpression{exprBase: exprBase{tok: tok}, Inner: inner}
}

func (n *UnsafeExpression) Render(depth int) string {
	return fmt.Sprintf("%sUnsafeExpression\n%s", indent(depth), n.Inner.Render(depth+1))
}

func (n *UnsafeExpression) IsSafe() bool { return false }

func (n *UnsafeExpression) Preprocess(ctx LoweringContext) error {
	return n.Inner.Preprocess(ctx)
}

func (n *UnsafeExpression) Lower(ctx LoweringContext) (ir.Value, error) {
	if ctx.InUnsafe() {
		ctx.Diagnostics().AddWarning(n.tok, "Unnecessary unsafe expression")
	}
	restore := ctx.EnterUnsafe()
	defer restore()
	return n.Inner.Lower(ctx)
}

func (n *UnsafeExpression) Evaluate() (EvalValue, bool) { return n.Inner.Evaluate() }
