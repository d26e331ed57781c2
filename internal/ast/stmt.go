package ast

import (
	"fmt"

	"github.com/ferrite-lang/ferritec/internal/ir"
	"github.com/ferrite-lang/ferritec/internal/token"
)

// Statement is the AST representation of a construct executed for effect.
// Lower returns a Value so ExpressionStatement can forward its expression's
// result uniformly with every other statement kind; callers besides
// ExpressionStatement ignore it.
type Statement interface {
	Token() token.Token
	Render(depth int) string
	Preprocess(ctx LoweringContext) error
	Lower(ctx LoweringContext) (ir.Value, error)
}

type stmtBase struct {
	tok token.Token
}

func (s *stmtBase) Token() token.Token { return s.tok }

// Param is a function parameter's declared name and type.
type Param struct {
	Name string
	Decl Type
}

// Block is a plain sequence of statements sharing the enclosing scope —
// the body of a function or of a Scope statement.
type Block struct {
	stmtBase
	Statements []Statement
}

func NewBlock(tok token.Token, statements []Statement) *Block {
	return &Block{stmtBase: stmtBase{tok: tok}, Statements: statements}
}

func (n *Block) Render(depth int) string {
	s := fmt.Sprintf("%sBlock", indent(depth))
	for _, st := range n.Statements {
		s += "\n" + st.Render(depth+1)
	}
	return s
}

func (n *Block) Preprocess(ctx LoweringContext) error {
	for _, st := range n.Statements {
		if err := st.Preprocess(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (n *Block) Lower(ctx LoweringContext) (ir.Value, error) {
	var last ir.Value
	for _, st := range n.Statements {
		v, err := st.Lower(ctx)
		if err != nil {
			return ir.Value{}, err
		}
		last = v
	}
	return last, nil
}

// Scope is a brace-delimited nested block introducing its own symbol frame.
type Scope struct {
	stmtBase
	Body *Block
}

func NewScope(tok token.Token, body *Block) *Scope {
	return &Scope{stmtBase: stmtBase{tok: tok}, Body: body}
}

func (n *Scope) Render(depth int) string {
	return fmt.Sprintf("%sScope\n%s", indent(depth), n.Body.Render(depth+1))
}

func (n *Scope) Preprocess(ctx LoweringContext) error { return n.Body.Preprocess(ctx) }

func (n *Scope) Lower(ctx LoweringContext) (ir.Value, error) {
	ctx.PushScope()
	defer ctx.PopScope()
	return n.Body.Lower(ctx)
}

// ExpressionStatement lowers Expr for effect, discarding its value at the
// statement level.
type ExpressionStatement struct {
	stmtBase
	Expr Expression
}

func NewExpressionStatement(tok token.Token, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{stmtBase: stmtBase{tok: tok}, Expr: expr}
}

func (n *ExpressionStatement) Render(depth int) string {
	return fmt.Sprintf("%sExpressionStatement\n%s", indent(depth), n.Expr.Render(depth+1))
}

func (n *ExpressionStatement) Preprocess(ctx LoweringContext) error { return n.Expr.Preprocess(ctx) }

func (n *ExpressionStatement) Lower(ctx LoweringContext) (ir.Value, error) {
	return n.Expr.Lower(ctx)
}

// VariableDeclaration binds Name, of type Decl, to an optional Init value.
// When Decl is an LValueReference, Init lowering is a deliberate no-op: the
// original implementation never wired reference-binding codegen, only
// parsed the syntax, and this preserves that rather than inventing
// binding semantics it never specified.
type VariableDeclaration struct {
	stmtBase
	Name string
	Decl Type
	Init Expression // nil when uninitialized
}

func NewVariableDeclaration(tok token.Token, name string, decl Type, init Expression) *VariableDeclaration {
	return &VariableDeclaration{stmtBase: stmtBase{tok: tok}, Name: name, Decl: decl, Init: init}
}

func (n *VariableDeclaration) Render(depth int) string {
	s := fmt.Sprintf("%sVariableDeclaration(%s: %s)", indent(depth), n.Name, n.Decl.Render())
	if n.Init != nil {
		s += "\n" + n.Init.Render(depth+1)
	}
	return s
}

// declarationAlignment is fixed regardless of the declared type, matching
// the original implementation's uniform stack-slot alignment.
const declarationAlignment = 4

func (n *VariableDeclaration) Preprocess(ctx LoweringContext) error {
	if n.Init != nil {
		return n.Init.Preprocess(ctx)
	}
	return nil
}

func (n *VariableDeclaration) Lower(ctx LoweringContext) (ir.Value, error) {
	if !n.Decl.IsSafe() && !ctx.InUnsafe() {
		return ir.Value{}, fmt.Errorf("Unsafe declaration outside of unsafe statement")
	}

	declType := n.Decl.Lower()
	addr := ctx.Builder().CreateAlloca(declType, n.Name, declarationAlignment)

	if _, isRef := n.Decl.(*LValueReference); isRef {
		if n.Init == nil {
			return ir.Value{}, fmt.Errorf("Expected initialization value in declaration of reference variable")
		}
		// Reference-initializer lowering is an intentional stub: the
		// original implementation never wired this path past parsing.
		ctx.Define(n.Name, addr)
		return ir.Value{}, nil
	}

	if n.Init != nil {
		if list, ok := n.Init.(*ArrayInitList); ok {
			if declType.Kind != ir.KindArray {
				return ir.Value{}, fmt.Errorf("%s: array initializer on non-array declaration", n.tok)
			}
			if err := list.LowerInto(ctx, addr, declType.Elem); err != nil {
				return ir.Value{}, err
			}
		} else {
			v, err := n.Init.Lower(ctx)
			if err != nil {
				return ir.Value{}, err
			}
			ctx.Builder().CreateStore(v, addr)
		}
	}

	ctx.Define(n.Name, addr)
	return ir.Value{}, nil
}

// ReturnStatement returns Value, or nothing for a void-returning function.
type ReturnStatement struct {
	stmtBase
	Value Expression // nil for `return;`
}

func NewReturnStatement(tok token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{stmtBase: stmtBase{tok: tok}, Value: value}
}

func (n *ReturnStatement) Render(depth int) string {
	if n.Value == nil {
		return fmt.Sprintf("%sReturnStatement", indent(depth))
	}
	return fmt.Sprintf("%sReturnStatement\n%s", indent(depth), n.Value.Render(depth+1))
}

func (n *ReturnStatement) Preprocess(ctx LoweringContext) error {
	if n.Value == nil {
		return nil
	}
	return n.Value.Preprocess(ctx)
}

func (n *ReturnStatement) Lower(ctx LoweringContext) (ir.Value, error) {
	fn := ctx.CurrentFunction()
	isVoid := fn == nil || fn.Result == nil || fn.Result.Kind == ir.KindVoid

	if n.Value == nil {
		if !isVoid {
			return ir.Value{}, fmt.Errorf("Expected value return statement in non-void returning function")
		}
		ctx.Builder().CreateRetVoid()
		return ir.Value{}, nil
	}

	if isVoid {
		return ir.Value{}, fmt.Errorf("Unexpected value return statement in void function")
	}
	v, err := n.Value.Lower(ctx)
	if err != nil {
		return ir.Value{}, err
	}
	ctx.Builder().CreateRet(v)
	return v, nil
}

// UnsafeStatement is a brace-delimited block that permits unsafe
// declarations and operations within it. It does not introduce a new
// scope: declarations inside it stay visible in the enclosing scope.
type UnsafeStatement struct {
	stmtBase
	Body *Block
}

func NewUnsafeStatement(tok token.Token, body *Block) *UnsafeStatement {
	return &UnsafeStatement{stmtBase: stmtBase{tok: tok}, Body: body}
}

func (n *UnsafeStatement) Render(depth int) string {
	return fmt.Sprintf("%sUnsafeStatement\n%s", indent(depth), n.Body.Render(depth+1))
}

func (n *UnsafeStatement) Preprocess(ctx LoweringContext) error {
	return n.Body.Preprocess(ctx)
}

func (n *UnsafeStatement) Lower(ctx LoweringContext) (ir.Value, error) {
	if ctx.InUnsafe() {
		ctx.Diagnostics().AddWarning(n.tok, "Unnecessary unsafe statement")
	}
	restore := ctx.EnterUnsafe()
	defer restore()
	return n.Body.Lower(ctx)
}

// FunctionDeclaration declares and, via Lower, defines a function. The
// backend function is created during Preprocess so that a call appearing
// anywhere in the program — including before this declaration's own
// position in source order — resolves once every top-level declaration
// has been preprocessed.
type FunctionDeclaration struct {
	stmtBase
	Name       string
	Params     []Param
	ResultType Type
	Body       *Block // nil for an external (body-less) declaration

	irFn *ir.Function
}

func NewFunctionDeclaration(tok token.Token, name string, params []Param, result Type, body *Block) *FunctionDeclaration {
	return &FunctionDeclaration{stmtBase: stmtBase{tok: tok}, Name: name, Params: params, ResultType: result, Body: body}
}

func (n *FunctionDeclaration) Render(depth int) string {
	s := fmt.Sprintf("%sFunctionDeclaration(%s) -> %s", indent(depth), n.Name, n.ResultType.Render())
	for _, p := range n.Params {
		s += fmt.Sprintf("\n%sParam(%s: %s)", indent(depth+1), p.Name, p.Decl.Render())
	}
	if n.Body != nil {
		s += "\n" + n.Body.Render(depth+1)
	}
	return s
}

func (n *FunctionDeclaration) Preprocess(ctx LoweringContext) error {
	params := make([]ir.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = ir.Param{Name: p.Name, Type: p.Decl.Lower()}
	}
	fn := ctx.Builder().CreateFunction(n.Name, params, n.ResultType.Lower())
	n.irFn = fn
	ctx.Define(n.Name, ir.FuncValue(fn))

	if n.Body == nil {
		return nil
	}
	return n.Body.Preprocess(ctx)
}

func (n *FunctionDeclaration) Lower(ctx LoweringContext) (ir.Value, error) {
	if n.Body == nil {
		return ir.Value{}, nil
	}

	b := ctx.Builder()
	b.SetCurrentFunction(n.irFn)
	ctx.SetCurrentFunction(n.irFn)
	ctx.PushScope()

	for _, p := range n.irFn.Params {
		addr := b.CreateAlloca(p.Type, p.Name, declarationAlignment)
		b.CreateStore(ir.Value{Kind: ir.ValRef, Ref: p.Name, Type: p.Type}, addr)
		ctx.Define(p.Name, addr)
	}

	if _, err := n.Body.Lower(ctx); err != nil {
		ctx.PopScope()
		b.ClearCurrentFunction()
		ctx.SetCurrentFunction(nil)
		return ir.Value{}, err
	}

	if !lastIsTerminator(n.irFn) {
		if n.irFn.Result == nil || n.irFn.Result.Kind == ir.KindVoid {
			b.CreateRetVoid()
		} else {
			ctx.Diagnostics().AddWarning(n.tok, "Expected return statement at the end of non-void returning function declaration; null value will be returned")
			b.CreateRet(zeroValue(n.irFn.Result))
		}
	}

	ctx.PopScope()
	b.RunFunctionPass(n.irFn)
	b.ClearCurrentFunction()
	ctx.SetCurrentFunction(nil)
	return ir.Value{}, nil
}

func zeroValue(t *ir.Type) ir.Value {
	if t.Kind == ir.KindFloat {
		return ir.Value{Kind: ir.ValConstFloat, Float: 0, Type: t}
	}
	return ir.ConstInt(0, t)
}

func lastIsTerminator(fn *ir.Function) bool {
	if len(fn.Blocks) == 0 {
		return false
	}
	last := fn.Blocks[len(fn.Blocks)-1]
	if len(last.Instr) == 0 {
		return false
	}
	_, ok := last.Instr[len(last.Instr)-1].(ir.Ret)
	return ok
}

// Program is the root of a compiled source file — the top-level `block`
// production, a flat sequence of statements (in practice, almost always
// function declarations).
type Program struct {
	Declarations []Statement
}

func NewProgram(decls []Statement) *Program {
	return &Program{Declarations: decls}
}

func (p *Program) Render() string {
	s := "Program"
	for _, d := range p.Declarations {
		s += "\n" + d.Render(1)
	}
	return s
}

// Preprocess runs each top-level declaration's Preprocess in order, which
// declares every function's signature and symbol. Lower runs only after
// this pass completes, so forward references resolve regardless of
// declaration order.
func (p *Program) Preprocess(ctx LoweringContext) error {
	for _, d := range p.Declarations {
		if err := d.Preprocess(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) Lower(ctx LoweringContext) (*ir.Module, error) {
	for _, d := range p.Declarations {
		if _, err := d.Lower(ctx); err != nil {
			return nil, err
		}
	}
	return ctx.Builder().Module, nil
}
