package ir

import "fmt"

// Builder is the ambient insertion-point facade the lowerer mutates: one
// current module, one current function, one current basic block, plus a
// monotonic counter for fresh value and global names. It plays the role
// spec.md calls "the backend builder" — an external collaborator whose
// dialect this core only exercises through this narrow surface.
type Builder struct {
	Module *Module

	fn      *Function
	block   *BasicBlock
	counter int
}

// NewBuilder starts a fresh module named name.
func NewBuilder(name string) *Builder {
	return &Builder{Module: &Module{Name: name}}
}

func (b *Builder) fresh(prefix string) string {
	b.counter++
	return fmt.Sprintf("%s%d", prefix, b.counter)
}

func (b *Builder) emit(instr Instr) {
	b.block.Instr = append(b.block.Instr, instr)
}

// CreateFunction declares a function with external linkage and registers it
// on the module. It does not create an entry block — SetCurrentFunction does
// that once lowering of the body begins.
func (b *Builder) CreateFunction(name string, params []Param, result *Type) *Function {
	fn := &Function{Name: name, Params: params, Result: result, ExternalLinkage: true}
	b.Module.Functions = append(b.Module.Functions, fn)
	return fn
}

// SetCurrentFunction makes fn the insertion target and creates its entry
// block, which becomes the current insertion block.
func (b *Builder) SetCurrentFunction(fn *Function) {
	b.fn = fn
	entry := &BasicBlock{Name: "entry"}
	fn.Blocks = append(fn.Blocks, entry)
	b.block = entry
}

// CurrentFunction returns the function currently being lowered, or nil.
func (b *Builder) CurrentFunction() *Function { return b.fn }

// ClearCurrentFunction resets the insertion point after a function body has
// been fully lowered.
func (b *Builder) ClearCurrentFunction() {
	b.fn = nil
	b.block = nil
}

// CreateAlloca allocates a stack slot of t, aligned to align bytes.
func (b *Builder) CreateAlloca(t *Type, name string, align int) Value {
	dst := b.fresh(name + ".addr")
	b.emit(Alloca{Dst: dst, Type: t, Name: name, Alignment: align})
	return Value{Kind: ValRef, Ref: dst, Type: PointerTo(t), IsAddr: true}
}

// CreateLoad reads the value stored at addr. The returned Value remembers
// addr in LoadAddr, so a caller that needs to assign back through this load
// (an lvalue use) can recover the address without re-lowering the operand.
func (b *Builder) CreateLoad(addr Value, t *Type) Value {
	dst := b.fresh("v")
	b.emit(Load{Dst: dst, Addr: addr, Type: t})
	return Value{Kind: ValRef, Ref: dst, Type: t, LoadAddr: &addr}
}

// CreateStore writes val into addr.
func (b *Builder) CreateStore(val Value, addr Value) {
	b.emit(Store{Addr: addr, Val: val})
}

// CreateElementAddr computes the inbounds address of element index within
// base, an address of array type.
func (b *Builder) CreateElementAddr(base Value, index Value, elem *Type) Value {
	dst := b.fresh("ep")
	b.emit(ElementAddr{Dst: dst, Base: base, Index: index, Elem: elem})
	return Value{Kind: ValRef, Ref: dst, Type: PointerTo(elem), IsAddr: true}
}

// CreateBinOp emits a binary arithmetic instruction of the given result type.
func (b *Builder) CreateBinOp(op BinOpKind, lhs, rhs Value, resultType *Type) Value {
	dst := b.fresh("v")
	b.emit(BinOp{Dst: dst, Op: op, LHS: lhs, RHS: rhs, Type: resultType})
	return Value{Kind: ValRef, Ref: dst, Type: resultType}
}

// CreateCall emits a direct or indirect call instruction.
func (b *Builder) CreateCall(callee string, calleeVal *Value, args []Value, result *Type) Value {
	dst := ""
	if result != nil && result.Kind != KindVoid {
		dst = b.fresh("v")
	}
	b.emit(Call{Dst: dst, Callee: callee, CalleeVal: calleeVal, Args: args, Result: result})
	if dst == "" {
		return Value{}
	}
	return Value{Kind: ValRef, Ref: dst, Type: result}
}

// CreateRet emits a value-returning terminator.
func (b *Builder) CreateRet(val Value) {
	b.emit(Ret{Val: &val})
}

// CreateRetVoid emits a void-returning terminator.
func (b *Builder) CreateRetVoid() {
	b.emit(Ret{Val: nil})
}

// CreateGlobalString interns a string literal as a module-level global byte
// array and returns its address.
func (b *Builder) CreateGlobalString(s string) Value {
	name := b.fresh("str")
	b.Module.Globals = append(b.Module.Globals, &GlobalString{Name: name, Value: s})
	return Value{Kind: ValRef, Ref: name, Type: PointerTo(I8), IsAddr: true}
}

// ConstInt builds a constant integer value of type t.
func ConstInt(v int64, t *Type) Value {
	return Value{Kind: ValConstInt, Int: v, Type: t}
}

// FuncValue builds a reference to a function by name, for use as a callee
// value or as the value bound to a symbol-table entry.
func FuncValue(fn *Function) Value {
	return Value{Kind: ValFunc, Ref: fn.Name, Type: FuncType(paramTypes(fn), fn.Result)}
}

func paramTypes(fn *Function) []*Type {
	ts := make([]*Type, len(fn.Params))
	for i, p := range fn.Params {
		ts[i] = p.Type
	}
	return ts
}

// RunFunctionPass marks fn as having received its single requested
// per-function optimization pass. The pass's implementation is the
// backend's concern; this core only requests that it run once, per
// spec.md §4.5.
func (b *Builder) RunFunctionPass(fn *Function) {
	fn.Optimized = true
}
