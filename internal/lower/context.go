// Package lower implements the concrete ast.LoweringContext and the driver
// that runs a program's two-phase preprocess/lower pipeline to completion.
package lower

import (
	"github.com/ferrite-lang/ferritec/internal/ast"
	"github.com/ferrite-lang/ferritec/internal/diag"
	"github.com/ferrite-lang/ferritec/internal/ir"
)

// frame is one level of the symbol-table stack: a flat name-to-value map
// for one lexical scope.
type frame map[string]ir.Value

// Context is the concrete ast.LoweringContext every node's Preprocess and
// Lower method mutates during a compile.
type Context struct {
	builder *ir.Builder
	diags   diag.Bag

	frames []frame
	unsafe bool

	currFunc *ir.Function
}

// NewContext returns a Context ready to lower a module named name, with a
// single root symbol frame already pushed.
func NewContext(name string) *Context {
	return &Context{
		builder: ir.NewBuilder(name),
		frames:  []frame{make(frame)},
	}
}

func (c *Context) Builder() *ir.Builder   { return c.builder }
func (c *Context) Diagnostics() *diag.Bag { return &c.diags }

func (c *Context) PushScope() { c.frames = append(c.frames, make(frame)) }
func (c *Context) PopScope()  { c.frames = c.frames[:len(c.frames)-1] }

func (c *Context) Define(name string, val ir.Value) {
	c.frames[len(c.frames)-1][name] = val
}

func (c *Context) Lookup(name string) (ir.Value, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if v, ok := c.frames[i][name]; ok {
			return v, true
		}
	}
	return ir.Value{}, false
}

func (c *Context) InUnsafe() bool { return c.unsafe }

func (c *Context) EnterUnsafe() func() {
	prev := c.unsafe
	c.unsafe = true
	return func() { c.unsafe = prev }
}

func (c *Context) CurrentFunction() *ir.Function      { return c.currFunc }
func (c *Context) SetCurrentFunction(fn *ir.Function) { c.currFunc = fn }

var _ ast.LoweringContext = (*Context)(nil)
