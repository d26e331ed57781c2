package lower

import (
	"github.com/ferrite-lang/ferritec/internal/ast"
	"github.com/ferrite-lang/ferritec/internal/diag"
	"github.com/ferrite-lang/ferritec/internal/ir"
)

// Lowerer drives a parsed program through the preprocess/lower pipeline
// against a single Context, so forward references across top-level
// declarations resolve regardless of source order.
type Lowerer struct {
	ctx *Context
}

// New returns a Lowerer that will emit into a module named name.
func New(name string) *Lowerer {
	return &Lowerer{ctx: NewContext(name)}
}

// Diagnostics exposes the accumulated errors and warnings, available after
// Run (or after Preprocess/Emit) regardless of outcome.
func (l *Lowerer) Diagnostics() *diag.Bag { return l.ctx.Diagnostics() }

// Preprocess registers every top-level declaration's symbol before any
// body is lowered.
func (l *Lowerer) Preprocess(program *ast.Program) error {
	return program.Preprocess(l.ctx)
}

// Emit lowers program into a backend module. Callers that only need a
// single pass over a program should prefer Run.
func (l *Lowerer) Emit(program *ast.Program) (*ir.Module, error) {
	return program.Lower(l.ctx)
}

// Run preprocesses and then lowers program in one call.
func (l *Lowerer) Run(program *ast.Program) (*ir.Module, error) {
	if err := l.Preprocess(program); err != nil {
		return nil, err
	}
	return l.Emit(program)
}
