// Package diag accumulates the compiler's errors and warnings, each tagged
// by the token that produced it. It does not render anything — rendering
// diagnostics for a human is the driver's job, out of scope for this core.
package diag

import (
	"fmt"

	"github.com/ferrite-lang/ferritec/internal/token"
)

// Entry is a single diagnostic: a message anchored to a token.
type Entry struct {
	Token   token.Token
	Message string
}

func (e Entry) Error() string {
	return fmt.Sprintf("%s: %s", e.Token.Pos, e.Message)
}

// Bag collects errors and warnings in the order they were raised.
type Bag struct {
	Errors   []Entry
	Warnings []Entry
}

// AddError appends a new error entry anchored to tok.
func (b *Bag) AddError(tok token.Token, format string, args ...interface{}) {
	b.Errors = append(b.Errors, Entry{Token: tok, Message: fmt.Sprintf(format, args...)})
}

// AddWarning appends a new warning entry anchored to tok.
func (b *Bag) AddWarning(tok token.Token, format string, args ...interface{}) {
	b.Warnings = append(b.Warnings, Entry{Token: tok, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error has been recorded.
func (b *Bag) HasErrors() bool {
	return len(b.Errors) > 0
}

// AsErrors converts the error entries to a plain []error slice, the shape
// spec.md's get_errors() exposes to callers.
func (b *Bag) AsErrors() []error {
	errs := make([]error, len(b.Errors))
	for i, e := range b.Errors {
		errs[i] = e
	}
	return errs
}
