package diag

import (
	"testing"

	"github.com/ferrite-lang/ferritec/internal/position"
	"github.com/ferrite-lang/ferritec/internal/token"
)

func TestBagAccumulates(t *testing.T) {
	var b Bag
	tok := token.Token{Kind: token.Identifier, Text: "x", Pos: position.Position{Line: 1, Column: 1}}

	if b.HasErrors() {
		t.Fatal("fresh bag should have no errors")
	}

	b.AddError(tok, "Unbound symbol %q", "x")
	b.AddWarning(tok, "Unnecessary unsafe statement")

	if !b.HasErrors() {
		t.Fatal("expected HasErrors after AddError")
	}
	if len(b.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(b.Warnings))
	}

	errs := b.AsErrors()
	if len(errs) != 1 || errs[0].Error() == "" {
		t.Fatalf("AsErrors() = %v", errs)
	}
}
