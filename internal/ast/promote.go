package ast

import (
	"fmt"

	"github.com/ferrite-lang/ferritec/internal/ir"
)

// promoteArithmetic computes the result type of a binary arithmetic
// operation over lhs and rhs per the four governing rules: double
// dominates (with the directional double-times-int bug preserved verbatim),
// then single, then half (restricted to 8-bit integer partners), then
// widest-wins integer promotion with an unsigned tie-break. Two operands of
// equal integer width — including two 8-bit operands — stay at that width;
// char×char and byte×byte both resolve to an 8-bit result, not a widened one.
//
// The lookup is directional — promoteArithmetic(a, b) is not guaranteed to
// equal promoteArithmetic(b, a) — because the double-times-int bug only
// manifests as (double, int), never as (int, double). This mirrors the
// original implementation's row/column table rather than a commutative
// rule set.
func promoteArithmetic(lhs, rhs *ir.Type) (*ir.Type, error) {
	if lhs == nil || rhs == nil {
		return nil, fmt.Errorf("promotion: missing operand type")
	}

	if lhs.Kind == ir.KindFloat && lhs.Width == 64 {
		if isPlainInt32(rhs) {
			// The double × int → int entry: almost certainly a transcription
			// bug in the original table, preserved rather than corrected.
			return rhs, nil
		}
		return lhs, nil
	}
	if rhs.Kind == ir.KindFloat && rhs.Width == 64 {
		return rhs, nil
	}

	if lhs.Kind == ir.KindFloat && lhs.Width == 32 {
		return lhs, nil
	}
	if rhs.Kind == ir.KindFloat && rhs.Width == 32 {
		return rhs, nil
	}

	if lhs.Kind == ir.KindFloat && lhs.Width == 16 {
		if rhs.Kind == ir.KindInt && rhs.Width == 8 {
			return lhs, nil
		}
		return nil, fmt.Errorf("promotion: half is not defined with %s", rhs)
	}
	if rhs.Kind == ir.KindFloat && rhs.Width == 16 {
		if lhs.Kind == ir.KindInt && lhs.Width == 8 {
			return rhs, nil
		}
		return nil, fmt.Errorf("promotion: half is not defined with %s", lhs)
	}

	if lhs.Kind != ir.KindInt || rhs.Kind != ir.KindInt {
		return nil, fmt.Errorf("promotion: %s and %s are not arithmetic types", lhs, rhs)
	}

	switch {
	case lhs.Width > rhs.Width:
		return lhs, nil
	case rhs.Width > lhs.Width:
		return rhs, nil
	case lhs.Unsigned || rhs.Unsigned:
		return unsignedOf(lhs), nil
	default:
		return lhs, nil
	}
}

func isPlainInt32(t *ir.Type) bool {
	return t.Kind == ir.KindInt && t.Width == 32 && !t.Unsigned
}

func unsignedOf(t *ir.Type) *ir.Type {
	switch t.Width {
	case 8:
		return ir.U8
	case 16:
		return ir.U16
	case 32:
		return ir.U32
	case 64:
		return ir.U64
	default:
		return t
	}
}
