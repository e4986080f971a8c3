package document

import (
	"math"
	"math/big"
)

// Equal reports whether v and other are structurally equal.
//
// Mappings compare by key set and per-key values regardless of order.
// Sequences are order sensitive. Ints and floats compare numerically;
// every other cross-kind comparison is false, so 8080 != "8080" and
// true != 1. NaN equals NaN so a document always equals itself.
// The absent sentinel only equals itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return numericEqual(v, other)
	}

	switch v.kind {
	case KindNull, KindAbsent:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i.Cmp(other.i) == 0
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(other.f) {
			return true
		}
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindTimestamp:
		return v.t.Equal(other.t)
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.m.keys) != len(other.m.keys) {
			return false
		}
		for _, key := range v.m.keys {
			ov, ok := other.m.values[key]
			if !ok || !v.m.values[key].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numericEqual(a, b Value) bool {
	var i *big.Int
	var f float64
	switch {
	case a.kind == KindInt && b.kind == KindFloat:
		i, f = a.i, b.f
	case a.kind == KindFloat && b.kind == KindInt:
		i, f = b.i, a.f
	default:
		return false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return new(big.Float).SetInt(i).Cmp(big.NewFloat(f)) == 0
}
