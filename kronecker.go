package thermodiff

import "github.com/ipqa-research/thermodiff/sym"

// HandleSumKronecker collapses the Kronecker deltas that appear inside
// component summations after differentiating with respect to n[idx]:
//
//	Sum_k delta(k, idx) f(k)  ->  f(idx)
//
// The collapse assumes idx lies within the summation range, which is
// always the case for a component index.
func HandleSumKronecker(expr sym.Expr, idx *sym.Idx) sym.Expr {
	return sym.CollapseDeltas(expr, idx)
}

// HandleFreeKronecker replaces an expression carrying a free (not
// summed) delta(idx, kdx) with the equivalent two-branch piecewise:
// the kdx = idx branch and the delta-is-zero branch. Expressions
// without the delta pass through unchanged.
func HandleFreeKronecker(expr sym.Expr, kdx, idx *sym.Idx) sym.Expr {
	delta := sym.DeltaOf(idx, kdx)
	if _, ok := delta.(*sym.Delta); !ok {
		// The delta folded to a numeral; nothing free to split on.
		return expr
	}
	if !sym.Has(expr, delta) {
		return expr
	}
	return sym.PiecewiseOf(
		sym.Case{Expr: sym.Sub(expr, kdx, idx), Cond: sym.CondEq(idx, kdx)},
		sym.Case{Expr: sym.Sub(expr, delta, sym.N(0)), Cond: sym.CondTrue()},
	)
}
