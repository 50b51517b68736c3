package thermodiff

import "github.com/ipqa-research/thermodiff/sym"

// SumComponents sums expr over every component of the mixture:
// Sum(expr, (idx, 1, N_c)).
func SumComponents(expr sym.Expr, idx *sym.Idx) sym.Expr {
	return sym.SumOf(expr, idx, sym.N(1), Nc)
}

// SumCustom sums expr over an arbitrary range.
func SumCustom(expr sym.Expr, idx *sym.Idx, start, end sym.Expr) sym.Expr {
	return sym.SumOf(expr, idx, start, end)
}
