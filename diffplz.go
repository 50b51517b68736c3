package thermodiff

import "github.com/ipqa-research/thermodiff/sym"

// ============================================================
// DiffPlz — the full derivative grid
// ============================================================

// DiffPlz holds a thermodynamic expression together with every first
// and second derivative a model implementation needs.
//
// The expression must be written in terms of the package variables T,
// V, P and N, using the indices K, L and M for component sums. The
// compositional derivatives are taken with respect to n[i] and n[j];
// those indices are reserved and must not appear in the input.
//
// Internal lists the applied model functions of the expression, like
// Fn("tau").Of(K, L, T); their derivatives stay unevaluated and Clean
// uses them to fold the grid into readable form.
type DiffPlz struct {
	Name     string
	Expr     sym.Expr
	Internal []sym.Expr
	Indexes  []*sym.Idx

	// First derivatives.
	DT  sym.Expr
	DV  sym.Expr
	DP  sym.Expr
	DNi sym.Expr

	// Second derivatives.
	DT2    sym.Expr
	DV2    sym.Expr
	DP2    sym.Expr
	DNiDNj sym.Expr

	// Cross second derivatives.
	DTDV  sym.Expr
	DTDP  sym.Expr
	DTDNi sym.Expr
	DVDNi sym.Expr
	DVDP  sym.Expr
	DPDNi sym.Expr

	// Args is what the expression actually depends on, in the fixed
	// order n, V, P, T.
	Args []sym.Expr
}

// New differentiates expr and fills the whole grid. A nil indexes
// slice means the default [K, L, M]; an empty name means "f".
func New(expr sym.Expr, internal []sym.Expr, indexes []*sym.Idx, name string) *DiffPlz {
	if indexes == nil {
		indexes = []*sym.Idx{K, L, M}
	}
	if name == "" {
		name = "f"
	}
	d := &DiffPlz{
		Name:     name,
		Expr:     expr,
		Internal: internal,
		Indexes:  indexes,
	}

	d.DT = sym.Diff(expr, T)
	d.DT2 = sym.Diff(d.DT, T)

	d.DV = sym.Diff(expr, V)
	d.DV2 = sym.Diff(d.DV, V)

	d.DP = sym.Diff(expr, P)
	d.DP2 = sym.Diff(d.DP, P)

	d.DNi = d.diffNi(expr, I)
	d.DNiDNj = d.diffNiNj(d.DNi, J)

	d.DTDV = sym.Diff(d.DT, V)
	d.DTDP = sym.Diff(d.DT, P)
	d.DTDNi = d.diffNi(d.DT, I)

	d.DVDNi = d.diffNi(d.DV, I)
	d.DVDP = sym.Diff(d.DV, P)

	d.DPDNi = d.diffNi(d.DP, I)

	d.Args = detectArgs(expr)
	return d
}

// diffNi is the compositional derivative with respect to n[index]:
// differentiate, collapse summed deltas, then split any free delta
// into a piecewise expression.
func (d *DiffPlz) diffNi(expr sym.Expr, index *sym.Idx) sym.Expr {
	raw := sym.Diff(expr, N.At(index))
	out := HandleSumKronecker(raw, index)
	for _, kdx := range d.Indexes {
		out = HandleFreeKronecker(out, kdx, index)
	}
	return out
}

// diffNiDNj differentiates the first compositional derivative again.
// When dn_i split into cases, each case is differentiated on its own
// and the case conditions are merged with the new i = index / i !=
// index split.
func (d *DiffPlz) diffNiNj(expr sym.Expr, index *sym.Idx) sym.Expr {
	p, ok := expr.(*sym.Piecewise)
	if !ok {
		return d.diffNi(expr, index)
	}

	var pieces []sym.Case
	for _, c := range p.Cases() {
		raw := sym.Diff(c.Expr, N.At(index))
		dc := HandleSumKronecker(raw, index)
		for _, kdx := range d.Indexes {
			dc = HandleFreeKronecker(dc, kdx, index)
		}

		// Differentiating a case introduces delta(j, i).
		dc = HandleFreeKronecker(dc, index, I)

		dp, ok := dc.(*sym.Piecewise)
		if !ok {
			pieces = append(pieces, sym.Case{Expr: dc, Cond: c.Cond})
			continue
		}
		for _, dcase := range dp.Cases() {
			switch {
			case dcase.Cond.IsTrue() && !c.Cond.IsTrue():
				pieces = append(pieces, sym.Case{
					Expr: dcase.Expr,
					Cond: sym.CondAnd(c.Cond, sym.CondNe(I, index)),
				})
			case !dcase.Cond.IsTrue() && c.Cond.IsTrue():
				pieces = append(pieces, sym.Case{
					Expr: dcase.Expr,
					Cond: sym.CondAnd(dcase.Cond, sym.CondNe(I, index)),
				})
			default:
				pieces = append(pieces, sym.Case{
					Expr: dcase.Expr,
					Cond: sym.CondAnd(c.Cond, dcase.Cond),
				})
			}
		}
	}
	return sym.PiecewiseOf(pieces...)
}

// detectArgs reports which thermodynamic variables the expression
// depends on, in the fixed order n, V, P, T.
func detectArgs(expr sym.Expr) []sym.Expr {
	var args []sym.Expr
	if sym.HasBase(expr, "n") {
		args = append(args, sym.S("n"))
	}
	if sym.Has(expr, V) {
		args = append(args, V)
	}
	if sym.Has(expr, P) {
		args = append(args, P)
	}
	if sym.Has(expr, T) {
		args = append(args, T)
	}
	return args
}

// fnExpr is the placeholder the cleanup substitutes the original
// expression with: f(n, V, T) for an expression named f.
func (d *DiffPlz) fnExpr() sym.Expr {
	if len(d.Args) == 0 {
		return sym.S(d.Name)
	}
	return sym.Fn(d.Name).Of(d.Args...)
}

// Clean folds recurring subexpressions of the grid into derivative
// placeholders: wherever the original expression appears inside dT it
// becomes f(...), wherever dT appears inside dT2 it becomes
// Derivative(f(...), T), and so on. The result reads the way the
// derivatives are written out in a paper.
func (d *DiffPlz) Clean() {
	fn := d.fnExpr()

	fnT := sym.DerivOf(fn, T)
	fnV := sym.DerivOf(fn, V)
	fnP := sym.DerivOf(fn, P)
	fnNi := sym.DerivOf(fn, N.At(I))

	overT := func(e sym.Expr) sym.Expr {
		return sym.MulOf(e, sym.PowOf(T, sym.N(-1)))
	}
	zero := sym.N(0)

	// Keep the raw first derivatives around: the second-derivative
	// folds match against these, not the already-folded forms.
	dt, dv, dp, dni := d.DT, d.DV, d.DP, d.DNi

	// First derivatives.
	d.DT = sym.Sub(d.DT, d.Expr, fn)
	d.DT = sym.Sub(d.DT, overT(d.Expr), overT(fn))
	d.DP = sym.Sub(d.DP, d.Expr, fn)
	d.DV = sym.Sub(d.DV, d.Expr, fn)
	d.DNi = sym.Sub(d.DNi, d.Expr, fn)

	// Second derivatives.
	d.DT2 = sym.Sub(d.DT2, d.Expr, fn)
	d.DT2 = sym.Sub(d.DT2, overT(d.Expr), overT(fn))
	if !dt.Equal(zero) {
		d.DT2 = sym.Sub(d.DT2, dt, fnT)
		d.DT2 = sym.Sub(d.DT2, overT(dt), overT(fnT))
	}

	d.DV2 = sym.Sub(d.DV2, d.Expr, fn)
	if !dv.Equal(zero) {
		d.DV2 = sym.Sub(d.DV2, dv, fnV)
	}

	d.DP2 = sym.Sub(d.DP2, d.Expr, fn)
	if !dp.Equal(zero) {
		d.DP2 = sym.Sub(d.DP2, dp, fnP)
	}

	d.DNiDNj = sym.Sub(d.DNiDNj, d.Expr, fn)
	if !dni.Equal(zero) {
		d.DNiDNj = sym.Sub(d.DNiDNj, dni, fnNi)
	}

	// Cross second derivatives.
	d.DTDV = sym.Sub(d.DTDV, d.Expr, fn)
	if !dt.Equal(zero) {
		d.DTDV = sym.Sub(d.DTDV, dt, fnT)
		d.DTDV = sym.Sub(d.DTDV, overT(dt), overT(fnT))
	}
	if !dv.Equal(zero) {
		d.DTDV = sym.Sub(d.DTDV, dv, fnV)
		d.DTDV = sym.Sub(d.DTDV, overT(dv), overT(fnV))
	}

	d.DTDP = sym.Sub(d.DTDP, d.Expr, fn)
	if !dt.Equal(zero) {
		d.DTDP = sym.Sub(d.DTDP, dt, fnT)
		d.DTDP = sym.Sub(d.DTDP, overT(dt), overT(fnT))
	}
	if !dp.Equal(zero) {
		d.DTDP = sym.Sub(d.DTDP, dp, fnP)
		d.DTDP = sym.Sub(d.DTDP, overT(dp), overT(fnP))
	}

	d.DTDNi = sym.Sub(d.DTDNi, d.Expr, fn)
	if !dt.Equal(zero) {
		d.DTDNi = sym.Sub(d.DTDNi, dt, fnT)
		d.DTDNi = sym.Sub(d.DTDNi, overT(dt), overT(fnT))
	}
	if !dni.Equal(zero) {
		d.DTDNi = sym.Sub(d.DTDNi, dni, fnNi)
		d.DTDNi = sym.Sub(d.DTDNi, overT(dni), overT(fnNi))
	}

	d.DVDNi = sym.Sub(d.DVDNi, d.Expr, fn)
	if !dv.Equal(zero) {
		d.DVDNi = sym.Sub(d.DVDNi, dv, fnV)
	}
	if !dni.Equal(zero) {
		d.DVDNi = sym.Sub(d.DVDNi, dni, fnNi)
	}

	d.DVDP = sym.Sub(d.DVDP, d.Expr, fn)
	if !dv.Equal(zero) {
		d.DVDP = sym.Sub(d.DVDP, dv, fnV)
	}
	if !dp.Equal(zero) {
		d.DVDP = sym.Sub(d.DVDP, dp, fnP)
	}
}

// Grid returns every derivative keyed by its differential: dT, dV,
// dP, dn_i, dT2, dV2, dP2, dn2, dTn, dVn, dPn, dTV, dTP and dVP.
func (d *DiffPlz) Grid() map[string]sym.Expr {
	return map[string]sym.Expr{
		"dT":   d.DT,
		"dV":   d.DV,
		"dP":   d.DP,
		"dn_i": d.DNi,
		"dT2":  d.DT2,
		"dV2":  d.DV2,
		"dP2":  d.DP2,
		"dn2":  d.DNiDNj,
		"dTn":  d.DTDNi,
		"dVn":  d.DVDNi,
		"dPn":  d.DPDNi,
		"dTV":  d.DTDV,
		"dTP":  d.DTDP,
		"dVP":  d.DVDP,
	}
}

// LaTeX renders the whole grid. Applied internal functions are
// stripped to their bare names so that tau(k, l, T) prints as tau.
func (d *DiffPlz) LaTeX() map[string]string {
	grid := d.Grid()
	out := make(map[string]string, len(grid))
	for key, e := range grid {
		for _, fn := range d.Internal {
			a, ok := fn.(*sym.Applied)
			if !ok {
				continue
			}
			e = sym.Sub(e, a, sym.S(a.Name()))
		}
		out[key] = e.LaTeX()
	}
	return out
}
