package thermodiff

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ipqa-research/thermodiff/sym"
)

// GasConstant is R in J/(mol K).
const GasConstant = 8.31446261815324

// ============================================================
// Numeric evaluation
// ============================================================

// StatePoint is a concrete mixture state to evaluate expressions at.
// Params supplies values for any remaining symbols and indexed
// parameters, keyed by their string form ("alpha", "A[1,2]").
type StatePoint struct {
	Nc     int
	T      float64
	V      float64
	P      float64
	Moles  []float64
	Params map[string]float64
}

func (at StatePoint) validate() error {
	if at.Nc <= 0 {
		return fmt.Errorf("thermodiff: state needs at least one component")
	}
	if len(at.Moles) != at.Nc {
		return fmt.Errorf("thermodiff: state has %d mole numbers for %d components", len(at.Moles), at.Nc)
	}
	return nil
}

func (at StatePoint) clone() StatePoint {
	out := at
	out.Moles = append([]float64(nil), at.Moles...)
	return out
}

// EvalAt binds the state to expr and evaluates it: the component
// count is fixed, summations unroll, and every remaining variable is
// looked up in the state. Reserved indices must be substituted out
// before calling.
func EvalAt(expr sym.Expr, at StatePoint) (float64, error) {
	if err := at.validate(); err != nil {
		return 0, err
	}
	bound := sym.Sub(expr, Nc, sym.N(int64(at.Nc)))
	bound = sym.Unroll(bound).Simplify()

	for _, v := range sym.Variables(bound) {
		name := v.String()
		var val float64
		switch name {
		case "T":
			val = at.T
		case "V":
			val = at.V
		case "P":
			val = at.P
		case "R":
			val = GasConstant
		default:
			p, ok := at.Params[name]
			if ok {
				val = p
				break
			}
			ix, isIndexed := v.(*sym.Indexed)
			if !isIndexed || ix.BaseName() != "n" {
				return 0, fmt.Errorf("thermodiff: no value for %s in the state", name)
			}
			c, err := componentOf(ix)
			if err != nil {
				return 0, err
			}
			if c < 1 || c > at.Nc {
				return 0, fmt.Errorf("thermodiff: component %d out of range", c)
			}
			val = at.Moles[c-1]
		}
		bound = sym.Sub(bound, v, sym.NFloat(val))
	}

	n, ok := bound.Eval()
	if !ok {
		return 0, fmt.Errorf("thermodiff: expression does not evaluate at the given state: %s", bound.String())
	}
	return n.Float64(), nil
}

func componentOf(ix *sym.Indexed) (int, error) {
	idxs := ix.Idxs()
	if len(idxs) != 1 {
		return 0, fmt.Errorf("thermodiff: %s is not a mole number", ix.String())
	}
	n, ok := idxs[0].Eval()
	if !ok || !n.IsInteger() {
		return 0, fmt.Errorf("thermodiff: unresolved component index in %s", ix.String())
	}
	return int(n.Float64()), nil
}

// ============================================================
// Finite-difference verification
// ============================================================

// CheckNumeric verifies the analytic grid against central finite
// differences of the original expression at the given state. Every
// mismatch is reported; a nil return means the grid is consistent
// within tol.
func (d *DiffPlz) CheckNumeric(at StatePoint, tol float64) error {
	if err := at.validate(); err != nil {
		return err
	}
	if len(d.Internal) > 0 {
		return fmt.Errorf("thermodiff: cannot check %s numerically: internal functions have no numeric form", d.Name)
	}

	var fails []string
	var evalErr error

	value := func(p StatePoint) float64 {
		v, err := EvalAt(d.Expr, p)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}
	compare := func(label string, analytic sym.Expr, numeric float64) {
		a, err := EvalAt(analytic, at)
		if err != nil {
			fails = append(fails, fmt.Sprintf("%s: %v", label, err))
			return
		}
		if !scalar.EqualWithinAbsOrRel(a, numeric, tol, tol) {
			fails = append(fails, fmt.Sprintf("%s: analytic %g, numeric %g", label, a, numeric))
		}
	}

	central := &fd.Settings{Formula: fd.Central}
	central2 := &fd.Settings{Formula: fd.Central2nd}

	byT := func(t float64) float64 { p := at.clone(); p.T = t; return value(p) }
	byV := func(v float64) float64 { p := at.clone(); p.V = v; return value(p) }
	byP := func(pr float64) float64 { p := at.clone(); p.P = pr; return value(p) }

	compare("dT", d.DT, fd.Derivative(byT, at.T, central))
	compare("dT2", d.DT2, fd.Derivative(byT, at.T, central2))
	compare("dV", d.DV, fd.Derivative(byV, at.V, central))
	compare("dV2", d.DV2, fd.Derivative(byV, at.V, central2))
	compare("dP", d.DP, fd.Derivative(byP, at.P, central))
	compare("dP2", d.DP2, fd.Derivative(byP, at.P, central2))

	for c := 1; c <= at.Nc; c++ {
		c := c
		byN := func(x float64) float64 {
			p := at.clone()
			p.Moles[c-1] = x
			return value(p)
		}
		analytic := sym.Sub(d.DNi, I, sym.N(int64(c)))
		compare(fmt.Sprintf("dn[%d]", c), analytic, fd.Derivative(byN, at.Moles[c-1], central))
	}

	// The second compositional derivatives differentiate the analytic
	// dn_i numerically with respect to n_b, which keeps the step error
	// of a doubly-numeric difference out of the comparison.
	for a := 1; a <= at.Nc; a++ {
		dna := sym.Sub(d.DNi, I, sym.N(int64(a)))
		for b := 1; b <= at.Nc; b++ {
			b := b
			byNb := func(x float64) float64 {
				p := at.clone()
				p.Moles[b-1] = x
				v, err := EvalAt(dna, p)
				if err != nil && evalErr == nil {
					evalErr = err
				}
				return v
			}
			analytic := sym.Sub(sym.Sub(d.DNiDNj, I, sym.N(int64(a))), J, sym.N(int64(b)))
			compare(fmt.Sprintf("dn[%d]dn[%d]", a, b),
				analytic, fd.Derivative(byNb, at.Moles[b-1], central))
		}
	}

	// The remaining crosses follow the same pattern: the analytic
	// first derivative, differentiated numerically in the other
	// variable.
	analyticAt := func(e sym.Expr, p StatePoint) float64 {
		x, err := EvalAt(e, p)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return x
	}
	byTOf := func(e sym.Expr) func(float64) float64 {
		return func(t float64) float64 { p := at.clone(); p.T = t; return analyticAt(e, p) }
	}
	byVOf := func(e sym.Expr) func(float64) float64 {
		return func(v float64) float64 { p := at.clone(); p.V = v; return analyticAt(e, p) }
	}
	byPOf := func(e sym.Expr) func(float64) float64 {
		return func(pr float64) float64 { p := at.clone(); p.P = pr; return analyticAt(e, p) }
	}

	compare("dTdV", d.DTDV, fd.Derivative(byVOf(d.DT), at.V, central))
	compare("dTdP", d.DTDP, fd.Derivative(byPOf(d.DT), at.P, central))
	compare("dVdP", d.DVDP, fd.Derivative(byPOf(d.DV), at.P, central))

	for c := 1; c <= at.Nc; c++ {
		ci := sym.N(int64(c))
		dnc := sym.Sub(d.DNi, I, ci)
		compare(fmt.Sprintf("dTdn[%d]", c),
			sym.Sub(d.DTDNi, I, ci), fd.Derivative(byTOf(dnc), at.T, central))
		compare(fmt.Sprintf("dVdn[%d]", c),
			sym.Sub(d.DVDNi, I, ci), fd.Derivative(byVOf(dnc), at.V, central))
		compare(fmt.Sprintf("dPdn[%d]", c),
			sym.Sub(d.DPDNi, I, ci), fd.Derivative(byPOf(dnc), at.P, central))
	}

	if evalErr != nil {
		return evalErr
	}
	if len(fails) > 0 {
		return fmt.Errorf("thermodiff: derivative check failed:\n  %s", strings.Join(fails, "\n  "))
	}
	return nil
}
