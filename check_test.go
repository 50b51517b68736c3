package thermodiff_test

import (
	"math"
	"strings"
	"testing"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/sym"
)

// ============================================================
// EvalAt
// ============================================================

func TestEvalAt_BindsState(t *testing.T) {
	// n_T * R * T / V
	expr := sym.MulOf(td.SumComponents(td.N.At(td.K), td.K), td.R, td.T, sym.PowOf(td.V, sym.N(-1)))
	at := td.StatePoint{Nc: 2, T: 300, V: 0.05, Moles: []float64{1, 2}}
	got, err := td.EvalAt(expr, at)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	want := 3 * td.GasConstant * 300 / 0.05
	if math.Abs(got-want) > 1e-6*want {
		t.Errorf("want %g, got %g", want, got)
	}
}

func TestEvalAt_Params(t *testing.T) {
	a := sym.NewBase("A")
	expr := sym.MulOf(a.At(sym.N(1), sym.N(2)), td.T)
	at := td.StatePoint{
		Nc: 1, T: 2, Moles: []float64{1},
		Params: map[string]float64{"A[1,2]": 3},
	}
	got, err := td.EvalAt(expr, at)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	if got != 6 {
		t.Errorf("want 6, got %g", got)
	}
}

func TestEvalAt_UnresolvedSymbol(t *testing.T) {
	_, err := td.EvalAt(sym.S("zeta"), td.StatePoint{Nc: 1, Moles: []float64{1}})
	if err == nil || !strings.Contains(err.Error(), "zeta") {
		t.Errorf("unknown symbols must be reported, got %v", err)
	}
}

func TestEvalAt_BadState(t *testing.T) {
	if _, err := td.EvalAt(td.T, td.StatePoint{Nc: 2, Moles: []float64{1}}); err == nil {
		t.Errorf("mole count mismatch must be rejected")
	}
}

// ============================================================
// CheckNumeric
// ============================================================

func TestCheckNumeric_IdealGas(t *testing.T) {
	// f = -n_T R T ln(V)
	expr := sym.MulOf(sym.N(-1), td.SumComponents(td.N.At(td.K), td.K), td.R, td.T, sym.LnOf(td.V))
	d := td.New(expr, nil, nil, "")
	at := td.StatePoint{Nc: 2, T: 300, V: 0.5, P: 1, Moles: []float64{1, 2}}
	if err := d.CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("grid should verify: %v", err)
	}
}

func TestCheckNumeric_QuadraticMixing(t *testing.T) {
	// f = Sum_k Sum_l n_k n_l / T
	inner := td.SumComponents(sym.MulOf(td.N.At(td.K), td.N.At(td.L)), td.L)
	expr := sym.MulOf(td.SumComponents(inner, td.K), sym.PowOf(td.T, sym.N(-1)))
	d := td.New(expr, nil, nil, "")
	at := td.StatePoint{Nc: 3, T: 250, V: 1, P: 1, Moles: []float64{0.3, 0.5, 0.2}}
	if err := d.CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("grid should verify: %v", err)
	}
}

func TestCheckNumeric_PressureTerms(t *testing.T) {
	// f = n_T T P^2 / V
	expr := sym.MulOf(td.SumComponents(td.N.At(td.K), td.K), td.T,
		sym.PowOf(td.P, sym.N(2)), sym.PowOf(td.V, sym.N(-1)))
	d := td.New(expr, nil, nil, "")
	at := td.StatePoint{Nc: 2, T: 300, V: 0.5, P: 2, Moles: []float64{1, 2}}
	if err := d.CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("grid should verify: %v", err)
	}
}

func TestCheckNumeric_CoversWholeGrid(t *testing.T) {
	expr := sym.MulOf(td.SumComponents(td.N.At(td.K), td.K), td.R, td.T,
		td.P, sym.PowOf(td.V, sym.N(-1)))
	d := td.New(expr, nil, nil, "")
	// Corrupt entries in every family: a pure second derivative, a
	// state-variable cross and a compositional cross.
	d.DP2 = sym.N(7)
	d.DTDP = sym.N(7)
	d.DPDNi = sym.N(7)
	at := td.StatePoint{Nc: 2, T: 300, V: 0.5, P: 2, Moles: []float64{1, 2}}
	err := d.CheckNumeric(at, 1e-4)
	if err == nil {
		t.Fatalf("corrupted grid entries must be reported")
	}
	for _, label := range []string{"dP2", "dTdP", "dPdn[1]"} {
		if !strings.Contains(err.Error(), label) {
			t.Errorf("report should name %s, got %v", label, err)
		}
	}
}

func TestCheckNumeric_RejectsInternalFunctions(t *testing.T) {
	tau := sym.Fn("tau").Of(td.K, td.T)
	d := td.New(sym.MulOf(td.T, tau), []sym.Expr{tau}, nil, "")
	at := td.StatePoint{Nc: 1, T: 300, V: 1, Moles: []float64{1}}
	if err := d.CheckNumeric(at, 1e-4); err == nil {
		t.Errorf("internal functions have no numeric form; check must refuse")
	}
}
