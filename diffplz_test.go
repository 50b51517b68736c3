package thermodiff_test

import (
	"strings"
	"testing"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/sym"
)

// ============================================================
// Easy sums
// ============================================================

func TestSumComponents(t *testing.T) {
	s := td.SumComponents(td.N.At(td.K), td.K)
	if s.String() != "Sum(n[k], (k, 1, N_c))" {
		t.Errorf("got %s", s.String())
	}
}

func TestSumCustom(t *testing.T) {
	s := td.SumCustom(td.N.At(td.K), td.K, sym.N(2), td.Nc)
	if s.String() != "Sum(n[k], (k, 2, N_c))" {
		t.Errorf("got %s", s.String())
	}
}

// ============================================================
// Kronecker handling
// ============================================================

func TestHandleSumKronecker_TotalMoles(t *testing.T) {
	// d/dn_i Sum_k n_k = 1
	nT := td.SumComponents(td.N.At(td.K), td.K)
	raw := sym.Diff(nT, td.N.At(td.I))
	if td.HandleSumKronecker(raw, td.I).String() != "1" {
		t.Errorf("got %s", td.HandleSumKronecker(raw, td.I).String())
	}
}

func TestHandleFreeKronecker_SplitsToPiecewise(t *testing.T) {
	expr := sym.MulOf(sym.DeltaOf(td.I, td.K), td.T)
	result := td.HandleFreeKronecker(expr, td.K, td.I)
	if result.String() != "Piecewise((T, Eq(i, k)), (0, True))" {
		t.Errorf("got %s", result.String())
	}
}

func TestHandleFreeKronecker_NoDeltaPassesThrough(t *testing.T) {
	expr := sym.MulOf(td.N.At(td.K), td.T)
	if !td.HandleFreeKronecker(expr, td.K, td.I).Equal(expr) {
		t.Errorf("expression without delta must pass through")
	}
}

// ============================================================
// DiffPlz grid
// ============================================================

func TestDiffPlz_Defaults(t *testing.T) {
	d := td.New(td.T, nil, nil, "")
	if d.Name != "f" {
		t.Errorf("default name should be f, got %s", d.Name)
	}
	if len(d.Indexes) != 3 {
		t.Errorf("default indexes should be k, l, m")
	}
}

func TestDiffPlz_IdealGasStyle(t *testing.T) {
	// f = R*T*ln(V)
	expr := sym.MulOf(td.R, td.T, sym.LnOf(td.V))
	d := td.New(expr, nil, nil, "")

	if !d.DT.Equal(sym.MulOf(td.R, sym.LnOf(td.V))) {
		t.Errorf("dT: got %s", d.DT.String())
	}
	if d.DT2.String() != "0" {
		t.Errorf("dT2 should vanish, got %s", d.DT2.String())
	}
	if !d.DV.Equal(sym.MulOf(td.R, td.T, sym.PowOf(td.V, sym.N(-1)))) {
		t.Errorf("dV: got %s", d.DV.String())
	}
	if !d.DTDV.Equal(sym.MulOf(td.R, sym.PowOf(td.V, sym.N(-1)))) {
		t.Errorf("dTdV: got %s", d.DTDV.String())
	}
	if d.DNi.String() != "0" {
		t.Errorf("dn_i should vanish, got %s", d.DNi.String())
	}
	if d.DP.String() != "0" {
		t.Errorf("dP should vanish, got %s", d.DP.String())
	}
}

func TestDiffPlz_CompositionalCollapses(t *testing.T) {
	// f = T * Sum_k n_k  =>  dn_i = T
	expr := sym.MulOf(td.T, td.SumComponents(td.N.At(td.K), td.K))
	d := td.New(expr, nil, nil, "")
	if d.DNi.String() != "T" {
		t.Errorf("dn_i: got %s", d.DNi.String())
	}
	if d.DTDNi.String() != "1" {
		t.Errorf("dTdn_i: got %s", d.DTDNi.String())
	}
}

func TestDiffPlz_DoubleSumCollapses(t *testing.T) {
	// f = Sum_k Sum_l n_k n_l = (Sum n)^2  =>  dn_i = 2 Sum n
	inner := td.SumComponents(sym.MulOf(td.N.At(td.K), td.N.At(td.L)), td.L)
	expr := td.SumComponents(inner, td.K)
	d := td.New(expr, nil, nil, "")

	// Both surviving summations count the total moles.
	at := td.StatePoint{Nc: 2, T: 300, V: 1, Moles: []float64{1, 2}}
	got, err := td.EvalAt(sym.Sub(d.DNi, td.I, sym.N(1)), at)
	if err != nil {
		t.Fatalf("dn_i does not evaluate: %v", err)
	}
	if got != 6 {
		t.Errorf("dn_1 of (sum n)^2 at n_T=3 should be 6, got %g", got)
	}
}

func TestDiffPlz_FreeIndexGivesPiecewise(t *testing.T) {
	// f = T*n_k with a free k splits dn_i on k = i.
	expr := sym.MulOf(td.T, td.N.At(td.K))
	d := td.New(expr, nil, nil, "")
	p, ok := d.DNi.(*sym.Piecewise)
	if !ok {
		t.Fatalf("dn_i should be piecewise, got %s", d.DNi.String())
	}
	cases := p.Cases()
	if len(cases) != 2 {
		t.Fatalf("want 2 cases, got %d", len(cases))
	}
	if cases[0].Expr.String() != "T" || cases[0].Cond.String() != "Eq(i, k)" {
		t.Errorf("first case: got (%s, %s)", cases[0].Expr.String(), cases[0].Cond.String())
	}
	if cases[1].Expr.String() != "0" || !cases[1].Cond.IsTrue() {
		t.Errorf("second case: got (%s, %s)", cases[1].Expr.String(), cases[1].Cond.String())
	}
}

func TestDiffPlz_SecondMolarKeepsDelta(t *testing.T) {
	// f = T Sum_k n_k ln(n_k): dn_i = T (ln n_i + 1) and dn_i dn_j
	// carries delta(i, j).
	body := sym.MulOf(td.N.At(td.K), sym.LnOf(td.N.At(td.K)))
	expr := sym.MulOf(td.T, td.SumComponents(body, td.K))
	d := td.New(expr, nil, nil, "")

	wantDNi := sym.MulOf(td.T, sym.AddOf(sym.LnOf(td.N.At(td.I)), sym.N(1)))
	if !d.DNi.Equal(wantDNi) {
		t.Errorf("dn_i: want %s, got %s", wantDNi.String(), d.DNi.String())
	}
	want := sym.MulOf(td.T, sym.DeltaOf(td.I, td.J), sym.PowOf(td.N.At(td.I), sym.N(-1)))
	if !d.DNiDNj.Equal(want) {
		t.Errorf("dn_i dn_j: want %s, got %s", want.String(), d.DNiDNj.String())
	}
}

func TestDiffPlz_DetectsArguments(t *testing.T) {
	expr := sym.MulOf(td.T, td.SumComponents(td.N.At(td.K), td.K))
	d := td.New(expr, nil, nil, "")
	if len(d.Args) != 2 {
		t.Fatalf("want [n T], got %d args", len(d.Args))
	}
	if d.Args[0].String() != "n" || d.Args[1].String() != "T" {
		t.Errorf("want [n T], got [%s %s]", d.Args[0].String(), d.Args[1].String())
	}
}

// ============================================================
// Clean
// ============================================================

func TestClean_FoldsExpressionOverT(t *testing.T) {
	// f = T Sum_k n_k ln(n_k): dT equals f/T, so cleaning folds it
	// into f(n, T)/T.
	body := sym.MulOf(td.N.At(td.K), sym.LnOf(td.N.At(td.K)))
	expr := sym.MulOf(td.T, td.SumComponents(body, td.K))
	d := td.New(expr, nil, nil, "A")
	d.Clean()

	fn := sym.Fn("A").Of(sym.S("n"), td.T)
	wantDT := sym.MulOf(fn, sym.PowOf(td.T, sym.N(-1)))
	if !d.DT.Equal(wantDT) {
		t.Errorf("dT: want %s, got %s", wantDT.String(), d.DT.String())
	}
}

func TestClean_FoldsFirstMolarIntoCross(t *testing.T) {
	body := sym.MulOf(td.N.At(td.K), sym.LnOf(td.N.At(td.K)))
	expr := sym.MulOf(td.T, td.SumComponents(body, td.K))
	d := td.New(expr, nil, nil, "A")
	d.Clean()

	// dTdn_i equals dn_i/T, which folds into Derivative(A, n_i)/T.
	if !strings.Contains(d.DTDNi.String(), "Derivative(A(n, T), n[i])") {
		t.Errorf("dTdn_i should fold into a derivative placeholder, got %s", d.DTDNi.String())
	}
}

// ============================================================
// LaTeX grid
// ============================================================

func TestLaTeX_GridKeys(t *testing.T) {
	d := td.New(sym.MulOf(td.R, td.T), nil, nil, "")
	tex := d.LaTeX()
	for _, key := range []string{
		"dT", "dV", "dP", "dn_i", "dT2", "dV2", "dP2",
		"dn2", "dTn", "dVn", "dPn", "dTV", "dTP", "dVP",
	} {
		if _, ok := tex[key]; !ok {
			t.Errorf("missing grid key %s", key)
		}
	}
	if tex["dT"] != "R" {
		t.Errorf("dT should render as R, got %s", tex["dT"])
	}
}

func TestLaTeX_StripsInternalArguments(t *testing.T) {
	tau := sym.Fn("tau").Of(td.K, td.L, td.T)
	expr := sym.MulOf(td.R, td.T, tau)
	d := td.New(expr, []sym.Expr{tau}, nil, "")
	tex := d.LaTeX()
	if strings.Contains(tex["dV"], "\\left(") && strings.Contains(tex["dV"], "k, l") {
		t.Errorf("internal function arguments should be stripped, got %s", tex["dV"])
	}
	if !strings.Contains(tex["dT"], `\tau`) {
		t.Errorf("tau should render greek, got %s", tex["dT"])
	}
}
