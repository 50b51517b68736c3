package sym_test

import (
	"testing"

	"github.com/ipqa-research/thermodiff/sym"
)

// ============================================================
// Indexed tests
// ============================================================

func TestIndexed_String(t *testing.T) {
	n := sym.NewBase("n")
	i := sym.NewIdx("i")
	if n.At(i).String() != "n[i]" {
		t.Errorf("want n[i], got %s", n.At(i).String())
	}
}

func TestIndexed_MultiIndexString(t *testing.T) {
	a := sym.NewBase("A")
	expr := a.At(sym.NewIdx("k"), sym.NewIdx("l"))
	if expr.String() != "A[k,l]" {
		t.Errorf("want A[k,l], got %s", expr.String())
	}
}

func TestIndexed_LaTeX(t *testing.T) {
	lam := sym.NewBase("Lambda")
	expr := lam.At(sym.NewIdx("k"), sym.NewIdx("l"))
	if expr.LaTeX() != `\Lambda_{k l}` {
		t.Errorf("want \\Lambda_{k l}, got %s", expr.LaTeX())
	}
}

func TestIndexed_Diff_SameIndex(t *testing.T) {
	n := sym.NewBase("n")
	i := sym.NewIdx("i")
	d := sym.Diff(n.At(i), n.At(i))
	if d.String() != "1" {
		t.Errorf("d n[i]/d n[i] should be 1, got %s", d.String())
	}
}

func TestIndexed_Diff_DistinctIndices(t *testing.T) {
	n := sym.NewBase("n")
	k, i := sym.NewIdx("k"), sym.NewIdx("i")
	d := sym.Diff(n.At(k), n.At(i))
	if d.String() != "delta(i, k)" {
		t.Errorf("d n[k]/d n[i] should be delta(i, k), got %s", d.String())
	}
}

func TestIndexed_Diff_OtherBase(t *testing.T) {
	n, m := sym.NewBase("n"), sym.NewBase("m")
	i := sym.NewIdx("i")
	d := sym.Diff(n.At(i), m.At(i))
	if d.String() != "0" {
		t.Errorf("d n[i]/d m[i] should be 0, got %s", d.String())
	}
}

func TestIndexed_Diff_WrtPlainSymbol(t *testing.T) {
	n := sym.NewBase("n")
	d := sym.Diff(n.At(sym.NewIdx("i")), sym.S("T"))
	if d.String() != "0" {
		t.Errorf("d n[i]/dT should be 0, got %s", d.String())
	}
}

// ============================================================
// Delta tests
// ============================================================

func TestDelta_EqualArgsFoldToOne(t *testing.T) {
	i := sym.NewIdx("i")
	if sym.DeltaOf(i, i).String() != "1" {
		t.Errorf("delta(i, i) should be 1")
	}
}

func TestDelta_DistinctNumeralsFoldToZero(t *testing.T) {
	if sym.DeltaOf(sym.N(1), sym.N(2)).String() != "0" {
		t.Errorf("delta(1, 2) should be 0")
	}
}

func TestDelta_CanonicalOrder(t *testing.T) {
	i, k := sym.NewIdx("i"), sym.NewIdx("k")
	if !sym.DeltaOf(k, i).Equal(sym.DeltaOf(i, k)) {
		t.Errorf("delta should be symmetric in its arguments")
	}
}

func TestDelta_SubCollapses(t *testing.T) {
	i, k := sym.NewIdx("i"), sym.NewIdx("k")
	d := sym.DeltaOf(i, k)
	if sym.Sub(d, k, i).String() != "1" {
		t.Errorf("delta(i, k) with k:=i should be 1, got %s", sym.Sub(d, k, i).String())
	}
}

// ============================================================
// Sum tests
// ============================================================

func TestSum_String(t *testing.T) {
	n := sym.NewBase("n")
	k := sym.NewIdx("k")
	s := sym.SumOf(n.At(k), k, sym.N(1), sym.S("N_c"))
	if s.String() != "Sum(n[k], (k, 1, N_c))" {
		t.Errorf("got %s", s.String())
	}
}

func TestSum_ZeroBodyVanishes(t *testing.T) {
	k := sym.NewIdx("k")
	s := sym.SumOf(sym.N(0), k, sym.N(1), sym.N(5))
	if s.String() != "0" {
		t.Errorf("sum of zero body should be 0, got %s", s.String())
	}
}

func TestSum_EvalNumericBounds(t *testing.T) {
	k := sym.NewIdx("k")
	s := sym.SumOf(k, k, sym.N(1), sym.N(3))
	v, ok := s.Eval()
	if !ok || v.String() != "6" {
		t.Errorf("Sum(k, 1..3) should evaluate to 6")
	}
}

func TestSum_SubSkipsBoundIndex(t *testing.T) {
	n := sym.NewBase("n")
	k := sym.NewIdx("k")
	s := sym.SumOf(n.At(k), k, sym.N(1), sym.S("N_c"))
	result := sym.Sub(s, k, sym.N(2))
	if result.String() != s.String() {
		t.Errorf("bound index must not be substituted, got %s", result.String())
	}
}

func TestSum_DiffPushesInside(t *testing.T) {
	n := sym.NewBase("n")
	k := sym.NewIdx("k")
	s := sym.SumOf(sym.MulOf(n.At(k), sym.S("T")), k, sym.N(1), sym.S("N_c"))
	d := sym.Diff(s, sym.S("T"))
	want := sym.SumOf(n.At(k), k, sym.N(1), sym.S("N_c"))
	if !d.Equal(want) {
		t.Errorf("want %s, got %s", want.String(), d.String())
	}
}

// ============================================================
// Delta collapse
// ============================================================

func TestCollapseDeltas_Basic(t *testing.T) {
	// d/dn[i] Sum_k n[k]*T = Sum_k delta(k,i)*T -> T
	n := sym.NewBase("n")
	k, i := sym.NewIdx("k"), sym.NewIdx("i")
	s := sym.SumOf(sym.MulOf(n.At(k), sym.S("T")), k, sym.N(1), sym.S("N_c"))
	d := sym.Diff(s, n.At(i))
	collapsed := sym.CollapseDeltas(d, i)
	if collapsed.String() != "T" {
		t.Errorf("want T, got %s", collapsed.String())
	}
}

func TestCollapseDeltas_SubstitutesBoundIndex(t *testing.T) {
	// Sum_k delta(k,i)*ln(n[k]) -> ln(n[i])
	n := sym.NewBase("n")
	k, i := sym.NewIdx("k"), sym.NewIdx("i")
	body := sym.MulOf(sym.DeltaOf(k, i), sym.LnOf(n.At(k)))
	s := sym.SumOf(body, k, sym.N(1), sym.S("N_c"))
	collapsed := sym.CollapseDeltas(s, i)
	want := sym.LnOf(n.At(i))
	if !collapsed.Equal(want) {
		t.Errorf("want %s, got %s", want.String(), collapsed.String())
	}
}

func TestCollapseDeltas_MixedTerms(t *testing.T) {
	// Only the delta-bearing summand collapses; the rest stays summed.
	n := sym.NewBase("n")
	k, i := sym.NewIdx("k"), sym.NewIdx("i")
	body := sym.AddOf(sym.MulOf(sym.DeltaOf(k, i), sym.S("T")), n.At(k))
	s := sym.SumOf(body, k, sym.N(1), sym.S("N_c"))
	collapsed := sym.CollapseDeltas(s, i)
	if !sym.Has(collapsed, sym.S("T")) {
		t.Errorf("collapsed term lost, got %s", collapsed.String())
	}
	if !sym.HasBase(collapsed, "n") {
		t.Errorf("non-delta summand lost, got %s", collapsed.String())
	}
}

func TestCollapseDeltas_BareDeltaBody(t *testing.T) {
	// Sum_k delta(k,i) -> 1
	k, i := sym.NewIdx("k"), sym.NewIdx("i")
	s := sym.SumOf(sym.DeltaOf(k, i), k, sym.N(1), sym.S("N_c"))
	if sym.CollapseDeltas(s, i).String() != "1" {
		t.Errorf("want 1, got %s", sym.CollapseDeltas(s, i).String())
	}
}

func TestCollapseDeltas_UnrelatedDeltaUntouched(t *testing.T) {
	k, i, j := sym.NewIdx("k"), sym.NewIdx("i"), sym.NewIdx("j")
	s := sym.SumOf(sym.DeltaOf(k, j), k, sym.N(1), sym.S("N_c"))
	collapsed := sym.CollapseDeltas(s, i)
	if _, ok := collapsed.(*sym.Sum); !ok {
		t.Errorf("delta over a different index must not collapse, got %s", collapsed.String())
	}
}

// ============================================================
// Unroll
// ============================================================

func TestUnroll_NumericBounds(t *testing.T) {
	n := sym.NewBase("n")
	k := sym.NewIdx("k")
	s := sym.SumOf(n.At(k), k, sym.N(1), sym.N(2))
	want := sym.AddOf(n.At(sym.N(1)), n.At(sym.N(2)))
	if !sym.Unroll(s).Equal(want) {
		t.Errorf("want %s, got %s", want.String(), sym.Unroll(s).String())
	}
}

func TestUnroll_NestedSums(t *testing.T) {
	a := sym.NewBase("A")
	k, l := sym.NewIdx("k"), sym.NewIdx("l")
	inner := sym.SumOf(a.At(k, l), l, sym.N(1), sym.N(2))
	outer := sym.SumOf(inner, k, sym.N(1), sym.N(2))
	u := sym.Unroll(outer)
	want := sym.AddOf(
		a.At(sym.N(1), sym.N(1)), a.At(sym.N(1), sym.N(2)),
		a.At(sym.N(2), sym.N(1)), a.At(sym.N(2), sym.N(2)),
	)
	if !u.Equal(want) {
		t.Errorf("want %s, got %s", want.String(), u.String())
	}
}

func TestUnroll_SymbolicBoundsStay(t *testing.T) {
	n := sym.NewBase("n")
	k := sym.NewIdx("k")
	s := sym.SumOf(n.At(k), k, sym.N(1), sym.S("N_c"))
	if _, ok := sym.Unroll(s).(*sym.Sum); !ok {
		t.Errorf("symbolic bounds cannot unroll, got %s", sym.Unroll(s).String())
	}
}
