package sym

import "fmt"

// ============================================================
// Sum — summation over an index
// ============================================================

type Sum struct {
	body   Expr
	idx    *Idx
	lo, hi Expr
}

func SumOf(body Expr, idx *Idx, lo, hi Expr) Expr {
	b := body.Simplify()
	if isZero(b) {
		return N(0)
	}
	return &Sum{body: b, idx: idx, lo: lo.Simplify(), hi: hi.Simplify()}
}

func (s *Sum) Simplify() Expr { return SumOf(s.body, s.idx, s.lo, s.hi) }

func (s *Sum) String() string {
	return fmt.Sprintf("Sum(%s, (%s, %s, %s))", s.body, s.idx, s.lo, s.hi)
}

func (s *Sum) LaTeX() string {
	return fmt.Sprintf("\\sum_{%s=%s}^{%s} %s", s.idx.LaTeX(), s.lo.LaTeX(), s.hi.LaTeX(), s.body.LaTeX())
}

func (s *Sum) Sub(old, new Expr) Expr {
	if s.Equal(old) {
		return new
	}
	body := s.body
	if !old.Equal(s.idx) {
		// The summation index is bound; never substitute it away.
		body = body.Sub(old, new)
	}
	return SumOf(body, s.idx, s.lo.Sub(old, new), s.hi.Sub(old, new))
}

// Diff pushes the derivative inside the summation.
func (s *Sum) Diff(wrt Expr) Expr {
	return SumOf(s.body.Diff(wrt), s.idx, s.lo, s.hi)
}

func (s *Sum) Eval() (*Num, bool) {
	lo, hi, ok := s.intBounds()
	if !ok {
		return nil, false
	}
	acc := N(0)
	for k := lo; k <= hi; k++ {
		v, ok := s.body.Sub(s.idx, N(k)).Simplify().Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (s *Sum) intBounds() (int64, int64, bool) {
	ln, ok := s.lo.Eval()
	if !ok || !ln.IsInteger() {
		return 0, 0, false
	}
	hn, ok := s.hi.Eval()
	if !ok || !hn.IsInteger() {
		return 0, 0, false
	}
	lo := ln.Rat().Num().Int64()
	hi := hn.Rat().Num().Int64()
	if hi-lo > 10000 {
		panic("thermodiff/sym: summation range too large to unroll")
	}
	return lo, hi, true
}

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && s.idx.Equal(o.idx) && s.body.Equal(o.body) &&
		s.lo.Equal(o.lo) && s.hi.Equal(o.hi)
}

func (s *Sum) exprType() string { return "sum" }
func (s *Sum) toJSON() map[string]interface{} {
	return map[string]interface{}{
		"type": "sum",
		"body": s.body.toJSON(),
		"idx":  s.idx.toJSON(),
		"lo":   s.lo.toJSON(),
		"hi":   s.hi.toJSON(),
	}
}

func (s *Sum) Body() Expr           { return s.body }
func (s *Sum) Index() *Idx          { return s.idx }
func (s *Sum) Bounds() (Expr, Expr) { return s.lo, s.hi }

// ============================================================
// Delta collapse and unrolling
// ============================================================

// CollapseDeltas applies the summation identity
//
//	Sum_k delta(k, i) f(k)  ->  f(i)
//
// to every summation in e whose body carries a delta pairing the bound
// index with idx, assuming idx lies inside the summation range. This
// is the cleanup needed after differentiating a component sum with
// respect to n[idx].
func CollapseDeltas(e Expr, idx Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = CollapseDeltas(t, idx)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = CollapseDeltas(f, idx)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(CollapseDeltas(v.base, idx), CollapseDeltas(v.exp, idx))
	case *Func:
		return funcOf(v.name, CollapseDeltas(v.arg, idx)).Simplify()
	case *Applied:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = CollapseDeltas(a, idx)
		}
		return (&Applied{name: v.name, args: args}).Simplify()
	case *Derivative:
		return &Derivative{of: CollapseDeltas(v.of, idx), wrt: v.wrt}
	case *Piecewise:
		cases := make([]Case, len(v.cases))
		for i, c := range v.cases {
			cases[i] = Case{Expr: CollapseDeltas(c.Expr, idx), Cond: c.Cond}
		}
		return PiecewiseOf(cases...)
	case *Sum:
		body := CollapseDeltas(v.body, idx).Simplify()
		terms := []Expr{body}
		if a, ok := body.(*Add); ok {
			terms = a.terms
		}
		out := make([]Expr, 0, len(terms))
		for _, t := range terms {
			if c, ok := collapseTerm(t, v.idx, idx); ok {
				out = append(out, c)
			} else {
				out = append(out, SumOf(t, v.idx, v.lo, v.hi))
			}
		}
		return AddOf(out...)
	}
	return e
}

// collapseTerm removes a delta pairing the bound index with idx from a
// single summand and substitutes the bound index accordingly. The
// delta may sit one or more summations deeper, which is where it ends
// up after differentiating a nested component sum.
func collapseTerm(t Expr, bound *Idx, idx Expr) (Expr, bool) {
	if s, ok := t.(*Sum); ok {
		if c, ok := collapseTerm(s.body, bound, idx); ok {
			return SumOf(c, s.idx, s.lo.Sub(bound, idx), s.hi.Sub(bound, idx)), true
		}
		return nil, false
	}
	factors := []Expr{t}
	if m, ok := t.(*Mul); ok {
		factors = m.factors
	}
	for i, f := range factors {
		d, ok := f.(*Delta)
		if !ok || !d.pairs(bound, idx) {
			continue
		}
		rest := make([]Expr, 0, len(factors)-1)
		for j, g := range factors {
			if j != i {
				rest = append(rest, g)
			}
		}
		if len(rest) == 0 {
			return N(1), true
		}
		return MulOf(rest...).Sub(bound, idx).Simplify(), true
	}
	return nil, false
}

// Unroll expands every summation with numeric bounds into an explicit
// sum of terms. Substitute the component count first to make bounds
// numeric.
func Unroll(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Unroll(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Unroll(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(Unroll(v.base), Unroll(v.exp))
	case *Func:
		return funcOf(v.name, Unroll(v.arg)).Simplify()
	case *Applied:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = Unroll(a)
		}
		return (&Applied{name: v.name, args: args}).Simplify()
	case *Piecewise:
		cases := make([]Case, len(v.cases))
		for i, c := range v.cases {
			cases[i] = Case{Expr: Unroll(c.Expr), Cond: c.Cond}
		}
		return PiecewiseOf(cases...)
	case *Sum:
		lo, hi, ok := v.intBounds()
		if !ok {
			return SumOf(Unroll(v.body), v.idx, v.lo, v.hi)
		}
		terms := make([]Expr, 0, hi-lo+1)
		for k := lo; k <= hi; k++ {
			terms = append(terms, Unroll(v.body.Sub(v.idx, N(k)).Simplify()))
		}
		return AddOf(terms...)
	}
	return e
}
