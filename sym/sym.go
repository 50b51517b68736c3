// Package sym is the symbolic-expression kernel behind thermodiff.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Deterministic simplification and stable output
//   - First-class indexed variables, component sums, Kronecker deltas
//     and piecewise expressions, which is what differentiating mixture
//     models actually requires
//   - Lazy derivatives for opaque model functions
//
// Expressions are immutable: every operation returns a new Expr.
package sym

import (
	"fmt"
	"math/big"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a symbolic expression node. Diff and Sub are keyed by
// expressions rather than variable names so that derivatives with
// respect to indexed variables (n[i]) and whole-subexpression
// substitution are expressible.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(old, new Expr) Expr
	Diff(wrt Expr) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("thermodiff/sym: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func (n *Num) Simplify() Expr { return n }
func (n *Num) Sub(old, new Expr) Expr {
	if n.Equal(old) {
		return new
	}
	return n
}
func (n *Num) Diff(Expr) Expr     { return N(0) }
func (n *Num) Eval() (*Num, bool) { return n, true }
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}
func (n *Num) exprType() string { return "num" }
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.Cmp(new(big.Rat).SetInt64(1)) == 0 }
func (n *Num) IsNegOne() bool   { return n.val.Cmp(new(big.Rat).SetInt64(-1)) == 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("thermodiff/sym: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return nameLaTeX(s.name) }
func (s *Sym) Name() string   { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}
func (s *Sym) exprType() string { return "sym" }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(old, new Expr) Expr {
	if s.Equal(old) {
		return new
	}
	return s
}
func (s *Sym) Diff(wrt Expr) Expr {
	if s.Equal(wrt) {
		return N(1)
	}
	return N(0)
}

// greek maps bare symbol names onto their LaTeX commands so that a
// model written with Fn("tau") renders the way a thermodynamicist
// would write it.
var greek = map[string]string{
	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "Gamma": `\Gamma`,
	"delta": `\delta`, "epsilon": `\epsilon`, "theta": `\theta`,
	"lambda": `\lambda`, "Lambda": `\Lambda`, "mu": `\mu`, "nu": `\nu`,
	"xi": `\xi`, "rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`,
	"phi": `\phi`, "Phi": `\Phi`, "chi": `\chi`, "psi": `\psi`,
	"omega": `\omega`, "Omega": `\Omega`,
}

func nameLaTeX(name string) string {
	if g, ok := greek[name]; ok {
		return g
	}
	return name
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Sub replaces every occurrence of old (matched structurally) with new
// and re-simplifies.
func Sub(expr, old, new Expr) Expr {
	return expr.Sub(old, new).Simplify()
}

// Diff differentiates with respect to a plain or indexed variable.
func Diff(expr, wrt Expr) Expr {
	switch wrt.(type) {
	case *Sym, *Indexed:
	default:
		panic("thermodiff/sym: can only differentiate with respect to a symbol or an indexed variable")
	}
	return expr.Diff(wrt).Simplify()
}

func Diff2(expr, wrt Expr) Expr {
	return Diff(Diff(expr, wrt), wrt)
}

func DiffN(expr, wrt Expr, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, wrt)
	}
	return result
}

// ============================================================
// Structural queries
// ============================================================

// children returns the direct subexpressions of a node. Leaves return
// nil.
func children(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	case *Indexed:
		return v.idxs
	case *Delta:
		return []Expr{v.a, v.b}
	case *Sum:
		return []Expr{v.body, v.lo, v.hi}
	case *Piecewise:
		var out []Expr
		for _, c := range v.cases {
			out = append(out, c.Expr)
			out = append(out, c.Cond.operands()...)
		}
		return out
	case *Applied:
		return v.args
	case *Derivative:
		return append([]Expr{v.of}, v.wrt...)
	}
	return nil
}

// Has reports whether target occurs anywhere in e, matched
// structurally.
func Has(e, target Expr) bool {
	if e.Equal(target) {
		return true
	}
	for _, c := range children(e) {
		if Has(c, target) {
			return true
		}
	}
	return false
}

// HasBase reports whether e contains any element of the indexed family
// with the given base name, regardless of index.
func HasBase(e Expr, base string) bool {
	if idx, ok := e.(*Indexed); ok && idx.base == base {
		return true
	}
	for _, c := range children(e) {
		if HasBase(c, base) {
			return true
		}
	}
	return false
}

// FreeSymbols collects the names of all plain and index symbols in e.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Idx:
		out[v.name] = struct{}{}
	}
	for _, c := range children(e) {
		collectSymbols(c, out)
	}
}

// Variables returns every distinct Sym and Indexed node in e, sorted
// by their string form. Index symbols and summation bounds are not
// variables.
func Variables(e Expr) []Expr {
	seen := map[string]Expr{}
	collectVariables(e, seen)
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Expr, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

func collectVariables(e Expr, out map[string]Expr) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = v
		return
	case *Indexed:
		out[v.String()] = v
		return
	}
	for _, c := range children(e) {
		collectVariables(c, out)
	}
}
