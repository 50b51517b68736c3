package sym

import (
	"fmt"
	"strings"
)

// ============================================================
// Applied — user-declared function applied to arguments
// ============================================================

// FuncDef names a function whose body is unknown to the kernel.
// Derivatives of its applications stay unevaluated.
type FuncDef struct{ name string }

func Fn(name string) *FuncDef {
	if name == "" {
		panic("thermodiff/sym: Fn requires a name")
	}
	return &FuncDef{name: name}
}

func (f *FuncDef) Name() string { return f.name }

// Of applies the function to the given arguments.
func (f *FuncDef) Of(args ...Expr) Expr {
	if len(args) == 0 {
		panic(fmt.Sprintf("thermodiff/sym: %s applied to no arguments", f.name))
	}
	return &Applied{name: f.name, args: args}
}

type Applied struct {
	name string
	args []Expr
}

func (a *Applied) Name() string { return a.name }
func (a *Applied) Args() []Expr { return a.args }

func (a *Applied) Simplify() Expr {
	args := make([]Expr, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.Simplify()
	}
	return &Applied{name: a.name, args: args}
}

func (a *Applied) String() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.String()
	}
	return a.name + "(" + strings.Join(parts, ", ") + ")"
}

func (a *Applied) LaTeX() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.LaTeX()
	}
	return nameLaTeX(a.name) + "\\left(" + strings.Join(parts, ", ") + "\\right)"
}

func (a *Applied) Sub(old, new Expr) Expr {
	if a.Equal(old) {
		return new
	}
	args := make([]Expr, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.Sub(old, new)
	}
	return &Applied{name: a.name, args: args}
}

// Diff applies the chain rule over the arguments. Each partial stays
// an unevaluated Derivative node.
func (a *Applied) Diff(wrt Expr) Expr {
	var terms []Expr
	for _, arg := range a.args {
		dArg := arg.Diff(wrt)
		if isZero(dArg) {
			continue
		}
		terms = append(terms, MulOf(DerivOf(a, arg), dArg))
	}
	if len(terms) == 0 {
		return N(0)
	}
	return AddOf(terms...)
}

func (a *Applied) Eval() (*Num, bool) { return nil, false }

func (a *Applied) Equal(other Expr) bool {
	o, ok := other.(*Applied)
	if !ok || a.name != o.name || len(a.args) != len(o.args) {
		return false
	}
	for i := range a.args {
		if !a.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (a *Applied) exprType() string { return "applied" }
func (a *Applied) toJSON() map[string]interface{} {
	args := make([]interface{}, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.toJSON()
	}
	return map[string]interface{}{"type": "applied", "name": a.name, "args": args}
}

// ============================================================
// Derivative — unevaluated partial derivative
// ============================================================

type Derivative struct {
	of  Expr
	wrt []Expr
}

// DerivOf builds the unevaluated partial of `of` with respect to each
// variable in turn. Nesting flattens: DerivOf(DerivOf(f, x), y) is
// DerivOf(f, x, y).
func DerivOf(of Expr, wrt ...Expr) Expr {
	if len(wrt) == 0 {
		return of
	}
	if d, ok := of.(*Derivative); ok {
		all := make([]Expr, 0, len(d.wrt)+len(wrt))
		all = append(all, d.wrt...)
		all = append(all, wrt...)
		return &Derivative{of: d.of, wrt: all}
	}
	return &Derivative{of: of, wrt: wrt}
}

func (d *Derivative) Of() Expr    { return d.of }
func (d *Derivative) Wrt() []Expr { return d.wrt }

func (d *Derivative) Simplify() Expr { return d }

func (d *Derivative) String() string {
	parts := make([]string, len(d.wrt))
	for i, w := range d.wrt {
		parts[i] = w.String()
	}
	return "Derivative(" + d.of.String() + ", " + strings.Join(parts, ", ") + ")"
}

func (d *Derivative) LaTeX() string {
	// Group repeated variables so d2f/dT2 renders with an exponent.
	type group struct {
		v Expr
		n int
	}
	var groups []group
	for _, w := range d.wrt {
		if len(groups) > 0 && groups[len(groups)-1].v.Equal(w) {
			groups[len(groups)-1].n++
			continue
		}
		groups = append(groups, group{v: w, n: 1})
	}
	head := d.of.LaTeX()
	if a, ok := d.of.(*Applied); ok {
		head = nameLaTeX(a.name)
	}
	var den strings.Builder
	for i, g := range groups {
		if i > 0 {
			den.WriteString(" \\, ")
		}
		den.WriteString("\\partial ")
		den.WriteString(g.v.LaTeX())
		if g.n > 1 {
			fmt.Fprintf(&den, "^{%d}", g.n)
		}
	}
	order := ""
	if len(d.wrt) > 1 {
		order = fmt.Sprintf("^{%d}", len(d.wrt))
	}
	return "\\frac{\\partial" + order + " " + head + "}{" + den.String() + "}"
}

func (d *Derivative) Sub(old, new Expr) Expr {
	if d.Equal(old) {
		return new
	}
	wrt := make([]Expr, len(d.wrt))
	for i, w := range d.wrt {
		wrt[i] = w.Sub(old, new)
	}
	return DerivOf(d.of.Sub(old, new), wrt...)
}

func (d *Derivative) Diff(wrt Expr) Expr {
	if a, ok := d.of.(*Applied); ok {
		var terms []Expr
		for _, arg := range a.args {
			dArg := arg.Diff(wrt)
			if isZero(dArg) {
				continue
			}
			terms = append(terms, MulOf(DerivOf(d, arg), dArg))
		}
		if len(terms) == 0 {
			return N(0)
		}
		return AddOf(terms...)
	}
	if !Has(d, wrt) {
		return N(0)
	}
	return DerivOf(d, wrt)
}

func (d *Derivative) Eval() (*Num, bool) { return nil, false }

func (d *Derivative) Equal(other Expr) bool {
	o, ok := other.(*Derivative)
	if !ok || !d.of.Equal(o.of) || len(d.wrt) != len(o.wrt) {
		return false
	}
	for i := range d.wrt {
		if !d.wrt[i].Equal(o.wrt[i]) {
			return false
		}
	}
	return true
}

func (d *Derivative) exprType() string { return "derivative" }
func (d *Derivative) toJSON() map[string]interface{} {
	wrt := make([]interface{}, len(d.wrt))
	for i, w := range d.wrt {
		wrt[i] = w.toJSON()
	}
	return map[string]interface{}{"type": "derivative", "of": d.of.toJSON(), "wrt": wrt}
}
