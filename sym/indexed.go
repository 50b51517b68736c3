package sym

import "strings"

// ============================================================
// Idx — index symbol
// ============================================================

// Idx is an integer-valued index symbol, used to subscript indexed
// families and to drive summations. Indices are not differentiation
// variables.
type Idx struct{ name string }

func NewIdx(name string) *Idx { return &Idx{name: name} }

func (i *Idx) Simplify() Expr { return i }
func (i *Idx) String() string { return i.name }
func (i *Idx) LaTeX() string  { return nameLaTeX(i.name) }
func (i *Idx) Name() string   { return i.name }
func (i *Idx) Sub(old, new Expr) Expr {
	if i.Equal(old) {
		return new
	}
	return i
}
func (i *Idx) Diff(Expr) Expr     { return N(0) }
func (i *Idx) Eval() (*Num, bool) { return nil, false }
func (i *Idx) Equal(other Expr) bool {
	o, ok := other.(*Idx)
	return ok && i.name == o.name
}
func (i *Idx) exprType() string { return "idx" }
func (i *Idx) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "idx", "name": i.name}
}

// ============================================================
// Indexed — element of an indexed family
// ============================================================

// Base is an indexed family of symbols, like the mole-number vector n
// or a binary-interaction matrix Lambda. It is not an expression
// itself; elements are.
type Base struct{ name string }

func NewBase(name string) *Base { return &Base{name: name} }

func (b *Base) Name() string { return b.name }

// At builds the element of the family at the given indices.
func (b *Base) At(idxs ...Expr) *Indexed {
	if len(idxs) == 0 {
		panic("thermodiff/sym: indexed element needs at least one index")
	}
	out := &Indexed{base: b.name, idxs: make([]Expr, len(idxs))}
	for i, ix := range idxs {
		out.idxs[i] = ix.Simplify()
	}
	return out
}

type Indexed struct {
	base string
	idxs []Expr
}

func (x *Indexed) Simplify() Expr   { return x }
func (x *Indexed) BaseName() string { return x.base }
func (x *Indexed) Idxs() []Expr     { return x.idxs }

func (x *Indexed) String() string {
	parts := make([]string, len(x.idxs))
	for i, ix := range x.idxs {
		parts[i] = ix.String()
	}
	return x.base + "[" + strings.Join(parts, ",") + "]"
}

func (x *Indexed) LaTeX() string {
	parts := make([]string, len(x.idxs))
	for i, ix := range x.idxs {
		parts[i] = ix.LaTeX()
	}
	return nameLaTeX(x.base) + "_{" + strings.Join(parts, " ") + "}"
}

func (x *Indexed) Sub(old, new Expr) Expr {
	if x.Equal(old) {
		return new
	}
	out := &Indexed{base: x.base, idxs: make([]Expr, len(x.idxs))}
	for i, ix := range x.idxs {
		out.idxs[i] = ix.Sub(old, new)
	}
	return out
}

// Diff of n[k] with respect to n[i] is the Kronecker delta d(k,i); the
// delta collapses to 1 when the indices are structurally equal. With
// respect to anything else the element is a constant.
func (x *Indexed) Diff(wrt Expr) Expr {
	w, ok := wrt.(*Indexed)
	if !ok || w.base != x.base || len(w.idxs) != len(x.idxs) {
		return N(0)
	}
	factors := make([]Expr, len(x.idxs))
	for i := range x.idxs {
		factors[i] = DeltaOf(x.idxs[i], w.idxs[i])
	}
	return MulOf(factors...)
}

func (x *Indexed) Eval() (*Num, bool) { return nil, false }

func (x *Indexed) Equal(other Expr) bool {
	o, ok := other.(*Indexed)
	if !ok || o.base != x.base || len(o.idxs) != len(x.idxs) {
		return false
	}
	for i := range x.idxs {
		if !x.idxs[i].Equal(o.idxs[i]) {
			return false
		}
	}
	return true
}

func (x *Indexed) exprType() string { return "indexed" }
func (x *Indexed) toJSON() map[string]interface{} {
	idxs := make([]interface{}, len(x.idxs))
	for i, ix := range x.idxs {
		idxs[i] = ix.toJSON()
	}
	return map[string]interface{}{"type": "indexed", "base": x.base, "idxs": idxs}
}

// ============================================================
// Delta — Kronecker delta
// ============================================================

// Delta is the Kronecker delta d(a,b). Arguments are stored in a
// canonical order so that d(i,k) and d(k,i) compare equal.
type Delta struct{ a, b Expr }

// DeltaOf builds d(a,b), folding the decidable cases: equal arguments
// give 1, distinct numerals give 0.
func DeltaOf(a, b Expr) Expr {
	a = a.Simplify()
	b = b.Simplify()
	if a.Equal(b) {
		return N(1)
	}
	if an, ok := a.(*Num); ok {
		if bn, ok2 := b.(*Num); ok2 {
			if numCmp(an, bn) != 0 {
				return N(0)
			}
			return N(1)
		}
	}
	if a.String() > b.String() {
		a, b = b, a
	}
	return &Delta{a: a, b: b}
}

func (d *Delta) Simplify() Expr { return DeltaOf(d.a, d.b) }
func (d *Delta) String() string { return "delta(" + d.a.String() + ", " + d.b.String() + ")" }
func (d *Delta) LaTeX() string {
	return "\\delta_{" + d.a.LaTeX() + " " + d.b.LaTeX() + "}"
}
func (d *Delta) Sub(old, new Expr) Expr {
	if d.Equal(old) {
		return new
	}
	return DeltaOf(d.a.Sub(old, new), d.b.Sub(old, new))
}
func (d *Delta) Diff(Expr) Expr     { return N(0) }
func (d *Delta) Eval() (*Num, bool) { return nil, false }
func (d *Delta) Equal(other Expr) bool {
	o, ok := other.(*Delta)
	return ok && d.a.Equal(o.a) && d.b.Equal(o.b)
}
func (d *Delta) exprType() string { return "delta" }
func (d *Delta) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "delta", "a": d.a.toJSON(), "b": d.b.toJSON()}
}
func (d *Delta) Args() (Expr, Expr) { return d.a, d.b }

// pairs reports whether the delta relates exactly the two given
// expressions, in either order.
func (d *Delta) pairs(x, y Expr) bool {
	return (d.a.Equal(x) && d.b.Equal(y)) || (d.a.Equal(y) && d.b.Equal(x))
}
