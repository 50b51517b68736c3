package sym

import "strings"

// ============================================================
// Cond — conditions guarding Piecewise cases
// ============================================================

type condOp int

const (
	condTrue condOp = iota
	condEq
	condNe
	condAnd
)

// Cond is a closed little condition language: equality and inequality
// of index expressions, conjunction, and the catch-all true. That is
// all Kronecker-delta handling ever produces.
type Cond struct {
	op   condOp
	l, r Expr
	subs []*Cond
}

func CondTrue() *Cond        { return &Cond{op: condTrue} }
func CondEq(l, r Expr) *Cond { return &Cond{op: condEq, l: l.Simplify(), r: r.Simplify()} }
func CondNe(l, r Expr) *Cond { return &Cond{op: condNe, l: l.Simplify(), r: r.Simplify()} }

func CondAnd(cs ...*Cond) *Cond {
	flat := make([]*Cond, 0, len(cs))
	for _, c := range cs {
		switch c.op {
		case condTrue:
		case condAnd:
			flat = append(flat, c.subs...)
		default:
			flat = append(flat, c)
		}
	}
	if len(flat) == 0 {
		return CondTrue()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Cond{op: condAnd, subs: flat}
}

func (c *Cond) IsTrue() bool { return c.op == condTrue }

// decided reports whether the condition's truth value is determined,
// and if so what it is.
func (c *Cond) decided() (known, value bool) {
	switch c.op {
	case condTrue:
		return true, true
	case condEq:
		return cmpDecided(c.l, c.r)
	case condNe:
		known, value = cmpDecided(c.l, c.r)
		return known, !value
	case condAnd:
		allKnown := true
		for _, s := range c.subs {
			k, v := s.decided()
			if k && !v {
				return true, false
			}
			if !k {
				allKnown = false
			}
		}
		// Eq(x,y) & Ne(x,y) over the same pair can never hold.
		for i, s := range c.subs {
			for _, t := range c.subs[i+1:] {
				if s.op == condEq && t.op == condNe && samePair(s, t) {
					return true, false
				}
				if s.op == condNe && t.op == condEq && samePair(s, t) {
					return true, false
				}
			}
		}
		if allKnown {
			return true, true
		}
	}
	return false, false
}

func samePair(a, b *Cond) bool {
	return (a.l.Equal(b.l) && a.r.Equal(b.r)) || (a.l.Equal(b.r) && a.r.Equal(b.l))
}

func cmpDecided(l, r Expr) (known, equal bool) {
	if l.Equal(r) {
		return true, true
	}
	ln, ok := l.Eval()
	if !ok {
		return false, false
	}
	rn, ok := r.Eval()
	if !ok {
		return false, false
	}
	return true, numCmp(ln, rn) == 0
}

func (c *Cond) Sub(old, new Expr) *Cond {
	switch c.op {
	case condTrue:
		return c
	case condEq:
		return CondEq(c.l.Sub(old, new), c.r.Sub(old, new))
	case condNe:
		return CondNe(c.l.Sub(old, new), c.r.Sub(old, new))
	case condAnd:
		subs := make([]*Cond, len(c.subs))
		for i, s := range c.subs {
			subs[i] = s.Sub(old, new)
		}
		return CondAnd(subs...)
	}
	return c
}

func (c *Cond) operands() []Expr {
	switch c.op {
	case condEq, condNe:
		return []Expr{c.l, c.r}
	case condAnd:
		var out []Expr
		for _, s := range c.subs {
			out = append(out, s.operands()...)
		}
		return out
	}
	return nil
}

func (c *Cond) Equal(o *Cond) bool {
	if c.op != o.op {
		return false
	}
	switch c.op {
	case condTrue:
		return true
	case condEq, condNe:
		return c.l.Equal(o.l) && c.r.Equal(o.r)
	case condAnd:
		if len(c.subs) != len(o.subs) {
			return false
		}
		for i := range c.subs {
			if !c.subs[i].Equal(o.subs[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (c *Cond) String() string {
	switch c.op {
	case condTrue:
		return "True"
	case condEq:
		return "Eq(" + c.l.String() + ", " + c.r.String() + ")"
	case condNe:
		return "Ne(" + c.l.String() + ", " + c.r.String() + ")"
	case condAnd:
		parts := make([]string, len(c.subs))
		for i, s := range c.subs {
			parts[i] = s.String()
		}
		return strings.Join(parts, " & ")
	}
	return "?"
}

func (c *Cond) LaTeX() string {
	switch c.op {
	case condTrue:
		return "\\text{otherwise}"
	case condEq:
		return c.l.LaTeX() + " = " + c.r.LaTeX()
	case condNe:
		return c.l.LaTeX() + " \\neq " + c.r.LaTeX()
	case condAnd:
		parts := make([]string, len(c.subs))
		for i, s := range c.subs {
			parts[i] = s.LaTeX()
		}
		return strings.Join(parts, " \\wedge ")
	}
	return "?"
}

func (c *Cond) toJSON() map[string]interface{} {
	switch c.op {
	case condTrue:
		return map[string]interface{}{"op": "true"}
	case condEq:
		return map[string]interface{}{"op": "eq", "l": c.l.toJSON(), "r": c.r.toJSON()}
	case condNe:
		return map[string]interface{}{"op": "ne", "l": c.l.toJSON(), "r": c.r.toJSON()}
	case condAnd:
		subs := make([]interface{}, len(c.subs))
		for i, s := range c.subs {
			subs[i] = s.toJSON()
		}
		return map[string]interface{}{"op": "and", "subs": subs}
	}
	return nil
}

// ============================================================
// Piecewise — case expression
// ============================================================

type Case struct {
	Expr Expr
	Cond *Cond
}

type Piecewise struct{ cases []Case }

// PiecewiseOf builds a case expression. Cases whose condition is
// decidably false are dropped; a decidably true condition truncates
// the case list, and the whole expression collapses when only one
// reachable case remains.
func PiecewiseOf(cases ...Case) Expr {
	out := make([]Case, 0, len(cases))
	for _, c := range cases {
		known, value := c.Cond.decided()
		if known && !value {
			continue
		}
		e := c.Expr.Simplify()
		if known && value {
			if len(out) == 0 {
				return e
			}
			out = append(out, Case{Expr: e, Cond: CondTrue()})
			return &Piecewise{cases: out}
		}
		out = append(out, Case{Expr: e, Cond: c.Cond})
	}
	if len(out) == 0 {
		// Every case was ruled out; the expression vanishes.
		return N(0)
	}
	if len(out) == 1 && out[0].Cond.IsTrue() {
		return out[0].Expr
	}
	return &Piecewise{cases: out}
}

func (p *Piecewise) Simplify() Expr { return PiecewiseOf(p.cases...) }

func (p *Piecewise) Cases() []Case { return p.cases }

func (p *Piecewise) String() string {
	parts := make([]string, len(p.cases))
	for i, c := range p.cases {
		parts[i] = "(" + c.Expr.String() + ", " + c.Cond.String() + ")"
	}
	return "Piecewise(" + strings.Join(parts, ", ") + ")"
}

func (p *Piecewise) LaTeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{cases}")
	for i, c := range p.cases {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		sb.WriteString(c.Expr.LaTeX())
		sb.WriteString(" & ")
		sb.WriteString(c.Cond.LaTeX())
	}
	sb.WriteString("\\end{cases}")
	return sb.String()
}

func (p *Piecewise) Sub(old, new Expr) Expr {
	if p.Equal(old) {
		return new
	}
	cases := make([]Case, len(p.cases))
	for i, c := range p.cases {
		cases[i] = Case{Expr: c.Expr.Sub(old, new), Cond: c.Cond.Sub(old, new)}
	}
	return PiecewiseOf(cases...)
}

func (p *Piecewise) Diff(wrt Expr) Expr {
	cases := make([]Case, len(p.cases))
	for i, c := range p.cases {
		cases[i] = Case{Expr: c.Expr.Diff(wrt), Cond: c.Cond}
	}
	return PiecewiseOf(cases...)
}

func (p *Piecewise) Eval() (*Num, bool) {
	for _, c := range p.cases {
		known, value := c.Cond.decided()
		if !known {
			return nil, false
		}
		if value {
			return c.Expr.Eval()
		}
	}
	return nil, false
}

func (p *Piecewise) Equal(other Expr) bool {
	o, ok := other.(*Piecewise)
	if !ok || len(p.cases) != len(o.cases) {
		return false
	}
	for i := range p.cases {
		if !p.cases[i].Expr.Equal(o.cases[i].Expr) || !p.cases[i].Cond.Equal(o.cases[i].Cond) {
			return false
		}
	}
	return true
}

func (p *Piecewise) exprType() string { return "piecewise" }
func (p *Piecewise) toJSON() map[string]interface{} {
	cases := make([]interface{}, len(p.cases))
	for i, c := range p.cases {
		cases[i] = map[string]interface{}{"expr": c.Expr.toJSON(), "cond": c.Cond.toJSON()}
	}
	return map[string]interface{}{"type": "piecewise", "cases": cases}
}
