// Package models ships ready-made excess property expressions and a
// YAML description format for checking them at concrete states.
package models

import (
	"fmt"
	"sort"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/sym"
)

// ============================================================
// Built-in models
// ============================================================

// Model bundles an expression with the metadata DiffPlz needs.
type Model struct {
	Name        string
	Description string
	Expr        sym.Expr
	Internal    []sym.Expr
	// Params lists the parameter names a state must supply, with
	// index placeholders spelled out ("A[k,l]").
	Params []string
}

// New builds the derivative grid of the model.
func (m Model) New() *td.DiffPlz {
	return td.New(m.Expr, m.Internal, nil, m.Name)
}

func totalMoles() sym.Expr {
	return sym.SumOf(td.N.At(td.M), td.M, sym.N(1), td.Nc)
}

func margules() Model {
	a := sym.NewBase("A")
	gE := sym.MulOf(
		sym.F(1, 2),
		sym.PowOf(totalMoles(), sym.N(-1)),
		sym.SumOf(
			sym.SumOf(sym.MulOf(a.At(td.K, td.L), td.N.At(td.K), td.N.At(td.L)),
				td.L, sym.N(1), td.Nc),
			td.K, sym.N(1), td.Nc),
	)
	return Model{
		Name:        "margules",
		Description: "quadratic mixing excess Gibbs energy, G^E = (1/2 n_T) sum_kl A_kl n_k n_l",
		Expr:        gE,
		Params:      []string{"A[k,l]"},
	}
}

func wilson() Model {
	lam := sym.NewBase("Lambda")
	inner := sym.SumOf(
		sym.MulOf(td.N.At(td.L), lam.At(td.K, td.L), sym.PowOf(totalMoles(), sym.N(-1))),
		td.L, sym.N(1), td.Nc)
	gE := sym.MulOf(sym.N(-1), td.R, td.T,
		sym.SumOf(sym.MulOf(td.N.At(td.K), sym.LnOf(inner)), td.K, sym.N(1), td.Nc))
	return Model{
		Name:        "wilson",
		Description: "Wilson activity model, G^E = -RT sum_k n_k ln(sum_l x_l Lambda_kl)",
		Expr:        gE,
		Params:      []string{"Lambda[k,l]"},
	}
}

func nrtl() Model {
	tau := sym.Fn("tau").Of(td.L, td.K, td.T)
	g := sym.Fn("g").Of(td.L, td.K, td.T)
	num := sym.SumOf(sym.MulOf(td.N.At(td.L), tau, g), td.L, sym.N(1), td.Nc)
	den := sym.SumOf(sym.MulOf(td.N.At(td.L), g), td.L, sym.N(1), td.Nc)
	gE := sym.MulOf(td.R, td.T,
		sym.SumOf(sym.MulOf(td.N.At(td.K), num, sym.PowOf(den, sym.N(-1))),
			td.K, sym.N(1), td.Nc))
	return Model{
		Name:        "nrtl",
		Description: "NRTL excess Gibbs energy with tau and g left as internal functions of T",
		Expr:        gE,
		Internal:    []sym.Expr{tau, g},
	}
}

func idealMix() Model {
	gid := sym.MulOf(td.R, td.T,
		sym.SumOf(
			sym.MulOf(td.N.At(td.K),
				sym.LnOf(sym.MulOf(td.N.At(td.K), sym.PowOf(totalMoles(), sym.N(-1))))),
			td.K, sym.N(1), td.Nc))
	return Model{
		Name:        "idealmix",
		Description: "ideal mixing Gibbs energy, G^id = RT sum_k n_k ln x_k",
		Expr:        gid,
	}
}

// Builtin returns the shipped models, sorted by name.
func Builtin() []Model {
	ms := []Model{idealMix(), margules(), nrtl(), wilson()}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
	return ms
}

// Lookup finds a built-in model by name.
func Lookup(name string) (Model, error) {
	for _, m := range Builtin() {
		if m.Name == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("models: unknown model %q", name)
}
