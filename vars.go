// Package thermodiff differentiates thermodynamic expressions.
//
// A residual Helmholtz energy or an excess Gibbs energy written in
// terms of temperature, volume, pressure and mole numbers is turned
// into the full grid of first and second derivatives a thermodynamic
// model implementation needs: dT, dV, dP, dn_i and every cross term.
// Compositional derivatives handle component summations, Kronecker
// deltas and the i = j / i != j case split automatically.
//
// Expressions use the variables of this package:
//
//	expr := sym.MulOf(thermodiff.R, thermodiff.T,
//	    thermodiff.SumComponents(body, thermodiff.K))
//	d := thermodiff.New(expr, nil, nil, "G^E")
//
// The indices I and J are reserved for the compositional derivatives;
// write models with K, L and M.
package thermodiff

import "github.com/ipqa-research/thermodiff/sym"

// Nc is the number of components of the mixture.
var Nc = sym.S("N_c")

// I and J subscript the compositional derivatives dn_i and dn_i dn_j.
// Never use them inside a model expression.
var (
	I = sym.NewIdx("i")
	J = sym.NewIdx("j")
)

// K, L and M are the indices to write model expressions with.
var (
	K = sym.NewIdx("k")
	L = sym.NewIdx("l")
	M = sym.NewIdx("m")
)

// N is the mole-number vector; N.At(K) is the moles of component k.
var N = sym.NewBase("n")

// Thermodynamic state variables and the gas constant.
var (
	T = sym.S("T")
	V = sym.S("V")
	P = sym.S("P")
	R = sym.S("R")
)
