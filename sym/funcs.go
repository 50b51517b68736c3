package sym

import "math"

// ============================================================
// Func — elementary function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

var elementary = map[string]func(float64) float64{
	"exp":  math.Exp,
	"ln":   math.Log,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "ln":
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "sin", "tan", "sinh", "tanh":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(0)
		}
	case "cos", "cosh":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(1)
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "exp", "ln", "sin", "cos", "tan", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(old, new Expr) Expr {
	if f.Equal(old) {
		return new
	}
	return funcOf(f.name, f.arg.Sub(old, new)).Simplify()
}

func (f *Func) Diff(wrt Expr) Expr {
	du := f.arg.Diff(wrt)
	var outer Expr
	switch f.name {
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		panic("thermodiff/sym: unknown elementary function " + f.name)
	}
	return MulOf(outer, du).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	fn, known := elementary[f.name]
	if !known {
		return nil, false
	}
	v := fn(n.Float64())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return NFloat(v), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// numPow evaluates b^e in floating point; exact integer powers were
// already folded during simplification.
func numPow(b, e *Num) (*Num, bool) {
	v := math.Pow(b.Float64(), e.Float64())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return NFloat(v), true
}
