package sym

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ToJSONMap returns the JSON object form of e for embedding inside a
// larger payload.
func ToJSONMap(e Expr) map[string]interface{} { return e.toJSON() }

func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		return m, nil
	}

	subObjArray := func(field string) ([]map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			out[i] = m
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subExpr := func(field string) (Expr, error) {
		m, err := subObj(field)
		if err != nil {
			return nil, err
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subExprArray := func(field string) ([]Expr, error) {
		objs, err := subObjArray(field)
		if err != nil {
			return nil, err
		}
		out := make([]Expr, len(objs))
		for i, o := range objs {
			e, err := FromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	switch typ {
	case "num":
		valAny, ok := data["value"]
		if !ok {
			return nil, fmt.Errorf("num: missing 'value'")
		}
		val, ok := valAny.(string)
		if !ok || val == "" {
			return nil, fmt.Errorf("num: 'value' must be a non-empty string")
		}
		r := new(big.Rat)
		if _, ok := r.SetString(val); !ok {
			return nil, fmt.Errorf("invalid num value: %s", val)
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "idx":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return NewIdx(name), nil

	case "add":
		terms, err := subExprArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subExprArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subExpr("base")
		if err != nil {
			return nil, err
		}
		exp, err := subExpr("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		arg, err := subExpr("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil

	case "indexed":
		base, err := subString("base")
		if err != nil {
			return nil, err
		}
		idxs, err := subExprArray("idxs")
		if err != nil {
			return nil, err
		}
		return NewBase(base).At(idxs...), nil

	case "delta":
		a, err := subExpr("a")
		if err != nil {
			return nil, err
		}
		b, err := subExpr("b")
		if err != nil {
			return nil, err
		}
		return DeltaOf(a, b), nil

	case "sum":
		body, err := subExpr("body")
		if err != nil {
			return nil, err
		}
		idxE, err := subExpr("idx")
		if err != nil {
			return nil, err
		}
		idx, ok := idxE.(*Idx)
		if !ok {
			return nil, fmt.Errorf("sum: 'idx' must be an index")
		}
		lo, err := subExpr("lo")
		if err != nil {
			return nil, err
		}
		hi, err := subExpr("hi")
		if err != nil {
			return nil, err
		}
		return SumOf(body, idx, lo, hi), nil

	case "piecewise":
		objs, err := subObjArray("cases")
		if err != nil {
			return nil, err
		}
		cases := make([]Case, len(objs))
		for i, o := range objs {
			exprM, ok := o["expr"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("piecewise: cases[%d] missing 'expr'", i)
			}
			e, err := FromJSON(exprM)
			if err != nil {
				return nil, fmt.Errorf("piecewise: cases[%d]: expr: %w", i, err)
			}
			condM, ok := o["cond"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("piecewise: cases[%d] missing 'cond'", i)
			}
			c, err := condFromJSON(condM)
			if err != nil {
				return nil, fmt.Errorf("piecewise: cases[%d]: cond: %w", i, err)
			}
			cases[i] = Case{Expr: e, Cond: c}
		}
		return PiecewiseOf(cases...), nil

	case "applied":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		args, err := subExprArray("args")
		if err != nil {
			return nil, err
		}
		return Fn(name).Of(args...), nil

	case "derivative":
		of, err := subExpr("of")
		if err != nil {
			return nil, err
		}
		wrt, err := subExprArray("wrt")
		if err != nil {
			return nil, err
		}
		if len(wrt) == 0 {
			return nil, fmt.Errorf("derivative: 'wrt' must be non-empty")
		}
		return DerivOf(of, wrt...), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

func condFromJSON(data map[string]interface{}) (*Cond, error) {
	op, ok := data["op"].(string)
	if !ok || op == "" {
		return nil, fmt.Errorf("condition: 'op' must be a non-empty string")
	}
	pair := func() (Expr, Expr, error) {
		lM, ok := data["l"].(map[string]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("%s: missing 'l'", op)
		}
		rM, ok := data["r"].(map[string]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("%s: missing 'r'", op)
		}
		l, err := FromJSON(lM)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: l: %w", op, err)
		}
		r, err := FromJSON(rM)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: r: %w", op, err)
		}
		return l, r, nil
	}
	switch op {
	case "true":
		return CondTrue(), nil
	case "eq":
		l, r, err := pair()
		if err != nil {
			return nil, err
		}
		return CondEq(l, r), nil
	case "ne":
		l, r, err := pair()
		if err != nil {
			return nil, err
		}
		return CondNe(l, r), nil
	case "and":
		raw, ok := data["subs"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("and: 'subs' must be an array")
		}
		subs := make([]*Cond, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("and: subs[%d] must be an object", i)
			}
			c, err := condFromJSON(m)
			if err != nil {
				return nil, err
			}
			subs[i] = c
		}
		return CondAnd(subs...), nil
	}
	return nil, fmt.Errorf("unknown condition op: %s", op)
}
