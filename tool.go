package thermodiff

import (
	"encoding/json"
	"fmt"

	"github.com/ipqa-research/thermodiff/sym"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest and ToolResponse carry machine-friendly calls into the
// differentiation engine; the serve command speaks this format over
// HTTP.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (sym.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return sym.FromJSON(val)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getExprList := func(key string) ([]sym.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, nil
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]sym.Expr, len(raw))
		for i, r := range raw {
			m, ok := r.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be expression object", key, i)
			}
			e, err := sym.FromJSON(m)
			if err != nil {
				return nil, err
			}
			result[i] = e
		}
		return result, nil
	}
	respond := func(e sym.Expr) ToolResponse {
		return ToolResponse{Result: sym.ToJSONMap(e), LaTeX: sym.LaTeX(e), String: sym.String(e)}
	}

	switch req.Tool {
	case "derive":
		expr, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		internal, err := getExprList("internal")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		name, _ := getString("name")
		d := New(expr, internal, nil, name)
		if clean, ok := req.Params["clean"].(bool); ok && clean {
			d.Clean()
		}
		grid := map[string]interface{}{}
		for key, e := range d.Grid() {
			grid[key] = sym.ToJSONMap(e)
		}
		return ToolResponse{
			Result: map[string]interface{}{"name": d.Name, "grid": grid, "latex": d.LaTeX()},
			String: fmt.Sprintf("derivative grid of %s", d.Name),
		}

	case "diff":
		expr, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		d, err := deriveOne(expr, v)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(d)

	case "latex":
		expr, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{LaTeX: sym.LaTeX(expr), String: sym.String(expr)}

	case "eval":
		expr, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		at, err := stateFromParams(req.Params)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := EvalAt(expr, at)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: v, String: fmt.Sprintf("%g", v)}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// deriveOne takes a single derivative named by its differential.
func deriveOne(expr sym.Expr, v string) (sym.Expr, error) {
	switch v {
	case "T", "V", "P":
		return sym.Diff(expr, sym.S(v)), nil
	case "n_i", "ni":
		d := &DiffPlz{Indexes: []*sym.Idx{K, L, M}}
		return d.diffNi(expr, I), nil
	}
	return nil, fmt.Errorf("unknown differential %q (want T, V, P or n_i)", v)
}

func stateFromParams(params map[string]interface{}) (StatePoint, error) {
	at := StatePoint{Params: map[string]float64{}}
	num := func(key string) (float64, bool) {
		v, ok := params[key].(float64)
		return v, ok
	}
	if v, ok := num("nc"); ok {
		at.Nc = int(v)
	}
	at.T, _ = num("t")
	at.V, _ = num("v")
	at.P, _ = num("p")
	if raw, ok := params["moles"].([]interface{}); ok {
		at.Moles = make([]float64, len(raw))
		for i, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return at, fmt.Errorf("moles[%d] must be a number", i)
			}
			at.Moles[i] = f
		}
	}
	if raw, ok := params["params"].(map[string]interface{}); ok {
		for k, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return at, fmt.Errorf("params[%s] must be a number", k)
			}
			at.Params[k] = f
		}
	}
	if at.Nc == 0 {
		at.Nc = len(at.Moles)
	}
	return at, nil
}

// ToolSpec returns the JSON schema of the tool surface.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("derive", "Build the full derivative grid of a thermodynamic expression. Optional: internal (expr[]), name, clean (bool)",
			[]string{"expr"}, map[string]string{"expr": "object", "internal": "array", "name": "string", "clean": "boolean"}),
		ts("diff", "Single derivative with respect to T, V, P or n_i",
			[]string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("latex", "Render an expression as LaTeX",
			[]string{"expr"}, map[string]string{"expr": "object"}),
		ts("eval", "Evaluate an expression at a state. Requires nc, t, v, p, moles; optional params",
			[]string{"expr", "nc", "moles"}, map[string]string{"expr": "object", "nc": "number", "t": "number", "v": "number", "p": "number", "moles": "array", "params": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
