package thermodiff_test

import (
	"strings"
	"testing"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/sym"
)

func exprParam(e sym.Expr) map[string]interface{} { return sym.ToJSONMap(e) }

func TestTool_Diff(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{
		Tool: "diff",
		Params: map[string]interface{}{
			"expr": exprParam(sym.MulOf(td.R, td.T)),
			"var":  "T",
		},
	})
	if resp.Error != "" {
		t.Fatalf("tool error: %s", resp.Error)
	}
	if resp.String != "R" {
		t.Errorf("d(RT)/dT should be R, got %s", resp.String)
	}
}

func TestTool_Diff_Molar(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{
		Tool: "diff",
		Params: map[string]interface{}{
			"expr": exprParam(td.SumComponents(td.N.At(td.K), td.K)),
			"var":  "n_i",
		},
	})
	if resp.Error != "" {
		t.Fatalf("tool error: %s", resp.Error)
	}
	if resp.String != "1" {
		t.Errorf("dn_T/dn_i should be 1, got %s", resp.String)
	}
}

func TestTool_Derive(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{
		Tool: "derive",
		Params: map[string]interface{}{
			"expr": exprParam(sym.MulOf(td.R, td.T, sym.LnOf(td.V))),
			"name": "A^r",
		},
	})
	if resp.Error != "" {
		t.Fatalf("tool error: %s", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("derive should return an object")
	}
	if result["name"] != "A^r" {
		t.Errorf("name lost: %v", result["name"])
	}
	grid, ok := result["grid"].(map[string]interface{})
	if !ok || len(grid) != 14 {
		t.Errorf("derive should return the 14-entry grid, got %v", result["grid"])
	}
}

func TestTool_Eval(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{
		Tool: "eval",
		Params: map[string]interface{}{
			"expr":  exprParam(sym.MulOf(td.T, td.N.At(sym.N(1)))),
			"nc":    float64(1),
			"t":     float64(3),
			"moles": []interface{}{float64(2)},
		},
	})
	if resp.Error != "" {
		t.Fatalf("tool error: %s", resp.Error)
	}
	if resp.Result.(float64) != 6 {
		t.Errorf("want 6, got %v", resp.Result)
	}
}

func TestTool_UnknownTool(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{Tool: "integrate"})
	if resp.Error == "" {
		t.Errorf("unknown tools must be rejected")
	}
}

func TestTool_MissingParam(t *testing.T) {
	resp := td.HandleToolCall(td.ToolRequest{Tool: "diff", Params: map[string]interface{}{}})
	if !strings.Contains(resp.Error, "missing param") {
		t.Errorf("got %q", resp.Error)
	}
}

func TestToolSpec_ListsTools(t *testing.T) {
	spec := td.ToolSpec()
	for _, name := range []string{"derive", "diff", "latex", "eval", "tool_spec"} {
		if !strings.Contains(spec, name) {
			t.Errorf("spec missing tool %s", name)
		}
	}
}
