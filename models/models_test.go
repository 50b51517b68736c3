package models_test

import (
	"strings"
	"testing"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/models"
)

func TestBuiltin_SortedNames(t *testing.T) {
	want := []string{"idealmix", "margules", "nrtl", "wilson"}
	got := models.Builtin()
	if len(got) != len(want) {
		t.Fatalf("want %d models, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.Name != want[i] {
			t.Errorf("model %d: want %s, got %s", i, want[i], m.Name)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := models.Lookup("unifac"); err == nil {
		t.Errorf("unknown models must be rejected")
	}
}

func TestMargules_Grid(t *testing.T) {
	m, err := models.Lookup("margules")
	if err != nil {
		t.Fatal(err)
	}
	d := m.New()
	if d.DT.String() != "0" {
		t.Errorf("margules has no T dependence, got dT = %s", d.DT)
	}
	at := td.StatePoint{
		Nc: 2, T: 300, V: 1, P: 1, Moles: []float64{1, 2},
		Params: map[string]float64{
			"A[1,1]": 0, "A[2,2]": 0,
			"A[1,2]": 0.7, "A[2,1]": 0.4,
		},
	}
	if err := d.CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("margules grid disagrees with finite differences: %v", err)
	}
}

func TestIdealMix_CheckNumeric(t *testing.T) {
	m, err := models.Lookup("idealmix")
	if err != nil {
		t.Fatal(err)
	}
	at := td.StatePoint{Nc: 3, T: 350, V: 1, P: 1, Moles: []float64{1, 2, 0.5}}
	if err := m.New().CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("ideal mixing grid disagrees with finite differences: %v", err)
	}
}

func TestWilson_CheckNumeric(t *testing.T) {
	m, err := models.Lookup("wilson")
	if err != nil {
		t.Fatal(err)
	}
	at := td.StatePoint{
		Nc: 2, T: 320, V: 1, P: 1, Moles: []float64{1.5, 0.5},
		Params: map[string]float64{
			"Lambda[1,1]": 1, "Lambda[2,2]": 1,
			"Lambda[1,2]": 0.6, "Lambda[2,1]": 1.2,
		},
	}
	if err := m.New().CheckNumeric(at, 1e-4); err != nil {
		t.Errorf("wilson grid disagrees with finite differences: %v", err)
	}
}

func TestNRTL_KeepsInternalDerivatives(t *testing.T) {
	m, err := models.Lookup("nrtl")
	if err != nil {
		t.Fatal(err)
	}
	d := m.New()
	if !strings.Contains(d.DT.String(), "Derivative(tau(") {
		t.Errorf("dT should carry tau derivatives, got %s", d.DT)
	}
	at := td.StatePoint{Nc: 2, T: 300, Moles: []float64{1, 1}}
	if err := d.CheckNumeric(at, 1e-4); err == nil {
		t.Errorf("models with internal functions have no numeric form")
	}
}

func TestParseSpec(t *testing.T) {
	raw := []byte(`
model: margules
temperature: 300
volume: 1.0
moles: [1.0, 2.0]
params:
  "A[1,2]": 0.7
  "A[2,1]": 0.4
`)
	s, err := models.ParseSpec(raw)
	if err != nil {
		t.Fatal(err)
	}
	if s.Components != 2 {
		t.Errorf("components should default to the mole count, got %d", s.Components)
	}
	if s.Tolerance != 1e-6 {
		t.Errorf("tolerance should default to 1e-6, got %g", s.Tolerance)
	}
	at := s.State()
	if at.Nc != 2 || at.T != 300 || at.Params["A[1,2]"] != 0.7 {
		t.Errorf("state lost fields: %+v", at)
	}
	if _, err := s.Build(); err != nil {
		t.Errorf("build failed: %v", err)
	}
}

func TestParseSpec_Invalid(t *testing.T) {
	cases := map[string]string{
		"no model":      "moles: [1.0]",
		"no components": "model: margules",
		"mole mismatch": "model: margules\ncomponents: 3\nmoles: [1.0]",
	}
	for name, raw := range cases {
		if _, err := models.ParseSpec([]byte(raw)); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}
