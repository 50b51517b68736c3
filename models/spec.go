package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	td "github.com/ipqa-research/thermodiff"
)

// ============================================================
// YAML case files
// ============================================================

// Spec is a YAML description of a model at a state, used by the check
// and derive commands.
type Spec struct {
	Model       string             `yaml:"model"`
	Components  int                `yaml:"components"`
	Temperature float64            `yaml:"temperature"`
	Volume      float64            `yaml:"volume"`
	Pressure    float64            `yaml:"pressure"`
	Moles       []float64          `yaml:"moles"`
	Params      map[string]float64 `yaml:"params"`
	Tolerance   float64            `yaml:"tolerance"`
}

// LoadSpec reads and validates a YAML case file.
func LoadSpec(path string) (Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("models: %w", err)
	}
	return ParseSpec(raw)
}

// ParseSpec decodes a YAML case from memory.
func ParseSpec(raw []byte) (Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Spec{}, fmt.Errorf("models: bad case file: %w", err)
	}
	if s.Model == "" {
		return Spec{}, fmt.Errorf("models: case file names no model")
	}
	if s.Components == 0 {
		s.Components = len(s.Moles)
	}
	if s.Components <= 0 {
		return Spec{}, fmt.Errorf("models: case file needs components or moles")
	}
	if len(s.Moles) != s.Components {
		return Spec{}, fmt.Errorf("models: %d mole numbers for %d components", len(s.Moles), s.Components)
	}
	if s.Tolerance == 0 {
		s.Tolerance = 1e-6
	}
	return s, nil
}

// State returns the state point the case describes.
func (s Spec) State() td.StatePoint {
	return td.StatePoint{
		Nc:     s.Components,
		T:      s.Temperature,
		V:      s.Volume,
		P:      s.Pressure,
		Moles:  s.Moles,
		Params: s.Params,
	}
}

// Build looks up the named model and derives its grid.
func (s Spec) Build() (*td.DiffPlz, error) {
	m, err := Lookup(s.Model)
	if err != nil {
		return nil, err
	}
	return m.New(), nil
}
