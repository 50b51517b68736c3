package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/models"
	"github.com/ipqa-research/thermodiff/sym"
)

// gridOrder fixes the print order of the derivative grid: first
// derivatives, then seconds, then the crosses.
var gridOrder = []string{
	"dT", "dV", "dP", "dn_i",
	"dT2", "dV2", "dP2", "dn2",
	"dTn", "dVn", "dPn",
	"dTV", "dTP", "dVP",
}

// loadGrid resolves either a built-in model name or a YAML case file
// into a derived grid.
func loadGrid(name, caseFile string) (*td.DiffPlz, error) {
	if caseFile != "" {
		spec, err := models.LoadSpec(caseFile)
		if err != nil {
			return nil, err
		}
		return spec.Build()
	}
	if name == "" {
		return nil, fmt.Errorf("give a model name or --case file")
	}
	m, err := models.Lookup(name)
	if err != nil {
		return nil, err
	}
	return m.New(), nil
}

func deriveCmd() *cobra.Command {
	var caseFile string
	var clean bool

	cmd := &cobra.Command{
		Use:   "derive [model]",
		Short: "Build the full derivative grid of a model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(); err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			d, err := loadGrid(name, caseFile)
			if err != nil {
				return err
			}
			if clean {
				d.Clean()
			}
			return printGrid(d)
		},
	}

	cmd.Flags().StringVar(&caseFile, "case", "", "YAML case file instead of a built-in model")
	cmd.Flags().BoolVar(&clean, "clean", false, "fold the expression back into a named function")
	return cmd
}

func printGrid(d *td.DiffPlz) error {
	switch format {
	case "latex":
		ltx := d.LaTeX()
		for _, key := range gridOrder {
			fmt.Printf("%s: %s\n", keyStyle.Render(key), ltx[key])
		}
		return nil

	case "json":
		grid := map[string]interface{}{}
		for key, e := range d.Grid() {
			grid[key] = sym.ToJSONMap(e)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"name": d.Name, "grid": grid})
	}

	fmt.Println(titleStyle.Render(d.Name) + faintStyle.Render("  =  "+d.Expr.String()))
	grid := d.Grid()
	for _, key := range gridOrder {
		fmt.Printf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-5s", key)), grid[key])
	}
	return nil
}
