package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ipqa-research/thermodiff/models"
)

func checkCmd() *cobra.Command {
	var tol float64

	cmd := &cobra.Command{
		Use:   "check <case.yaml>",
		Short: "Verify a model's grid against finite differences at a state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := models.LoadSpec(args[0])
			if err != nil {
				return err
			}
			d, err := spec.Build()
			if err != nil {
				return err
			}
			if tol == 0 {
				tol = spec.Tolerance
			}
			if err := d.CheckNumeric(spec.State(), tol); err != nil {
				fmt.Println(failStyle.Render("FAIL") + " " + d.Name)
				return err
			}
			fmt.Printf("%s %s agrees with finite differences within %g\n",
				okStyle.Render("OK"), d.Name, tol)
			return nil
		},
	}

	cmd.Flags().Float64Var(&tol, "tol", 0, "override the case file tolerance")
	return cmd
}
