package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ipqa-research/thermodiff/models"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the built-in thermodynamic models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range models.Builtin() {
				fmt.Println(titleStyle.Render(m.Name))
				fmt.Println("  " + faintStyle.Render(m.Description))
				if len(m.Params) > 0 {
					fmt.Printf("  params: %v\n", m.Params)
				}
				if len(m.Internal) > 0 {
					fmt.Printf("  internal: %d function(s) left symbolic\n", len(m.Internal))
				}
			}
			return nil
		},
	}
}
