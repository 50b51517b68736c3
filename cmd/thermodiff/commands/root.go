package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var format string

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func Execute() error {
	root := &cobra.Command{
		Use:           "thermodiff",
		Short:         "Analytic derivative grids for thermodynamic models",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&format, "format", "text", "output format: text, latex or json")

	root.AddCommand(modelsCmd(), deriveCmd(), checkCmd(), plotCmd(), serveCmd())
	return root.Execute()
}

func checkFormat() error {
	switch format {
	case "text", "latex", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, latex or json)", format)
}
