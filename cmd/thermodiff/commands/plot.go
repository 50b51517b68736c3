package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	td "github.com/ipqa-research/thermodiff"
	"github.com/ipqa-research/thermodiff/models"
	"github.com/ipqa-research/thermodiff/sym"
)

func plotCmd() *cobra.Command {
	var (
		key       string
		sweep     string
		from, to  float64
		points    int
		component int
		out       string
	)

	cmd := &cobra.Command{
		Use:   "plot <case.yaml>",
		Short: "Sweep a derivative over T, V or P and save a plot",
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

			expr := d.Expr
			if key != "" {
				e, ok := d.Grid()[key]
				if !ok {
					return fmt.Errorf("unknown grid entry %q", key)
				}
				expr = e
			}
			// Free component indices need a concrete component to plot.
			expr = sym.Sub(sym.Sub(expr, td.I, sym.N(int64(component))),
				td.J, sym.N(int64(component)))

			if sweep != "T" && sweep != "V" && sweep != "P" {
				return fmt.Errorf("can only sweep T, V or P, not %q", sweep)
			}
			if points < 2 {
				return fmt.Errorf("need at least 2 points")
			}
			if to <= from {
				return fmt.Errorf("empty sweep range [%g, %g]", from, to)
			}

			xys := make(plotter.XYs, points)
			for i := 0; i < points; i++ {
				x := from + (to-from)*float64(i)/float64(points-1)
				at := spec.State()
				switch sweep {
				case "T":
					at.T = x
				case "V":
					at.V = x
				case "P":
					at.P = x
				}
				y, err := td.EvalAt(expr, at)
				if err != nil {
					return fmt.Errorf("at %s = %g: %w", sweep, x, err)
				}
				xys[i].X, xys[i].Y = x, y
			}

			p := plot.New()
			label := d.Name
			if key != "" {
				label = d.Name + " " + key
			}
			p.Title.Text = label
			p.X.Label.Text = sweep
			p.Y.Label.Text = label

			line, err := plotter.NewLine(xys)
			if err != nil {
				return err
			}
			p.Add(line)

			if err := p.Save(6*vg.Inch, 4*vg.Inch, out); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s (%d points)\n", okStyle.Render("OK"), out, points)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "grid entry to plot (default: the expression itself)")
	cmd.Flags().StringVar(&sweep, "sweep", "T", "state variable to sweep: T, V or P")
	cmd.Flags().Float64Var(&from, "from", 250, "sweep start")
	cmd.Flags().Float64Var(&to, "to", 450, "sweep end")
	cmd.Flags().IntVar(&points, "points", 100, "number of sweep points")
	cmd.Flags().IntVar(&component, "component", 1, "component substituted for free indices")
	cmd.Flags().StringVar(&out, "out", "thermodiff.png", "output image path")
	return cmd
}
