package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
)

type optimizeOptions struct {
	length   float64
	width    float64
	height   float64
	quantity int
	unit     string
	pallet   pallet.Spec
}

func newOptimizeCommand(root *rootOptions) *cobra.Command {
	opts := &optimizeOptions{pallet: pallet.Standard()}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute the pallet load for a box size and quantity",
		Example: `  palletcalc optimize --length 30 --width 30 --height 20 --quantity 100
  palletcalc optimize -l 12 -w 10 -H 10 -q 500 --unit in --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptimize(cmd.OutOrStdout(), root, opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&opts.length, "length", "l", 0, "Box length")
	flags.Float64VarP(&opts.width, "width", "w", 0, "Box width")
	flags.Float64VarP(&opts.height, "height", "H", 0, "Box height")
	flags.IntVarP(&opts.quantity, "quantity", "q", 0, "Total number of boxes to ship")
	flags.StringVarP(&opts.unit, "unit", "u", string(pallet.Centimeters), "Unit of the box dimensions (cm or in)")
	flags.Float64Var(&opts.pallet.Length, "pallet-length", opts.pallet.Length, "Pallet length in inches")
	flags.Float64Var(&opts.pallet.Width, "pallet-width", opts.pallet.Width, "Pallet width in inches")
	flags.Float64Var(&opts.pallet.MaxHeight, "pallet-max-height", opts.pallet.MaxHeight, "Maximum stack height in inches")

	for _, name := range []string{"length", "width", "height", "quantity"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runOptimize(out io.Writer, root *rootOptions, opts *optimizeOptions) error {
	unit, err := pallet.ParseUnit(opts.unit, pallet.Centimeters)
	if err != nil {
		return err
	}

	optimizer, err := pallet.New(opts.pallet)
	if err != nil {
		return err
	}

	box := pallet.Dimensions{Length: opts.length, Width: opts.width, Height: opts.height}
	root.logger.Debug("optimizing",
		zap.Float64("length", box.Length),
		zap.Float64("width", box.Width),
		zap.Float64("height", box.Height),
		zap.Int("quantity", opts.quantity),
		zap.String("unit", string(unit)),
	)

	result, err := optimizer.Optimize(box, opts.quantity, unit)
	if err != nil {
		kind, _ := pallet.KindOf(err)
		root.logger.Debug("optimization rejected", zap.String("kind", kind), zap.Error(err))
		if root.jsonOutput {
			if writeErr := writeJSON(out, newFailureOutput(kind, err)); writeErr != nil {
				return writeErr
			}
		}
		return err
	}

	if root.jsonOutput {
		return writeJSON(out, newSuccessOutput(box, unit, result))
	}
	printResult(out, unit, result)
	return nil
}

func printResult(out io.Writer, unit pallet.Unit, r pallet.Result) {
	fmt.Fprintf(out, "Box:               %.2f x %.2f x %.2f in\n", r.Box.Length, r.Box.Width, r.Box.Height)
	fmt.Fprintf(out, "Pallet:            %.2f x %.2f in, max height %.2f in\n", r.Pallet.Length, r.Pallet.Width, r.Pallet.MaxHeight)
	fmt.Fprintf(out, "Orientation:       %s\n", describeOrientation(unit, r.Orientation))
	fmt.Fprintf(out, "Boxes per layer:   %d (%.1f%% of footprint)\n", r.BoxesPerLayer, r.Utilization()*100)
	fmt.Fprintf(out, "Layers per pallet: %d\n", r.LayersPerPallet)
	fmt.Fprintf(out, "Boxes per pallet:  %d\n", r.BoxesPerPallet)
	fmt.Fprintf(out, "Pallets needed:    %d (%d full)\n", r.TotalPallets, r.FullPallets())
	fmt.Fprintf(out, "Last pallet:       %d boxes\n", r.RemainingBoxes)
	fmt.Fprintf(out, "Stack height:      %.2f in\n", r.ActualHeight)
}

func describeOrientation(unit pallet.Unit, o pallet.Orientation) string {
	s := fmt.Sprintf("%.2f x %.2f in", o.Length, o.Width)
	if unit != pallet.Inches {
		s += fmt.Sprintf(" (%.2f x %.2f %s)",
			pallet.ConvertFromInches(o.Length, unit), pallet.ConvertFromInches(o.Width, unit), unit)
	}
	if o.Rotated {
		s += ", rotated"
	}
	return s
}
