package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
)

func newPalletCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pallet",
		Short: "Show the standard pallet dimensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := pallet.Standard()
			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return writeJSON(out, newPalletOutput(spec))
			}
			fmt.Fprintf(out, "Length:     %.2f in (%.2f cm)\n", spec.Length, pallet.ConvertFromInches(spec.Length, pallet.Centimeters))
			fmt.Fprintf(out, "Width:      %.2f in (%.2f cm)\n", spec.Width, pallet.ConvertFromInches(spec.Width, pallet.Centimeters))
			fmt.Fprintf(out, "Max height: %.2f in (%.2f cm)\n", spec.MaxHeight, pallet.ConvertFromInches(spec.MaxHeight, pallet.Centimeters))
			return nil
		},
	}
}
