package main

import (
	"fmt"
	"os"

	"github.com/davesmith10/jpgicc/internal/color"
	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/itufax"
	"github.com/spf13/cobra"
)

var faxProfileCmd = &cobra.Command{
	Use:   "fax-profile",
	Short: "Write the virtual ITU-T T.42 fax Lab profile to a file",
	Args:  cobra.NoArgs,
	RunE:  runFaxProfile,
}

func init() {
	faxProfileCmd.Flags().String("direction", "decode", "Profile direction (decode: fax to PCS, encode: PCS to fax)")
	faxProfileCmd.Flags().StringP("output", "o", "", "Output ICC file")
	faxProfileCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(faxProfileCmd)
}

func runFaxProfile(cmd *cobra.Command, args []string) error {
	dirStr, _ := cmd.Flags().GetString("direction")
	outputPath, _ := cmd.Flags().GetString("output")

	var dir itufax.Direction
	switch dirStr {
	case itufax.ToPCS.String():
		dir = itufax.ToPCS
	case itufax.FromPCS.String():
		dir = itufax.FromPCS
	default:
		return fmt.Errorf("%w: unknown direction %q (want decode or encode)", ir.ErrConfiguration, dirStr)
	}

	p, err := color.NewITUProfile(cmd.Context(), dir)
	if err != nil {
		return err
	}
	defer p.Close()

	data, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("%w: writing profile: %v", ir.ErrResource, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s fax profile: %s (%d bytes)\n", dir, outputPath, len(data))
	return nil
}
