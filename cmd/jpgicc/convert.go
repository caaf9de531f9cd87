package main

import (
	"fmt"
	"os"

	"github.com/davesmith10/jpgicc/internal/color"
	"github.com/davesmith10/jpgicc/internal/ir"
	"github.com/davesmith10/jpgicc/internal/jpeg"
	"github.com/davesmith10/jpgicc/internal/pipeline"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT OUTPUT",
	Short: "Convert a JPEG between color spaces",
	Long: `Convert a JPEG file through an input and an output ICC profile, or a
device link. Profiles are files or one of the built-in tokens *sRGB,
*Lab2, *Lab4, *XYZ, *Gray22, *Gray30 and *null. *Lab selects the ITU-T
T.42 fax Lab encoding.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringP("input-profile", "i", "", "Input profile (defaults to the embedded profile, then *sRGB)")
	f.StringP("output-profile", "o", "", "Output profile (defaults to *sRGB)")
	f.StringP("device-link", "l", "", "Device link profile (replaces -i and -o)")
	f.StringP("proof-profile", "p", "", "Proofing profile for soft proofing")
	f.StringP("intent", "t", "perceptual", "Rendering intent (perceptual, relative, saturation, absolute or 0..15)")
	f.StringP("proof-intent", "m", "absolute", "Proofing intent")
	f.BoolP("bpc", "b", false, "Black point compensation")
	f.BoolP("ignore-embedded", "n", false, "Ignore the embedded profile")
	f.BoolP("embed", "e", false, "Embed the output profile file")
	f.StringP("save-embedded", "s", "", "Save the embedded profile to this file")
	f.IntP("precalc", "c", 1, "Precalculation mode (0=off, 1=normal, 2=hi-res, 3=lo-res)")
	f.BoolP("gamut-check", "g", false, "Mark out-of-gamut colors when proofing")
	f.IntP("quality", "q", 75, "JPEG quality (0-100)")
	f.BoolP("verbose", "v", false, "Print profile information")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	inProfile, _ := cmd.Flags().GetString("input-profile")
	outProfile, _ := cmd.Flags().GetString("output-profile")
	link, _ := cmd.Flags().GetString("device-link")
	proof, _ := cmd.Flags().GetString("proof-profile")
	intentStr, _ := cmd.Flags().GetString("intent")
	proofIntentStr, _ := cmd.Flags().GetString("proof-intent")
	bpc, _ := cmd.Flags().GetBool("bpc")
	ignore, _ := cmd.Flags().GetBool("ignore-embedded")
	embed, _ := cmd.Flags().GetBool("embed")
	saveEmbedded, _ := cmd.Flags().GetString("save-embedded")
	precalc, _ := cmd.Flags().GetInt("precalc")
	gamutCheck, _ := cmd.Flags().GetBool("gamut-check")
	quality, _ := cmd.Flags().GetInt("quality")
	verbose, _ := cmd.Flags().GetBool("verbose")

	intent, err := ir.ParseIntent(intentStr)
	if err != nil {
		return err
	}
	proofIntent, err := ir.ParseIntent(proofIntentStr)
	if err != nil {
		return err
	}
	mode, err := ir.ParsePrecalc(precalc)
	if err != nil {
		return err
	}
	quality = min(max(quality, 0), 100)

	opts := pipeline.Options{
		InputProfile:   inProfile,
		OutputProfile:  outProfile,
		DeviceLink:     link,
		ProofProfile:   proof,
		IgnoreEmbedded: ignore,
		SaveEmbedded:   saveEmbedded,
		EmbedOutput:    embed,
		Quality:        quality,
		Transform: ir.TransformConfig{
			Intent:      intent,
			ProofIntent: proofIntent,
			BlackPoint:  bpc,
			GamutCheck:  gamutCheck,
			Precalc:     mode,
		},
	}
	if verbose {
		opts.Verbose = cmd.ErrOrStderr()
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("%w: reading input: %v", ir.ErrResource, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %v", ir.ErrResource, err)
	}
	defer out.Close()

	// A failed conversion leaves the created file as it is.
	result, err := convertData(cmd, inputData, opts)
	if err != nil {
		return err
	}

	if _, err := out.Write(result.Data); err != nil {
		return fmt.Errorf("%w: writing output: %v", ir.ErrResource, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: writing output: %v", ir.ErrResource, err)
	}

	if verbose {
		w := cmd.ErrOrStderr()
		fmt.Fprintf(w, "Converted %dx%d %s → %s\n", result.Width, result.Height, result.Input.Space, result.OutSpace)
		fmt.Fprintf(w, "Input:  %s (%d bytes)\n", inputPath, len(inputData))
		fmt.Fprintf(w, "Output: %s (%d bytes, %d markers copied)\n", outputPath, len(result.Data), result.Copied)
	}
	return nil
}

func convertData(cmd *cobra.Command, data []byte, opts pipeline.Options) (*pipeline.Result, error) {
	dec, err := jpeg.NewDecoder(data)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	enc, err := jpeg.NewEncoder()
	if err != nil {
		dec.Close()
		return nil, err
	}
	result, err := pipeline.Run(cmd.Context(), dec, enc, color.Engine{}, opts)
	if err != nil {
		return nil, fmt.Errorf("conversion: %w", err)
	}
	return result, nil
}
