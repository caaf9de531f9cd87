package main

import (
	"fmt"
	"os"

	"github.com/davesmith10/jpgicc/internal/color"
	"github.com/davesmith10/jpgicc/internal/jpeg"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect image markers and the embedded ICC profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := jpeg.GetInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "Dimensions:  %d x %d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Components:  %d\n", info.NumComponents)
	fmt.Fprintf(w, "Color space: %s\n", info.ColorSpace)
	fmt.Fprintf(w, "Density:     %dx%d (%s)\n", info.Density.X, info.Density.Y, info.Density.Unit)
	fmt.Fprintf(w, "File size:   %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))
	if info.Fax {
		fmt.Fprintln(w, "Fax:         ITU-T T.42 Lab")
	}
	if r := info.Photoshop; r != nil {
		fmt.Fprintf(w, "Photoshop:   %dx%d dpi\n", r.X, r.Y)
	}

	fmt.Fprintf(w, "Markers:     %d\n", len(info.Markers))
	for _, m := range info.Markers {
		fmt.Fprintf(w, "  %v\n", m)
	}

	if info.ICC != nil {
		h, err := color.ParseHeader(info.ICC)
		if err != nil {
			fmt.Fprintf(w, "ICC profile: present (%d bytes) but invalid: %v\n", len(info.ICC), err)
		} else {
			fmt.Fprintf(w, "ICC profile: %d bytes\n", len(info.ICC))
			fmt.Fprintf(w, "  Version:     %s\n", h.Version)
			fmt.Fprintf(w, "  Color space: %s\n", color.ColorSpaceName(h.ColorSpace))
			fmt.Fprintf(w, "  PCS:         %s\n", color.ColorSpaceName(h.PCS))
			fmt.Fprintf(w, "  Class:       %s\n", color.ProfileClassName(h.Class))
		}
	} else {
		fmt.Fprintln(w, "ICC profile: none")
	}

	return nil
}
