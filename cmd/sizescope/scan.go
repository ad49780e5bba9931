package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/sizescope/internal/scan"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

func newScanCmd() *cobra.Command {
	var (
		outFile     string
		excludes    []string
		buildNumber int
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Produce a size listing for a local build output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := scan.Dir(args[0], scan.Options{
				BuildNumber: buildNumber,
				Excludes:    excludes,
			})
			if err != nil {
				return err
			}

			data, err := sizedata.EncodeListing(snap)
			if err != nil {
				return err
			}

			if outFile == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("write listing: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "Write the listing to a file instead of stdout")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	cmd.Flags().IntVar(&buildNumber, "build-number", 0, "Build number to stamp into the listing")

	return cmd
}
