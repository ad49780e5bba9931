package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/sizescope/internal/tui"
	"github.com/yuya-takeyama/sizescope/pkg/differ"
	"github.com/yuya-takeyama/sizescope/pkg/infocard"
	"github.com/yuya-takeyama/sizescope/pkg/report"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

func newViewCmd() *cobra.Command {
	var (
		gzipMode   bool
		diffReport bool
	)

	cmd := &cobra.Command{
		Use:   "view <listing.json> [previous-listing.json]",
		Short: "Browse a size listing, or the diff of two, in the terminal",
		Long: `view renders a listing as a navigable artifact tree with per-node info
cards. With two listings the tree shows the diff between them; with
--diff-report the single input is read as an NDJSON report stream.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := infocard.Options{SizeMode: tree.SizeModeRaw}
			if gzipMode {
				opts.SizeMode = tree.SizeModeGzip
			}

			var entries []tree.Entry
			switch {
			case diffReport:
				if len(args) != 1 {
					return fmt.Errorf("--diff-report takes exactly one input file")
				}
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				header, records, err := report.ReadNDJSON(f)
				if err != nil {
					return fmt.Errorf("read report %s: %w", args[0], err)
				}
				opts.DiffMode = header.DiffMode
				entries = tree.FromReport(records)

			case len(args) == 2:
				current, err := loadListing(args[0])
				if err != nil {
					return err
				}
				previous, err := loadListing(args[1])
				if err != nil {
					return err
				}

				stream := report.Transform(differ.Diff(previous, current))
				var records []report.Record
				for {
					record, ok := stream.Next()
					if !ok {
						break
					}
					records = append(records, record)
				}
				opts.DiffMode = true
				entries = tree.FromReport(records)

			default:
				snap, err := loadListing(args[0])
				if err != nil {
					return err
				}
				entries = tree.FromSnapshot(snap)
			}

			return tui.Start(tree.Build(entries), opts)
		},
	}

	cmd.Flags().BoolVar(&gzipMode, "gzip", false, "Show gzip sizes instead of raw sizes")
	cmd.Flags().BoolVar(&diffReport, "diff-report", false, "Treat the input as an NDJSON diff report")

	return cmd
}

func loadListing(path string) (*sizedata.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	snap, err := sizedata.ParseListing(data)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	return snap, nil
}
