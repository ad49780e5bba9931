package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/sizescope/internal/compare"
	"github.com/yuya-takeyama/sizescope/pkg/buildapi"
	"github.com/yuya-takeyama/sizescope/pkg/logger"
	"github.com/yuya-takeyama/sizescope/pkg/s3listing"
)

func newCompareCmd() *cobra.Command {
	var (
		branch          string
		token           string
		listingArtifact string
		s3URI           string
		outFile         string
		excludes        []string
		quiet           bool
		profile         string
		region          string
	)

	cmd := &cobra.Command{
		Use:   "compare <org>/<pipeline>",
		Short: "Diff the file listings of the two most recent completed builds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, pipeline, err := splitSlug(args[0])
			if err != nil {
				return err
			}

			if token == "" {
				token = os.Getenv("CI_API_TOKEN")
			}
			if token == "" {
				return fmt.Errorf("no API token: pass --token or set CI_API_TOKEN")
			}

			ctx := context.Background()
			client := buildapi.NewClient(token)

			var source compare.ListingSource
			if s3URI != "" {
				bucket, prefix, err := s3listing.ParseS3URI(s3URI)
				if err != nil {
					return fmt.Errorf("invalid S3 URI: %w", err)
				}

				var configOpts []func(*awsconfig.LoadOptions) error
				if profile != "" {
					configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(profile))
				}
				if region != "" {
					configOpts = append(configOpts, awsconfig.WithRegion(region))
				}
				cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
				if err != nil {
					return fmt.Errorf("failed to load AWS config: %w", err)
				}

				source = s3listing.NewSource(s3listing.NewAWSClient(cfg), bucket, prefix)
			} else {
				source = buildapi.NewSource(client, org, pipeline, listingArtifact)
			}

			var out io.Writer = os.Stdout
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			var log logger.Logger = logger.NewConsoleLogger()
			if quiet || outFile == "" {
				// Keep stdout clean when the report goes there.
				log = logger.NewQuietLogger()
			}

			runner := compare.NewRunner(client, source)
			return runner.Run(ctx, compare.Options{
				Org:      org,
				Pipeline: pipeline,
				Branch:   branch,
				Excludes: excludes,
				Logger:   log,
			}, out)
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "main", "Branch to compare builds of")
	cmd.Flags().StringVar(&token, "token", "", "CI API token (defaults to CI_API_TOKEN)")
	cmd.Flags().StringVar(&listingArtifact, "listing-artifact", "**/sizes.json", "Artifact path pattern of the size listing")
	cmd.Flags().StringVar(&s3URI, "s3-uri", "", "Fetch listings from s3://bucket/prefix/<build>.json instead of CI artifacts")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")
	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile for the S3 source")
	cmd.Flags().StringVar(&region, "region", "", "AWS region for the S3 source")

	return cmd
}

func splitSlug(slug string) (org, pipeline string, err error) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected <org>/<pipeline>, got %q", slug)
	}
	return parts[0], parts[1], nil
}
