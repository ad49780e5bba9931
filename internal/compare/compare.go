// Package compare wires the comparison pipeline: resolve the build pair,
// fetch both listings, diff them, and stream the report out.
package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yuya-takeyama/sizescope/pkg/buildapi"
	"github.com/yuya-takeyama/sizescope/pkg/differ"
	"github.com/yuya-takeyama/sizescope/pkg/logger"
	"github.com/yuya-takeyama/sizescope/pkg/report"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// BuildResolver identifies the two builds a comparison runs against.
type BuildResolver interface {
	ResolveBuildPair(ctx context.Context, org, pipeline, branch string) (current, previous buildapi.Build, err error)
}

// ListingSource fetches the size listing for one build.
type ListingSource interface {
	Listing(ctx context.Context, build buildapi.Build) (*sizedata.Snapshot, error)
}

// Options configures one comparison run.
type Options struct {
	Org      string
	Pipeline string
	Branch   string
	Excludes []string
	Logger   logger.Logger
}

// Runner executes comparisons.
type Runner struct {
	resolver BuildResolver
	source   ListingSource
}

func NewRunner(resolver BuildResolver, source ListingSource) *Runner {
	return &Runner{
		resolver: resolver,
		source:   source,
	}
}

// Run resolves the branch's two most recent completed builds, fetches their
// listings, diffs them and writes the NDJSON report to w. Any resolver or
// source failure aborts the run before a single byte of output is written.
func (r *Runner) Run(ctx context.Context, opts Options, w io.Writer) error {
	log := opts.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}

	current, previous, err := r.resolver.ResolveBuildPair(ctx, opts.Org, opts.Pipeline, opts.Branch)
	if err != nil {
		return fmt.Errorf("resolve build pair: %w", err)
	}
	log.Info("comparing build %d against build %d", current.Number, previous.Number)

	// The two snapshots are independent read-only values, so both listings
	// are fetched concurrently once the pair is known.
	currentSnap, previousSnap, err := r.fetchPair(ctx, current, previous)
	if err != nil {
		return err
	}

	currentSnap, err = filterSnapshot(currentSnap, opts.Excludes)
	if err != nil {
		return err
	}
	previousSnap, err = filterSnapshot(previousSnap, opts.Excludes)
	if err != nil {
		return err
	}

	result := differ.Diff(previousSnap, currentSnap)
	log.Info("%d added, %d removed, %d unchanged, %d changed",
		len(result.Added), len(result.Removed), len(result.Unchanged), len(result.Changed))

	if err := report.WriteNDJSON(w, report.Transform(result)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

type fetchResult struct {
	build buildapi.Build
	snap  *sizedata.Snapshot
	err   error
}

func (r *Runner) fetchPair(ctx context.Context, current, previous buildapi.Build) (*sizedata.Snapshot, *sizedata.Snapshot, error) {
	results := make(chan fetchResult, 2)

	for _, build := range []buildapi.Build{current, previous} {
		go func(b buildapi.Build) {
			snap, err := r.source.Listing(ctx, b)
			results <- fetchResult{build: b, snap: snap, err: err}
		}(build)
	}

	snaps := make(map[int]*sizedata.Snapshot, 2)
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			return nil, nil, fmt.Errorf("fetch listing for build %d: %w", res.build.Number, res.err)
		}
		snaps[res.build.Number] = res.snap
	}

	return snaps[current.Number], snaps[previous.Number], nil
}

func filterSnapshot(snap *sizedata.Snapshot, excludes []string) (*sizedata.Snapshot, error) {
	if len(excludes) == 0 {
		return snap, nil
	}

	filtered := &sizedata.Snapshot{
		BuildNumber: snap.BuildNumber,
		Files:       make([]sizedata.FileRecord, 0, len(snap.Files)),
	}

	for _, f := range snap.Files {
		excluded := false
		for _, pattern := range excludes {
			matched, err := doublestar.Match(pattern, f.Path)
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			if matched {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered.Files = append(filtered.Files, f)
		}
	}

	return filtered, nil
}
