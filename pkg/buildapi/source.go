package buildapi

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// Source fetches a build's size listing from its CI artifacts.
type Source struct {
	client   *Client
	org      string
	pipeline string
	pattern  string
}

// NewSource creates a listing source that locates the artifact whose path
// matches pattern (doublestar syntax, e.g. "**/sizes.json").
func NewSource(client *Client, org, pipeline, pattern string) *Source {
	return &Source{
		client:   client,
		org:      org,
		pipeline: pipeline,
		pattern:  pattern,
	}
}

// Listing downloads and parses the size listing artifact for a build.
func (s *Source) Listing(ctx context.Context, build Build) (*sizedata.Snapshot, error) {
	artifacts, err := s.client.ListArtifacts(ctx, s.org, s.pipeline, build.Number)
	if err != nil {
		return nil, fmt.Errorf("list artifacts for build %d: %w", build.Number, err)
	}

	var match *Artifact
	for i, a := range artifacts {
		ok, err := doublestar.Match(s.pattern, a.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid listing pattern %q: %w", s.pattern, err)
		}
		if ok {
			match = &artifacts[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("build %d has no artifact matching %q", build.Number, s.pattern)
	}

	data, err := s.client.DownloadArtifact(ctx, match.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("download listing for build %d: %w", build.Number, err)
	}

	snap, err := sizedata.ParseListing(data)
	if err != nil {
		return nil, fmt.Errorf("build %d listing: %w", build.Number, err)
	}
	snap.BuildNumber = build.Number

	return snap, nil
}
