package s3listing

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/yuya-takeyama/sizescope/pkg/buildapi"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// Source fetches listings from s3://bucket/prefix/<build-number>.json.
type Source struct {
	client Client
	bucket string
	prefix string
}

func NewSource(client Client, bucket, prefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// ParseS3URI splits an s3://bucket/prefix URI.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("URI must start with s3://")
	}

	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)

	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}

	if bucket == "" {
		return "", "", fmt.Errorf("bucket name cannot be empty")
	}

	return bucket, prefix, nil
}

// Listing downloads and parses the listing object for a build.
func (s *Source) Listing(ctx context.Context, build buildapi.Build) (*sizedata.Snapshot, error) {
	key := path.Join(s.prefix, fmt.Sprintf("%d.json", build.Number))

	data, err := s.client.DownloadObject(ctx, &DownloadObjectRequest{
		Bucket: s.bucket,
		Key:    key,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch listing s3://%s/%s: %w", s.bucket, key, err)
	}

	snap, err := sizedata.ParseListing(data)
	if err != nil {
		return nil, fmt.Errorf("build %d listing: %w", build.Number, err)
	}
	snap.BuildNumber = build.Number

	return snap, nil
}
