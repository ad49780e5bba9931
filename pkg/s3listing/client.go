// Package s3listing reads size listings that CI publishes to an S3 bucket,
// one object per build, named by build number.
package s3listing

import (
	"context"
	"time"
)

// ObjectMetadata describes one listing object in the bucket.
type ObjectMetadata struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Client is the subset of S3 this package needs.
type Client interface {
	ListObjects(ctx context.Context, req *ListObjectsRequest) ([]ObjectMetadata, error)
	DownloadObject(ctx context.Context, req *DownloadObjectRequest) ([]byte, error)
}

type ListObjectsRequest struct {
	Bucket string
	Prefix string
}

type DownloadObjectRequest struct {
	Bucket string
	Key    string
}
