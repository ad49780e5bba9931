// Package sizedata defines the file listing data model shared by the
// differ, the report transformer and the viewer.
package sizedata

import (
	"encoding/json"
	"fmt"
)

// FileRecord is one build artifact in a listing.
type FileRecord struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	GzipSize int64  `json:"gzip_size"`
}

// Name returns the last path segment for display purposes.
func (f FileRecord) Name() string {
	for i := len(f.Path) - 1; i >= 0; i-- {
		if f.Path[i] == '/' {
			return f.Path[i+1:]
		}
	}
	return f.Path
}

// Snapshot is the file listing belonging to one completed build.
// Immutable once loaded.
type Snapshot struct {
	BuildNumber int          `json:"build"`
	Files       []FileRecord `json:"files"`
}

// ParseListing decodes and validates listing JSON. Paths must be unique and
// non-empty, sizes non-negative; anything else fails immediately.
func ParseListing(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	seen := make(map[string]struct{}, len(snap.Files))
	for i, f := range snap.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("listing entry %d: missing path", i)
		}
		if f.Size < 0 || f.GzipSize < 0 {
			return nil, fmt.Errorf("listing entry %q: negative size", f.Path)
		}
		if _, dup := seen[f.Path]; dup {
			return nil, fmt.Errorf("listing entry %q: duplicate path", f.Path)
		}
		seen[f.Path] = struct{}{}
	}

	return &snap, nil
}

// EncodeListing renders a snapshot back to listing JSON.
func EncodeListing(snap *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}
	return append(data, '\n'), nil
}
