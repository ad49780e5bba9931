// Package scan walks a build output directory and produces the size
// listing the differ and viewer consume, measuring the gzip size of every
// file alongside its raw size.
package scan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"

	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// Options controls a directory scan.
type Options struct {
	BuildNumber int
	Excludes    []string
}

// Dir walks root and returns a listing snapshot with one record per file,
// sorted by path. Excludes are doublestar patterns matched against the
// slash-separated path relative to root.
func Dir(root string, opts Options) (*sizedata.Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []sizedata.FileRecord

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		excluded, err := isExcluded(relPath, opts.Excludes)
		if err != nil {
			return err
		}
		if excluded {
			return nil
		}

		gzipSize, err := measureGzipSize(path)
		if err != nil {
			return fmt.Errorf("measure gzip size of %s: %w", relPath, err)
		}

		files = append(files, sizedata.FileRecord{
			Path:     relPath,
			Size:     info.Size(),
			GzipSize: gzipSize,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return &sizedata.Snapshot{
		BuildNumber: opts.BuildNumber,
		Files:       files,
	}, nil
}

func isExcluded(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// measureGzipSize streams the file through a gzip writer and counts the
// compressed bytes without buffering the output.
func measureGzipSize(path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	counter := &countingWriter{}
	gz, err := gzip.NewWriterLevel(counter, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	if _, err := io.Copy(gz, file); err != nil {
		return 0, err
	}
	if err := gz.Close(); err != nil {
		return 0, err
	}

	return counter.n, nil
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
