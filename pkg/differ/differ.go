// Package differ classifies every file path appearing in either of two
// build snapshots into exactly one of added, removed, unchanged or changed.
package differ

import (
	"sort"

	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// ChangedPair holds both sides of a file whose size or gzip size differs
// between the two builds.
type ChangedPair struct {
	Previous sizedata.FileRecord
	Current  sizedata.FileRecord
}

// Result partitions the union of paths from both snapshots. Every path from
// either snapshot appears in exactly one group.
type Result struct {
	Added     []sizedata.FileRecord
	Removed   []sizedata.FileRecord
	Unchanged []sizedata.FileRecord
	Changed   []ChangedPair
}

// Total returns the number of classified paths.
func (r Result) Total() int {
	return len(r.Added) + len(r.Removed) + len(r.Unchanged) + len(r.Changed)
}

// Diff compares two snapshots. A path present in both builds counts as
// unchanged only when size and gzip size both match; a single differing
// field makes it changed.
func Diff(previous, current *sizedata.Snapshot) Result {
	prevMap := make(map[string]sizedata.FileRecord, len(previous.Files))
	for _, f := range previous.Files {
		prevMap[f.Path] = f
	}

	result := Result{
		Added:     []sizedata.FileRecord{},
		Removed:   []sizedata.FileRecord{},
		Unchanged: []sizedata.FileRecord{},
		Changed:   []ChangedPair{},
	}

	for _, cur := range current.Files {
		prev, exists := prevMap[cur.Path]
		if !exists {
			result.Added = append(result.Added, cur)
			continue
		}
		delete(prevMap, cur.Path)

		if prev.Size == cur.Size && prev.GzipSize == cur.GzipSize {
			result.Unchanged = append(result.Unchanged, cur)
		} else {
			result.Changed = append(result.Changed, ChangedPair{Previous: prev, Current: cur})
		}
	}

	// Whatever was never matched against the current build is gone.
	for _, prev := range prevMap {
		result.Removed = append(result.Removed, prev)
	}

	sortResult(&result)
	return result
}

func sortResult(result *Result) {
	sortRecords := func(records []sizedata.FileRecord) {
		sort.Slice(records, func(i, j int) bool {
			return records[i].Path < records[j].Path
		})
	}

	sortRecords(result.Added)
	sortRecords(result.Removed)
	sortRecords(result.Unchanged)
	sort.Slice(result.Changed, func(i, j int) bool {
		return result.Changed[i].Current.Path < result.Changed[j].Current.Path
	})
}
