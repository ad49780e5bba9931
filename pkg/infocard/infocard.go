// Package infocard computes the per-type size breakdown and pie layout
// shown for a selected tree node.
package infocard

import (
	"math"
	"sort"

	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

// Row is one visible line of a container breakdown. Percent is the share of
// the total absolute size, in [0, 1].
type Row struct {
	Type    byte
	Size    int64
	Count   int
	Percent float64
}

// Breakdown computes the visible rows for a set of per-type stats under the
// given size mode. Zero-size rows are hidden; rows are sorted descending by
// absolute size, recomputed from scratch on every call.
func Breakdown(stats map[byte]tree.TypeStat, mode tree.SizeMode) []Row {
	var total float64
	rows := make([]Row, 0, len(stats))

	for tag, stat := range stats {
		size := stat.Size
		if mode == tree.SizeModeGzip {
			size = stat.Gzip
		}
		if size == 0 {
			continue
		}
		rows = append(rows, Row{Type: tag, Size: size, Count: stat.Count})
		total += math.Abs(float64(size))
	}

	for i := range rows {
		rows[i].Percent = math.Abs(float64(rows[i].Size)) / total
	}

	sort.Slice(rows, func(i, j int) bool {
		ai := math.Abs(float64(rows[i].Size))
		aj := math.Abs(float64(rows[j].Size))
		if ai != aj {
			return ai > aj
		}
		return rows[i].Type < rows[j].Type
	})

	return rows
}

// Slice is one pie segment: Sweep radians starting at Start, proportional
// to the row's share of the total.
type Slice struct {
	Type  byte
	Start float64
	Sweep float64
}

// PieLayout lays the rows out as contiguous pie slices. The accumulated
// angle starts at 0, increases monotonically, and reaches 2π for a
// normalized row set.
func PieLayout(rows []Row) []Slice {
	slices := make([]Slice, 0, len(rows))

	angle := 0.0
	for _, row := range rows {
		sweep := 2 * math.Pi * row.Percent
		slices = append(slices, Slice{Type: row.Type, Start: angle, Sweep: sweep})
		angle += sweep
	}

	return slices
}

// Trend classifies a signed size for differential display.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp         // grew, highlighted red-ish
	TrendDown       // shrank, highlighted green-ish
)

// TrendOf returns the trend of a signed per-type size.
func TrendOf(size int64) Trend {
	switch {
	case size > 0:
		return TrendUp
	case size < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}
