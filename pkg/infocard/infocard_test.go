package infocard

import (
	"math"
	"testing"

	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

func TestBreakdownPercentages(t *testing.T) {
	stats := map[byte]tree.TypeStat{
		't': {Size: 300, Count: 1},
		'r': {Size: 100, Count: 1},
	}

	rows := Breakdown(stats, tree.SizeModeRaw)

	if len(rows) != 2 {
		t.Fatalf("Breakdown() returned %d rows, want 2", len(rows))
	}
	if rows[0].Type != 't' || rows[0].Percent != 0.75 {
		t.Errorf("rows[0] = %+v, want type t at 0.75", rows[0])
	}
	if rows[1].Type != 'r' || rows[1].Percent != 0.25 {
		t.Errorf("rows[1] = %+v, want type r at 0.25", rows[1])
	}
}

func TestBreakdownHidesZeroAndSortsByAbsSize(t *testing.T) {
	stats := map[byte]tree.TypeStat{
		'a': {Size: 50, Count: 1},
		'b': {Size: -200, Count: -2}, // shrank more than a grew
		'z': {Size: 0, Count: 3},
	}

	rows := Breakdown(stats, tree.SizeModeRaw)

	if len(rows) != 2 {
		t.Fatalf("Breakdown() returned %d rows, want zero-size row hidden", len(rows))
	}
	if rows[0].Type != 'b' {
		t.Errorf("rows[0].Type = %c, want b (largest absolute size first)", rows[0].Type)
	}
	if got := rows[0].Percent; got != 0.8 {
		t.Errorf("rows[0].Percent = %v, want 0.8", got)
	}
}

func TestBreakdownGzipMode(t *testing.T) {
	stats := map[byte]tree.TypeStat{
		'j': {Size: 100, Gzip: 40, Count: 1},
		'c': {Size: 100, Gzip: 0, Count: 1},
	}

	rows := Breakdown(stats, tree.SizeModeGzip)

	if len(rows) != 1 {
		t.Fatalf("Breakdown(gzip) rows = %d, want 1 (zero gzip row hidden)", len(rows))
	}
	if rows[0].Type != 'j' || rows[0].Size != 40 || rows[0].Percent != 1.0 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
}

func TestPieLayoutAnglesSumToFullCircle(t *testing.T) {
	stats := map[byte]tree.TypeStat{
		't': {Size: 300, Count: 1},
		'r': {Size: 100, Count: 1},
	}

	slices := PieLayout(Breakdown(stats, tree.SizeModeRaw))

	if len(slices) != 2 {
		t.Fatalf("PieLayout() returned %d slices", len(slices))
	}
	if slices[0].Start != 0 {
		t.Errorf("first slice starts at %v, want 0", slices[0].Start)
	}

	prevEnd := 0.0
	total := 0.0
	for _, s := range slices {
		if s.Start != prevEnd {
			t.Errorf("slice %c starts at %v, want contiguous %v", s.Type, s.Start, prevEnd)
		}
		if s.Sweep < 0 {
			t.Errorf("slice %c has negative sweep", s.Type)
		}
		prevEnd = s.Start + s.Sweep
		total += s.Sweep
	}

	if math.Abs(total-2*math.Pi) > 1e-9 {
		t.Errorf("sweeps sum to %v, want 2π", total)
	}
}

func TestTrendOf(t *testing.T) {
	if TrendOf(10) != TrendUp {
		t.Error("positive size should trend up")
	}
	if TrendOf(-10) != TrendDown {
		t.Error("negative size should trend down")
	}
	if TrendOf(0) != TrendFlat {
		t.Error("zero size should be flat")
	}
}

func TestCardSelection(t *testing.T) {
	container := &tree.Node{
		IDPath: "static",
		Kind:   tree.KindContainer,
		Size:   400,
		Count:  2,
		ChildStats: map[byte]tree.TypeStat{
			'j': {Size: 300, Count: 1},
			'c': {Size: 100, Count: 1},
		},
	}
	symbol := &tree.Node{
		IDPath:  "static/app.js",
		SrcPath: "static/app.js",
		Kind:    tree.KindSymbol,
		Size:    300,
		Count:   1,
	}

	containerData := For(container).Build(container, Options{})
	if len(containerData.Rows) != 2 || len(containerData.Slices) != 2 {
		t.Errorf("container card = %+v, want breakdown and pie", containerData)
	}

	symbolData := For(symbol).Build(symbol, Options{})
	if len(symbolData.Rows) != 0 {
		t.Errorf("symbol card has breakdown rows: %+v", symbolData.Rows)
	}
	if symbolData.Size != 300 {
		t.Errorf("symbol card size = %d", symbolData.Size)
	}
}

func TestCardTrendsOnlyInDiffMode(t *testing.T) {
	node := &tree.Node{
		IDPath: "a",
		Kind:   tree.KindContainer,
		ChildStats: map[byte]tree.TypeStat{
			'j': {Size: 100, Count: 1},
			'c': {Size: -50, Count: -1},
		},
	}

	plain := For(node).Build(node, Options{})
	if plain.Trends != nil {
		t.Errorf("non-diff card has trends: %+v", plain.Trends)
	}

	diff := For(node).Build(node, Options{DiffMode: true})
	if diff.Trends['j'] != TrendUp || diff.Trends['c'] != TrendDown {
		t.Errorf("diff trends = %+v", diff.Trends)
	}
}
