package infocard

import (
	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

// Options is the explicit view configuration handed to card construction.
// There is no ambient global state; whoever renders passes this in.
type Options struct {
	SizeMode tree.SizeMode
	DiffMode bool
}

// Data is everything a renderer needs to draw one info card.
type Data struct {
	Title    string
	Path     string
	Size     int64
	Count    int
	Rows     []Row
	Slices   []Slice
	Trends   map[byte]Trend
	DiffMode bool
}

// Card turns a selected node into renderable card data. Implementations are
// selected by node kind.
type Card interface {
	Build(node *tree.Node, opts Options) Data
}

// For returns the card strategy for a node.
func For(node *tree.Node) Card {
	if node.Kind == tree.KindContainer {
		return containerCard{}
	}
	return symbolCard{}
}

// symbolCard shows a single file: no breakdown, just identity and size.
type symbolCard struct{}

func (symbolCard) Build(node *tree.Node, opts Options) Data {
	return Data{
		Title:    node.Name(),
		Path:     node.SrcPath,
		Size:     node.SizeIn(opts.SizeMode),
		Count:    node.Count,
		DiffMode: opts.DiffMode,
	}
}

// containerCard shows a directory: per-type breakdown plus pie layout, with
// trends attached in diff mode.
type containerCard struct{}

func (containerCard) Build(node *tree.Node, opts Options) Data {
	rows := Breakdown(node.ChildStats, opts.SizeMode)

	data := Data{
		Title:    node.Name(),
		Path:     node.SrcPath,
		Size:     node.SizeIn(opts.SizeMode),
		Count:    node.Count,
		Rows:     rows,
		Slices:   PieLayout(rows),
		DiffMode: opts.DiffMode,
	}

	if opts.DiffMode {
		data.Trends = make(map[byte]Trend, len(rows))
		for _, row := range rows {
			data.Trends[row.Type] = TrendOf(row.Size)
		}
	}

	return data
}
