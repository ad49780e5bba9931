// Package tree builds the artifact hierarchy the viewer navigates:
// container nodes for directories, symbol nodes for files, with signed
// per-type size totals aggregated up every container.
package tree

import (
	"sort"
	"strings"

	"github.com/yuya-takeyama/sizescope/pkg/report"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

// Kind distinguishes container nodes from symbol (file) nodes.
type Kind string

const (
	KindContainer Kind = "container"
	KindSymbol    Kind = "symbol"
)

// SizeMode selects which byte total size accessors report.
type SizeMode int

const (
	SizeModeRaw SizeMode = iota
	SizeModeGzip
)

// TypeStat is the aggregated contribution of one symbol type to a
// container. Sizes and counts are signed: removals subtract.
type TypeStat struct {
	Size  int64
	Gzip  int64
	Count int
}

// Entry is one leaf to insert into the tree.
type Entry struct {
	Path string
	Size int64
	Gzip int64
	Type byte
	Unit int
}

// Node is one tree node. Container sizes are the signed aggregate of their
// descendants.
type Node struct {
	IDPath         string
	SrcPath        string
	ShortNameIndex int
	Kind           Kind
	Type           byte
	Size           int64
	Gzip           int64
	Count          int
	ChildStats     map[byte]TypeStat
	Children       []*Node
}

// Name returns the display name, the path segment after ShortNameIndex.
func (n *Node) Name() string {
	return n.IDPath[n.ShortNameIndex:]
}

// SizeIn returns the node's byte total under the given mode.
func (n *Node) SizeIn(mode SizeMode) int64 {
	if mode == SizeModeGzip {
		return n.Gzip
	}
	return n.Size
}

// FromSnapshot converts an absolute listing into tree entries. Every file
// counts as one unit; the type tag is derived from the file extension.
func FromSnapshot(snap *sizedata.Snapshot) []Entry {
	entries := make([]Entry, 0, len(snap.Files))
	for _, f := range snap.Files {
		entries = append(entries, Entry{
			Path: f.Path,
			Size: f.Size,
			Gzip: f.GzipSize,
			Type: artifactType(f.Path),
			Unit: 1,
		})
	}
	return entries
}

// FromReport converts differential report records into tree entries. Sizes
// are deltas and units carry the removal sign. File-level records all carry
// the fixed "code" type, so the display tag comes from the path extension,
// same as absolute listings.
func FromReport(records []report.Record) []Entry {
	var entries []Entry
	for _, r := range records {
		for _, s := range r.Symbols {
			tag := artifactType(r.Path)
			if s.Type != "" && s.Type != report.TypeCode {
				tag = s.Type[0]
			}
			entries = append(entries, Entry{
				Path: r.Path,
				Size: s.Bytes,
				Gzip: s.Gzip,
				Type: tag,
				Unit: s.Unit,
			})
		}
	}
	return entries
}

// Build assembles the tree rooted at "/". Children are sorted with
// containers first, then by name.
func Build(entries []Entry) *Node {
	root := &Node{
		IDPath:     "/",
		Kind:       KindContainer,
		ChildStats: map[byte]TypeStat{},
	}
	index := map[string]*Node{"": root}

	for _, e := range entries {
		insert(root, index, e)
	}

	sortChildren(root)
	return root
}

func insert(root *Node, index map[string]*Node, e Entry) {
	parent := root
	segments := strings.Split(e.Path, "/")

	// Materialize the container chain above the leaf.
	idPath := ""
	for _, seg := range segments[:len(segments)-1] {
		if idPath == "" {
			idPath = seg
		} else {
			idPath = idPath + "/" + seg
		}
		node, ok := index[idPath]
		if !ok {
			node = &Node{
				IDPath:         idPath,
				SrcPath:        idPath,
				ShortNameIndex: len(idPath) - len(seg),
				Kind:           KindContainer,
				ChildStats:     map[byte]TypeStat{},
			}
			index[idPath] = node
			parent.Children = append(parent.Children, node)
		}
		parent = node
	}

	name := segments[len(segments)-1]
	leaf := &Node{
		IDPath:         e.Path,
		SrcPath:        e.Path,
		ShortNameIndex: len(e.Path) - len(name),
		Kind:           KindSymbol,
		Type:           e.Type,
		Size:           e.Size,
		Gzip:           e.Gzip,
		Count:          e.Unit,
	}
	parent.Children = append(parent.Children, leaf)

	// Roll the leaf's contribution up through every ancestor.
	ancestor := root
	propagate(ancestor, e)
	idPath = ""
	for _, seg := range segments[:len(segments)-1] {
		if idPath == "" {
			idPath = seg
		} else {
			idPath = idPath + "/" + seg
		}
		propagate(index[idPath], e)
	}
}

func propagate(n *Node, e Entry) {
	n.Size += e.Size
	n.Gzip += e.Gzip
	n.Count += e.Unit

	stat := n.ChildStats[e.Type]
	stat.Size += e.Size
	stat.Gzip += e.Gzip
	stat.Count += e.Unit
	n.ChildStats[e.Type] = stat
}

func sortChildren(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Kind != b.Kind {
			return a.Kind == KindContainer
		}
		return a.Name() < b.Name()
	})
	for _, c := range n.Children {
		sortChildren(c)
	}
}

// artifactType maps a file path to its one-character type tag.
func artifactType(path string) byte {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return 'o'
	}
	switch strings.ToLower(path[dot+1:]) {
	case "js", "mjs", "cjs":
		return 'j'
	case "wasm":
		return 'w'
	case "css":
		return 'c'
	case "html", "htm":
		return 'h'
	case "png", "jpg", "jpeg", "gif", "svg", "webp", "ico":
		return 'i'
	case "json", "map":
		return 'd'
	default:
		return 'o'
	}
}

// TypeName expands a type tag for display.
func TypeName(tag byte) string {
	switch tag {
	case 'j':
		return "JavaScript"
	case 'w':
		return "WebAssembly"
	case 'c':
		return "CSS"
	case 'h':
		return "HTML"
	case 'i':
		return "Images"
	case 'd':
		return "Data"
	case 'o':
		return "Other"
	default:
		return string(tag)
	}
}
