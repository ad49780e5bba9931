package tree

import (
	"testing"

	"github.com/yuya-takeyama/sizescope/pkg/report"
	"github.com/yuya-takeyama/sizescope/pkg/sizedata"
)

func findChild(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestBuildAggregation(t *testing.T) {
	snap := &sizedata.Snapshot{Files: []sizedata.FileRecord{
		{Path: "static/app.js", Size: 300, GzipSize: 100},
		{Path: "static/style.css", Size: 100, GzipSize: 30},
		{Path: "index.html", Size: 50, GzipSize: 20},
	}}

	root := Build(FromSnapshot(snap))

	if root.Size != 450 || root.Gzip != 150 || root.Count != 3 {
		t.Errorf("root totals = size %d gzip %d count %d", root.Size, root.Gzip, root.Count)
	}

	static := findChild(root, "static")
	if static == nil {
		t.Fatal("static container missing")
	}
	if static.Kind != KindContainer {
		t.Errorf("static kind = %s", static.Kind)
	}
	if static.Size != 400 || static.Count != 2 {
		t.Errorf("static totals = size %d count %d", static.Size, static.Count)
	}

	js := static.ChildStats['j']
	if js.Size != 300 || js.Count != 1 {
		t.Errorf("static js stat = %+v", js)
	}
	css := static.ChildStats['c']
	if css.Size != 100 || css.Count != 1 {
		t.Errorf("static css stat = %+v", css)
	}

	leaf := findChild(static, "app.js")
	if leaf == nil || leaf.Kind != KindSymbol {
		t.Fatalf("app.js leaf = %+v", leaf)
	}
	if leaf.IDPath != "static/app.js" || leaf.Name() != "app.js" {
		t.Errorf("leaf identity = %q name %q", leaf.IDPath, leaf.Name())
	}
}

func TestBuildFromReportSignedTotals(t *testing.T) {
	records := []report.Record{
		{Path: "a/new.js", Symbols: []report.Symbol{{Name: "new.js", Bytes: 200, Gzip: 80, Type: "code", Unit: 1}}},
		{Path: "a/gone.js", Symbols: []report.Symbol{{Name: "gone.js", Bytes: -500, Gzip: -150, Type: "code", Unit: -1}}},
	}

	root := Build(FromReport(records))

	a := findChild(root, "a")
	if a == nil {
		t.Fatal("container a missing")
	}
	if a.Size != -300 || a.Gzip != -70 {
		t.Errorf("signed aggregate = size %d gzip %d", a.Size, a.Gzip)
	}
	if a.Count != 0 {
		t.Errorf("signed count = %d, want 0 (one added, one removed)", a.Count)
	}

	js := a.ChildStats['j']
	if js.Size != -300 || js.Count != 0 {
		t.Errorf("js stat = %+v", js)
	}
}

// Report records all carry the fixed "code" type; the display tag must come
// from the path extension so a JS delta never lands in the CSS bucket.
func TestFromReportTagsByExtension(t *testing.T) {
	records := []report.Record{
		{Path: "app.js", Symbols: []report.Symbol{{Name: "app.js", Bytes: 100, Gzip: 30, Type: "code", Unit: 1}}},
		{Path: "style.css", Symbols: []report.Symbol{{Name: "style.css", Bytes: 50, Gzip: 10, Type: "code", Unit: 1}}},
	}

	root := Build(FromReport(records))

	if stat := root.ChildStats['j']; stat.Size != 100 || stat.Count != 1 {
		t.Errorf("js stat = %+v", stat)
	}
	if stat := root.ChildStats['c']; stat.Size != 50 || stat.Count != 1 {
		t.Errorf("css stat = %+v", stat)
	}
	if TypeName('j') == "CSS" {
		t.Error("js tag labeled as CSS")
	}
}

func TestSizeMode(t *testing.T) {
	n := &Node{Size: 100, Gzip: 40}
	if got := n.SizeIn(SizeModeRaw); got != 100 {
		t.Errorf("SizeIn(raw) = %d", got)
	}
	if got := n.SizeIn(SizeModeGzip); got != 40 {
		t.Errorf("SizeIn(gzip) = %d", got)
	}
}

func TestChildOrdering(t *testing.T) {
	snap := &sizedata.Snapshot{Files: []sizedata.FileRecord{
		{Path: "z.js", Size: 1},
		{Path: "a.js", Size: 1},
		{Path: "sub/x.js", Size: 1},
	}}

	root := Build(FromSnapshot(snap))

	if len(root.Children) != 3 {
		t.Fatalf("root children = %d", len(root.Children))
	}
	// Containers first, then symbols by name.
	if root.Children[0].Name() != "sub" || root.Children[1].Name() != "a.js" || root.Children[2].Name() != "z.js" {
		t.Errorf("order = %s, %s, %s", root.Children[0].Name(), root.Children[1].Name(), root.Children[2].Name())
	}
}

func TestArtifactType(t *testing.T) {
	tests := []struct {
		path string
		want byte
	}{
		{"app.js", 'j'},
		{"mod.wasm", 'w'},
		{"style.css", 'c'},
		{"index.html", 'h'},
		{"logo.svg", 'i'},
		{"bundle.js.map", 'd'},
		{"LICENSE", 'o'},
	}

	for _, tt := range tests {
		if got := artifactType(tt.path); got != tt.want {
			t.Errorf("artifactType(%q) = %c, want %c", tt.path, got, tt.want)
		}
	}
}
