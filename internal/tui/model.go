// Package tui is the terminal viewer: an artifact tree on the left, the
// selected node's info card on the right.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yuya-takeyama/sizescope/pkg/infocard"
	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

// frameInterval paces info card refreshes; updates arriving between frames
// coalesce into a single redraw.
const frameInterval = time.Second / 60

type frameMsg time.Time

// row is one visible line of the tree pane.
type row struct {
	node  *tree.Node
	depth int
}

// Model is the bubbletea model for the viewer.
type Model struct {
	root     *tree.Node
	opts     infocard.Options
	rows     []row
	expanded map[string]bool
	cursor   int

	card      infocard.Data
	cardNode  *tree.Node
	cardDirty bool

	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel creates a viewer over a built tree. opts carries the explicit
// view configuration; there is no global filter state.
func NewModel(root *tree.Node, opts infocard.Options) Model {
	m := Model{
		root:     root,
		opts:     opts,
		expanded: map[string]bool{"/": true},
	}
	m.rebuildRows()
	if len(m.rows) > 0 {
		m.updateInfocard(m.rows[0].node)
	}
	return m
}

// Start runs the viewer until quit.
func Start(root *tree.Node, opts infocard.Options) error {
	p := tea.NewProgram(NewModel(root, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "enter", " ":
			m.toggleExpand()
		case "g":
			if m.opts.SizeMode == tree.SizeModeRaw {
				m.opts.SizeMode = tree.SizeModeGzip
			} else {
				m.opts.SizeMode = tree.SizeModeRaw
			}
			m.updateInfocard(m.currentNode())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(treePaneWidth(msg.Width), msg.Height-2)
		m.ready = true

	case frameMsg:
		// Coalesced flush: however many updateInfocard calls landed since
		// the last frame, the card is rebuilt at most once.
		if m.cardDirty && m.cardNode != nil {
			m.card = infocard.For(m.cardNode).Build(m.cardNode, m.opts)
			m.cardDirty = false
		}
		return m, frameTick()
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.rows) {
		return
	}
	m.cursor = next
	m.scrollToCursor()
	m.updateInfocard(m.rows[m.cursor].node)
}

// scrollToCursor keeps the selected row inside the tree viewport.
func (m *Model) scrollToCursor() {
	if !m.ready {
		return
	}
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Model) toggleExpand() {
	node := m.currentNode()
	if node == nil || node.Kind != tree.KindContainer {
		return
	}
	m.expanded[node.IDPath] = !m.expanded[node.IDPath]
	m.rebuildRows()
	m.updateInfocard(node)
}

func (m *Model) currentNode() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// updateInfocard requests an info card refresh for node. Idempotent:
// repeated calls for the same node before the next frame cost one redraw.
func (m *Model) updateInfocard(node *tree.Node) {
	if node == nil {
		return
	}
	m.cardNode = node
	m.cardDirty = true
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, child := range m.root.Children {
		m.appendRows(child, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendRows(node *tree.Node, depth int) {
	m.rows = append(m.rows, row{node: node, depth: depth})
	if node.Kind == tree.KindContainer && m.expanded[node.IDPath] {
		for _, child := range node.Children {
			m.appendRows(child, depth+1)
		}
	}
}

func treePaneWidth(total int) int {
	w := total / 2
	if w < 20 {
		w = 20
	}
	return w
}
