package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yuya-takeyama/sizescope/pkg/infocard"
	"github.com/yuya-takeyama/sizescope/pkg/tree"
)

var (
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	trendUpStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).
			BorderForeground(lipgloss.Color("9")) // red-ish: size grew
	trendDownStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).
			BorderForeground(lipgloss.Color("10")) // green-ish: size shrank
)

var typeColors = map[byte]lipgloss.Color{
	'j': lipgloss.Color("11"),
	'w': lipgloss.Color("13"),
	'c': lipgloss.Color("12"),
	'h': lipgloss.Color("14"),
	'i': lipgloss.Color("10"),
	'd': lipgloss.Color("6"),
	'o': lipgloss.Color("8"),
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	treePane := m.renderTree()
	cardPane := m.renderCard()

	body := lipgloss.JoinHorizontal(lipgloss.Top, treePane, cardPane)
	help := dimStyle.Render("↑/↓ move · enter expand · g toggle gzip · q quit")

	return body + "\n" + help
}

func (m Model) renderTree() string {
	width := treePaneWidth(m.width)
	var b strings.Builder

	for i, r := range m.rows {
		indent := strings.Repeat("  ", r.depth)

		marker := "  "
		if r.node.Kind == tree.KindContainer {
			if m.expanded[r.node.IDPath] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		size := formatBytes(r.node.SizeIn(m.opts.SizeMode))
		nameWidth := width - len(indent) - len(size) - 4
		if nameWidth < 5 {
			nameWidth = 5
		}
		name := runewidth.Truncate(r.node.Name(), nameWidth, "…")
		line := fmt.Sprintf("%s%s%s", indent, marker, name)
		pad := width - runewidth.StringWidth(line) - runewidth.StringWidth(size)
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + size

		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	vp := m.viewport
	vp.SetContent(b.String())
	return lipgloss.NewStyle().Width(width).Render(vp.View())
}

func (m Model) renderCard() string {
	card := m.card
	var b strings.Builder

	b.WriteString(titleStyle.Render(card.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(card.Path))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s in %d files\n", formatBytes(card.Size), card.Count))

	if len(card.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(renderPieBar(card.Slices, cardInnerWidth(m.width)))
		b.WriteString("\n\n")
		for _, row := range card.Rows {
			b.WriteString(renderRow(row, card))
			b.WriteString("\n")
		}
	}

	style := cardStyle
	if card.DiffMode {
		switch infocard.TrendOf(card.Size) {
		case infocard.TrendUp:
			style = trendUpStyle
		case infocard.TrendDown:
			style = trendDownStyle
		}
	}

	return style.Width(cardInnerWidth(m.width)).Render(b.String())
}

// renderPieBar projects the angular pie layout onto a horizontal bar: each
// slice gets cells proportional to its sweep.
func renderPieBar(slices []infocard.Slice, width int) string {
	if width < 4 {
		width = 4
	}

	var b strings.Builder
	used := 0
	for i, s := range slices {
		cells := int(float64(width) * s.Sweep / (2 * math.Pi))
		if i == len(slices)-1 {
			cells = width - used
		}
		if cells < 1 {
			cells = 1
		}
		used += cells
		seg := strings.Repeat("█", cells)
		b.WriteString(lipgloss.NewStyle().Foreground(typeColor(s.Type)).Render(seg))
	}

	return b.String()
}

func renderRow(row infocard.Row, card infocard.Data) string {
	swatch := lipgloss.NewStyle().Foreground(typeColor(row.Type)).Render("■")
	line := fmt.Sprintf("%s %-12s %8s  %5.1f%%  (%d)",
		swatch, tree.TypeName(row.Type), formatBytes(row.Size), row.Percent*100, row.Count)

	if card.DiffMode {
		switch card.Trends[row.Type] {
		case infocard.TrendUp:
			line += lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(" ↑")
		case infocard.TrendDown:
			line += lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(" ↓")
		}
	}

	return line
}

func typeColor(tag byte) lipgloss.Color {
	if c, ok := typeColors[tag]; ok {
		return c
	}
	return lipgloss.Color("7")
}

func cardInnerWidth(total int) int {
	w := total - treePaneWidth(total) - 4
	if w < 20 {
		w = 20
	}
	return w
}

// formatBytes renders a signed byte count in human readable form.
func formatBytes(bytes int64) string {
	sign := ""
	if bytes < 0 {
		sign = "-"
		bytes = -bytes
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%s%d B", sign, bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%s%.1f %cB", sign, float64(bytes)/float64(div), "KMGTPE"[exp])
}
