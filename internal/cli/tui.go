package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stacklens/pkg/deps"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// treeModel - Interactive dependency tree browser
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	node  *deps.Node
	level int
}

// treeModel is the bubbletea model behind "tree --interactive".
type treeModel struct {
	root     *deps.Node
	expanded map[*deps.Node]bool
	rows     []treeRow

	Cursor int
	Offset int
	Height int
}

// newTreeModel opens the browser with the root's direct dependencies shown.
func newTreeModel(root *deps.Node) treeModel {
	m := treeModel{
		root:     root,
		expanded: map[*deps.Node]bool{root: true},
		Height:   20,
	}
	m.flatten()
	return m
}

func (m *treeModel) flatten() {
	m.rows = m.rows[:0]
	var walk func(n *deps.Node, level int)
	walk = func(n *deps.Node, level int) {
		m.rows = append(m.rows, treeRow{node: n, level: level})
		if !m.expanded[n] {
			return
		}
		for _, c := range n.Children {
			walk(c, level+1)
		}
	}
	if m.root != nil {
		walk(m.root, 0)
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter", " ", "right", "l":
			if n := m.selected(); n != nil && len(n.Children) > 0 {
				m.expanded[n] = !m.expanded[n]
				m.flatten()
			}
		case "left", "h":
			m.collapseOrParent()
		case "e":
			m.root.Walk(func(n *deps.Node, _ []*deps.Node) {
				m.expanded[n] = true
			})
			m.flatten()
		case "c":
			m.expanded = map[*deps.Node]bool{m.root: true}
			m.Cursor = 0
			m.flatten()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	m.scroll()
	return m, nil
}

// collapseOrParent collapses the selected node, or moves to its parent
// when it is already collapsed.
func (m *treeModel) collapseOrParent() {
	n := m.selected()
	if n == nil {
		return
	}
	if m.expanded[n] && n != m.root {
		m.expanded[n] = false
		m.flatten()
		return
	}
	level := m.rows[m.Cursor].level
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].level < level {
			m.Cursor = i
			return
		}
	}
}

func (m *treeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m treeModel) selected() *deps.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].node
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dependency Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  ← collapse  e/c all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		n := row.node

		marker := "  "
		switch {
		case len(n.Children) > 0 && m.expanded[n]:
			marker = "▾ "
		case len(n.Children) > 0:
			marker = "▸ "
		}

		label := n.Key()
		if n.Terminal() && row.level > 0 {
			label += " *"
		}

		line := strings.Repeat("  ", row.level) + marker + label
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if n.Terminal() {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if n := m.selected(); n != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · depth %d · %d deps", n.Type, n.Depth, len(n.Children))))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}
