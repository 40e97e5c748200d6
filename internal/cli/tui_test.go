package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m treeModel, keys ...string) treeModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(treeModel)
	}
	return m
}

func TestTreeModelInitialRows(t *testing.T) {
	m := newTreeModel(sampleTree("express"))
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want root plus 2 direct deps", len(m.rows))
	}
	if m.selected().Name != "express" {
		t.Errorf("selected = %s, want root", m.selected().Name)
	}
}

func TestTreeModelNavigation(t *testing.T) {
	m := newTreeModel(sampleTree("express"))

	m = press(m, "j")
	if m.selected().Name != "body-parser" {
		t.Fatalf("selected = %s, want body-parser", m.selected().Name)
	}

	m = press(m, "enter")
	if len(m.rows) != 4 {
		t.Fatalf("rows after expand = %d, want 4", len(m.rows))
	}

	m = press(m, "j")
	if m.selected().Name != "bytes" {
		t.Fatalf("selected = %s, want bytes", m.selected().Name)
	}

	// bytes has no children, so left jumps to its parent.
	m = press(m, "left")
	if m.selected().Name != "body-parser" {
		t.Fatalf("selected = %s, want parent body-parser", m.selected().Name)
	}

	m = press(m, "left")
	if len(m.rows) != 3 {
		t.Errorf("rows after collapse = %d, want 3", len(m.rows))
	}

	m = press(m, "k", "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want clamped at 0", m.Cursor)
	}
}

func TestTreeModelExpandCollapseAll(t *testing.T) {
	m := newTreeModel(sampleTree("express"))

	m = press(m, "e")
	if len(m.rows) != 4 {
		t.Fatalf("rows after expand all = %d, want 4", len(m.rows))
	}

	m = press(m, "j", "j", "c")
	if len(m.rows) != 3 || m.Cursor != 0 {
		t.Errorf("after collapse all: rows = %d, cursor = %d", len(m.rows), m.Cursor)
	}
}

func TestTreeModelQuit(t *testing.T) {
	m := newTreeModel(sampleTree("express"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTreeModelScroll(t *testing.T) {
	m := newTreeModel(sampleTree("express"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(treeModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want minimum 5", m.Height)
	}

	m.Height = 2
	m = press(m, "j", "j")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
}

func TestTreeModelView(t *testing.T) {
	m := press(newTreeModel(sampleTree("express")), "e")
	view := m.View()

	for _, want := range []string{"Dependency Tree", "▾ express@1.0.0", "▾ body-parser@1.20.0", "bytes@3.1.2 *", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
