package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNamePromptEnter(t *testing.T) {
	p := NewNamePrompt()
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := p.Name(); ok {
		t.Fatalf("expected empty name to be refused")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bob")})
	if _, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatalf("expected quit command")
	}
	name, ok := p.Name()
	if !ok || name != "bob" {
		t.Fatalf("expected bob, got %q ok=%v", name, ok)
	}
}

func TestNamePromptEsc(t *testing.T) {
	p := NewNamePrompt()
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bob")})
	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := p.Name(); ok {
		t.Fatalf("expected canceled prompt")
	}
	if p.View() != "" {
		t.Fatalf("expected empty view after cancel")
	}
}
