package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NamePrompt asks for the user name before a test.
type NamePrompt struct {
	input    textinput.Model
	done     bool
	canceled bool
}

// NewNamePrompt constructs a focused name prompt.
func NewNamePrompt() *NamePrompt {
	ti := textinput.New()
	ti.Prompt = "Please enter your name: "
	ti.Placeholder = "name"
	ti.CharLimit = 64
	ti.Focus()
	return &NamePrompt{input: ti}
}

// Init implements tea.Model.
func (p *NamePrompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p *NamePrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.canceled = true
			return p, tea.Quit
		case tea.KeyEnter:
			if strings.TrimSpace(p.input.Value()) == "" {
				return p, nil
			}
			p.done = true
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p *NamePrompt) View() string {
	if p.done || p.canceled {
		return ""
	}
	return p.input.View() + "\n\n" + footerStyle.Render("enter confirm · esc cancel") + "\n"
}

// Name returns the entered name. ok is false when the prompt was canceled.
func (p *NamePrompt) Name() (name string, ok bool) {
	if !p.done {
		return "", false
	}
	return strings.TrimSpace(p.input.Value()), true
}
