// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/metric"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
)

// Model implements the Bubble Tea typing UI for one test.
type Model struct {
	builder   *model.Builder
	saver     session.Saver
	clock     session.Clock
	sentences []string

	width  int
	height int

	index       int
	typed       []string
	targetRunes []rune
	inputRunes  []rune

	started   bool
	startedAt time.Time
	watch     stopwatch.Model

	done    bool
	aborted bool
	result  model.Record
	err     error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model. The finished record is passed to
// saver before the program quits.
func NewModel(b *model.Builder, sentences []string, saver session.Saver, clock session.Clock) *Model {
	if clock == nil {
		clock = session.SystemClock{}
	}
	m := &Model{
		builder:   b,
		saver:     saver,
		clock:     clock,
		sentences: sentences,
		watch:     stopwatch.NewWithInterval(time.Second),
	}
	m.loadSentence()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc:
			if !m.started {
				m.aborted = true
				m.done = true
				return m, tea.Quit
			}
			return m, m.finish()
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
			return m, nil
		case tea.KeySpace:
			return m, m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.handleRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		var cmd tea.Cmd
		m.watch, cmd = m.watch.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || len(m.targetRunes) == 0 {
		return ""
	}
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	styledRunes := buildStyledRunes(m.targetRunes, m.inputRunes, cursorIndex)
	header := headerStyle.Render(fmt.Sprintf("Sentence %d of %d", m.index+1, len(m.sentences)))
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + "\n\n" + wrapped)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Result returns the finished record. ok is false when the test was aborted.
// err reports a scoring or save failure; the record is still set when only
// saving failed.
func (m *Model) Result() (rec model.Record, ok bool, err error) {
	if m.aborted || !m.done {
		return model.Record{}, false, nil
	}
	return m.result, true, m.err
}

func (m *Model) handleBackspace() {
	if len(m.inputRunes) == 0 {
		return
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	if len(runes) == 0 {
		return nil
	}
	var cmd tea.Cmd
	if !m.started {
		m.started = true
		m.startedAt = m.clock.Now()
		cmd = m.watch.Start()
	}
	m.inputRunes = append(m.inputRunes, runes...)
	return cmd
}

func (m *Model) submit() tea.Cmd {
	if !m.started {
		return nil
	}
	m.typed = append(m.typed, string(m.inputRunes))
	m.index++
	if m.index >= len(m.sentences) {
		return m.finish()
	}
	m.loadSentence()
	return nil
}

func (m *Model) loadSentence() {
	m.inputRunes = nil
	m.targetRunes = nil
	if m.index < len(m.sentences) {
		m.targetRunes = []rune(m.sentences[m.index])
	}
}

// finish scores the attempt. A partially typed sentence counts when it is not
// blank; sentences never reached count as typed empty.
func (m *Model) finish() tea.Cmd {
	end := m.clock.Now()
	if m.index < len(m.sentences) && strings.TrimSpace(string(m.inputRunes)) != "" {
		m.typed = append(m.typed, string(m.inputRunes))
	}
	elapsed := 0.0
	if m.started {
		elapsed = end.Sub(m.startedAt).Seconds()
	}
	pairs := session.PadPairs(m.sentences, m.typed)
	m.done = true
	rec, err := session.Score(m.builder, pairs, elapsed, end)
	if err != nil {
		m.err = err
		return tea.Quit
	}
	m.result = rec
	if m.saver != nil {
		if err := m.saver.Save(rec); err != nil {
			m.err = fmt.Errorf("failed to save test: %w", err)
		}
	}
	return tea.Sequence(m.watch.Stop(), tea.Quit)
}

// liveStats mirrors the final metrics while typing: words typed so far and
// completed sentences over elapsed time, and accuracy of the current sentence.
func (m *Model) liveStats() (wpm, spm int, acc float64) {
	if !m.started {
		return 0, 0, 100
	}
	acc = metric.Accuracy(string(m.targetRunes), string(m.inputRunes))
	if m.watch.Elapsed() == 0 {
		return 0, 0, acc
	}
	soFar := strings.Join(append(append([]string(nil), m.typed...), string(m.inputRunes)), " ")
	wpm, spm, err := metric.Throughput(metric.CountWords(soFar), m.index, m.watch.Elapsed().Seconds())
	if err != nil {
		return 0, 0, acc
	}
	return wpm, spm, acc
}

func (m *Model) renderFooter() string {
	wpm, spm, acc := m.liveStats()
	segments := []string{
		fmt.Sprintf("%d/%d", m.index+1, len(m.sentences)),
		fmt.Sprintf("%d WPM", wpm),
		fmt.Sprintf("%d SPM", spm),
		fmt.Sprintf("%.1f%%", acc),
		m.watch.View(),
		"enter next · esc finish · ctrl+c quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
