// Package tui renders a referral board in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kud/referrals/internal/board"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42"))
	nameStyle     = lipgloss.NewStyle().Bold(true).Width(24)
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	directStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	overlayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	inactiveStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	toastStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("42")).Padding(0, 1)
)

type mountedMsg struct{ err error }

type boardChangedMsg struct{}

type toastExpiredMsg struct{}

type Model struct {
	board   *board.Board
	toasts  *Toasts
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	view    board.View
	cursor  int
}

func NewModel(b *board.Board, toasts *Toasts) Model {
	return Model{
		board:   b,
		toasts:  toasts,
		keys:    DefaultKeyMap,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		view:    b.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, mount(m.board), listenForChanges(m.board.Updates()))
}

func mount(b *board.Board) tea.Cmd {
	return func() tea.Msg {
		return mountedMsg{err: b.Mount(context.Background())}
	}
}

func listenForChanges(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return boardChangedMsg{}
	}
}

// expireToast redraws once the current toast has timed out.
func expireToast() tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountedMsg:
		m.refresh()
		return m, nil

	case boardChangedMsg:
		m.refresh()
		cmds := []tea.Cmd{listenForChanges(m.board.Updates())}
		if _, ok := m.toasts.Current(); ok {
			cmds = append(cmds, expireToast())
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		return m, nil

	case spinner.TickMsg:
		if m.view.State != board.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.board.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Entries)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextCategory):
		m.shiftCategory(1)

	case key.Matches(msg, m.keys.PrevCategory):
		m.shiftCategory(-1)

	case key.Matches(msg, m.keys.ResetFilter):
		m.board.Select(board.AllCategories)
		m.cursor = 0
		m.refresh()

	case key.Matches(msg, m.keys.Activate):
		if m.cursor >= len(m.view.Entries) {
			return m, nil
		}
		err := m.board.Activate(m.view.Entries[m.cursor].Key)
		m.refresh()
		if err != nil && !errors.Is(err, board.ErrInactive) {
			m.toasts.Notify(board.Notice{Level: board.NoticeError, Message: err.Error()})
			return m, expireToast()
		}
	}
	return m, nil
}

func (m *Model) shiftCategory(delta int) {
	categories := m.view.Categories
	if len(categories) == 0 {
		return
	}
	current := 0
	for i, c := range categories {
		if c == m.view.Selected {
			current = i
			break
		}
	}
	next := (current + delta + len(categories)) % len(categories)
	m.board.Select(categories[next])
	m.cursor = 0
	m.refresh()
}

func (m *Model) refresh() {
	m.view = m.board.Snapshot()
	if m.cursor >= len(m.view.Entries) {
		m.cursor = max(len(m.view.Entries)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CASH BACK REFERRALS"))
	b.WriteString("\n")

	switch m.view.State {
	case board.Loading:
		b.WriteString(m.spinner.View() + " Loading referrals…\n")
		return b.String()
	case board.Failed:
		b.WriteString(errorStyle.Render("Could not load referrals: "+m.view.Err.Error()) + "\n")
		b.WriteString(subtleStyle.Render("Press q to quit.") + "\n")
		return b.String()
	}

	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d codes · %d categories", len(m.view.Entries), len(m.view.Categories)-1)))
	b.WriteString("\n\n")

	var tabs []string
	for _, c := range m.view.Categories {
		style := tabStyle
		if c == m.view.Selected {
			style = activeTab
		}
		tabs = append(tabs, style.Render(board.DisplayCategory(c)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if len(m.view.Entries) == 0 {
		b.WriteString(subtleStyle.Render("No referrals yet.") + "\n")
	}
	for i, e := range m.view.Entries {
		b.WriteString(m.renderEntry(i, e))
		b.WriteString("\n")
	}

	if n, ok := m.toasts.Current(); ok {
		style := toastStyle
		if n.Level == board.NoticeError {
			style = style.BorderForeground(lipgloss.Color("196"))
		}
		b.WriteString("\n" + style.Render(n.Message) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.helpLine()))
	return b.String()
}

func (m Model) renderEntry(i int, e board.Entry) string {
	pointer := "  "
	if i == m.cursor {
		pointer = "> "
	}

	var detail string
	switch {
	case e.Counting():
		detail = overlayStyle.Render(fmt.Sprintf("Opening in %ds…", e.Remaining))
	case e.DirectLink():
		detail = directStyle.Render("Direct link")
	default:
		detail = codeStyle.Render(e.Record.Code)
	}

	var kind string
	if e.Record.Type != "" {
		kind = board.DisplayCategory(e.Record.Type)
	}
	line := pointer + nameStyle.Render(e.Record.Name) + typeStyle.Render(kind) + detail
	if !e.Interactive {
		return inactiveStyle.Render(line)
	}
	return line
}
