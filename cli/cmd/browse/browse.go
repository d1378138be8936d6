package browse

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/cfggen/descriptor"
	"github.com/ardnew/cfggen/log"
)

const prompt = "key ➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the key browser.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	list       *descriptor.List
	keys       []string
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches
	suggIdx    int    // selected candidate index
	tabActive  bool   // whether user is tab-cycling
	preTabText string // input text before tab-cycling began
	width      int
	quitting   bool
}

// Run starts an interactive browser over the entries of list. Resolved keys
// are remembered in a history file under cacheDir.
func Run(
	ctx context.Context,
	list *descriptor.List,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if list.Len() == 0 {
		return ErrNoEntries
	}

	var history *History
	if cacheDir != "" {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("cache_dir", cacheDir),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "browse start",
		slog.Int("entries", list.Len()),
		slog.Int("history", history.Len()),
	)

	m := newModel(ctx, list, history, logger)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	list *descriptor.List,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		list:       list,
		keys:       list.Keys(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a key, Tab to cycle matches, Enter to resolve, Ctrl+D to exit"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "browse keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.reset()

		return m, nil

	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		return m.resolve()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.CursorEnd()
			m.refresh()

			return m, nil
		}

		m.reset()

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// reset clears the input line and any completion state.
func (m *model) reset() {
	m.input.SetValue("")
	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.refresh()
}

// refresh recomputes matches for the current input.
func (m *model) refresh() {
	m.matches = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

// cycle moves the candidate selection by step and fills the input with it.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()

		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	}

	m.input.SetValue(m.matches[m.suggIdx].Str)
	m.input.CursorEnd()

	return m
}

// resolve looks up the input key and prints the result above the prompt.
func (m model) resolve() (model, tea.Cmd) {
	key := strings.TrimSpace(m.input.Value())
	if key == "" {
		return m, nil
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(key))

	index, entry, ok := m.list.Lookup(key)

	m.logger.TraceContext(m.ctxFunc(), "browse resolve",
		slog.String("key", key),
		slog.Bool("found", ok),
	)

	var out tea.Cmd

	if ok {
		if _, err := m.history.Write(key); err != nil {
			m.logger.DebugContext(m.ctxFunc(), "history write failed",
				slog.Any("error", err),
			)
		}

		out = tea.Println(resultStyle.Render(formatEntry(index, entry)))
	} else {
		out = tea.Println(errorStyle.Render(key + ": not found"))
	}

	m.reset()

	return m, tea.Sequence(echo, out)
}

// formatEntry renders a resolved entry the way the generated table sees it.
func formatEntry(index int, e descriptor.Entry) string {
	return fmt.Sprintf("[%d] %s = { %s, %s }  (line %d)",
		index, e.Identifier(), e.TypeConstant(), e.Default, e.Line)
}

func (m model) historyPrev() model {
	if m.historyIdx == 0 {
		return m
	}

	m.historyIdx--

	if line, err := m.history.GetLine(m.historyIdx); err == nil {
		m.input.SetValue(line)
		m.input.CursorEnd()
		m.tabActive = false
		m.refresh()
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len()-1 {
		m.reset()

		return m
	}

	m.historyIdx++

	if line, err := m.history.GetLine(m.historyIdx); err == nil {
		m.input.SetValue(line)
		m.input.CursorEnd()
		m.tabActive = false
		m.refresh()
	}

	return m
}
