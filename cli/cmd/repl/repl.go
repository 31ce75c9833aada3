package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/tmpl"
)

// editDoneMsg is sent when an edited template checked successfully.
type editDoneMsg struct{ template *tmpl.Template }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const prompt = "$ "

func helpMessage() string {
	return `
Type a template line to render it against the context.

Commands:
  :help              Print this cruft
  :set name=value    Bind a member (value is a literal: true, ["a"], {"k": "v"}, words)
  :unset name        Remove a top-level member
  :ctx               Print the context as YAML
  :paths             List the dotted path of every leaf member
  :edit              Edit a multi-line template in $EDITOR and render it
  :clear             Clear screen
  :quit              Exit REPL

Completions for context members appear after '$' and '.'.
Press Tab / Shift-Tab to cycle through candidates.
Use Up/Down arrows for history navigation.
Press Ctrl+C on empty line or Ctrl+D to exit.
`
}

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

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	context      tmpl.Context
	opts         []tmpl.Option
	logger       log.Logger
	history      *History
	source       string        // last template edited with :edit
	matches      fuzzy.Matches // current fuzzy match results
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	preTabText   string
	tabActive    bool
	quitting     bool
}

// Run starts an interactive session rendering lines against c.
// History is kept in cacheDir; an empty cacheDir keeps it in memory.
func Run(
	ctx context.Context,
	c tmpl.Context,
	cacheDir string,
	logger log.Logger,
	opts ...tmpl.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("members", c.Len()),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, c, history, logger, opts...)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	c tmpl.Context,
	history *History,
	logger log.Logger,
	opts ...tmpl.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		context:    c,
		opts:       append(slices.Clip(opts), tmpl.WithLogger(logger)),
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

	case editDoneMsg:
		m.source = msg.template.Source()

		out, err := msg.template.Render(m.ctxFunc(), m.context)
		if err != nil {
			return m, tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		return m, tea.Println(resultStyle.Render(out))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a template, or :help for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)
		}

		return m, nil
	}

	if msg.Type == tea.KeyRunes && m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if msg.Type != tea.KeyRunes {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle steps through the completion candidates in direction dir. A single
// candidate is completed immediately.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func refreshMatches(m *model) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

// historyMove steps through history by delta, clearing the input when moving
// past the newest entry.
func (m model) historyMove(delta int) model {
	idx := m.historyIdx + delta
	if idx < 0 {
		return m
	}

	m.tabActive = false

	line, err := m.history.Line(idx)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
	} else {
		m.historyIdx = idx
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	refreshMatches(&m)

	return m
}

// outcome is the result of one submitted line.
type outcome struct {
	text  string
	err   error
	quit  bool
	clear bool
	edit  bool
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(input))
	res := m.eval(input)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
		slog.Bool("error", res.err != nil),
	)

	switch {
	case res.quit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case res.clear:
		return m, tea.ClearScreen

	case res.edit:
		return m, tea.Sequence(echo, m.handleEdit())

	case res.err != nil:
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+res.err.Error())))

	default:
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(res.text)))
	}
}

// eval executes one line: a command when prefixed with ':', otherwise a
// template rendered against the current context. Commands that change the
// context update m.
func (m *model) eval(line string) outcome {
	rest, isCommand := strings.CutPrefix(line, commandPrefix)
	if !isCommand {
		out, err := tmpl.Render(m.ctxFunc(), m.context, line, m.opts...)

		return outcome{text: out, err: err}
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return outcome{quit: true}

	case "h", "help":
		return outcome{text: helpMessage()}

	case "c", "clear":
		return outcome{clear: true}

	case "e", "edit":
		return outcome{edit: true}

	case "set":
		key, value, ok := strings.Cut(arg, "=")
		if key = strings.TrimSpace(key); !ok || key == "" {
			return outcome{err: fmt.Errorf("%w: :set name=value", ErrUsage)}
		}

		m.context = bind(m.context, key, tmpl.ParseLiteral(strings.TrimSpace(value), m.context))

		return outcome{text: key + " = " + m.context.Resolve(key).String()}

	case "unset":
		if arg == "" {
			return outcome{err: fmt.Errorf("%w: :unset name", ErrUsage)}
		}

		m.context = m.context.Without(arg)

		return outcome{text: "unset " + arg}

	case "ctx":
		data, err := yaml.Marshal(tmpl.ToNative(m.context.Value()))
		if err != nil {
			return outcome{err: err}
		}

		return outcome{text: strings.TrimSuffix(string(data), "\n")}

	case "paths":
		return outcome{text: strings.Join(m.context.Paths(), "\n")}

	default:
		return outcome{err: fmt.Errorf("%w: %s (try :help)", ErrUnknown, name)}
	}
}

// bind sets the member at dotted path name, creating intermediate objects
// and replacing any non-object found along the way.
func bind(c tmpl.Context, name string, v tmpl.Value) tmpl.Context {
	head, tail, nested := strings.Cut(name, ".")
	if !nested {
		return c.Bind(name, v)
	}

	obj, _ := c.Resolve(head).AsObject()

	return c.Bind(head, bind(tmpl.NewContext(obj), tail, v).Value())
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editCommand{
		source:  m.source,
		ctxFunc: m.ctxFunc,
		opts:    m.opts,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == nil {
			return editCancelledMsg{}
		}

		return editDoneMsg{template: cmd.edited}
	})
}
