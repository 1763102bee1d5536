package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/rpn"
	"github.com/san-kum/buckingham/internal/viz"
)

const historyLen = 60

// Preset is an expression the REPL can load, with the variables it needs.
type Preset struct {
	Name        string
	Description string
	Tokens      []string
	Vars        map[string]quantity.Quantity
}

type Options struct {
	Evaluator *rpn.Evaluator
	Decimals  int
	Style     quantity.Style
	Theme     viz.Theme
	Presets   []Preset
}

type state int

const (
	stateInput state = iota
	statePresets
)

type model struct {
	state state
	ev    *rpn.Evaluator
	stack *rpn.Stack

	input   string
	lines   []string
	recall  int
	values  []float64
	message string
	err     error

	presets []Preset
	cursor  int

	styles   viz.Styles
	style    quantity.Style
	decimals int

	width  int
	height int
}

func NewREPL(opts Options) *model {
	ev := opts.Evaluator
	if ev == nil {
		ev = &rpn.Evaluator{}
	}
	if ev.Vars == nil {
		ev.Vars = make(map[string]quantity.Quantity)
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = viz.ThemeLab
	}
	return &model{
		state:    stateInput,
		ev:       ev,
		stack:    rpn.NewStack(),
		recall:   -1,
		presets:  opts.Presets,
		styles:   viz.NewStyles(theme),
		style:    opts.Style,
		decimals: opts.Decimals,
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case statePresets:
		return m.presetKey(msg)
	default:
		return m.inputKey(msg)
	}
}

func (m model) inputKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.submit()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.input = ""
	case tea.KeyCtrlL:
		m.stack.Clear()
		m.values = nil
		m.message, m.err = "stack cleared", nil
	case tea.KeyCtrlT:
		m.styles = viz.NewStyles(viz.NextTheme(m.styles.Theme))
		m.message = "theme " + m.styles.Theme.Name
	case tea.KeyTab:
		if len(m.presets) > 0 {
			m.state = statePresets
		}
	case tea.KeyUp:
		if len(m.lines) > 0 {
			if m.recall < 0 {
				m.recall = len(m.lines)
			}
			m.recall = max(m.recall-1, 0)
			m.input = m.lines[m.recall]
		}
	case tea.KeyDown:
		if m.recall >= 0 && m.recall < len(m.lines)-1 {
			m.recall++
			m.input = m.lines[m.recall]
		} else {
			m.recall = -1
			m.input = ""
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m model) presetKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "tab", "q":
		m.state = stateInput
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		p := m.presets[m.cursor]
		for name, v := range p.Vars {
			m.ev.Vars[name] = v
		}
		m.input = strings.Join(p.Tokens, " ")
		m.message, m.err = "loaded "+p.Name, nil
		m.state = stateInput
	}
	return m, nil
}

// submit runs the input line against the persistent stack.
func (m *model) submit() {
	line := strings.TrimSpace(m.input)
	m.input = ""
	m.recall = -1
	if line == "" {
		return
	}
	m.lines = append(m.lines, line)

	if err := m.ev.Run(m.stack, strings.Fields(line)); err != nil {
		m.message, m.err = "", err
		return
	}
	m.err = nil
	m.message = ""
	if top, err := m.stack.Peek(); err == nil {
		m.values = append(m.values, top.Value())
		if len(m.values) > historyLen {
			m.values = m.values[len(m.values)-historyLen:]
		}
	}
}

func (m model) View() string {
	if m.state == statePresets {
		return m.viewPresets()
	}
	return m.viewInput()
}

func (m model) viewInput() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n  " + viz.GradientText("b u c k i n g h a m", s.Theme.Primary, s.Theme.Accent) + "\n")
	b.WriteString(s.Muted.Render("  "+strings.Repeat("─", 40)) + "\n\n")

	vals := m.stack.Values()
	if len(vals) == 0 {
		b.WriteString(s.Muted.Render("  (empty stack)") + "\n")
	}
	for i, q := range vals {
		level := len(vals) - i
		b.WriteString(fmt.Sprintf("  %s %s\n", s.Muted.Render(fmt.Sprintf("%2d:", level)), s.Quantity(q, m.style, m.decimals)))
	}

	if len(m.values) > 1 {
		b.WriteString("\n  " + viz.Sparkline(m.values, min(len(m.values), 40), s.Units) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString("  " + s.Error.Render(m.err.Error()) + "\n")
	case m.message != "":
		b.WriteString("  " + s.Muted.Render(m.message) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("  " + s.Title.Render("›") + " " + m.input + "▋\n\n")
	b.WriteString(s.Key.Render("  enter eval  ↑↓ history  tab presets  ctrl+l clear  ctrl+t theme  esc quit") + "\n")
	return b.String()
}

func (m model) viewPresets() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n  " + s.Title.Render("presets") + "\n")
	b.WriteString(s.Muted.Render("  "+strings.Repeat("─", 40)) + "\n\n")
	for i, p := range m.presets {
		if i == m.cursor {
			b.WriteString("  " + s.Title.Render("▸ ") + s.Value.Render(fmt.Sprintf("%-12s", p.Name)) + s.Muted.Render(p.Description) + "\n")
		} else {
			b.WriteString("    " + s.Muted.Render(fmt.Sprintf("%-12s", p.Name)+p.Description) + "\n")
		}
	}
	b.WriteString("\n" + s.Key.Render("  ↑↓ select  enter load  esc back") + "\n")
	return b.String()
}

// RunREPL starts the calculator on the alternate screen.
func RunREPL(opts Options) error {
	p := tea.NewProgram(NewREPL(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
