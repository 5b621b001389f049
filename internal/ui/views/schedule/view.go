package schedule

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheduledto "elearn/internal/modules/schedule/dto"
	"elearn/internal/ui/render"
	"elearn/internal/ui/theme"
)

type Port interface {
	Deadlines(ctx context.Context, window string) (scheduledto.ScheduleOutput, error)
	Grades(ctx context.Context, sort string) (scheduledto.ScheduleOutput, error)
	Calendar(ctx context.Context, window string) (scheduledto.ScheduleOutput, error)
}

// LoadedMsg is routed by Kind to the view that requested it.
type LoadedMsg struct {
	Kind scheduledto.Kind
	Out  scheduledto.ScheduleOutput
	Err  error
}

var (
	windows = []string{"today", "week", "month", "all"}
	sorts   = []string{"grade", "date"}
)

// Model shows one schedule kind. Deadlines and calendar cycle through the
// window presets; grades toggle between the two sort orders.
type Model struct {
	kind     scheduledto.Kind
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	option   int
	loaded   bool
	loading  bool
	err      error
	width    int
	height   int
}

func New(kind scheduledto.Kind, port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	m := Model{kind: kind, port: port, viewport: viewport.New(0, 0), spinner: sp}
	if kind != scheduledto.KindGrades {
		m.option = 1
	}
	return m
}

func (m Model) Kind() scheduledto.Kind { return m.kind }

// Option is the active window preset or sort order.
func (m Model) Option() string {
	return m.options()[m.option]
}

// SetOption selects a window preset or sort order by name.
func (m *Model) SetOption(name string) bool {
	for i, v := range m.options() {
		if v == name {
			m.option = i
			return true
		}
	}
	return false
}

// Loaded reports whether the view has been populated at least once.
func (m Model) Loaded() bool { return m.loaded }

func (m *Model) Load() tea.Cmd {
	m.loading = true
	kind, port, option := m.kind, m.port, m.Option()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		var (
			out scheduledto.ScheduleOutput
			err error
		)
		switch kind {
		case scheduledto.KindGrades:
			out, err = port.Grades(ctx, option)
		case scheduledto.KindCalendar:
			out, err = port.Calendar(ctx, option)
		default:
			out, err = port.Deadlines(ctx, option)
		}
		return LoadedMsg{Kind: kind, Out: out, Err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		return m, nil

	case LoadedMsg:
		if msg.Kind != m.kind {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.viewport.SetContent(render.Schedule(msg.Out))
			m.viewport.GotoTop()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			cmd := m.Load()
			return m, cmd
		case "w", "s":
			if (msg.String() == "s") != (m.kind == scheduledto.KindGrades) {
				return m, nil
			}
			m.option = (m.option + 1) % len(m.options())
			cmd := m.Load()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Muted.Render(m.hint())
	switch {
	case m.loading:
		return header + "\n" + m.spinner.View() + " Loading " + string(m.kind) + "..."
	case m.err != nil:
		return header + "\n" + theme.Error.Render(m.err.Error())
	case !m.loaded:
		return header + "\n" + theme.Muted.Render("press r to load")
	}
	return header + "\n" + m.viewport.View()
}

func (m Model) hint() string {
	if m.kind == scheduledto.KindGrades {
		return "sort: " + m.Option() + "  (s: toggle  r: reload)"
	}
	return "window: " + m.Option() + "  (w: cycle  r: reload)"
}

func (m Model) options() []string {
	if m.kind == scheduledto.KindGrades {
		return sorts
	}
	return windows
}
