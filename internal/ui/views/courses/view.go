package courses

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coursedto "elearn/internal/modules/course/dto"
	"elearn/internal/ui/theme"
)

type Port interface {
	Refresh(ctx context.Context) (coursedto.DirectoryOutput, error)
	List(ctx context.Context) (coursedto.DirectoryOutput, error)
	Select(ctx context.Context, courseID string) error
}

type LoadedMsg struct {
	Directory coursedto.DirectoryOutput
	Err       error
}

// SelectedMsg reports a changed selection; an empty CourseID means all courses.
type SelectedMsg struct {
	CourseID string
	Err      error
}

const allID = ""

type courseItem struct {
	course   coursedto.CourseOutput
	selected bool
}

func (i courseItem) Title() string {
	if i.selected {
		return "● " + i.course.Name
	}
	return i.course.Name
}

func (i courseItem) Description() string {
	if i.course.ID == allID {
		return "gather every enrolled course"
	}
	return "id " + i.course.ID
}

func (i courseItem) FilterValue() string { return i.course.Name }

type Model struct {
	port    Port
	list    list.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Courses"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp}
}

// Load fetches the course list from the server.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		dir, err := port.Refresh(context.Background())
		return LoadedMsg{Directory: dir, Err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			cmds = append(cmds, m.list.SetItems(items(msg.Directory)))
		}

	case SelectedMsg:
		if msg.Err == nil {
			port := m.port
			cmds = append(cmds, func() tea.Msg {
				dir, err := port.List(context.Background())
				return LoadedMsg{Directory: dir, Err: err}
			})
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(courseItem); ok {
				cmds = append(cmds, m.SelectCmd(item.course.ID))
			}
			return m, tea.Batch(cmds...)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading courses...")
	}
	if m.err != nil {
		return theme.Error.Render("courses: "+m.err.Error()) + "\n" + theme.Muted.Render("press r to retry")
	}
	return m.list.View()
}

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SelectCmd selects a course by id, or every course for an empty id.
func (m Model) SelectCmd(courseID string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		err := port.Select(context.Background(), courseID)
		return SelectedMsg{CourseID: courseID, Err: err}
	}
}

func items(dir coursedto.DirectoryOutput) []list.Item {
	out := make([]list.Item, 0, len(dir.Courses)+1)
	out = append(out, courseItem{course: coursedto.CourseOutput{ID: allID, Name: "All courses"}, selected: dir.All})
	for _, c := range dir.Courses {
		out = append(out, courseItem{course: c, selected: !dir.All && len(dir.Selected) == 1 && dir.Selected[0].ID == c.ID})
	}
	return out
}
