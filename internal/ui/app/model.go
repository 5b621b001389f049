package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scheduledto "elearn/internal/modules/schedule/dto"
	sessiondto "elearn/internal/modules/session/dto"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/ui/components"
	"elearn/internal/ui/theme"
	coursesview "elearn/internal/ui/views/courses"
	helpview "elearn/internal/ui/views/help"
	scheduleview "elearn/internal/ui/views/schedule"
)

type SessionPort interface {
	Resume(ctx context.Context) (sessiondto.StatusOutput, error)
	Login(ctx context.Context, username, password string) (sessiondto.StatusOutput, error)
	Logout(ctx context.Context) error
}

type screen int

const (
	screenResuming screen = iota
	screenLogin
	screenMain
)

type tabID int

const (
	tabDeadlines tabID = iota
	tabGrades
	tabCalendar
	tabCourses
	tabCount
)

var tabLabels = [tabCount]string{"Deadlines", "Grades", "Calendar", "Courses"}

type resumedMsg struct{ err error }

type loggedInMsg struct{ err error }

type loggedOutMsg struct{ err error }

type keyMap struct {
	Tab     key.Binding
	Reload  key.Binding
	Window  key.Binding
	Sort    key.Binding
	Palette key.Binding
	Logout  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Window:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Reload, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Reload, k.Window, k.Sort},
		{k.Palette, k.Logout, k.Help, k.Quit},
	}
}

// Model is the root Bubble Tea model. It resumes the saved session, falls
// back to the login form and then routes between the schedule views.
type Model struct {
	session  SessionPort
	schedule scheduleview.Port

	login     components.Login
	palette   components.Palette
	spinner   spinner.Model
	schedules [tabCourses]scheduleview.Model
	courses   coursesview.Model
	guide     helpview.Model

	screen    screen
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	status    string
	width     int
	height    int
}

func NewModel(session SessionPort, courses coursesview.Port, schedule scheduleview.Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		session:  session,
		schedule: schedule,
		login:    components.NewLogin(),
		palette:  components.NewPalette(),
		spinner:  sp,
		schedules: [tabCourses]scheduleview.Model{
			scheduleview.New(scheduledto.KindDeadlines, schedule),
			scheduleview.New(scheduledto.KindGrades, schedule),
			scheduleview.New(scheduledto.KindCalendar, schedule),
		},
		courses: coursesview.New(courses),
		guide:   helpview.New(),
		keys:    defaultKeys(),
		help:    help.New(),
		status:  "resuming session...",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resumeCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.screen == screenResuming {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		for i := range m.schedules {
			var cmd tea.Cmd
			m.schedules[i], cmd = m.schedules[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.courses, cmd = m.courses.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case resumedMsg:
		if msg.err != nil {
			cmd := m.toLogin(resumeMessage(msg.err))
			return m, cmd
		}
		cmd := m.toMain("session resumed")
		return m, cmd

	case components.LoginSubmitMsg:
		m.status = "signing in..."
		return m, m.loginCmd(msg.Username, msg.Password)

	case loggedInMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrBadCredentials) {
				cmd := m.login.Reset("Incorrect login. Please try again.")
				return m, cmd
			}
			cmd := m.login.Reset(msg.err.Error())
			return m, cmd
		}
		cmd := m.toMain("signed in")
		return m, cmd

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
			return m, nil
		}
		cmd := m.toLogin("logged out")
		return m, cmd

	case scheduleview.LoadedMsg:
		if needsLogin(msg.Err) {
			cmd := m.toLogin(resumeMessage(msg.Err))
			return m, cmd
		}
		for i := range m.schedules {
			m.schedules[i], _ = m.schedules[i].Update(msg)
		}
		if msg.Err != nil {
			m.status = string(msg.Kind) + ": " + msg.Err.Error()
		} else {
			m.status = string(msg.Kind) + " updated"
		}
		return m, nil

	case coursesview.LoadedMsg:
		if needsLogin(msg.Err) {
			cmd := m.toLogin(resumeMessage(msg.Err))
			return m, cmd
		}
		var cmd tea.Cmd
		m.courses, cmd = m.courses.Update(msg)
		if msg.Err != nil {
			m.status = "courses: " + msg.Err.Error()
		}
		return m, cmd

	case coursesview.SelectedMsg:
		var cmd tea.Cmd
		m.courses, cmd = m.courses.Update(msg)
		if msg.Err != nil {
			m.status = "select course: " + msg.Err.Error()
			return m, cmd
		}
		m.status = "course selection updated"
		if msg.CourseID == "" {
			m.status = "all courses selected"
		}
		return m, tea.Batch(cmd, m.reloadSchedules())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil
	}

	switch m.screen {
	case screenResuming:
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case screenLogin:
		if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "ctrl+c" || k.String() == "esc") {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
	return m.updateMain(msg)
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if m.showHelp {
			switch k.String() {
			case "?", "esc", "q":
				m.showHelp = false
				return m, nil
			}
			var cmd tea.Cmd
			m.guide, cmd = m.guide.Update(msg)
			return m, cmd
		}
		if !(m.activeTab == tabCourses && m.courses.Filtering()) {
			switch k.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "tab":
				return m.switchTab((m.activeTab + 1) % tabCount)
			case "shift+tab":
				return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
			case "?":
				m.showHelp = true
				return m, nil
			case ":":
				cmd := m.palette.Open()
				return m, cmd
			case "L":
				return m, m.logoutCmd()
			case "r":
				if m.activeTab == tabCourses {
					cmd := m.courses.Load()
					return m, cmd
				}
			}
		}
	}

	var cmd tea.Cmd
	if m.activeTab == tabCourses {
		m.courses, cmd = m.courses.Update(msg)
	} else {
		m.schedules[m.activeTab], cmd = m.schedules[m.activeTab].Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.screen {
	case screenResuming:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.status)
	case screenLogin:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.login.View())
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.guide.View())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabCourses:
		content = lipgloss.NewStyle().Height(contentH).Render(m.courses.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.schedules[m.activeTab].View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := " " + tabLabels[i] + " "
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(label)
		} else {
			parts[i] = theme.Muted.Render(label)
		}
	}
	bar := "elearn  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.help.View(m.keys)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 || m.screen != screenMain {
		return m, nil
	}
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch parts[0] {
	case "deadlines", "grades", "calendar":
		tab := map[string]tabID{"deadlines": tabDeadlines, "grades": tabGrades, "calendar": tabCalendar}[parts[0]]
		if arg != "" && !m.schedules[tab].SetOption(arg) {
			m.status = "unknown option: " + arg
			return m, nil
		}
		m.activeTab = tab
		cmd := m.schedules[tab].Load()
		return m, cmd

	case "course":
		if arg == "" {
			m.status = "usage: course <id|all>"
			return m, nil
		}
		if arg == "all" {
			arg = ""
		}
		return m, m.courses.SelectCmd(arg)

	case "courses:refresh":
		m.activeTab = tabCourses
		cmd := m.courses.Load()
		return m, cmd

	case "logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m Model) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	if tab != tabCourses && !m.schedules[tab].Loaded() {
		cmd := m.schedules[tab].Load()
		return m, cmd
	}
	return m, nil
}

func (m *Model) toLogin(message string) tea.Cmd {
	m.screen = screenLogin
	m.status = message
	return m.login.Reset(message)
}

func (m *Model) toMain(status string) tea.Cmd {
	m.screen = screenMain
	m.status = status
	m.activeTab = tabDeadlines
	for i := range m.schedules {
		m.schedules[i] = scheduleview.New(m.schedules[i].Kind(), m.schedule)
	}
	m.propagateSize()
	return tea.Batch(m.courses.Load(), m.schedules[tabDeadlines].Load())
}

func (m *Model) reloadSchedules() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.schedules {
		if m.schedules[i].Loaded() {
			cmds = append(cmds, m.schedules[i].Load())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
	for i := range m.schedules {
		m.schedules[i], _ = m.schedules[i].Update(sz)
	}
	m.courses, _ = m.courses.Update(sz)
	m.guide, _ = m.guide.Update(sz)
}

// needsLogin reports whether err means the saved session can no longer
// authorize requests.
func needsLogin(err error) bool {
	return errors.Is(err, apperrors.ErrNoSession) || errors.Is(err, apperrors.ErrSessionExpired)
}

func resumeMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSessionExpired):
		return "Session expired. Please sign in again."
	case errors.Is(err, apperrors.ErrNoSession):
		return ""
	default:
		return err.Error()
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Resume(context.Background())
		return resumedMsg{err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Login(context.Background(), username, password)
		return loggedInMsg{err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.session.Logout(context.Background())}
	}
}
