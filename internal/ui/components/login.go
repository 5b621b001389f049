package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"elearn/internal/ui/theme"
)

// LoginSubmitMsg carries the credentials entered in the login form.
type LoginSubmitMsg struct {
	Username string
	Password string
}

var loginStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Padding(1, 2)

// Login is a two-field credential form. The password is never echoed.
type Login struct {
	username textinput.Model
	password textinput.Model
	focus    int
	message  string
}

func NewLogin() Login {
	user := textinput.New()
	user.Placeholder = "username or e-mail"
	user.CharLimit = 128
	user.Prompt = "Username: "

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 256
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	l := Login{username: user, password: pass}
	l.username.Focus()
	return l
}

// Reset clears the password, keeps the username and shows message.
func (l *Login) Reset(message string) tea.Cmd {
	l.message = message
	l.password.SetValue("")
	if strings.TrimSpace(l.username.Value()) == "" {
		l.focus = 0
		l.password.Blur()
		return l.username.Focus()
	}
	l.focus = 1
	l.username.Blur()
	return l.password.Focus()
}

func (l Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			return l, l.toggle()
		case "enter":
			if l.focus == 0 {
				return l, l.toggle()
			}
			user := strings.TrimSpace(l.username.Value())
			pass := l.password.Value()
			if user == "" || pass == "" {
				l.message = "username and password are required"
				return l, nil
			}
			l.message = "signing in..."
			return l, func() tea.Msg { return LoginSubmitMsg{Username: user, Password: pass} }
		}
	}
	var cmd tea.Cmd
	if l.focus == 0 {
		l.username, cmd = l.username.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	return l, cmd
}

func (l *Login) toggle() tea.Cmd {
	if l.focus == 0 {
		l.focus = 1
		l.username.Blur()
		return l.password.Focus()
	}
	l.focus = 0
	l.password.Blur()
	return l.username.Focus()
}

func (l Login) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign in to eLearn") + "\n\n")
	sb.WriteString(l.username.View() + "\n")
	sb.WriteString(l.password.View() + "\n")
	if l.message != "" {
		sb.WriteString("\n" + theme.Muted.Render(l.message) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab: switch field  enter: submit  ctrl+c: quit"))
	return loginStyle.Render(sb.String())
}
