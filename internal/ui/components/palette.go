package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"elearn/internal/ui/theme"
)

// PaletteSubmitMsg carries the command line confirmed with enter.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is sent when the palette is dismissed with esc.
type PaletteCancelMsg struct{}

type paletteCommand struct {
	name string
	args string
	help string
}

// Keep in sync with executePalette in ui/app.
var paletteCommands = []paletteCommand{
	{name: "deadlines", args: "[today|week|month|all]", help: "assignments due in a window"},
	{name: "calendar", args: "[today|week|month|all]", help: "calendar events in a window"},
	{name: "grades", args: "[grade|date]", help: "graded items by grade or date"},
	{name: "course", args: "<id|all>", help: "narrow to one course or all"},
	{name: "courses:refresh", help: "reload the enrollment list"},
	{name: "logout", help: "forget the saved session"},
}

var paletteStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Palette is a one-line command prompt. Tab completes the first matching
// command name and up recalls the previous command.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	last    string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "deadlines week"
	ti.CharLimit = 128
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.close()
			if line != "" {
				p.last = line
			}
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			if matches := p.matches(); len(matches) > 0 && !strings.Contains(p.input.Value(), " ") {
				p.input.SetValue(matches[0].name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.last != "" {
				p.input.SetValue(p.last)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// matches lists the commands whose name starts with the first typed word.
func (p Palette) matches() []paletteCommand {
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimLeft(p.input.Value(), " ")), " ")
	var out []paletteCommand
	for _, c := range paletteCommands {
		if strings.HasPrefix(c.name, word) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if matches := p.matches(); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			usage := c.name
			if c.args != "" {
				usage += " " + c.args
			}
			sb.WriteString(theme.Hot.Render(usage) + "  " + theme.Muted.Render(c.help) + "\n")
		}
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(strings.TrimRight(sb.String(), "\n"))
}
