package help

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const guide = `# elearn

Deadlines, grades and calendar events from every enrolled course in one place.

## Keys

| key | action |
|-----|--------|
| tab / shift+tab | switch view |
| r | reload the current view |
| w | cycle window: today, week, month, all |
| s | toggle grade sort: grade, date |
| enter | select a course (Courses view) |
| : | command palette |
| L | log out |
| ? | close this help |
| q | quit |

## Palette commands

- ` + "`deadlines week`" + `, ` + "`calendar month`" + `
- ` + "`grades date`" + `
- ` + "`course 6606`" + `, ` + "`course all`" + `
- ` + "`courses:refresh`" + `, ` + "`logout`" + `
`

// Model renders the key guide as markdown.
type Model struct {
	viewport viewport.Model
	width    int
}

func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.viewport.Width = size.Width
		m.viewport.Height = max(size.Height, 1)
		m.viewport.SetContent(Render(size.Width))
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// Render returns the guide styled for a terminal of the given width; on a
// renderer failure the raw markdown is returned.
func Render(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return guide
	}
	out, err := r.Render(guide)
	if err != nil {
		return guide
	}
	return out
}
