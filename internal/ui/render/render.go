// Package render turns schedule and course results into terminal tables.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	coursedto "elearn/internal/modules/course/dto"
	scheduledto "elearn/internal/modules/schedule/dto"
	"elearn/internal/ui/theme"
)

const titleWidth = 30

var printer = message.NewPrinter(language.English)

// Truncate shortens titles longer than 30 characters to 27 plus "...".
func Truncate(title string) string {
	if utf8.RuneCountInString(title) <= titleWidth {
		return title
	}
	runes := []rune(title)
	return string(runes[:titleWidth-3]) + "..."
}

// Percent renders a grade fraction with two decimals, 0.9 -> "90.00%".
func Percent(fraction float64) string {
	return printer.Sprint(number.Percent(fraction, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

var headings = map[scheduledto.Kind]string{
	scheduledto.KindDeadlines: "Deadlines",
	scheduledto.KindGrades:    "Grades",
	scheduledto.KindCalendar:  "Calendar Events",
}

var nouns = map[scheduledto.Kind]string{
	scheduledto.KindDeadlines: "deadlines",
	scheduledto.KindGrades:    "grades",
	scheduledto.KindCalendar:  "calendar events",
}

// EmptyMessage is printed instead of an empty table.
func EmptyMessage(kind scheduledto.Kind) string {
	return fmt.Sprintf("There are no %s available for your courses", nouns[kind])
}

// Schedule renders a heading, one table row per record in key order and a
// footer naming skipped items and failed courses.
func Schedule(out scheduledto.ScheduleOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(headings[out.Kind]))
	if out.Label != "" {
		sb.WriteString(theme.Muted.Render("  " + out.Label))
	}
	sb.WriteString("\n")

	if out.Empty() {
		sb.WriteString(EmptyMessage(out.Kind))
		sb.WriteString("\n")
	} else {
		sb.WriteString(newTable(columns(out.Kind), rows(out)).String())
		sb.WriteString("\n")
	}

	if out.Skipped > 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d malformed item(s) skipped", out.Skipped)))
		sb.WriteString("\n")
	}
	if len(out.FailedCourses) > 0 {
		sb.WriteString(theme.Error.Render("could not load: " + strings.Join(out.FailedCourses, ", ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

func columns(kind scheduledto.Kind) []string {
	switch kind {
	case scheduledto.KindGrades:
		return []string{"Name", "Date Graded", "Grade"}
	case scheduledto.KindCalendar:
		return []string{"Event", "Available Until"}
	default:
		return []string{"Assignment", "Deadline", "Submitted"}
	}
}

func rows(out scheduledto.ScheduleOutput) [][]string {
	var rows [][]string
	for _, bucket := range out.Buckets {
		for _, r := range bucket.Rows {
			title := Truncate(r.Title)
			switch out.Kind {
			case scheduledto.KindGrades:
				grade := "N/A"
				if r.Grade != nil {
					grade = Percent(*r.Grade)
				}
				rows = append(rows, []string{title, r.When, grade})
			case scheduledto.KindCalendar:
				rows = append(rows, []string{title, r.When})
			default:
				rows = append(rows, []string{title, r.When, r.Submitted})
			}
		}
	}
	return rows
}

// Courses lists the course directory and marks the working selection.
func Courses(dir coursedto.DirectoryOutput) string {
	selected := make(map[string]bool, len(dir.Selected))
	for _, c := range dir.Selected {
		selected[c.ID] = true
	}
	rows := make([][]string, 0, len(dir.Courses))
	for _, c := range dir.Courses {
		mark := ""
		if selected[c.ID] && !dir.All {
			mark = "*"
		}
		rows = append(rows, []string{mark, c.ID, c.Name})
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Courses"))
	if dir.All {
		sb.WriteString(theme.Muted.Render("  all selected"))
	}
	sb.WriteString("\n")
	if len(rows) == 0 {
		sb.WriteString("No courses loaded\n")
		return sb.String()
	}
	sb.WriteString(newTable([]string{"", "ID", "Name"}, rows).String())
	sb.WriteString("\n")
	return sb.String()
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header
			}
			return theme.Cell
		}).
		Headers(headers...).
		Rows(rows...)
}
