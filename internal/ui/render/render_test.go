package render_test

import (
	"strings"
	"testing"

	coursedto "elearn/internal/modules/course/dto"
	scheduledto "elearn/internal/modules/schedule/dto"
	"elearn/internal/ui/render"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	exact := strings.Repeat("a", 30)
	if got := render.Truncate(exact); got != exact {
		t.Fatalf("30 characters must be kept, got %q", got)
	}
	long := "Chapter 12 Reading Response and Reflection"
	if got := render.Truncate(long); got != "Chapter 12 Reading Response..." || len([]rune(got)) != 30 {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := render.Truncate(strings.Repeat("é", 31)); got != strings.Repeat("é", 27)+"..." {
		t.Fatalf("truncation must count runes, got %q", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	cases := map[float64]string{0.9: "90.00%", 0.85: "85.00%", 1.1: "110.00%", 0.3333: "33.33%", 0: "0.00%"}
	for in, want := range cases {
		if got := render.Percent(in); got != want {
			t.Fatalf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestScheduleTables(t *testing.T) {
	t.Parallel()
	grade := 0.9
	out := scheduledto.ScheduleOutput{
		Kind:  scheduledto.KindGrades,
		Label: "By Grade",
		Total: 1,
		Buckets: []scheduledto.BucketOutput{{Key: 9000, Rows: []scheduledto.RowOutput{
			{Title: "Midterm Examination for Section Two", When: "May 01 2024 10:00:00", Grade: &grade},
		}}},
		Skipped:       2,
		FailedCourses: []string{"Chemistry"},
	}
	got := render.Schedule(out)
	for _, want := range []string{"Grades", "By Grade", "Name", "Date Graded", "Midterm Examination for Sec...", "90.00%", "2 malformed item(s) skipped", "could not load: Chemistry"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in\n%s", want, got)
		}
	}

	deadlines := scheduledto.ScheduleOutput{
		Kind:  scheduledto.KindDeadlines,
		Total: 1,
		Buckets: []scheduledto.BucketOutput{{Rows: []scheduledto.RowOutput{
			{Title: "Lab 1", When: "Jun 03 2024 23:59:00", Submitted: "N/A"},
		}}},
	}
	got = render.Schedule(deadlines)
	for _, want := range []string{"Assignment", "Deadline", "Submitted", "Lab 1", "N/A"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in\n%s", want, got)
		}
	}
}

func TestEmptySchedules(t *testing.T) {
	t.Parallel()
	cases := map[scheduledto.Kind]string{
		scheduledto.KindDeadlines: "There are no deadlines available for your courses",
		scheduledto.KindGrades:    "There are no grades available for your courses",
		scheduledto.KindCalendar:  "There are no calendar events available for your courses",
	}
	for kind, want := range cases {
		if got := render.Schedule(scheduledto.ScheduleOutput{Kind: kind}); !strings.Contains(got, want) {
			t.Fatalf("%s: missing empty message in %q", kind, got)
		}
	}
}

func TestCourses(t *testing.T) {
	t.Parallel()
	dir := coursedto.DirectoryOutput{
		Courses:  []coursedto.CourseOutput{{ID: "6606", Name: "Biology 101"}, {ID: "7707", Name: "Chemistry 110"}},
		Selected: []coursedto.CourseOutput{{ID: "7707", Name: "Chemistry 110"}},
	}
	got := render.Courses(dir)
	if !strings.Contains(got, "Biology 101") || !strings.Contains(got, "*") {
		t.Fatalf("unexpected courses table\n%s", got)
	}
	if got := render.Courses(coursedto.DirectoryOutput{All: true}); !strings.Contains(got, "No courses loaded") {
		t.Fatalf("unexpected empty directory %q", got)
	}
}
