package dto

type Kind string

const (
	KindDeadlines Kind = "deadlines"
	KindGrades    Kind = "grades"
	KindCalendar  Kind = "calendar"
)

type WindowInput struct {
	Window string
}

type GradesInput struct {
	Sort string
}

// RowOutput is one record with its instants pre-formatted for display.
// Grade is a fraction where 1 means 100%. Key is the sort key; Secondary is
// the grade or submission time under date order, the graded time under grade
// order.
type RowOutput struct {
	Title     string
	When      string
	Submitted string
	Grade     *float64
	Key       *int64
	Secondary *int64
}

type BucketOutput struct {
	Key  int64
	Rows []RowOutput
}

type ScheduleOutput struct {
	Kind          Kind
	Label         string
	Sort          string
	Buckets       []BucketOutput
	Total         int
	Skipped       int
	FailedCourses []string
}

func (o ScheduleOutput) Empty() bool {
	return o.Total == 0
}
