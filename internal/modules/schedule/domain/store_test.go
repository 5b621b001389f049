package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"elearn/internal/modules/schedule/domain"
	"elearn/internal/platform/siren"
	"elearn/internal/platform/timecodec"
)

var utc = timecodec.New(time.UTC, time.UTC)

func ms(t time.Time) int64 { return t.UnixMilli() }

func strp(v string) *string   { return &v }
func f64p(v float64) *float64 { return &v }
func i64p(v int64) *int64     { return &v }

func dueNode(title string, d domain.DueDate, children ...domain.Node) domain.Node {
	return domain.Node{Due: &domain.DueItem{Title: title, Date: d}, Children: children}
}

func TestDeadlineInsideAndOutsideWindow(t *testing.T) {
	t.Parallel()
	root := domain.Node{Children: []domain.Node{dueNode("Essay", domain.DueDate{Year: 2024, Month: 3, Day: 15, Hour: 23, Minute: 59})}}
	t0 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	inside := domain.NewStore(domain.Window{Min: ms(t0), Max: ms(t0.Add(7 * 24 * time.Hour))}, domain.SortByTimestamp, utc)
	inside.AddDeadlines(&root)
	buckets := inside.Buckets()
	if len(buckets) != 1 || buckets[0].Records[0].Title != "Essay" {
		t.Fatalf("expected essay inside window, got %+v", buckets)
	}
	if want := ms(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)); buckets[0].Key != want {
		t.Fatalf("expected key %d, got %d", want, buckets[0].Key)
	}
	if buckets[0].Records[0].Submitted != nil {
		t.Fatalf("expected no submission")
	}

	outside := domain.NewStore(domain.Window{Min: ms(t0.Add(-7 * 24 * time.Hour)), Max: ms(t0)}, domain.SortByTimestamp, utc)
	outside.AddDeadlines(&root)
	if !outside.Empty() {
		t.Fatalf("expected essay excluded, got %+v", outside.Buckets())
	}
}

func TestDeadlineFindsNestedSubmission(t *testing.T) {
	t.Parallel()
	payload := `{
	  "entities": [{
	    "properties": {"title": "Lab 1", "dueDate": {"Year": 2024, "Month": 3, "Day": 15, "Hour": 12, "Minute": 0, "Second": 0}},
	    "entities": [{
	      "class": ["activity"],
	      "entities": [
	        {"class": ["completion", "date"], "properties": {"date": "2024-03-14T08:30:00.000Z"}},
	        {"class": ["completion", "date"], "properties": {"date": "2024-03-15T08:30:00.000Z"}}
	      ]
	    }]
	  }]
	}`
	entity, err := siren.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	root := domain.NodeFromEntity(entity)
	store := domain.NewStore(domain.Window{}, domain.SortByTimestamp, utc)
	store.AddDeadlines(&root)

	buckets := store.Buckets()
	if len(buckets) != 1 {
		t.Fatalf("expected one bucket, got %+v", buckets)
	}
	got := buckets[0].Records[0].Submitted
	want := ms(time.Date(2024, 3, 14, 8, 30, 0, 0, time.UTC))
	if got == nil || *got != want {
		t.Fatalf("expected first marker %d, got %v", want, got)
	}
}

func TestDeadlinesRecurseIntoMatchedNodesAndSkipBadOnes(t *testing.T) {
	t.Parallel()
	inner := dueNode("Quiz", domain.DueDate{Year: 2024, Month: 4, Day: 1})
	outer := dueNode("Module", domain.DueDate{Year: 2024, Month: 5, Day: 1}, inner)
	bad := dueNode("Broken", domain.DueDate{Year: 2024, Month: 13, Day: 1})
	root := domain.Node{Children: []domain.Node{outer, bad, {Incomplete: true}}}

	store := domain.NewStore(domain.Window{}, domain.SortByTimestamp, utc)
	store.AddDeadlines(&root)
	store.AddDeadlines(nil)

	buckets := store.Buckets()
	if len(buckets) != 2 || buckets[0].Records[0].Title != "Quiz" || buckets[1].Records[0].Title != "Module" {
		t.Fatalf("expected quiz then module, got %+v", buckets)
	}
	if store.Skipped() != 2 {
		t.Fatalf("expected two skipped nodes, got %d", store.Skipped())
	}
}

func TestDeadlinesCountMalformedSiblings(t *testing.T) {
	t.Parallel()
	payload := `{
	  "entities": [
	    {"properties": {"title": "Lab 2", "dueDate": {"Year": 2024, "Month": 3, "Day": 20, "Hour": 9, "Minute": 0, "Second": 0}}},
	    {"class": "completion"}
	  ]
	}`
	entity, err := siren.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	root := domain.NodeFromEntity(entity)
	store := domain.NewStore(domain.Window{}, domain.SortByTimestamp, utc)
	store.AddDeadlines(&root)

	buckets := store.Buckets()
	if len(buckets) != 1 || buckets[0].Records[0].Title != "Lab 2" {
		t.Fatalf("expected the valid sibling to survive, got %+v", buckets)
	}
	if store.Skipped() != 1 {
		t.Fatalf("expected one skipped node, got %d", store.Skipped())
	}
}

func TestGradesSortedByGrade(t *testing.T) {
	t.Parallel()
	store := domain.NewStore(domain.Window{}, domain.SortByGrade, utc)
	store.AddGrades([]domain.GradeItem{{
		GradeObjectName:   strp("Intro Quiz"),
		PointsNumerator:   f64p(9),
		PointsDenominator: f64p(10),
		LastModified:      strp("2024-01-02T10:00:00"),
	}})
	buckets := store.Buckets()
	if len(buckets) != 1 || buckets[0].Key != 9000 {
		t.Fatalf("expected bucket 9000, got %+v", buckets)
	}
	rec := buckets[0].Records[0]
	want := ms(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	if rec.Title != "Intro Quiz" || rec.Secondary(domain.SortByGrade) == nil || *rec.Secondary(domain.SortByGrade) != want {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGradesAdmitNegativeAndPre1970Keys(t *testing.T) {
	t.Parallel()
	penalty := domain.GradeItem{
		GradeObjectName:   strp("Late penalty"),
		PointsNumerator:   f64p(-2),
		PointsDenominator: f64p(10),
		LastModified:      strp("1969-12-31T00:00:00"),
	}

	byGrade := domain.NewStore(domain.Unbounded, domain.SortByGrade, utc)
	byGrade.AddGrades([]domain.GradeItem{penalty})
	if byGrade.Len() != 1 || byGrade.Buckets()[0].Key != -2000 {
		t.Fatalf("expected negative grade bucket, got %+v", byGrade.Buckets())
	}

	byDate := domain.NewStore(domain.Unbounded, domain.SortByTimestamp, utc)
	byDate.AddGrades([]domain.GradeItem{penalty})
	want := ms(time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC))
	if byDate.Len() != 1 || byDate.Buckets()[0].Key != want {
		t.Fatalf("expected pre-1970 bucket %d, got %+v", want, byDate.Buckets())
	}
	if byGrade.Skipped() != 0 || byDate.Skipped() != 0 {
		t.Fatalf("nothing should be skipped")
	}
}

func TestGradesSortedByDateAndSkipped(t *testing.T) {
	t.Parallel()
	store := domain.NewStore(domain.Window{}, domain.SortByTimestamp, utc)
	store.AddGrades([]domain.GradeItem{
		{GradeObjectName: strp("Late"), PointsNumerator: f64p(1), PointsDenominator: f64p(3), LastModified: strp("2024-02-01T00:00:00")},
		{GradeObjectName: strp("Early"), PointsNumerator: f64p(2), PointsDenominator: f64p(3), LastModified: strp("2024-01-01T00:00:00")},
		{GradeObjectName: strp("Ungraded"), PointsDenominator: f64p(10), LastModified: strp("2024-01-01T00:00:00")},
		{GradeObjectName: strp("Zero"), PointsNumerator: f64p(1), PointsDenominator: f64p(0), LastModified: strp("2024-01-01T00:00:00")},
		{GradeObjectName: strp("Bad date"), PointsNumerator: f64p(1), PointsDenominator: f64p(1), LastModified: strp("soon")},
	})
	buckets := store.Buckets()
	if len(buckets) != 2 || buckets[0].Records[0].Title != "Early" {
		t.Fatalf("expected early first, got %+v", buckets)
	}
	if g := buckets[0].Records[0].Secondary(domain.SortByTimestamp); g == nil || *g != 6667 {
		t.Fatalf("expected rounded grade 6667, got %v", g)
	}
	if store.Skipped() != 3 {
		t.Fatalf("expected three skipped, got %d", store.Skipped())
	}
}

func TestCalendarAppendSemantics(t *testing.T) {
	t.Parallel()
	window := domain.Window{Min: ms(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), Max: ms(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))}
	inside := domain.CalendarEvent{Title: strp("Office hours"), EndDateTime: strp("2024-06-10T17:00:00.000Z")}
	outside := domain.CalendarEvent{Title: strp("Final"), EndDateTime: strp("2024-07-10T17:00:00.000Z")}
	noEnd := domain.CalendarEvent{Title: strp("Open ended")}

	store := domain.NewStore(window, domain.SortByTimestamp, utc)
	store.AddCalendarEvents([]domain.CalendarEvent{outside, inside, noEnd})
	store.AddCalendarEvents([]domain.CalendarEvent{outside, inside})
	store.AddCalendarEvents(nil)

	buckets := store.Buckets()
	if len(buckets) != 1 || len(buckets[0].Records) != 2 {
		t.Fatalf("expected the in-window event twice, got %+v", buckets)
	}
	if store.Len() != 2 || store.Skipped() != 0 {
		t.Fatalf("unexpected len/skipped %d/%d", store.Len(), store.Skipped())
	}
}

func TestEveryKeyLiesInWindow(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		min := rng.Int63n(1_000_000)
		max := int64(0)
		if round%2 == 0 {
			max = min + rng.Int63n(1_000_000)
		}
		store := domain.NewStore(domain.Window{Min: min, Max: max}, domain.SortByTimestamp, utc)
		for i := 0; i < 100; i++ {
			store.Add(domain.Record{Title: "x", Timestamp: i64p(rng.Int63n(3_000_000))})
		}
		prev := int64(-1)
		for _, b := range store.Buckets() {
			if b.Key < min || (max != 0 && b.Key > max) {
				t.Fatalf("key %d outside [%d, %d]", b.Key, min, max)
			}
			if b.Key <= prev {
				t.Fatalf("keys not ascending: %d after %d", b.Key, prev)
			}
			prev = b.Key
		}
	}
}

func TestAddRejectsMissingKey(t *testing.T) {
	t.Parallel()
	store := domain.NewStore(domain.Window{}, domain.SortByGrade, utc)
	if store.Add(domain.Record{Title: "no grade", Timestamp: i64p(1)}) {
		t.Fatalf("record without grade must be rejected in grade mode")
	}
}
