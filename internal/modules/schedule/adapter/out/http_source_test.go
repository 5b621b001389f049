package out_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	scheduleout "elearn/internal/modules/schedule/adapter/out"
	"elearn/internal/modules/schedule/domain"
	"elearn/internal/platform/config"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/timecodec"
	"elearn/internal/platform/transport"
)

const sequence = `{
  "class": ["sequence"],
  "entities": [
    {
      "class": ["sequence"],
      "properties": {"title": "Week 1"},
      "entities": [
        {
          "class": ["sequenced-activity"],
          "properties": {"title": "Lab 1", "dueDate": {"Year": 2024, "Month": 6, "Day": 3, "Hour": 23, "Minute": 59, "Second": 0}},
          "entities": [
            {"class": ["activity-usage"], "entities": [
              {"class": ["completion", "date"], "properties": {"date": "2024-06-02T15:00:00.000Z"}}
            ]}
          ]
        }
      ]
    }
  ]
}`

func newSource(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/seq/6606":
			_, _ = io.WriteString(w, sequence)
		case "/d2l/api/le/1.67/6606/grades/values/42/":
			_, _ = io.WriteString(w, `[
			  {"GradeObjectName": "Quiz 1", "PointsNumerator": 9, "PointsDenominator": 10, "LastModified": "2024-05-01T10:00:00.000Z"},
			  {"GradeObjectName": "Quiz 2", "PointsNumerator": "nine"}
			]`)
		case "/d2l/api/le/1.67/6606/calendar/events/":
			_, _ = io.WriteString(w, `[{"Title": "Exam", "StartDateTime": "2024-06-20T16:00:00.000Z", "EndDateTime": "2024-06-20T18:00:00.000Z"}]`)
		case "/d2l/api/le/1.67/9999/calendar/events/":
			_, _ = io.WriteString(w, `<html>maintenance</html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSourceFeedsStore(t *testing.T) {
	t.Parallel()
	srv := newSource(t)
	cfg, err := config.Resolve(t.TempDir(), config.File{BaseURL: srv.URL, SequencesURL: srv.URL + "/seq"})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	src := scheduleout.NewHTTPSource(transport.NewHTTPClient(5*time.Second, "test", nil), cfg.Endpoints(), nil)
	codec := timecodec.New(time.UTC, time.UTC)
	ctx := context.Background()

	root, err := src.Deadlines(ctx, "tok", "6606")
	if err != nil {
		t.Fatalf("deadlines: %v", err)
	}
	store := domain.NewStore(domain.Window{}, domain.SortByTimestamp, codec)
	store.AddDeadlines(&root)
	buckets := store.Buckets()
	if len(buckets) != 1 || buckets[0].Records[0].Title != "Lab 1" || buckets[0].Records[0].Submitted == nil {
		t.Fatalf("unexpected deadlines %+v", buckets)
	}

	grades, err := src.Grades(ctx, "tok", "6606", "42")
	if err != nil {
		t.Fatalf("grades: %v", err)
	}
	if len(grades) != 1 || *grades[0].GradeObjectName != "Quiz 1" {
		t.Fatalf("expected malformed grade to be dropped, got %+v", grades)
	}

	events, err := src.CalendarEvents(ctx, "tok", "6606")
	if err != nil || len(events) != 1 {
		t.Fatalf("unexpected events %+v (%v)", events, err)
	}

	if _, err := src.CalendarEvents(ctx, "tok", "9999"); !errors.Is(err, apperrors.ErrParse) {
		t.Fatalf("expected parse error for html body, got %v", err)
	}
	if _, err := src.Deadlines(ctx, "tok", "404"); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error for missing course, got %v", err)
	}
	if _, err := src.Grades(ctx, "expired", "6606", "42"); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error for rejected token, got %v", err)
	}
}
