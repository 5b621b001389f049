package usecase

import (
	"context"

	coursedto "elearn/internal/modules/course/dto"
	coursein "elearn/internal/modules/course/port/in"
	"elearn/internal/modules/schedule/domain"
	scheduledto "elearn/internal/modules/schedule/dto"
	schedulein "elearn/internal/modules/schedule/port/in"
	"elearn/internal/modules/schedule/service"
	sessionin "elearn/internal/modules/session/port/in"
	"elearn/internal/platform/timecodec"
)

type Interactor struct {
	svc     *service.ScheduleService
	session sessionin.Usecase
	courses coursein.Usecase
}

func NewInteractor(svc *service.ScheduleService, session sessionin.Usecase, courses coursein.Usecase) schedulein.Usecase {
	return &Interactor{svc: svc, session: session, courses: courses}
}

func (i *Interactor) Deadlines(ctx context.Context, input scheduledto.WindowInput) (scheduledto.ScheduleOutput, error) {
	preset := domain.Preset(input.Window)
	if err := preset.Validate(); err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	token, _, refs, err := i.prepare(ctx)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	result, err := i.svc.Deadlines(ctx, token, refs, preset)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	return toOutput(scheduledto.KindDeadlines, preset.Label(), result, i.svc.Codec()), nil
}

func (i *Interactor) Grades(ctx context.Context, input scheduledto.GradesInput) (scheduledto.ScheduleOutput, error) {
	mode, err := domain.ParseSortMode(input.Sort)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	token, userID, refs, err := i.prepare(ctx)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	result, err := i.svc.Grades(ctx, token, userID, refs, mode)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	label := "By Grade"
	if mode == domain.SortByTimestamp {
		label = "By Date Graded"
	}
	return toOutput(scheduledto.KindGrades, label, result, i.svc.Codec()), nil
}

func (i *Interactor) Calendar(ctx context.Context, input scheduledto.WindowInput) (scheduledto.ScheduleOutput, error) {
	preset := domain.Preset(input.Window)
	if err := preset.Validate(); err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	token, _, refs, err := i.prepare(ctx)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	result, err := i.svc.Calendar(ctx, token, refs, preset)
	if err != nil {
		return scheduledto.ScheduleOutput{}, err
	}
	return toOutput(scheduledto.KindCalendar, preset.Label(), result, i.svc.Codec()), nil
}

// prepare authorizes and resolves the working course list.
func (i *Interactor) prepare(ctx context.Context) (string, string, []domain.CourseRef, error) {
	auth, err := i.session.Authorize(ctx)
	if err != nil {
		return "", "", nil, err
	}
	courses, err := i.courses.Selected(ctx)
	if err != nil {
		return "", "", nil, err
	}
	return auth.BearerToken, auth.UserID, toRefs(courses), nil
}

func toRefs(courses []coursedto.CourseOutput) []domain.CourseRef {
	out := make([]domain.CourseRef, 0, len(courses))
	for _, c := range courses {
		out = append(out, domain.CourseRef{ID: c.ID, Name: c.Name})
	}
	return out
}

func toOutput(kind scheduledto.Kind, label string, result service.Result, codec timecodec.Codec) scheduledto.ScheduleOutput {
	store := result.Store
	out := scheduledto.ScheduleOutput{
		Kind:    kind,
		Label:   label,
		Sort:    store.Mode().String(),
		Total:   store.Len(),
		Skipped: store.Skipped(),
	}
	for _, c := range result.Failed {
		out.FailedCourses = append(out.FailedCourses, c.Name)
	}
	mode := store.Mode()
	for _, bucket := range store.Buckets() {
		rows := make([]scheduledto.RowOutput, 0, len(bucket.Records))
		for _, r := range bucket.Records {
			row := scheduledto.RowOutput{
				Title:     r.Title,
				When:      codec.Format(r.Timestamp),
				Submitted: codec.FormatShort(r.Submitted),
				Key:       r.Key(mode),
				Secondary: r.Secondary(mode),
			}
			if r.Grade != nil {
				g := domain.DecodeGrade(*r.Grade)
				row.Grade = &g
			}
			rows = append(rows, row)
		}
		out.Buckets = append(out.Buckets, scheduledto.BucketOutput{Key: bucket.Key, Rows: rows})
	}
	return out
}
