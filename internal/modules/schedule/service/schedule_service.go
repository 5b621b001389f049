package service

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"elearn/internal/modules/schedule/domain"
	scheduleout "elearn/internal/modules/schedule/port/out"
	"elearn/internal/platform/clock"
	"elearn/internal/platform/logging"
	"elearn/internal/platform/timecodec"
)

// Result is a filled store plus the courses whose fetch failed.
type Result struct {
	Store  *domain.Store
	Failed []domain.CourseRef
}

// ScheduleService gathers one document per course into a fresh Store.
// Courses are fetched one after another; a failing course is logged and
// skipped.
type ScheduleService struct {
	clock  clock.Clock
	codec  timecodec.Codec
	source scheduleout.Source
	logger hclog.Logger
}

func NewScheduleService(clock clock.Clock, codec timecodec.Codec, source scheduleout.Source, logger hclog.Logger) *ScheduleService {
	return &ScheduleService{clock: clock, codec: codec, source: source, logger: logging.OrDiscard(logger).Named("schedule")}
}

func (s *ScheduleService) Codec() timecodec.Codec { return s.codec }

func (s *ScheduleService) Deadlines(ctx context.Context, token string, courses []domain.CourseRef, preset domain.Preset) (Result, error) {
	window, err := domain.WindowFor(preset, s.clock.Now())
	if err != nil {
		return Result{}, err
	}
	store := domain.NewStore(window, domain.SortByTimestamp, s.codec)
	failed := s.each(ctx, courses, "deadlines", func(c domain.CourseRef) error {
		root, err := s.source.Deadlines(ctx, token, c.ID)
		if err != nil {
			return err
		}
		store.AddDeadlines(&root)
		return nil
	})
	s.logSkipped("deadlines", store)
	return Result{Store: store, Failed: failed}, nil
}

func (s *ScheduleService) Grades(ctx context.Context, token, userID string, courses []domain.CourseRef, mode domain.SortMode) (Result, error) {
	store := domain.NewStore(domain.Unbounded, mode, s.codec)
	failed := s.each(ctx, courses, "grades", func(c domain.CourseRef) error {
		items, err := s.source.Grades(ctx, token, c.ID, userID)
		if err != nil {
			return err
		}
		store.AddGrades(items)
		return nil
	})
	s.logSkipped("grades", store)
	return Result{Store: store, Failed: failed}, nil
}

func (s *ScheduleService) Calendar(ctx context.Context, token string, courses []domain.CourseRef, preset domain.Preset) (Result, error) {
	window, err := domain.WindowFor(preset, s.clock.Now())
	if err != nil {
		return Result{}, err
	}
	store := domain.NewStore(window, domain.SortByTimestamp, s.codec)
	failed := s.each(ctx, courses, "calendar", func(c domain.CourseRef) error {
		events, err := s.source.CalendarEvents(ctx, token, c.ID)
		if err != nil {
			return err
		}
		store.AddCalendarEvents(events)
		return nil
	})
	s.logSkipped("calendar", store)
	return Result{Store: store, Failed: failed}, nil
}

func (s *ScheduleService) each(ctx context.Context, courses []domain.CourseRef, view string, fetch func(domain.CourseRef) error) []domain.CourseRef {
	var failed []domain.CourseRef
	for _, c := range courses {
		if ctx.Err() != nil {
			failed = append(failed, c)
			continue
		}
		if err := fetch(c); err != nil {
			s.logger.Warn("skipping course", "view", view, "course", c.ID, "name", c.Name, "error", err)
			failed = append(failed, c)
		}
	}
	return failed
}

func (s *ScheduleService) logSkipped(view string, store *domain.Store) {
	if store.Skipped() > 0 {
		s.logger.Debug("skipped malformed items", "view", view, "count", store.Skipped())
	}
}
