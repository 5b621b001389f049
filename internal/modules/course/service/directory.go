package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"elearn/internal/modules/course/domain"
	courseout "elearn/internal/modules/course/port/out"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
)

// Directory holds the user's course list and the optional single-course
// selection.
type Directory struct {
	mu       sync.Mutex
	gateway  courseout.Gateway
	logger   hclog.Logger
	courses  []domain.Course
	selected string
}

func NewDirectory(gateway courseout.Gateway, logger hclog.Logger) *Directory {
	return &Directory{gateway: gateway, logger: logging.OrDiscard(logger).Named("course")}
}

// Refresh rebuilds the course list. It fails only when the enrollments fetch
// fails or lists no entries; then the previous list is kept. Entries that do
// not resolve are skipped, so the new list may be empty.
func (d *Directory) Refresh(ctx context.Context, token, userID string) ([]domain.Course, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.gateway.Enrollments(ctx, token, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch enrollments: %w", err)
	}
	hrefs, entries := domain.EnrollmentHrefs(doc)
	if entries == 0 {
		return nil, apperrors.ErrNoCourses
	}
	if skipped := entries - len(hrefs); skipped > 0 {
		d.logger.Warn("skipping enrollments without a link", "count", skipped)
	}

	courses := make([]domain.Course, 0, len(hrefs))
	for _, href := range hrefs {
		course, err := d.resolve(ctx, token, href)
		if err != nil {
			d.logger.Warn("skipping enrollment", "href", href, "error", err)
			continue
		}
		courses = append(courses, course)
	}
	if len(courses) == 0 {
		d.logger.Warn("no enrollment could be resolved", "entries", entries)
	}

	d.courses = courses
	if d.selected != "" && d.indexOf(d.selected) < 0 {
		d.selected = ""
	}
	d.logger.Debug("courses refreshed", "count", len(courses))
	return slices.Clone(courses), nil
}

func (d *Directory) resolve(ctx context.Context, token, href string) (domain.Course, error) {
	enrollment, err := d.gateway.Enrollment(ctx, token, href)
	if err != nil {
		return domain.Course{}, err
	}
	id, err := domain.OrganizationID(enrollment)
	if err != nil {
		return domain.Course{}, err
	}
	org, err := d.gateway.Organization(ctx, token, id)
	if err != nil {
		return domain.Course{}, err
	}
	name, err := domain.OrganizationName(org)
	if err != nil {
		return domain.Course{}, err
	}
	return domain.Course{ID: id, Name: name}, nil
}

func (d *Directory) List() []domain.Course {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.courses)
}

// Select narrows the working list to one known course.
func (d *Directory) Select(id string) (domain.Course, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.indexOf(id)
	if idx < 0 {
		return domain.Course{}, fmt.Errorf("%w: course %q", apperrors.ErrNotFound, id)
	}
	d.selected = id
	return d.courses[idx], nil
}

func (d *Directory) SelectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = ""
}

// Selected returns the selected course, or every course when none is selected.
func (d *Directory) Selected() []domain.Course {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected != "" {
		if idx := d.indexOf(d.selected); idx >= 0 {
			return []domain.Course{d.courses[idx]}
		}
	}
	return slices.Clone(d.courses)
}

// SelectedID is empty when every course is selected.
func (d *Directory) SelectedID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

func (d *Directory) indexOf(id string) int {
	return slices.IndexFunc(d.courses, func(c domain.Course) bool { return c.ID == id })
}
