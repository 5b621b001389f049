package usecase

import (
	"context"

	"elearn/internal/modules/course/domain"
	coursedto "elearn/internal/modules/course/dto"
	coursein "elearn/internal/modules/course/port/in"
	"elearn/internal/modules/course/service"
	sessionin "elearn/internal/modules/session/port/in"
)

type Interactor struct {
	svc     *service.Directory
	session sessionin.Usecase
}

func NewInteractor(svc *service.Directory, session sessionin.Usecase) coursein.Usecase {
	return &Interactor{svc: svc, session: session}
}

func (i *Interactor) Refresh(ctx context.Context) (coursedto.DirectoryOutput, error) {
	auth, err := i.session.Authorize(ctx)
	if err != nil {
		return coursedto.DirectoryOutput{}, err
	}
	if _, err := i.svc.Refresh(ctx, auth.BearerToken, auth.UserID); err != nil {
		return coursedto.DirectoryOutput{}, err
	}
	return i.directory(), nil
}

func (i *Interactor) List(context.Context) (coursedto.DirectoryOutput, error) {
	return i.directory(), nil
}

// Select refreshes an empty directory first so a course id can be chosen
// without listing courses beforehand.
func (i *Interactor) Select(ctx context.Context, courseID string) (coursedto.CourseOutput, error) {
	if err := i.ensureLoaded(ctx); err != nil {
		return coursedto.CourseOutput{}, err
	}
	course, err := i.svc.Select(courseID)
	if err != nil {
		return coursedto.CourseOutput{}, err
	}
	return toOutput(course), nil
}

func (i *Interactor) SelectAll(context.Context) error {
	i.svc.SelectAll()
	return nil
}

func (i *Interactor) Selected(ctx context.Context) ([]coursedto.CourseOutput, error) {
	if err := i.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return toOutputs(i.svc.Selected()), nil
}

func (i *Interactor) ensureLoaded(ctx context.Context) error {
	if len(i.svc.List()) > 0 {
		return nil
	}
	_, err := i.Refresh(ctx)
	return err
}

func (i *Interactor) directory() coursedto.DirectoryOutput {
	return coursedto.DirectoryOutput{
		Courses:  toOutputs(i.svc.List()),
		Selected: toOutputs(i.svc.Selected()),
		All:      i.svc.SelectedID() == "",
	}
}

func toOutput(c domain.Course) coursedto.CourseOutput {
	return coursedto.CourseOutput{ID: c.ID, Name: c.Name}
}

func toOutputs(courses []domain.Course) []coursedto.CourseOutput {
	out := make([]coursedto.CourseOutput, 0, len(courses))
	for _, c := range courses {
		out = append(out, toOutput(c))
	}
	return out
}
