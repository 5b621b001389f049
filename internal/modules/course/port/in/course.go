package in

import (
	"context"

	coursedto "elearn/internal/modules/course/dto"
)

type Usecase interface {
	Refresh(ctx context.Context) (coursedto.DirectoryOutput, error)
	List(ctx context.Context) (coursedto.DirectoryOutput, error)
	Select(ctx context.Context, courseID string) (coursedto.CourseOutput, error)
	SelectAll(ctx context.Context) error
	// Selected returns the working course list, refreshing it when empty.
	Selected(ctx context.Context) ([]coursedto.CourseOutput, error)
}
