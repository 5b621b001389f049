package in

import (
	"context"

	coursedto "elearn/internal/modules/course/dto"
	coursein "elearn/internal/modules/course/port/in"
)

type CLIHandler struct {
	usecase coursein.Usecase
}

func NewCLIHandler(usecase coursein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Refresh(ctx context.Context) (coursedto.DirectoryOutput, error) {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) List(ctx context.Context) (coursedto.DirectoryOutput, error) {
	return h.usecase.List(ctx)
}

// Select narrows to one course; an empty id selects every course.
func (h CLIHandler) Select(ctx context.Context, courseID string) error {
	if courseID == "" {
		return h.usecase.SelectAll(ctx)
	}
	_, err := h.usecase.Select(ctx, courseID)
	return err
}
