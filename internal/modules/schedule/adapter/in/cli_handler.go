package in

import (
	"context"

	scheduledto "elearn/internal/modules/schedule/dto"
	schedulein "elearn/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Deadlines(ctx context.Context, window string) (scheduledto.ScheduleOutput, error) {
	return h.usecase.Deadlines(ctx, scheduledto.WindowInput{Window: window})
}

func (h CLIHandler) Grades(ctx context.Context, sort string) (scheduledto.ScheduleOutput, error) {
	return h.usecase.Grades(ctx, scheduledto.GradesInput{Sort: sort})
}

func (h CLIHandler) Calendar(ctx context.Context, window string) (scheduledto.ScheduleOutput, error) {
	return h.usecase.Calendar(ctx, scheduledto.WindowInput{Window: window})
}
