package in

import (
	"context"

	scheduledto "elearn/internal/modules/schedule/dto"
)

type Usecase interface {
	Deadlines(ctx context.Context, input scheduledto.WindowInput) (scheduledto.ScheduleOutput, error)
	Grades(ctx context.Context, input scheduledto.GradesInput) (scheduledto.ScheduleOutput, error)
	Calendar(ctx context.Context, input scheduledto.WindowInput) (scheduledto.ScheduleOutput, error)
}
