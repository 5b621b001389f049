package out

import (
	"context"

	"elearn/internal/modules/schedule/domain"
)

// Source fetches one course's schedule documents.
type Source interface {
	Deadlines(ctx context.Context, token, orgID string) (domain.Node, error)
	Grades(ctx context.Context, token, orgID, userID string) ([]domain.GradeItem, error)
	CalendarEvents(ctx context.Context, token, orgID string) ([]domain.CalendarEvent, error)
}
