package out

import (
	"context"

	"elearn/internal/platform/siren"
)

// Gateway fetches the hypermedia documents that describe a user's courses.
type Gateway interface {
	Enrollments(ctx context.Context, token, userID string) (siren.Entity, error)
	Enrollment(ctx context.Context, token, href string) (siren.Entity, error)
	Organization(ctx context.Context, token, orgID string) (siren.Entity, error)
}
