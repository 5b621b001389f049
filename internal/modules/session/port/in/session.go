package in

import (
	"context"

	sessiondto "elearn/internal/modules/session/dto"
)

type Usecase interface {
	LoadSession(ctx context.Context) error
	ProbeSession(ctx context.Context) error
	Resume(ctx context.Context) (sessiondto.StatusOutput, error)
	Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.StatusOutput, error)
	Authorize(ctx context.Context) (sessiondto.AuthorizationOutput, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
}
