package usecase

import (
	"context"
	"time"

	"elearn/internal/modules/session/domain"
	sessiondto "elearn/internal/modules/session/dto"
	sessionin "elearn/internal/modules/session/port/in"
	"elearn/internal/modules/session/service"
)

type Interactor struct {
	svc *service.SessionManager
}

func NewInteractor(svc *service.SessionManager) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LoadSession(ctx context.Context) error {
	return i.svc.LoadSession(ctx)
}

func (i *Interactor) ProbeSession(ctx context.Context) error {
	return i.svc.ProbeSession(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (sessiondto.StatusOutput, error) {
	if err := i.svc.Resume(ctx); err != nil {
		return i.status(), err
	}
	return i.status(), nil
}

func (i *Interactor) Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.StatusOutput, error) {
	if err := i.svc.Login(ctx, input.Username, input.Password); err != nil {
		return i.status(), err
	}
	return i.status(), nil
}

func (i *Interactor) Authorize(ctx context.Context) (sessiondto.AuthorizationOutput, error) {
	auth, err := i.svc.Authorize(ctx)
	if err != nil {
		return sessiondto.AuthorizationOutput{}, err
	}
	return sessiondto.AuthorizationOutput{
		BearerToken: auth.BearerToken,
		UserID:      auth.UserID,
		ExpiresAt:   time.Unix(auth.ExpiresAt, 0),
	}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Status(context.Context) (sessiondto.StatusOutput, error) {
	return i.status(), nil
}

func (i *Interactor) status() sessiondto.StatusOutput {
	session, auth := i.svc.Snapshot()
	out := sessiondto.StatusOutput{State: session.State.String()}
	if auth != nil && session.State != domain.NoSession {
		out.Authorized = true
		out.UserID = auth.UserID
		out.ExpiresAt = time.Unix(auth.ExpiresAt, 0)
	}
	return out
}
