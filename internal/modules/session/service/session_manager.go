package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"elearn/internal/modules/session/domain"
	sessionout "elearn/internal/modules/session/port/out"
	"elearn/internal/platform/clock"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
)

// SessionManager owns the persisted cookie and the in-memory authorization.
// Every method holds the lock for its whole duration, so remote calls issued
// through it never overlap.
type SessionManager struct {
	mu      sync.Mutex
	clock   clock.Clock
	store   sessionout.CookieStore
	gateway sessionout.Gateway
	logger  hclog.Logger

	session domain.Session
	auth    *domain.Authorization
}

func NewSessionManager(clock clock.Clock, store sessionout.CookieStore, gateway sessionout.Gateway, logger hclog.Logger) *SessionManager {
	return &SessionManager{
		clock:   clock,
		store:   store,
		gateway: gateway,
		logger:  logging.OrDiscard(logger).Named("session"),
	}
}

func (m *SessionManager) LoadSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

func (m *SessionManager) load(ctx context.Context) error {
	cookie, err := m.store.Load(ctx)
	if err != nil {
		m.reset()
		if errors.Is(err, apperrors.ErrNoSession) {
			return err
		}
		m.logger.Debug("session file unreadable", "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrNoSession, err)
	}
	m.session = domain.Session{Cookie: cookie, State: domain.SessionLoaded}
	return nil
}

func (m *SessionManager) ProbeSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probe(ctx)
}

func (m *SessionManager) probe(ctx context.Context) error {
	if m.session.State == domain.NoSession {
		return apperrors.ErrNoSession
	}
	location, err := m.gateway.ProbeProfile(ctx, m.session.Cookie)
	if err != nil {
		m.reset()
		return fmt.Errorf("probe session: %w", err)
	}
	if domain.ProbeExpired(location) {
		m.logger.Info("session expired")
		m.reset()
		return apperrors.ErrSessionExpired
	}
	m.session.State = domain.SessionValid
	return nil
}

// Resume loads the persisted cookie and checks it is still accepted.
func (m *SessionManager) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return err
	}
	return m.probe(ctx)
}

func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	}
	reply, err := m.gateway.SubmitLogin(ctx, username, password)
	if err != nil {
		m.reset()
		return fmt.Errorf("login: %w", err)
	}
	if domain.LoginRejected(reply.Location, reply.Cookies) {
		m.reset()
		return apperrors.ErrBadCredentials
	}
	cookie := domain.ComposeCookie(reply.Cookies)
	if err := m.store.Save(ctx, cookie); err != nil {
		m.reset()
		return fmt.Errorf("persist session: %w", err)
	}
	m.session = domain.Session{Cookie: cookie, State: domain.SessionValid}
	m.auth = nil
	m.logger.Info("logged in", "user", username)
	return nil
}

// Authorize returns the current bearer token, exchanging the session cookie
// for a new one when none is held or it has expired.
func (m *SessionManager) Authorize(ctx context.Context) (domain.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth != nil && !m.auth.IsExpired(m.clock.Now()) {
		return *m.auth, nil
	}
	m.auth = nil
	if m.session.State == domain.NoSession {
		return domain.Authorization{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, apperrors.ErrNoSession)
	}
	auth, err := m.exchange(ctx)
	if err != nil {
		m.logger.Warn("authorization failed", "error", err)
		return domain.Authorization{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	m.auth = &auth
	m.logger.Debug("authorized", "user", auth.UserID, "expires_at", auth.ExpiresAt)
	return auth, nil
}

func (m *SessionManager) exchange(ctx context.Context) (domain.Authorization, error) {
	home, err := m.gateway.FetchHome(ctx, m.session.Cookie)
	if err != nil {
		return domain.Authorization{}, err
	}
	csrf, userID, err := domain.ScrapeHomePage(home)
	if err != nil {
		return domain.Authorization{}, err
	}
	token, err := m.gateway.RequestToken(ctx, m.session.Cookie, csrf)
	if err != nil {
		return domain.Authorization{}, err
	}
	return domain.Authorization{
		BearerToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		CSRFToken:   csrf,
		UserID:      userID,
	}, nil
}

func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Snapshot returns the session and the held authorization, if any.
func (m *SessionManager) Snapshot() (domain.Session, *domain.Authorization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return m.session, nil
	}
	auth := *m.auth
	return m.session, &auth
}

func (m *SessionManager) reset() {
	m.session = domain.Session{}
	m.auth = nil
}
