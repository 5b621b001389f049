package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"elearn/internal/modules/session/domain"
	sessionout "elearn/internal/modules/session/port/out"
	"elearn/internal/modules/session/service"
	"elearn/internal/platform/clock"
	apperrors "elearn/internal/platform/errors"
)

type fakeStore struct {
	cookie  string
	saved   []string
	cleared bool
	loadErr error
}

func (f *fakeStore) Load(context.Context) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	if f.cookie == "" {
		return "", apperrors.ErrNoSession
	}
	return f.cookie, nil
}

func (f *fakeStore) Save(_ context.Context, cookie string) error {
	f.cookie = cookie
	f.saved = append(f.saved, cookie)
	return nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.cookie = ""
	f.cleared = true
	return nil
}

type fakeGateway struct {
	probeLocation string
	probeErr      error
	login         sessionout.LoginReply
	loginErr      error
	loginUser     string
	home          string
	homeErr       error
	token         sessionout.TokenReply
	tokenErr      error
	tokenCalls    int
	tokenCookie   string
	tokenCSRF     string
}

func (f *fakeGateway) ProbeProfile(context.Context, string) (string, error) {
	return f.probeLocation, f.probeErr
}

func (f *fakeGateway) SubmitLogin(_ context.Context, username, _ string) (sessionout.LoginReply, error) {
	f.loginUser = username
	return f.login, f.loginErr
}

func (f *fakeGateway) FetchHome(context.Context, string) (string, error) {
	return f.home, f.homeErr
}

func (f *fakeGateway) RequestToken(_ context.Context, cookie, csrf string) (sessionout.TokenReply, error) {
	f.tokenCalls++
	f.tokenCookie = cookie
	f.tokenCSRF = csrf
	return f.token, f.tokenErr
}

const homePage = `var x = {'XSRF.Token':'csrf-1','Session.UserId':'4711'};`

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newManager(store *fakeStore, gateway *fakeGateway) *service.SessionManager {
	return service.NewSessionManager(clock.Fixed(now), store, gateway, nil)
}

func TestResumeWithValidSession(t *testing.T) {
	t.Parallel()
	store := &fakeStore{cookie: "a=1; b=2"}
	mgr := newManager(store, &fakeGateway{probeLocation: ""})
	if err := mgr.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	session, _ := mgr.Snapshot()
	if session.State != domain.SessionValid || session.Cookie != "a=1; b=2" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestResumeDetectsExpiredSession(t *testing.T) {
	t.Parallel()
	mgr := newManager(&fakeStore{cookie: "a=1"}, &fakeGateway{probeLocation: "/d2l/login?sessionExpired=1"})
	if err := mgr.Resume(context.Background()); !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
	if session, _ := mgr.Snapshot(); session.State != domain.NoSession {
		t.Fatalf("expected no session after expiry, got %s", session.State)
	}
}

func TestProbeFailsClosedOnTransportError(t *testing.T) {
	t.Parallel()
	mgr := newManager(&fakeStore{cookie: "a=1"}, &fakeGateway{probeErr: apperrors.ErrTransport})
	if err := mgr.LoadSession(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if session, _ := mgr.Snapshot(); session.State != domain.SessionLoaded {
		t.Fatalf("expected loaded session, got %s", session.State)
	}
	if err := mgr.ProbeSession(context.Background()); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if session, _ := mgr.Snapshot(); session.State != domain.NoSession {
		t.Fatalf("probe failure must drop the session")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Parallel()
	mgr := newManager(&fakeStore{}, &fakeGateway{})
	if err := mgr.LoadSession(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected no session, got %v", err)
	}
	mgr = newManager(&fakeStore{loadErr: errors.New("permission denied")}, &fakeGateway{})
	if err := mgr.LoadSession(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("unreadable file must map to no session, got %v", err)
	}
	if err := mgr.ProbeSession(context.Background()); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("probe without cookie must fail, got %v", err)
	}
}

func TestLoginComposesAndPersistsCookie(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	gateway := &fakeGateway{login: sessionout.LoginReply{
		Location: "/d2l/lp/auth/login/ProcessLoginActions.d2l",
		Cookies:  []string{"d2lSessionVal=abc; path=/", "d2lSecureSessionVal=def; Secure; HttpOnly"},
	}}
	mgr := newManager(store, gateway)
	if err := mgr.Login(context.Background(), "jdoe@students.example.edu", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if gateway.loginUser != "jdoe" {
		t.Fatalf("expected e-mail reduced to local part, got %q", gateway.loginUser)
	}
	if len(store.saved) != 1 || store.saved[0] != "d2lSessionVal=abc; d2lSecureSessionVal=def" {
		t.Fatalf("unexpected persisted cookie %v", store.saved)
	}
	if session, _ := mgr.Snapshot(); session.State != domain.SessionValid {
		t.Fatalf("expected valid session, got %s", session.State)
	}
}

func TestLoginRejections(t *testing.T) {
	t.Parallel()
	cases := map[string]sessionout.LoginReply{
		"bad credentials": {Location: "/d2l/login?failed=BAD_CREDENTIALS", Cookies: []string{"a=1"}},
		"no redirect":     {Cookies: []string{"a=1"}},
		"no cookie":       {Location: "/d2l/home"},
	}
	for name, reply := range cases {
		store := &fakeStore{}
		mgr := newManager(store, &fakeGateway{login: reply})
		if err := mgr.Login(context.Background(), "jdoe", "wrong"); !errors.Is(err, apperrors.ErrBadCredentials) {
			t.Fatalf("%s: expected bad credentials, got %v", name, err)
		}
		if len(store.saved) != 0 {
			t.Fatalf("%s: rejected login must not persist", name)
		}
	}
	mgr := newManager(&fakeStore{}, &fakeGateway{})
	if err := mgr.Login(context.Background(), "", "x"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthorizeReusesUnexpiredToken(t *testing.T) {
	t.Parallel()
	gateway := &fakeGateway{home: homePage, token: sessionout.TokenReply{AccessToken: "tok", ExpiresAt: now.Unix() + 3600}}
	mgr := newManager(&fakeStore{cookie: "a=1"}, gateway)
	if err := mgr.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	first, err := mgr.Authorize(context.Background())
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if first.BearerToken != "tok" || first.UserID != "4711" || first.CSRFToken != "csrf-1" {
		t.Fatalf("unexpected authorization %+v", first)
	}
	if gateway.tokenCookie != "a=1" || gateway.tokenCSRF != "csrf-1" {
		t.Fatalf("token request carried %q %q", gateway.tokenCookie, gateway.tokenCSRF)
	}
	if _, err := mgr.Authorize(context.Background()); err != nil {
		t.Fatalf("second authorize: %v", err)
	}
	if gateway.tokenCalls != 1 {
		t.Fatalf("expected one token exchange, got %d", gateway.tokenCalls)
	}
}

func TestAuthorizeRefreshesExpiredToken(t *testing.T) {
	t.Parallel()
	gateway := &fakeGateway{home: homePage, token: sessionout.TokenReply{AccessToken: "old", ExpiresAt: now.Unix() - 1}}
	mgr := newManager(&fakeStore{cookie: "a=1"}, gateway)
	if err := mgr.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := mgr.Authorize(context.Background()); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	gateway.token = sessionout.TokenReply{AccessToken: "new", ExpiresAt: now.Unix() + 3600}
	auth, err := mgr.Authorize(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if auth.BearerToken != "new" || gateway.tokenCalls != 2 {
		t.Fatalf("expected refreshed token, got %+v after %d calls", auth, gateway.tokenCalls)
	}
}

func TestAuthorizeFailures(t *testing.T) {
	t.Parallel()
	mgr := newManager(&fakeStore{}, &fakeGateway{})
	if _, err := mgr.Authorize(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) || !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected unauthorized without session, got %v", err)
	}

	gateway := &fakeGateway{home: "<html>please log in</html>"}
	mgr = newManager(&fakeStore{cookie: "a=1"}, gateway)
	if err := mgr.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := mgr.Authorize(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) || !errors.Is(err, apperrors.ErrParse) {
		t.Fatalf("expected unauthorized scrape failure, got %v", err)
	}
	if gateway.tokenCalls != 0 {
		t.Fatalf("token endpoint must not be called after scrape failure")
	}

	gateway.home = homePage
	gateway.tokenErr = apperrors.ErrTransport
	if _, err := mgr.Authorize(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized token failure, got %v", err)
	}
	if _, auth := mgr.Snapshot(); auth != nil {
		t.Fatalf("failed authorize must drop authorization")
	}
}

func TestLogoutClearsState(t *testing.T) {
	t.Parallel()
	store := &fakeStore{cookie: "a=1"}
	gateway := &fakeGateway{home: homePage, token: sessionout.TokenReply{AccessToken: "tok", ExpiresAt: now.Unix() + 60}}
	mgr := newManager(store, gateway)
	if err := mgr.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := mgr.Authorize(context.Background()); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := mgr.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	session, auth := mgr.Snapshot()
	if !store.cleared || session.State != domain.NoSession || auth != nil {
		t.Fatalf("logout left state behind: %+v %+v", session, auth)
	}
}
