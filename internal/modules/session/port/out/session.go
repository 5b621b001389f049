package out

import "context"

// CookieStore persists the session cookie as a single line.
type CookieStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, cookie string) error
	Clear(ctx context.Context) error
}

type LoginReply struct {
	Location string
	Cookies  []string
}

type TokenReply struct {
	AccessToken string
	ExpiresAt   int64
}

// Gateway performs the remote half of the session lifecycle. Redirects are
// reported, never followed.
type Gateway interface {
	ProbeProfile(ctx context.Context, cookie string) (location string, err error)
	SubmitLogin(ctx context.Context, username, password string) (LoginReply, error)
	FetchHome(ctx context.Context, cookie string) (string, error)
	RequestToken(ctx context.Context, cookie, csrf string) (TokenReply, error)
}
