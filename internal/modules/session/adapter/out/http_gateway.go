package out

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	hclog "github.com/hashicorp/go-hclog"

	sessionout "elearn/internal/modules/session/port/out"
	"elearn/internal/platform/config"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
	"elearn/internal/platform/transport"
)

const formContentType = "application/x-www-form-urlencoded"

type HTTPGateway struct {
	client    transport.Client
	endpoints config.Endpoints
	logger    hclog.Logger
}

func NewHTTPGateway(client transport.Client, endpoints config.Endpoints, logger hclog.Logger) sessionout.Gateway {
	return &HTTPGateway{client: client, endpoints: endpoints, logger: logging.OrDiscard(logger).Named("session-gateway")}
}

func (g *HTTPGateway) ProbeProfile(ctx context.Context, cookie string) (string, error) {
	res, err := g.client.Get(ctx, g.endpoints.Profile(), transport.Headers{{Name: "Cookie", Value: cookie}})
	if err != nil {
		return "", err
	}
	return res.Location(), nil
}

func (g *HTTPGateway) SubmitLogin(ctx context.Context, username, password string) (sessionout.LoginReply, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	res, err := g.client.Post(ctx, g.endpoints.Login(), form.Encode(), transport.Headers{{Name: "Content-Type", Value: formContentType}})
	if err != nil {
		return sessionout.LoginReply{}, err
	}
	g.logger.Debug("login reply", "status", res.Status, "location", res.Location(), "cookies", len(res.Cookies()))
	return sessionout.LoginReply{Location: res.Location(), Cookies: res.Cookies()}, nil
}

func (g *HTTPGateway) FetchHome(ctx context.Context, cookie string) (string, error) {
	res, err := g.client.Get(ctx, g.endpoints.Home(), transport.Headers{{Name: "Cookie", Value: cookie}})
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("%w: home page returned status %d", apperrors.ErrTransport, res.Status)
	}
	return string(res.Body), nil
}

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   *int64 `json:"expires_at"`
}

func (g *HTTPGateway) RequestToken(ctx context.Context, cookie, csrf string) (sessionout.TokenReply, error) {
	headers := transport.Headers{
		{Name: "Cookie", Value: cookie},
		{Name: "x-csrf-token", Value: csrf},
		{Name: "Content-Type", Value: formContentType},
	}
	res, err := g.client.Post(ctx, g.endpoints.Token(), "scope=*:*:*", headers)
	if err != nil {
		return sessionout.TokenReply{}, err
	}
	if !res.OK() {
		return sessionout.TokenReply{}, fmt.Errorf("%w: token endpoint returned status %d", apperrors.ErrTransport, res.Status)
	}
	payload := tokenPayload{}
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return sessionout.TokenReply{}, fmt.Errorf("%w: decode token: %v", apperrors.ErrParse, err)
	}
	if payload.AccessToken == "" || payload.ExpiresAt == nil {
		return sessionout.TokenReply{}, fmt.Errorf("%w: token response missing access_token or expires_at", apperrors.ErrParse)
	}
	return sessionout.TokenReply{AccessToken: payload.AccessToken, ExpiresAt: *payload.ExpiresAt}, nil
}
