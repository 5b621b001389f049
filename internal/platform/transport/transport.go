package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
)

const maxBodyBytes = 16 << 20

// Headers is an ordered list of request headers.
type Headers []Header

type Header struct {
	Name  string
	Value string
}

// With returns a copy of h with one more header appended.
func (h Headers) With(name, value string) Headers {
	out := make(Headers, 0, len(h)+1)
	out = append(out, h...)
	return append(out, Header{Name: name, Value: value})
}

// Bearer is the Authorization header for an access token.
func Bearer(token string) Headers {
	return Headers{{Name: "Authorization", Value: "Bearer " + token}}
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Location returns the redirect target, if any.
func (r Response) Location() string {
	return r.Header.Get("Location")
}

// Cookies returns every Set-Cookie value in order.
func (r Response) Cookies() []string {
	return r.Header.Values("Set-Cookie")
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client issues a single attempt per call. Redirects are returned, not followed.
type Client interface {
	Get(ctx context.Context, url string, headers Headers) (Response, error)
	Post(ctx context.Context, url, body string, headers Headers) (Response, error)
}

type HTTPClient struct {
	client    *http.Client
	userAgent string
	logger    hclog.Logger
}

func NewHTTPClient(timeout time.Duration, userAgent string, logger hclog.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
		logger:    logging.OrDiscard(logger).Named("transport"),
	}
}

func (c *HTTPClient) Get(ctx context.Context, url string, headers Headers) (Response, error) {
	return c.do(ctx, http.MethodGet, url, "", headers)
}

func (c *HTTPClient) Post(ctx context.Context, url, body string, headers Headers) (Response, error) {
	return c.do(ctx, http.MethodPost, url, body, headers)
}

func (c *HTTPClient) do(ctx context.Context, method, url, body string, headers Headers) (Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Response{}, fmt.Errorf("%w: build request %s: %v", apperrors.ErrTransport, url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, h := range headers {
		req.Header.Add(h.Name, h.Value)
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("failed to connect", "method", method, "url", url, "error", err)
		return Response{}, fmt.Errorf("%w: failed to connect to %s: %v", apperrors.ErrTransport, url, err)
	}
	defer func() { _ = res.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		c.logger.Warn("failed to read response", "method", method, "url", url, "error", err)
		return Response{}, fmt.Errorf("%w: read %s: %v", apperrors.ErrTransport, url, err)
	}
	c.logger.Debug("response", "method", method, "url", url, "status", res.StatusCode, "bytes", len(payload))
	return Response{Status: res.StatusCode, Header: res.Header, Body: payload}, nil
}
