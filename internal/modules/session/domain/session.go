package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "elearn/internal/platform/errors"
)

// State is the lifecycle position of the persisted session cookie.
type State int

const (
	NoSession State = iota
	SessionLoaded
	SessionValid
)

func (s State) String() string {
	switch s {
	case SessionLoaded:
		return "loaded"
	case SessionValid:
		return "valid"
	default:
		return "none"
	}
}

type Session struct {
	Cookie string
	State  State
}

// Authorization is the short-lived bearer token obtained from a valid session.
// ExpiresAt is in epoch seconds.
type Authorization struct {
	BearerToken string
	ExpiresAt   int64
	CSRFToken   string
	UserID      string
}

func (a Authorization) IsExpired(now time.Time) bool {
	return now.Unix() >= a.ExpiresAt
}

const (
	expiredMarker        = "sessionExpired"
	badCredentialsMarker = "BAD_CREDENTIALS"
)

// ProbeExpired reports whether a profile redirect points at the expired-session page.
func ProbeExpired(location string) bool {
	return strings.Contains(location, expiredMarker)
}

// LoginRejected reports whether a login reply carries no usable session.
func LoginRejected(location string, cookies []string) bool {
	return location == "" || len(cookies) == 0 || strings.Contains(location, badCredentialsMarker)
}

// ComposeCookie keeps the name=value part of each Set-Cookie header and joins
// them into one Cookie header value.
func ComposeCookie(setCookies []string) string {
	parts := make([]string, 0, len(setCookies))
	for _, raw := range setCookies {
		pair, _, _ := strings.Cut(raw, ";")
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts = append(parts, pair)
	}
	return strings.Join(parts, "; ")
}

// NormalizeUsername reduces an e-mail address to its local part.
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if local, _, ok := strings.Cut(username, "@"); ok {
		return local
	}
	return username
}

var homePagePattern = regexp.MustCompile(`(?s)'XSRF\.Token'.*?'(.*?)'.*?'Session\.UserId'.*?'(.*?)'`)

// ScrapeHomePage extracts the CSRF token and user id embedded in the home page.
func ScrapeHomePage(body string) (csrf string, userID string, err error) {
	m := homePagePattern.FindStringSubmatch(body)
	if m == nil || m[1] == "" || m[2] == "" {
		return "", "", fmt.Errorf("%w: csrf token or user id not found in home page", apperrors.ErrParse)
	}
	return m[1], m[2], nil
}
