package apperrors

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrTransport      = errors.New("transport failure")
	ErrParse          = errors.New("parse failure")
	ErrNoSession      = errors.New("no stored session")
	ErrSessionExpired = errors.New("session expired")
	ErrBadCredentials = errors.New("incorrect login")
	ErrUnauthorized   = errors.New("failed to get authorization token")
	ErrNoCourses      = errors.New("not registered for any courses")
)
