package dto

import "time"

type LoginInput struct {
	Username string
	Password string
}

type StatusOutput struct {
	State      string
	Authorized bool
	UserID     string
	ExpiresAt  time.Time
}

type AuthorizationOutput struct {
	BearerToken string
	UserID      string
	ExpiresAt   time.Time
}
