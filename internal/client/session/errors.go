package session

import "errors"

var (
	ErrNoUserReturned   = errors.New("sign up failed: no user returned")
	ErrPasswordMismatch = errors.New("passwords don't match")
	ErrPasswordTooShort = errors.New("password too short")
	ErrForbidden        = errors.New("admin role required")
)
