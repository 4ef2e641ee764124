package auth

import "errors"

var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrTokenExpired   = errors.New("token expired")
	ErrBadScheme      = errors.New("authorization scheme is not bearer")
	ErrNoToken        = errors.New("no token in authorization header")
)
