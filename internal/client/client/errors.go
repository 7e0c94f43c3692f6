package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected wraps every other server-side refusal; the server's
	// message follows it.
	ErrRejected = errors.New("rejected")
)
