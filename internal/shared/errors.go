package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrTokenNotFound indicates the bearer token has no stored principal.
	ErrTokenNotFound = errors.New("principal token not found")
)
