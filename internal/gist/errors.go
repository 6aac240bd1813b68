package gist

import "errors"

var (
	ErrCreateFailed    = errors.New("failed to create gist")
	ErrUnauthorized    = errors.New("gist api rejected credentials")
	ErrInvalidResponse = errors.New("invalid gist api response")
)
