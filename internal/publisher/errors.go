package publisher

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid publish request")
	ErrPublishFailed  = errors.New("failed to publish gist")
)
