package publications

import "errors"

var (
	ErrNotFound = errors.New("publication not found")
)
