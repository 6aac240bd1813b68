package workspace

import "errors"

var (
	ErrAlreadyExists = errors.New("workspace already exists")
	ErrCloneFailed   = errors.New("failed to clone gist")
	ErrInvalidName   = errors.New("invalid gist id")
	ErrCopyFailed    = errors.New("failed to copy file")
	ErrDuplicateFile = errors.New("duplicate file name")
)
