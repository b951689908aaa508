package extract

import "errors"

var (
	ErrMissingProject = errors.New("document AI project ID is required")
	ErrFileTooLarge   = errors.New("document exceeds maximum size")
	ErrEmptyDocument  = errors.New("no document in processing response")
)
