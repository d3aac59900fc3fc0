package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrInputOrdering = errors.New("observations are not in ascending timestamp order")
	ErrNoAnnotator   = errors.New("no annotator available")
)
