package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrInvalidState          = crerr.New("invalid state")
	ErrConflict              = crerr.New("conflict")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
