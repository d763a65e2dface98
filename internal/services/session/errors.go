package session

import "github.com/pkg/errors"

var (
	ErrMissingField       = errors.New("username and password are required")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
