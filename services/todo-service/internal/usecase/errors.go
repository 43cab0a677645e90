package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTodoNotFound       = errors.New("todo not found")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
