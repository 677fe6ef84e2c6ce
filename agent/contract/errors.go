package contract

import "errors"

var (
	ErrGenerate       = errors.New("generation call failed")
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidUser    = errors.New("user id is empty")
	ErrValidation     = errors.New("validation failed")
)
