package service

import "errors"

// Errors surfaced by the registry flows. Controllers map each one to a
// localised message; none of them is fatal.
var (
	ErrValidation         = errors.New("required field missing")
	ErrUnknownParcel      = errors.New("parcel id does not exist in the cadastral record")
	ErrDuplicateParcel    = errors.New("a user with this parcel id is already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrEmptyInput         = errors.New("empty input")
	ErrNoSession          = errors.New("login required")
)
