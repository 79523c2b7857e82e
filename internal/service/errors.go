package service

import (
	"errors"
	"fmt"
)

// ==================== error kinds ====================

// Every error a service returns either wraps one of these kinds or is an
// unexpected storage failure. Controllers map kinds to HTTP status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ==================== specific errors ====================

var (
	ErrInvalidScore       = fmt.Errorf("%w: score must be an integer between 1 and 5", ErrValidation)
	ErrInvalidRole        = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrInvalidOwner       = fmt.Errorf("%w: owner must be an existing store_owner", ErrValidation)
	ErrInvalidOldPassword = fmt.Errorf("%w: old password is incorrect", ErrValidation)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: token is invalid or expired", ErrUnauthorized)

	ErrNotAllowed = fmt.Errorf("%w: not authorized for this action", ErrForbidden)

	ErrUserNotFound  = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrStoreNotFound = fmt.Errorf("%w: store not found", ErrNotFound)

	ErrEmailExists    = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrRatingConflict = fmt.Errorf("%w: rating was written concurrently, resubmit", ErrConflict)
)
