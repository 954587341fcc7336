package types

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the response envelope and status code
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors of the same kind and message, so sentinels work with errors.Is
// even after being wrapped with extra context.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Graph, engagement and feed errors
var (
	ErrInvalidArgument    = newError(KindValidation, "invalid argument")
	ErrSelfFollow         = newError(KindConflict, "you cannot follow yourself")
	ErrAlreadyFollowing   = newError(KindConflict, "already following this user")
	ErrNotFollowing       = newError(KindNotFound, "not following this user")
	ErrAlreadyLiked       = newError(KindConflict, "post already liked")
	ErrNotLiked           = newError(KindNotFound, "post not liked")
	ErrNoLocation         = newError(KindValidation, "user has no associated location")
	ErrIncompleteLocation = newError(KindValidation, "user location is missing city or province")
)

// Entity and account errors
var (
	ErrUserNotFound        = newError(KindNotFound, "user not found")
	ErrPostNotFound        = newError(KindNotFound, "post not found")
	ErrLocationNotFound    = newError(KindNotFound, "location not found")
	ErrCategoryNotFound    = newError(KindNotFound, "category not found")
	ErrProductNotFound     = newError(KindNotFound, "product not found")
	ErrCommunityNotFound   = newError(KindNotFound, "community not found")
	ErrCategoryHasChildren = newError(KindConflict, "category has children")
	ErrCategoryInUse       = newError(KindConflict, "category is referenced by a location or product")
	ErrCategoryCycle       = newError(KindValidation, "category parent would create a cycle")
	ErrEmailTaken          = newError(KindConflict, "email already registered")
	ErrUsernameTaken       = newError(KindConflict, "username already taken")
	ErrUnknownEmail        = newError(KindValidation, "no account with this email")
	ErrInvalidCredentials  = newError(KindUnauthorized, "invalid credentials")
	ErrWrongPassword       = newError(KindValidation, "old password is incorrect")
	ErrInvalidCode         = newError(KindValidation, "verification code is incorrect")
	ErrExpiredCode         = newError(KindValidation, "verification code has expired")
	ErrNotOwner            = newError(KindForbidden, "not allowed to modify this resource")
)

// Validation returns a validation error with a caller specific message
func Validation(message string) *AppError {
	return newError(KindValidation, message)
}

// InvalidArgument returns a validation error that matches ErrInvalidArgument
func InvalidArgument(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: ErrInvalidArgument}
}

// Internal wraps a store or transport failure. The message is what the caller sees.
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, treating unknown errors as internal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
