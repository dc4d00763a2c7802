package apperrors

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidPayload       = errors.New("invalid payload")
	ErrAccessDenied         = errors.New("access denied")
	ErrEmailTaken           = errors.New("email already registered")
	ErrBadCredentials       = errors.New("wrong email or password")
	ErrInternal             = errors.New("internal error")
)
