package domain

import "errors"

// Sentinel errors returned by the service layer. The api layer maps each to a
// stable error code and HTTP status; nothing below this list ever reaches a
// caller directly.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation error")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrSelfTransfer       = errors.New("cannot transfer to self")
	ErrNotPendingReview   = errors.New("submission is not pending review")
	ErrNotFound           = errors.New("record not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many attempts")
)
