package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken      = errors.New("INVALID_TOKEN")
	ErrInvalidCredential = errors.New("INVALID_CREDENTIAL")
	ErrAccountInactive   = errors.New("ACCOUNT_INACTIVE")
	ErrNotAuthorized     = errors.New("NOT_AUTHORIZED")
	ErrAdminNotFound     = errors.New("ADMIN_NOT_FOUND")
	ErrUserNotFound      = errors.New("USER_NOT_FOUND")
	ErrUnknownPlan       = errors.New("UNKNOWN_PLAN")
	ErrSessionNotFound   = errors.New("SESSION_NOT_FOUND")
	ErrSessionExpired    = errors.New("SESSION_EXPIRED")
	ErrSessionEnded      = errors.New("SESSION_ENDED")
	ErrDuplicateAdmin    = errors.New("DUPLICATE_ADMIN")
	ErrInvalidSignature  = errors.New("INVALID_SIGNATURE")
)
