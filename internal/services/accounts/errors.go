package accounts

import "streamhub/proj/internal/domain/errs"

var (
	ErrAccountNotFound      = errs.New(errs.ErrNotFound, "account not found")
	ErrProfileNotFound      = errs.New(errs.ErrNotFound, "profile not found")
	ErrAccountAlreadyExists = errs.New(errs.ErrConflict, "account with that email already exists")
	ErrInvalidCredentials   = errs.New(errs.ErrInvalidCredentials, "invalid email or password")
	ErrInsufficientRole     = errs.New(errs.ErrUnauthorized, "insufficient role for this action")
	ErrAccountProtected     = errs.New(errs.ErrUnauthorized, "account is protected")
	ErrAuthRequired         = errs.New(errs.ErrUnauthorized, "authentication required")
)
