package catalog

import "streamhub/proj/internal/domain/errs"

var (
	ErrContentNotFound      = errs.New(errs.ErrNotFound, "content not found")
	ErrContentAlreadyExists = errs.New(errs.ErrConflict, "content with that id already exists")
	ErrInsufficientRole     = errs.New(errs.ErrUnauthorized, "insufficient role for this action")
)
