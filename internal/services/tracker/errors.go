package tracker

import "streamhub/proj/internal/domain/errs"

var ErrContentNotFound = errs.New(errs.ErrNotFound, "content not found")
