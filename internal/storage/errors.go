package storage

import (
	"errors"
	"fmt"

	"streamhub/proj/internal/domain/errs"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = fmt.Errorf("storage: %w", errs.ErrStoreUnavailable)
)
