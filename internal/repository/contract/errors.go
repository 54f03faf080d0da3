package contract

import (
	"fmt"

	"notebook-tree-be/internal/pkg/apperror"
)

var (
	// ErrReferenceMissing is returned when a write points at a row that no
	// longer exists, for example a parent removed by a concurrent request.
	ErrReferenceMissing = fmt.Errorf("referenced record does not exist: %w", apperror.ErrNotFound)

	// ErrStillReferenced is returned when deleting a row that other rows
	// still point at.
	ErrStillReferenced = fmt.Errorf("record is still referenced: %w", apperror.ErrConflict)
)
