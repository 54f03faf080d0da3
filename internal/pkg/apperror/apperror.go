package apperror

import "errors"

// Kinds shared by every layer. Concrete errors wrap one of these so the
// HTTP layer can map them without knowing the domain.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
	ErrConflict = errors.New("conflict")
)
