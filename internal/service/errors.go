package service

import (
	"errors"
	"fmt"

	"notebook-tree-be/internal/pkg/apperror"
)

var (
	ErrNotebookNotFound       = fmt.Errorf("notebook %w", apperror.ErrNotFound)
	ErrNoteNotFound           = fmt.Errorf("note %w", apperror.ErrNotFound)
	ErrInvalidParentId        = fmt.Errorf("parent_id must be a uuid: %w", apperror.ErrInvalid)
	ErrProvisioningIncomplete = errors.New("default notebook content could not be provisioned")
)
