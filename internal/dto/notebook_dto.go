package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	ParentId *uuid.UUID
}

type CreateNotebookResponse struct {
	Id     uuid.UUID `json:"id"`
	NoteId uuid.UUID `json:"note_id"`
}

// NotebookDetailResponse points at the note a notebook opens on.
type NotebookDetailResponse struct {
	NotebookId uuid.UUID `json:"notebook_id"`
	NoteId     uuid.UUID `json:"note_id"`
	RedirectTo string    `json:"redirect_to"`
}

type UpdateNotebookTitleRequest struct {
	Id    uuid.UUID
	Title string `json:"title" form:"title" validate:"max=255"`
}

type UpdateNotebookResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DeleteNotebookResponse struct {
	Id               uuid.UUID `json:"id"`
	NotebooksDeleted int       `json:"notebooks_deleted"`
	NotesDeleted     int       `json:"notes_deleted"`
}

type MoveNotebookRequest struct {
	Id       uuid.UUID
	ParentId string `json:"parent_id" form:"parent_id" validate:"omitempty,uuid"`
}

type MoveNotebookResponse struct {
	Id       uuid.UUID  `json:"id"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type NotebookTreeNote struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type NotebookTreeNode struct {
	Id        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	ParentId  *uuid.UUID          `json:"parent_id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt *time.Time          `json:"updated_at"`
	Notes     []*NotebookTreeNote `json:"notes"`
	Children  []*NotebookTreeNode `json:"children"`
}
