package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	NotebookId uuid.UUID `validate:"required"`
	Title      string    `json:"title" form:"title" validate:"max=255"`
	Content    string    `json:"content" form:"content"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// BreadcrumbItem is one notebook on the path from the root to a note.
type BreadcrumbItem struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ShowNoteResponse struct {
	Id         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	NotebookId uuid.UUID        `json:"notebook_id"`
	Breadcrumb []BreadcrumbItem `json:"breadcrumb"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  *time.Time       `json:"updated_at"`
}

type UpdateNoteRequest struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	Title      string `json:"title" form:"title" validate:"max=255"`
	Content    string `json:"content" form:"content"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type NoteSummary struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
