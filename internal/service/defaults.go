package service

import (
	"strings"
	"time"

	"notebook-tree-be/internal/entity"

	"github.com/google/uuid"
)

// ContentDefaults is the placeholder content used for notebooks and notes
// created without user input.
type ContentDefaults struct {
	NotebookName string
	NoteTitle    string
	NoteContent  string
	UntitledName string
}

func DefaultContent() ContentDefaults {
	return ContentDefaults{
		NotebookName: "New Notebook",
		NoteTitle:    "New Note",
		NoteContent:  "",
		UntitledName: "Untitled",
	}
}

func (d ContentDefaults) newNotebook(userId uuid.UUID) *entity.Notebook {
	return &entity.Notebook{
		Id:        uuid.New(),
		Name:      d.NotebookName,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
}

func (d ContentDefaults) newNote(userId uuid.UUID) *entity.Note {
	return &entity.Note{
		Id:        uuid.New(),
		Title:     d.NoteTitle,
		Content:   d.NoteContent,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
}

// NormalizeNotebookTitle replaces a blank title with the placeholder.
// Non-blank titles are returned untouched, surrounding spaces included.
func NormalizeNotebookTitle(title, placeholder string) string {
	if strings.TrimSpace(title) == "" {
		return placeholder
	}
	return title
}
