package dto

import "github.com/google/uuid"

type HomeNotebook struct {
	Id       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentId *uuid.UUID `json:"parent_id"`
}

// HomeResponse is what the landing page shows: every notebook, the target
// notebook (the oldest one), its notes and the note opened by default.
type HomeResponse struct {
	NotebookList   []*HomeNotebook `json:"notebook_list"`
	TargetNotebook *HomeNotebook   `json:"target_notebook"`
	NoteList       []*NoteSummary  `json:"note_list"`
	TargetNote     *NoteSummary    `json:"target_note"`
}
