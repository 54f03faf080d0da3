package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotebookCreated = "NOTEBOOK_CREATED"
	NotebookRenamed = "NOTEBOOK_RENAMED"
	NotebookMoved   = "NOTEBOOK_MOVED"
	NotebookDeleted = "NOTEBOOK_DELETED"
	NoteCreated     = "NOTE_CREATED"
	NoteUpdated     = "NOTE_UPDATED"
	NoteDeleted     = "NOTE_DELETED"
)

// Payload keys every lifecycle event carries.
const (
	KeyUserId    = "user_id"
	KeySubjectId = "subject_id"
)

// NewLifecycleEvent builds an event about subjectId owned by userId. Extra
// details are merged into the payload.
func NewLifecycleEvent(eventType string, userId, subjectId uuid.UUID, details map[string]interface{}) BaseEvent {
	data := make(map[string]interface{}, len(details)+2)
	for k, v := range details {
		data[k] = v
	}
	data[KeyUserId] = userId.String()
	data[KeySubjectId] = subjectId.String()

	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

// LifecycleIds extracts the owner and subject ids from an event payload.
func LifecycleIds(e Event) (userId uuid.UUID, subjectId uuid.UUID, ok bool) {
	data := e.Payload()
	rawUser, okUser := data[KeyUserId].(string)
	rawSubject, okSubject := data[KeySubjectId].(string)
	if !okUser || !okSubject {
		return uuid.Nil, uuid.Nil, false
	}
	userId, errUser := uuid.Parse(rawUser)
	subjectId, errSubject := uuid.Parse(rawSubject)
	if errUser != nil || errSubject != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return userId, subjectId, true
}
