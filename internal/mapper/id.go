package mapper

import "github.com/google/uuid"

func copyId(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
