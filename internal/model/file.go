package model

import "github.com/google/uuid"

type File struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
}
