package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	Name               string     `json:"name"`
	Summary            string     `json:"summary"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	DueDate            *time.Time `json:"due_date"`
	EstimatedLoading   float64    `json:"estimated_loading"`
	CurrentMilestoneID *uuid.UUID `json:"current_milestone_id"`
}

type Milestone struct {
	ID               uuid.UUID  `json:"id"`
	ProjectID        uuid.UUID  `json:"project_id"`
	Name             string     `json:"name"`
	Summary          string     `json:"summary"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	EstimatedLoading float64    `json:"estimated_loading"`
}
