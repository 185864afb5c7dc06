package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID               uuid.UUID  `json:"id"`
	MilestoneID      uuid.UUID  `json:"milestone_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedLoading float64    `json:"estimated_loading"`
	IsCompleted      bool       `json:"is_completed"`
}
