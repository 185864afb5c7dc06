// Package planner holds the serializable project tree exchanged with the
// scheduling model and the deterministic reconciliation logic that merges
// a proposed tree back onto stored state.
package planner

import (
	"context"
	"time"

	"planassist/internal/model"
)

// Plan is the wire shape of a scheduling exchange: the full project tree
// wrapped as {"projects": [...]}.
type Plan struct {
	Projects []PlanProject `json:"projects"`
}

type PlanProject struct {
	Name             string          `json:"name"`
	Summary          string          `json:"summary"`
	StartTime        string          `json:"start_time"`
	EndTime          string          `json:"end_time"`
	DueDate          string          `json:"due_date"`
	EstimatedLoading float64         `json:"estimated_loading"`
	CurrentMilestone string          `json:"current_milestone"`
	Milestones       []PlanMilestone `json:"milestones"`
}

type PlanMilestone struct {
	ID               string     `json:"id,omitempty"`
	ProjectID        string     `json:"project_id,omitempty"`
	Name             string     `json:"name"`
	Summary          string     `json:"summary"`
	StartTime        string     `json:"start_time"`
	EndTime          string     `json:"end_time"`
	EstimatedLoading float64    `json:"estimated_loading"`
	Tasks            []PlanTask `json:"tasks"`
}

type PlanTask struct {
	ID               string  `json:"id,omitempty"`
	MilestoneID      string  `json:"milestone_id,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	DueDate          string  `json:"due_date"`
	EstimatedLoading float64 `json:"estimated_loading"`
	IsCompleted      bool    `json:"is_completed"`
}

// MutationKind selects which prompt contract the scheduler applies.
type MutationKind string

const (
	MutationInsertTask MutationKind = "insert_task"
	MutationUpdateTask MutationKind = "update_task"
	MutationChat       MutationKind = "chat"
)

// TaskChange carries the fields of a new or edited task handed to the
// scheduler.
type TaskChange struct {
	ID               string  `json:"id,omitempty"`
	MilestoneID      string  `json:"milestone_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	DueDate          string  `json:"due_date"`
	EstimatedLoading float64 `json:"estimated_loading"`
	IsCompleted      bool    `json:"is_completed"`
}

// ChatMessage is one turn of the user-assistant transcript.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Mutation describes why a replanning pass is running.
type Mutation struct {
	Kind MutationKind
	Task *TaskChange
	Chat []ChatMessage
}

// Scheduler is the capability boundary around the non-deterministic
// scheduling decision. The production implementation talks to Gemini;
// tests inject a stub so reconciliation stays deterministic and testable.
type Scheduler interface {
	ProposeSchedule(ctx context.Context, current *Plan, m Mutation) (*Plan, error)
}

// Date layouts the model is allowed to answer with.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a wire date in any accepted layout.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// FromModel builds the serializable tree for a stored project. Milestone
// and task IDs are carried so the reconciler can match rows by identity
// when the proposed tree comes back.
func FromModel(p *model.Project, milestones []model.Milestone, tasks map[string][]model.Task) *PlanProject {
	pp := &PlanProject{
		Name:             p.Name,
		Summary:          p.Summary,
		StartTime:        formatTime(p.StartTime),
		EndTime:          formatTime(p.EndTime),
		DueDate:          formatTime(p.DueDate),
		EstimatedLoading: p.EstimatedLoading,
		CurrentMilestone: "null",
	}

	for _, m := range milestones {
		pm := PlanMilestone{
			ID:               m.ID.String(),
			ProjectID:        m.ProjectID.String(),
			Name:             m.Name,
			Summary:          m.Summary,
			StartTime:        formatTime(m.StartTime),
			EndTime:          formatTime(m.EndTime),
			EstimatedLoading: m.EstimatedLoading,
			Tasks:            []PlanTask{},
		}
		for _, t := range tasks[m.ID.String()] {
			pm.Tasks = append(pm.Tasks, PlanTask{
				ID:               t.ID.String(),
				MilestoneID:      t.MilestoneID.String(),
				Title:            t.Title,
				Description:      t.Description,
				DueDate:          formatTime(t.DueDate),
				EstimatedLoading: t.EstimatedLoading,
				IsCompleted:      t.IsCompleted,
			})
		}
		pp.Milestones = append(pp.Milestones, pm)
	}

	return pp
}
