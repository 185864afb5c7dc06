package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() *Plan {
	return &Plan{Projects: []PlanProject{{
		Name:      "Thesis",
		StartTime: "2026-01-01T00:00:00Z",
		EndTime:   "2026-06-01",
		DueDate:   "2026-06-01",
		Milestones: []PlanMilestone{{
			ID:        "ms-1",
			Name:      "Literature review",
			StartTime: "2026-01-01",
			EndTime:   "2026-02-01",
			Tasks: []PlanTask{
				{ID: "t-1", Title: "Collect papers", DueDate: "2026-01-10", EstimatedLoading: 10},
			},
		}},
	}}}
}

func TestValidateAcceptsWellFormedPlan(t *testing.T) {
	assert.NoError(t, Validate(validCandidate()))
}

func TestValidateRejectsEmptyPlan(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrValidation)
	assert.ErrorIs(t, Validate(&Plan{}), ErrValidation)
}

func TestValidateRejectsNamelessProject(t *testing.T) {
	c := validCandidate()
	c.Projects[0].Name = ""
	assert.ErrorIs(t, Validate(c), ErrValidation)
}

func TestValidateRejectsNamelessMilestone(t *testing.T) {
	c := validCandidate()
	c.Projects[0].Milestones[0].Name = ""
	assert.ErrorIs(t, Validate(c), ErrValidation)
}

func TestValidateRejectsUntitledTask(t *testing.T) {
	c := validCandidate()
	c.Projects[0].Milestones[0].Tasks[0].Title = ""
	assert.ErrorIs(t, Validate(c), ErrValidation)
}

func TestValidateRejectsNegativeLoading(t *testing.T) {
	c := validCandidate()
	c.Projects[0].Milestones[0].Tasks[0].EstimatedLoading = -5
	assert.ErrorIs(t, Validate(c), ErrValidation)
}

func TestValidateRejectsBadDates(t *testing.T) {
	c := validCandidate()
	c.Projects[0].Milestones[0].Tasks[0].DueDate = "next tuesday"
	err := Validate(c)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "due_date")
}

func TestValidateToleratesNullPlaceholders(t *testing.T) {
	c := validCandidate()
	c.Projects[0].CurrentMilestone = "null"
	c.Projects[0].Milestones[0].StartTime = ""
	assert.NoError(t, Validate(c))
}
