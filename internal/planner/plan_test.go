package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planassist/internal/model"
)

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{
		"2026-01-02T15:04:05Z",
		"2026-01-02T15:04:05",
		"2026-01-02 15:04:05",
		"2026-01-02",
	} {
		_, ok := ParseDate(s)
		assert.True(t, ok, s)
	}

	_, ok := ParseDate("02/01/2026")
	assert.False(t, ok)
}

func TestFromModelCarriesIDs(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Project{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Name:             "Thesis",
		Summary:          "Write the thesis",
		StartTime:        &now,
		EstimatedLoading: 45,
	}
	ms := model.Milestone{ID: uuid.New(), ProjectID: p.ID, Name: "Review", EstimatedLoading: 45}
	task := model.Task{ID: uuid.New(), MilestoneID: ms.ID, Title: "Collect papers", EstimatedLoading: 10}

	tree := FromModel(p, []model.Milestone{ms}, map[string][]model.Task{
		ms.ID.String(): {task},
	})

	require.Len(t, tree.Milestones, 1)
	require.Len(t, tree.Milestones[0].Tasks, 1)
	assert.Equal(t, ms.ID.String(), tree.Milestones[0].ID)
	assert.Equal(t, task.ID.String(), tree.Milestones[0].Tasks[0].ID)
	assert.Equal(t, "null", tree.CurrentMilestone)
	assert.Equal(t, "2026-01-01T00:00:00Z", tree.StartTime)
}
