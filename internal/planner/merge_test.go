package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedProject() *PlanProject {
	return &PlanProject{
		Name:             "Thesis",
		Summary:          "Write the thesis",
		StartTime:        "2026-01-01T00:00:00Z",
		EndTime:          "2026-06-01T00:00:00Z",
		DueDate:          "2026-06-01T00:00:00Z",
		EstimatedLoading: 45,
		CurrentMilestone: "null",
		Milestones: []PlanMilestone{
			{
				ID:               "ms-1",
				Name:             "Literature review",
				StartTime:        "2026-01-01T00:00:00Z",
				EndTime:          "2026-02-01T00:00:00Z",
				EstimatedLoading: 45,
				Tasks: []PlanTask{
					{ID: "t-1", Title: "Collect papers", DueDate: "2026-01-10", EstimatedLoading: 10},
					{ID: "t-2", Title: "Summarize papers", DueDate: "2026-01-20", EstimatedLoading: 20, IsCompleted: true},
					{ID: "t-3", Title: "Write chapter", DueDate: "2026-01-30", EstimatedLoading: 15},
				},
			},
		},
	}
}

func TestMergeUpdatesMatchedTasks(t *testing.T) {
	stored := storedProject()
	candidate := &Plan{Projects: []PlanProject{{
		Name: "Thesis",
		Milestones: []PlanMilestone{{
			ID:        "ms-1",
			Name:      "Literature review",
			StartTime: "2026-01-02T00:00:00Z",
			EndTime:   "2026-02-05T00:00:00Z",
			Tasks: []PlanTask{
				{ID: "t-1", Title: "Collect papers", DueDate: "2026-01-12", EstimatedLoading: 12},
				{ID: "t-3", Title: "Write chapter draft", DueDate: "2026-02-02", EstimatedLoading: 18},
			},
		}},
	}}}

	merged := Merge(stored, candidate, MergeOptions{})

	ms := merged.Milestones[0]
	assert.Equal(t, "2026-01-02T00:00:00Z", ms.StartTime)
	assert.Equal(t, "2026-01-12", ms.Tasks[0].DueDate)
	assert.Equal(t, 12.0, ms.Tasks[0].EstimatedLoading)
	assert.Equal(t, "Write chapter draft", ms.Tasks[2].Title)
	assert.Equal(t, 18.0, ms.Tasks[2].EstimatedLoading)

	// stored input is untouched
	assert.Equal(t, 10.0, stored.Milestones[0].Tasks[0].EstimatedLoading)
}

func TestMergeNeverTouchesCompletedTasks(t *testing.T) {
	stored := storedProject()
	candidate := &Plan{Projects: []PlanProject{{
		Name: "Thesis",
		Milestones: []PlanMilestone{{
			ID: "ms-1",
			Tasks: []PlanTask{
				{ID: "t-2", Title: "Rewritten by model", DueDate: "2026-03-01", EstimatedLoading: 99, IsCompleted: false},
			},
		}},
	}}}

	merged := Merge(stored, candidate, MergeOptions{})

	done := merged.Milestones[0].Tasks[1]
	assert.Equal(t, "Summarize papers", done.Title)
	assert.Equal(t, "2026-01-20", done.DueDate)
	assert.Equal(t, 20.0, done.EstimatedLoading)
	assert.True(t, done.IsCompleted)
}

func TestMergeMatchesInsertedTaskByTitle(t *testing.T) {
	stored := storedProject()
	stored.Milestones[0].Tasks = append(stored.Milestones[0].Tasks, PlanTask{
		ID:               "t-new",
		Title:            "Proofread chapter",
		DueDate:          "2026-02-10",
		EstimatedLoading: 5,
	})

	// the model re-emits the new task without the ID it never knew
	candidate := &Plan{Projects: []PlanProject{{
		Name: "Thesis",
		Milestones: []PlanMilestone{{
			ID: "ms-1",
			Tasks: []PlanTask{
				{Title: "Proofread chapter", DueDate: "2026-02-08", EstimatedLoading: 8},
			},
		}},
	}}}

	merged := Merge(stored, candidate, MergeOptions{
		InsertedTaskID:    "t-new",
		InsertedTaskTitle: "Proofread chapter",
	})

	inserted := merged.Milestones[0].Tasks[3]
	assert.Equal(t, "t-new", inserted.ID)
	assert.Equal(t, "2026-02-08", inserted.DueDate)
	assert.Equal(t, 8.0, inserted.EstimatedLoading)
	require.Len(t, merged.Milestones[0].Tasks, 4) // no duplicate insert
}

func TestMergeIgnoresUnknownMilestones(t *testing.T) {
	stored := storedProject()
	candidate := &Plan{Projects: []PlanProject{{
		Name: "Thesis",
		Milestones: []PlanMilestone{{
			ID:   "ms-unknown",
			Name: "Hallucinated milestone",
			Tasks: []PlanTask{
				{ID: "t-x", Title: "Ghost task", EstimatedLoading: 40},
			},
		}},
	}}}

	merged := Merge(stored, candidate, MergeOptions{})

	require.Len(t, merged.Milestones, 1)
	assert.Equal(t, "ms-1", merged.Milestones[0].ID)
}

func TestMergeRecomputesAggregates(t *testing.T) {
	stored := storedProject()
	candidate := &Plan{Projects: []PlanProject{{
		Name: "Thesis",
		Milestones: []PlanMilestone{{
			ID:               "ms-1",
			EstimatedLoading: 500, // model claims a bogus aggregate
			Tasks: []PlanTask{
				{ID: "t-1", Title: "Collect papers", EstimatedLoading: 12},
			},
		}},
	}}}

	merged := Merge(stored, candidate, MergeOptions{})

	// aggregate comes from the task sum, not from the model's claim
	assert.Equal(t, 12.0+20.0+15.0, merged.Milestones[0].EstimatedLoading)
	assert.Equal(t, merged.Milestones[0].EstimatedLoading, merged.EstimatedLoading)
}

func TestRecomputeAggregatesEmptyMilestone(t *testing.T) {
	p := &PlanProject{
		EstimatedLoading: 30,
		Milestones: []PlanMilestone{
			{ID: "ms-1", EstimatedLoading: 30, Tasks: []PlanTask{}},
		},
	}

	RecomputeAggregates(p)

	assert.Equal(t, 0.0, p.Milestones[0].EstimatedLoading)
	assert.Equal(t, 0.0, p.EstimatedLoading)
}
