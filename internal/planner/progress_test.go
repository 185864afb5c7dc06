package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"planassist/internal/model"
)

func TestTaskProgressNoTasks(t *testing.T) {
	assert.Equal(t, 0.0, TaskProgress(nil))
	assert.Equal(t, 0.0, TaskProgress([]model.Task{}))
}

func TestTaskProgressZeroLoading(t *testing.T) {
	tasks := []model.Task{
		{Title: "a", EstimatedLoading: 0, IsCompleted: true},
		{Title: "b", EstimatedLoading: 0},
	}
	assert.Equal(t, 0.0, TaskProgress(tasks))
}

func TestTaskProgressWeightedByLoading(t *testing.T) {
	tasks := []model.Task{
		{Title: "a", EstimatedLoading: 30, IsCompleted: true},
		{Title: "b", EstimatedLoading: 10},
	}
	assert.InDelta(t, 0.75, TaskProgress(tasks), 1e-9)
}

func TestTaskProgressAllCompleted(t *testing.T) {
	tasks := []model.Task{
		{Title: "a", EstimatedLoading: 5, IsCompleted: true},
	}
	assert.Equal(t, 1.0, TaskProgress(tasks))
}
