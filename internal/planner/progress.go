package planner

import "planassist/internal/model"

// TaskProgress is completed-task workload over total workload. An empty
// task list or a zero workload sum yields exactly 0.0; there is no
// division by zero.
func TaskProgress(tasks []model.Task) float64 {
	var total, done float64
	for _, t := range tasks {
		total += t.EstimatedLoading
		if t.IsCompleted {
			done += t.EstimatedLoading
		}
	}
	if total <= 0 {
		return 0.0
	}
	return done / total
}
