package planner

// MergeOptions identifies the row a just-inserted task was written to,
// so a candidate task that comes back without a known ID can be matched
// by title instead of being duplicated.
type MergeOptions struct {
	InsertedTaskID    string
	InsertedTaskTitle string
}

// Merge applies a validated scheduler response onto the stored tree and
// returns the reconciled tree. It never touches the database: the caller
// persists the result in one transaction.
//
// Matching is by ID, scoped to the project for milestones and to the
// milestone for tasks. Stored rows the response does not mention are
// left as they are; response entries with unknown IDs are ignored.
// Tasks already completed in the store are never modified, whatever the
// response says about them.
func Merge(stored *PlanProject, candidate *Plan, opts MergeOptions) *PlanProject {
	result := clone(stored)

	milestoneByID := make(map[string]*PlanMilestone, len(result.Milestones))
	for i := range result.Milestones {
		milestoneByID[result.Milestones[i].ID] = &result.Milestones[i]
	}

	cp := candidate.Projects[0]
	for _, cm := range cp.Milestones {
		m, ok := milestoneByID[cm.ID]
		if !ok {
			continue
		}

		if cm.StartTime != "" {
			m.StartTime = cm.StartTime
		}
		if cm.EndTime != "" {
			m.EndTime = cm.EndTime
		}
		if cm.EstimatedLoading > 0 {
			m.EstimatedLoading = cm.EstimatedLoading
		}

		taskByID := make(map[string]*PlanTask, len(m.Tasks))
		for i := range m.Tasks {
			taskByID[m.Tasks[i].ID] = &m.Tasks[i]
		}

		for _, ct := range cm.Tasks {
			t, ok := taskByID[ct.ID]
			if !ok {
				// The response invented no ID for the task inserted in this
				// pass; fall back to title equality and adjust that row
				// in place rather than duplicating it.
				if opts.InsertedTaskID != "" && ct.Title == opts.InsertedTaskTitle {
					t = taskByID[opts.InsertedTaskID]
				}
				if t == nil {
					continue
				}
				if ct.DueDate != "" {
					t.DueDate = ct.DueDate
				}
				if ct.EstimatedLoading > 0 {
					t.EstimatedLoading = ct.EstimatedLoading
				}
				continue
			}

			if t.IsCompleted {
				continue
			}

			if ct.Title != "" {
				t.Title = ct.Title
			}
			if ct.Description != "" {
				t.Description = ct.Description
			}
			if ct.DueDate != "" {
				t.DueDate = ct.DueDate
			}
			if ct.EstimatedLoading > 0 {
				t.EstimatedLoading = ct.EstimatedLoading
			}
			t.IsCompleted = ct.IsCompleted
		}
	}

	RecomputeAggregates(result)
	return result
}

// RecomputeAggregates restores the workload invariants bottom-up: each
// milestone's estimated_loading becomes the sum of its tasks', the
// project's the sum of its milestones'.
func RecomputeAggregates(p *PlanProject) {
	var projectTotal float64
	for i := range p.Milestones {
		var total float64
		for _, t := range p.Milestones[i].Tasks {
			total += t.EstimatedLoading
		}
		p.Milestones[i].EstimatedLoading = total
		projectTotal += total
	}
	p.EstimatedLoading = projectTotal
}

func clone(p *PlanProject) *PlanProject {
	out := *p
	out.Milestones = make([]PlanMilestone, len(p.Milestones))
	for i, m := range p.Milestones {
		cm := m
		cm.Tasks = make([]PlanTask, len(m.Tasks))
		copy(cm.Tasks, m.Tasks)
		out.Milestones[i] = cm
	}
	return &out
}
