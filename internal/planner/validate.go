package planner

import (
	"errors"
	"fmt"
)

// ErrValidation marks a proposed tree that does not fit the declared
// schema. Nothing is applied when validation fails; the response is
// rejected as a whole.
var ErrValidation = errors.New("plan validation failed")

// Validate checks a scheduler response against the schema before any
// mutation is applied. Unknown milestone/task IDs are not an error here:
// the merge simply never matches them, so they cannot corrupt stored
// rows. What is rejected is structural damage the merge would otherwise
// propagate: empty tree, nameless entities, negative loadings, dates
// that do not parse.
func Validate(candidate *Plan) error {
	if candidate == nil || len(candidate.Projects) == 0 {
		return fmt.Errorf("%w: response contains no projects", ErrValidation)
	}

	p := candidate.Projects[0]
	if p.Name == "" {
		return fmt.Errorf("%w: project name is empty", ErrValidation)
	}
	if p.EstimatedLoading < 0 {
		return fmt.Errorf("%w: project estimated_loading is negative", ErrValidation)
	}
	if err := checkDate("project start_time", p.StartTime); err != nil {
		return err
	}
	if err := checkDate("project end_time", p.EndTime); err != nil {
		return err
	}
	if err := checkDate("project due_date", p.DueDate); err != nil {
		return err
	}

	for i, m := range p.Milestones {
		if m.Name == "" {
			return fmt.Errorf("%w: milestone %d has no name", ErrValidation, i)
		}
		if m.EstimatedLoading < 0 {
			return fmt.Errorf("%w: milestone %q estimated_loading is negative", ErrValidation, m.Name)
		}
		if err := checkDate("milestone start_time", m.StartTime); err != nil {
			return err
		}
		if err := checkDate("milestone end_time", m.EndTime); err != nil {
			return err
		}
		for j, t := range m.Tasks {
			if t.Title == "" {
				return fmt.Errorf("%w: task %d in milestone %q has no title", ErrValidation, j, m.Name)
			}
			if t.EstimatedLoading < 0 {
				return fmt.Errorf("%w: task %q estimated_loading is negative", ErrValidation, t.Title)
			}
			if err := checkDate("task due_date", t.DueDate); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkDate(field, value string) error {
	if value == "" || value == "null" {
		return nil
	}
	if _, ok := ParseDate(value); !ok {
		return fmt.Errorf("%w: %s %q is not a valid date", ErrValidation, field, value)
	}
	return nil
}
