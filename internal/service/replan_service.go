package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planassist/internal/model"
	"planassist/internal/planner"
	"planassist/internal/repository"
	"planassist/pkg/metrics"
	"planassist/pkg/mq"
)

// ReplanService runs the mutate-then-reschedule flow: apply the direct
// edit, hand the whole tree to the scheduler, validate and merge the
// proposal, persist the merged tree in one transaction.
type ReplanService struct {
	projects   *repository.ProjectRepository
	milestones *repository.MilestoneRepository
	tasks      *repository.TaskRepository
	scheduler  planner.Scheduler
	publisher  *mq.Publisher
	logger     *zap.Logger
}

func NewReplanService(
	projects *repository.ProjectRepository,
	milestones *repository.MilestoneRepository,
	tasks *repository.TaskRepository,
	scheduler planner.Scheduler,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *ReplanService {
	return &ReplanService{
		projects:   projects,
		milestones: milestones,
		tasks:      tasks,
		scheduler:  scheduler,
		publisher:  publisher,
		logger:     logger,
	}
}

// loadPlan reconstructs the serializable project tree from the store.
func (s *ReplanService) loadPlan(ctx context.Context, userID, projectID uuid.UUID) (*planner.PlanProject, error) {
	p, err := s.projects.FindByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return planner.FromModel(p, milestones, tasks), nil
}

// CreateTask inserts the task, then asks the scheduler to reflow the
// rest of the milestone around it.
func (s *ReplanService) CreateTask(ctx context.Context, userID uuid.UUID, projectID uuid.UUID, t *model.Task) (*planner.PlanProject, error) {
	if _, err := s.milestones.FindByID(ctx, userID, projectID, t.MilestoneID); err != nil {
		return nil, err
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	change := taskChange(t)
	merged, err := s.replan(ctx, userID, projectID,
		planner.Mutation{Kind: planner.MutationInsertTask, Task: change},
		planner.MergeOptions{InsertedTaskID: t.ID.String(), InsertedTaskTitle: t.Title},
	)
	if err != nil {
		return nil, err
	}
	metrics.IncrementReplan("insert_task")
	s.publishEvent("plan.replanned", map[string]any{
		"project_id": projectID.String(),
		"trigger":    "insert_task",
		"task_id":    t.ID.String(),
	})
	return merged, nil
}

// UpdateTask applies the edit, then lets the scheduler reposition the
// task and its neighbors.
func (s *ReplanService) UpdateTask(ctx context.Context, userID uuid.UUID, t *model.Task) (*planner.PlanProject, error) {
	stored, err := s.tasks.FindByIDForUser(ctx, userID, t.ID)
	if err != nil {
		return nil, err
	}
	m, err := s.milestones.FindOwned(ctx, userID, stored.MilestoneID)
	if err != nil {
		return nil, err
	}
	projectID := m.ProjectID

	t.MilestoneID = stored.MilestoneID
	if err := s.tasks.UpdateFields(ctx, t); err != nil {
		return nil, err
	}

	merged, err := s.replan(ctx, userID, projectID,
		planner.Mutation{Kind: planner.MutationUpdateTask, Task: taskChange(t)},
		planner.MergeOptions{},
	)
	if err != nil {
		return nil, err
	}
	metrics.IncrementReplan("update_task")
	s.publishEvent("plan.replanned", map[string]any{
		"project_id": projectID.String(),
		"trigger":    "update_task",
		"task_id":    t.ID.String(),
	})
	return merged, nil
}

// DeleteTask removes the task and recomputes aggregates in one
// transaction; no scheduler call is made.
func (s *ReplanService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	deleted, projectID, err := s.tasks.DeleteAndRecompute(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	s.publishEvent("task.deleted", map[string]any{
		"project_id": projectID.String(),
		"task_id":    taskID.String(),
		"title":      deleted.Title,
	})
	return deleted, nil
}

// ChatReplan regenerates the plan from the conversation transcript.
func (s *ReplanService) ChatReplan(ctx context.Context, userID, projectID uuid.UUID, chat []planner.ChatMessage) (*planner.PlanProject, error) {
	merged, err := s.replan(ctx, userID, projectID,
		planner.Mutation{Kind: planner.MutationChat, Chat: chat},
		planner.MergeOptions{},
	)
	if err != nil {
		return nil, err
	}
	metrics.IncrementReplan("chat")
	s.publishEvent("plan.replanned", map[string]any{
		"project_id": projectID.String(),
		"trigger":    "chat",
	})
	return merged, nil
}

// replan is the shared propose-validate-merge-persist pass. The
// candidate tree is validated before any state changes; a rejected
// proposal leaves the store untouched.
func (s *ReplanService) replan(ctx context.Context, userID, projectID uuid.UUID, m planner.Mutation, opts planner.MergeOptions) (*planner.PlanProject, error) {
	start := time.Now()
	stored, err := s.loadPlan(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	candidate, err := s.scheduler.ProposeSchedule(ctx, &planner.Plan{Projects: []planner.PlanProject{*stored}}, m)
	if err != nil {
		return nil, err
	}
	if err := planner.Validate(candidate); err != nil {
		s.logger.Error("Scheduler proposal rejected",
			zap.Error(err),
			zap.String("project_id", projectID.String()),
			zap.String("trigger", string(m.Kind)))
		return nil, err
	}

	merged := planner.Merge(stored, candidate, opts)
	if err := s.projects.SavePlan(ctx, userID, projectID, merged); err != nil {
		return nil, err
	}

	s.logger.Info("Plan reconciled",
		zap.String("project_id", projectID.String()),
		zap.String("trigger", string(m.Kind)),
		zap.Duration("elapsed", time.Since(start)))
	return merged, nil
}

func (s *ReplanService) publishEvent(routingKey string, payload any) {
	if s.publisher == nil || !s.publisher.IsConnected() {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Error("Failed to publish event", zap.Error(err), zap.String("routing_key", routingKey))
	}
}

func taskChange(t *model.Task) *planner.TaskChange {
	c := &planner.TaskChange{
		ID:               t.ID.String(),
		MilestoneID:      t.MilestoneID.String(),
		Title:            t.Title,
		Description:      t.Description,
		EstimatedLoading: t.EstimatedLoading,
		IsCompleted:      t.IsCompleted,
	}
	if t.DueDate != nil {
		c.DueDate = t.DueDate.Format("2006-01-02")
	}
	return c
}
