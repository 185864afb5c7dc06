package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planassist/internal/model"
	"planassist/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	start := time.Now()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
        INSERT INTO tasks (id, milestone_id, title, description, due_date, estimated_loading, is_completed)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		t.ID, t.MilestoneID, t.Title, t.Description, t.DueDate, t.EstimatedLoading, t.IsCompleted)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("task_id", t.ID.String()))
		return err
	}
	return nil
}

// FindByIDForUser loads a task only when the chain task -> milestone ->
// project belongs to the given user.
func (r *TaskRepository) FindByIDForUser(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	query := `
        SELECT t.id, t.milestone_id, t.title, t.description, t.due_date, t.estimated_loading, t.is_completed
        FROM tasks t
        JOIN milestones m ON m.id = t.milestone_id
        JOIN projects p ON p.id = m.project_id
        WHERE t.id = $1 AND p.user_id = $2
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, taskID, userID).Scan(
		&t.ID,
		&t.MilestoneID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.EstimatedLoading,
		&t.IsCompleted,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]model.Task, error) {
	query := `
        SELECT id, milestone_id, title, description, due_date, estimated_loading, is_completed
        FROM tasks
        WHERE milestone_id = $1
        ORDER BY due_date NULLS LAST
    `
	rows, err := r.db.Query(ctx, query, milestoneID)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err), zap.String("milestone_id", milestoneID.String()))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.MilestoneID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.EstimatedLoading,
			&t.IsCompleted,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListByProject returns all tasks of a project keyed by milestone ID.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) (map[string][]model.Task, error) {
	query := `
        SELECT t.id, t.milestone_id, t.title, t.description, t.due_date, t.estimated_loading, t.is_completed
        FROM tasks t
        JOIN milestones m ON m.id = t.milestone_id
        WHERE m.project_id = $1
        ORDER BY t.due_date NULLS LAST
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query project tasks", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, err
	}
	defer rows.Close()

	byMilestone := map[string][]model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.MilestoneID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.EstimatedLoading,
			&t.IsCompleted,
		); err != nil {
			return nil, err
		}
		byMilestone[t.MilestoneID.String()] = append(byMilestone[t.MilestoneID.String()], t)
	}
	return byMilestone, rows.Err()
}

func (r *TaskRepository) UpdateFields(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, description = $2, due_date = $3, estimated_loading = $4, is_completed = $5
        WHERE id = $6
    `
	tag, err := r.db.Exec(ctx, query,
		t.Title, t.Description, t.DueDate, t.EstimatedLoading, t.IsCompleted, t.ID)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.String("task_id", t.ID.String()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAndRecompute removes a task, recomputes the milestone and project
// loading sums from what remains, and appends a system chat entry recording
// the deletion. The whole sequence runs in one transaction.
func (r *TaskRepository) DeleteAndRecompute(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, uuid.UUID, error) {
	start := time.Now()
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	defer tx.Rollback(ctx)

	var t model.Task
	var projectID uuid.UUID
	err = tx.QueryRow(ctx, `
        SELECT t.id, t.milestone_id, t.title, t.description, t.due_date, t.estimated_loading, t.is_completed, p.id
        FROM tasks t
        JOIN milestones m ON m.id = t.milestone_id
        JOIN projects p ON p.id = m.project_id
        WHERE t.id = $1 AND p.user_id = $2
    `, taskID, userID).Scan(
		&t.ID, &t.MilestoneID, &t.Title, &t.Description, &t.DueDate, &t.EstimatedLoading, &t.IsCompleted, &projectID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.String("task_id", taskID.String()))
		return nil, uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE milestones
        SET estimated_loading = COALESCE((SELECT SUM(estimated_loading) FROM tasks WHERE milestone_id = $1), 0)
        WHERE id = $1
    `, t.MilestoneID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE projects
        SET estimated_loading = COALESCE((SELECT SUM(estimated_loading) FROM milestones WHERE project_id = $1), 0)
        WHERE id = $1
    `, projectID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO chat_histories (id, user_id, project_id, sender, message)
        VALUES ($1, $2, $3, $4, $5)
    `, uuid.New(), userID, projectID, model.SenderSystem, fmt.Sprintf("Deleted task: %s", t.Title))
	if err != nil {
		return nil, uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, uuid.Nil, err
	}
	metrics.RecordDBQueryDuration("delete_recompute", "tasks", time.Since(start))
	r.logger.Info("Task deleted",
		zap.String("task_id", taskID.String()),
		zap.String("project_id", projectID.String()))
	return &t, projectID, nil
}
