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
	"planassist/internal/planner"
	"planassist/pkg/metrics"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	start := time.Now()
	query := `
        SELECT id, user_id, name, summary, start_time, end_time, due_date,
               estimated_loading, current_milestone_id
        FROM projects
        WHERE user_id = $1
        ORDER BY due_date NULLS LAST
    `
	rows, err := r.db.Query(ctx, query, userID)
	metrics.RecordDBQueryDuration("select", "projects", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Summary,
			&p.StartTime,
			&p.EndTime,
			&p.DueDate,
			&p.EstimatedLoading,
			&p.CurrentMilestoneID,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// FindByID loads a project scoped to its owner; a foreign project is
// indistinguishable from a missing one.
func (r *ProjectRepository) FindByID(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	query := `
        SELECT id, user_id, name, summary, start_time, end_time, due_date,
               estimated_loading, current_milestone_id
        FROM projects
        WHERE id = $1 AND user_id = $2
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, projectID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Summary,
		&p.StartTime,
		&p.EndTime,
		&p.DueDate,
		&p.EstimatedLoading,
		&p.CurrentMilestoneID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) UpdateFields(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET name = $1, summary = $2, start_time = $3, end_time = $4
        WHERE id = $5 AND user_id = $6
    `
	tag, err := r.db.Exec(ctx, query, p.Name, p.Summary, p.StartTime, p.EndTime, p.ID, p.UserID)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Error(err), zap.String("project_id", p.ID.String()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.String("project_id", projectID.String()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	r.logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// CreateWithTree persists a finalized draft: the project row, its
// milestones and tasks, chat history and file records, all in one
// transaction. The first milestone becomes the current one.
func (r *ProjectRepository) CreateWithTree(
	ctx context.Context,
	p *model.Project,
	milestones []model.Milestone,
	tasks map[string][]model.Task,
	chat []model.ChatHistory,
	files []model.File,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO projects (id, user_id, name, summary, start_time, end_time, due_date, estimated_loading)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.Name, p.Summary, p.StartTime, p.EndTime, p.DueDate, p.EstimatedLoading,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	for _, m := range milestones {
		_, err = tx.Exec(ctx, `
            INSERT INTO milestones (id, project_id, name, summary, start_time, end_time, estimated_loading)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.ProjectID, m.Name, m.Summary, m.StartTime, m.EndTime, m.EstimatedLoading,
		)
		if err != nil {
			return fmt.Errorf("failed to insert milestone %q: %w", m.Name, err)
		}

		for _, t := range tasks[m.ID.String()] {
			_, err = tx.Exec(ctx, `
                INSERT INTO tasks (id, milestone_id, title, description, due_date, estimated_loading, is_completed)
                VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				t.ID, t.MilestoneID, t.Title, t.Description, t.DueDate, t.EstimatedLoading, t.IsCompleted,
			)
			if err != nil {
				return fmt.Errorf("failed to insert task %q: %w", t.Title, err)
			}
		}
	}

	if len(milestones) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE projects SET current_milestone_id = $1 WHERE id = $2`,
			milestones[0].ID, p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to set current milestone: %w", err)
		}
	}

	for _, c := range chat {
		_, err = tx.Exec(ctx, `
            INSERT INTO chat_histories (id, user_id, project_id, sender, message, timestamp)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.UserID, c.ProjectID, c.Sender, c.Message, c.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chat entry: %w", err)
		}
	}

	for _, f := range files {
		_, err = tx.Exec(ctx, `
            INSERT INTO files (id, project_id, name, url)
            VALUES ($1, $2, $3, $4)`,
			f.ID, f.ProjectID, f.Name, f.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert file record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project tree: %w", err)
	}

	r.logger.Info("Project created from finalized draft",
		zap.String("project_id", p.ID.String()),
		zap.Int("milestones", len(milestones)),
	)
	return nil
}

// SavePlan writes a reconciled plan tree back to the store in one
// transaction: milestone fields, task fields, then the recomputed
// aggregates. Any failure rolls the whole pass back.
func (r *ProjectRepository) SavePlan(ctx context.Context, userID, projectID uuid.UUID, merged *planner.PlanProject) error {
	start := time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range merged.Milestones {
		milestoneID, err := uuid.Parse(m.ID)
		if err != nil {
			return fmt.Errorf("bad milestone id %q: %w", m.ID, err)
		}

		_, err = tx.Exec(ctx, `
            UPDATE milestones
            SET start_time = $1, end_time = $2, estimated_loading = $3
            WHERE id = $4 AND project_id = $5`,
			wireTime(m.StartTime), wireTime(m.EndTime), m.EstimatedLoading,
			milestoneID, projectID,
		)
		if err != nil {
			return fmt.Errorf("failed to update milestone %s: %w", m.ID, err)
		}

		for _, t := range m.Tasks {
			taskID, err := uuid.Parse(t.ID)
			if err != nil {
				return fmt.Errorf("bad task id %q: %w", t.ID, err)
			}

			_, err = tx.Exec(ctx, `
                UPDATE tasks
                SET title = $1, description = $2, due_date = $3,
                    estimated_loading = $4, is_completed = $5
                WHERE id = $6 AND milestone_id = $7`,
				t.Title, t.Description, wireTime(t.DueDate), t.EstimatedLoading, t.IsCompleted,
				taskID, milestoneID,
			)
			if err != nil {
				return fmt.Errorf("failed to update task %s: %w", t.ID, err)
			}
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE projects SET estimated_loading = $1 WHERE id = $2 AND user_id = $3`,
		merged.EstimatedLoading, projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project loading: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}

	metrics.RecordDBQueryDuration("save_plan", "projects", time.Since(start))
	r.logger.Info("Reconciled plan saved",
		zap.String("project_id", projectID.String()),
		zap.Int("milestones", len(merged.Milestones)),
	)
	return nil
}

func wireTime(s string) *time.Time {
	t, ok := planner.ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}
