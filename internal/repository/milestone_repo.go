package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planassist/internal/model"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{db: db, logger: logger}
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Milestone, error) {
	query := `
        SELECT id, project_id, name, summary, start_time, end_time, estimated_loading
        FROM milestones
        WHERE project_id = $1
        ORDER BY end_time NULLS LAST
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query milestones", zap.Error(err), zap.String("project_id", projectID.String()))
		return nil, err
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Name,
			&m.Summary,
			&m.StartTime,
			&m.EndTime,
			&m.EstimatedLoading,
		); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// FindByID loads a milestone scoped to its project and owner.
func (r *MilestoneRepository) FindByID(ctx context.Context, userID, projectID, milestoneID uuid.UUID) (*model.Milestone, error) {
	query := `
        SELECT m.id, m.project_id, m.name, m.summary, m.start_time, m.end_time, m.estimated_loading
        FROM milestones m
        JOIN projects p ON p.id = m.project_id
        WHERE m.id = $1 AND m.project_id = $2 AND p.user_id = $3
    `
	var m model.Milestone
	err := r.db.QueryRow(ctx, query, milestoneID, projectID, userID).Scan(
		&m.ID,
		&m.ProjectID,
		&m.Name,
		&m.Summary,
		&m.StartTime,
		&m.EndTime,
		&m.EstimatedLoading,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOwned loads a milestone by id alone, scoped to the owner.
func (r *MilestoneRepository) FindOwned(ctx context.Context, userID, milestoneID uuid.UUID) (*model.Milestone, error) {
	query := `
        SELECT m.id, m.project_id, m.name, m.summary, m.start_time, m.end_time, m.estimated_loading
        FROM milestones m
        JOIN projects p ON p.id = m.project_id
        WHERE m.id = $1 AND p.user_id = $2
    `
	var m model.Milestone
	err := r.db.QueryRow(ctx, query, milestoneID, userID).Scan(
		&m.ID,
		&m.ProjectID,
		&m.Name,
		&m.Summary,
		&m.StartTime,
		&m.EndTime,
		&m.EstimatedLoading,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindLatest returns the milestone with the most recent end_time; the
// project-list progress figure is computed against it.
func (r *MilestoneRepository) FindLatest(ctx context.Context, projectID uuid.UUID) (*model.Milestone, error) {
	query := `
        SELECT id, project_id, name, summary, start_time, end_time, estimated_loading
        FROM milestones
        WHERE project_id = $1
        ORDER BY end_time DESC NULLS LAST
        LIMIT 1
    `
	var m model.Milestone
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&m.ID,
		&m.ProjectID,
		&m.Name,
		&m.Summary,
		&m.StartTime,
		&m.EndTime,
		&m.EstimatedLoading,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MilestoneRepository) UpdateFields(ctx context.Context, m *model.Milestone) error {
	query := `
        UPDATE milestones
        SET summary = $1, start_time = $2, end_time = $3
        WHERE id = $4 AND project_id = $5
    `
	tag, err := r.db.Exec(ctx, query, m.Summary, m.StartTime, m.EndTime, m.ID, m.ProjectID)
	if err != nil {
		r.logger.Error("Failed to update milestone", zap.Error(err), zap.String("milestone_id", m.ID.String()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
